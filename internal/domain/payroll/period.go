package payroll

import (
	"strings"
	"time"
)

// ParsePeriod validates a YYYY-MM period and returns its first day in UTC.
func ParsePeriod(period string) (time.Time, error) {
	parsed, err := time.Parse(PeriodLayout, strings.TrimSpace(period))
	if err != nil {
		return time.Time{}, ErrInvalidPeriod
	}
	return parsed, nil
}

// NormalizePeriod validates a period and returns its canonical YYYY-MM form.
func NormalizePeriod(period string) (string, error) {
	parsed, err := ParsePeriod(period)
	if err != nil {
		return "", err
	}
	return parsed.Format(PeriodLayout), nil
}

// PeriodLabel renders 2026-10 as "October 2026".
func PeriodLabel(period string) string {
	parsed, err := ParsePeriod(period)
	if err != nil {
		return period
	}
	return parsed.Format("January 2006")
}
