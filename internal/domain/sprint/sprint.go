package sprint

import (
	"errors"
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	Length     = 7
	MaxCount   = 104

	secondsPerDay = 24 * 60 * 60
)

var ErrBeforeAnchor = errors.New("date is before the first sprint")

// Window is one weekly sprint. Start and End are inclusive UTC dates.
type Window struct {
	Number int       `json:"number"`
	Name   string    `json:"name"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// Anchor normalizes t to midnight UTC on the Monday of its week.
func Anchor(t time.Time) time.Time {
	d := dateOf(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func ParseAnchor(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("anchor must be formatted YYYY-MM-DD: %w", err)
	}
	return Anchor(t), nil
}

// At returns sprint number n (1-based) counted from anchor.
func At(anchor time.Time, n int) Window {
	start := Anchor(anchor).AddDate(0, 0, Length*(n-1))
	return Window{
		Number: n,
		Name:   fmt.Sprintf("Sprint %d", n),
		Start:  start,
		End:    start.AddDate(0, 0, Length-1),
	}
}

// Generate returns the first count sprints. count is capped at MaxCount.
func Generate(anchor time.Time, count int) []Window {
	if count <= 0 {
		return []Window{}
	}
	if count > MaxCount {
		count = MaxCount
	}
	out := make([]Window, 0, count)
	for n := 1; n <= count; n++ {
		out = append(out, At(anchor, n))
	}
	return out
}

func Current(anchor, now time.Time) (Window, error) {
	start := Anchor(anchor)
	day := dateOf(now)
	if day.Before(start) {
		return Window{}, ErrBeforeAnchor
	}
	// whole days from the Unix seconds; time.Duration overflows past ~292 years
	days := (day.Unix() - start.Unix()) / secondsPerDay
	return At(start, int(days/Length)+1), nil
}

func Contains(w Window, t time.Time) bool {
	day := dateOf(t)
	return !day.Before(w.Start) && !day.After(w.End)
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
