package shared

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"paysuite/internal/domain/payroll"
	"paysuite/internal/transport/http/api"
)

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validator collects field issues in the order they were found. A nil
// Validator reports nothing.
type Validator struct {
	issues []ValidationIssue
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Add(field, reason string) {
	reason = strings.TrimSpace(reason)
	if v == nil || reason == "" {
		return
	}
	v.issues = append(v.issues, ValidationIssue{Field: strings.TrimSpace(field), Reason: reason})
}

func (v *Validator) Required(field, value, reason string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, reason)
	}
}

// Amount requires a present monetary value. Sign checks belong to the
// calculator, which knows whether it runs strict.
func (v *Validator) Amount(field string, value *decimal.Decimal) {
	if value == nil {
		v.Add(field, "is required")
	}
}

// Period requires a YYYY-MM payroll period.
func (v *Validator) Period(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
		return
	}
	if _, err := payroll.ParsePeriod(value); err != nil {
		v.Add(field, "must be formatted YYYY-MM")
	}
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.issues) > 0
}

func (v *Validator) Issues() []ValidationIssue {
	if !v.HasIssues() {
		return nil
	}
	return append([]ValidationIssue(nil), v.issues...)
}

// Reject writes a validation_error envelope when issues were collected.
func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if !v.HasIssues() {
		return false
	}
	api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "payload validation failed",
		map[string]any{"fields": v.Issues()}, requestID)
	return true
}
