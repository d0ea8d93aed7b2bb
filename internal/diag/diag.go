// Package diag defines the diagnostic types shared across the sizing
// pipeline: severity-graded warnings and hard field-level validation errors.
//
// Warnings report engineering conditions (infeasibility, extrapolation,
// borderline values) and never abort a calculation. FieldErrors are the
// validator's hard gate: any FieldError means the engine must not run.
package diag

import (
	"fmt"
)

// Severity classifies a warning.
type Severity int

const (
	// SeverityInfo marks purely informational conditions.
	SeverityInfo Severity = iota

	// SeverityWarning marks borderline-but-legal conditions worth flagging.
	SeverityWarning

	// SeverityError marks likely non-compliant or unsafe results. Any
	// error-severity warning makes the owning result non-actionable.
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalText serializes the severity as its lowercase name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a lowercase severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Warning is a single diagnostic emitted during validation or calculation.
// Once appended to a result's warning list it is never removed; list order
// is the emission order and is deterministic for identical inputs.
type Warning struct {
	// Severity grades the condition.
	Severity Severity `json:"severity"`

	// Code is a stable machine-readable identifier (e.g. "derate_extrapolated").
	Code string `json:"code"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// Citation names the governing standard table, when one applies.
	Citation string `json:"citation,omitempty"`
}

// FieldError reports a hard validation failure on one or more input fields.
type FieldError struct {
	// Field is the offending input field name.
	Field string `json:"field"`

	// Value is the offending value, formatted for display.
	Value string `json:"value"`

	// Constraint describes the expected range or relationship,
	// e.g. "must be 100-1000".
	Constraint string `json:"constraint"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Field, e.Value, e.Constraint)
}

// HasError reports whether any warning in the list is error severity.
func HasError(warnings []Warning) bool {
	for _, w := range warnings {
		if w.Severity == SeverityError {
			return true
		}
	}
	return false
}
