package engine

import (
	"time"

	"github.com/ampcalc/ampcalc/internal/derate"
	"github.com/ampcalc/ampcalc/internal/diag"
)

// Formula is one human-readable calculation annotation with its substituted
// values, recorded in stage order for auditability.
type Formula struct {
	// Name identifies the stage or analysis.
	Name string `json:"name"`

	// Expression shows the formula with substituted numeric values.
	Expression string `json:"expression"`

	// Result is the numeric outcome of the expression.
	Result float64 `json:"result"`

	// Unit is the unit of Result, when one applies.
	Unit string `json:"unit,omitempty"`
}

// Result is the outcome of one sizing calculation. It is created once per
// Calculate call and never updated in place; a new calculation produces a
// new Result.
type Result struct {
	// ID is the ULID assigned to this calculation.
	ID string `json:"id"`

	// Name echoes the input's circuit label, when one was given.
	Name string `json:"name,omitempty"`

	// Standard is the governing standard the sizing was performed under.
	Standard string `json:"standard"`

	// Timestamp records when the calculation ran (engine clock).
	Timestamp time.Time `json:"timestamp"`

	// BaseCurrentA is the load current before any margin, in amperes.
	BaseCurrentA float64 `json:"base_current_a"`

	// SafetyFactor is the applied standard-mandated multiplier.
	SafetyFactor float64 `json:"safety_factor"`

	// SafetyCitation names the rule the safety factor came from.
	SafetyCitation string `json:"safety_citation"`

	// Derating is the applied derating set, nil when the stage was skipped.
	Derating *derate.Set `json:"derating,omitempty"`

	// RequiredA is the environmentally adjusted requirement in amperes.
	RequiredA float64 `json:"required_a"`

	// BreakerA is the selected standard breaker size in amperes. When the
	// requirement exceeds the ladder this holds the ladder maximum and an
	// error-severity warning is present.
	BreakerA float64 `json:"breaker_a"`

	// LadderCitation names the size ladder used for rounding.
	LadderCitation string `json:"ladder_citation"`

	// VoltageDropPercent is the computed percent voltage drop; only set
	// when the voltage-drop analysis ran.
	VoltageDropPercent float64 `json:"voltage_drop_percent,omitempty"`

	// InterruptingKA is the selected interrupting rating in kA; only set
	// when the short-circuit analysis ran.
	InterruptingKA float64 `json:"interrupting_ka,omitempty"`

	// Warnings lists all diagnostics in emission order. Never pruned.
	Warnings []diag.Warning `json:"warnings"`

	// Formulas lists the calculation annotations in stage order.
	Formulas []Formula `json:"formulas"`

	// Actionable is false iff any error-severity warning is present; the
	// numeric outputs are then best-effort and must not be relied on.
	Actionable bool `json:"actionable"`
}
