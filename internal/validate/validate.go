// Package validate checks circuit inputs against declared numeric ranges
// and cross-field constraints before the engine is allowed to run.
//
// Validation is a pure function of its input. Hard violations come back as
// FieldErrors (one per offending field, all reported in a single pass);
// borderline-but-legal conditions come back as info- or warning-severity
// advisories that never block calculation.
package validate

import (
	"fmt"
	"strconv"

	"github.com/ampcalc/ampcalc/internal/circuit"
	"github.com/ampcalc/ampcalc/internal/diag"
)

// Declared input ranges. Closed intervals unless stated otherwise.
const (
	// MinVoltage and MaxVoltage bound the supply voltage in volts.
	MinVoltage = 100.0
	MaxVoltage = 1000.0

	// MinPowerFactor and MaxPowerFactor bound the load power factor.
	MinPowerFactor = 0.1
	MaxPowerFactor = 1.0

	// MaxPowerW bounds the load power in watts.
	MaxPowerW = 10_000_000.0

	// MaxCurrentA bounds a directly specified load current in amperes.
	MaxCurrentA = 10_000.0

	// MinAmbientC and MaxAmbientC bound the ambient temperature.
	MinAmbientC = -20.0
	MaxAmbientC = 70.0

	// MinGrouping and MaxGrouping bound the conductor grouping count.
	MinGrouping = 1
	MaxGrouping = 20

	// MaxLengthM bounds the one-way circuit length in meters.
	MaxLengthM = 10_000.0

	// MaxAreaMM2 bounds the conductor cross-section.
	MaxAreaMM2 = 2_000.0

	// MaxFaultKA bounds the available fault current in kA.
	MaxFaultKA = 200.0
)

// Advisory thresholds.
const (
	// LowPowerFactorThreshold flags unusually low power factors.
	LowPowerFactorThreshold = 0.7

	// HighAmbientThreshold flags unusually hot environments.
	HighAmbientThreshold = 50.0

	// HeavyGroupingThreshold flags dense conductor bundles.
	HeavyGroupingThreshold = 9
)

// Advisory warning codes.
const (
	CodeLowPowerFactor = "low_power_factor"
	CodeHighAmbient    = "high_ambient"
	CodeHeavyGrouping  = "heavy_grouping"
	CodeLowThreePhaseV = "low_three_phase_voltage"
)

// Result is the validator's verdict: hard errors and soft advisories.
type Result struct {
	// Errors lists hard field violations. Any entry means the engine must
	// not be invoked on this input.
	Errors []diag.FieldError `json:"errors"`

	// Warnings lists advisories. They never block calculation.
	Warnings []diag.Warning `json:"warnings"`
}

// Valid reports whether the input passed the hard gate.
func (r Result) Valid() bool { return len(r.Errors) == 0 }

// Validate checks the input. Per-field range checks run first, cross-field
// checks second, advisories last, so error and warning order is stable for
// identical inputs.
func Validate(in *circuit.Input) Result {
	var res Result

	if in == nil {
		res.Errors = append(res.Errors, diag.FieldError{
			Field:      "input",
			Value:      "nil",
			Constraint: "must be provided",
		})
		return res
	}

	res.checkRange("voltage", in.Voltage, MinVoltage, MaxVoltage)

	switch in.LoadMode {
	case circuit.LoadModePower:
		res.checkPositiveMax("power", in.PowerW, MaxPowerW)
		res.checkRange("power_factor", in.PowerFactor, MinPowerFactor, MaxPowerFactor)
	case circuit.LoadModeCurrent:
		res.checkPositiveMax("current", in.CurrentA, MaxCurrentA)
	}

	if env := in.Environment; env != nil {
		if env.AmbientC != nil {
			res.checkRange("ambient", *env.AmbientC, MinAmbientC, MaxAmbientC)
		}
		if env.Grouping != nil {
			res.checkIntRange("grouping", *env.Grouping, MinGrouping, MaxGrouping)
		}
	}

	if vd := in.VoltageDrop; vd != nil {
		res.checkPositiveMax("length", vd.LengthM, MaxLengthM)
		res.checkPositiveMax("conductor_area", vd.AreaMM2, MaxAreaMM2)
	}

	if sc := in.ShortCircuit; sc != nil {
		res.checkPositiveMax("fault_current", sc.FaultCurrentKA, MaxFaultKA)
	}

	// Cross-field checks run after per-field checks.
	if in.Phase == circuit.PhaseThree && in.Voltage >= MinVoltage && in.Voltage < 208 {
		res.Warnings = append(res.Warnings, diag.Warning{
			Severity: diag.SeverityWarning,
			Code:     CodeLowThreePhaseV,
			Message: fmt.Sprintf("three-phase supply at %s V is below common system voltages",
				formatValue(in.Voltage)),
		})
	}

	// Advisories.
	if in.LoadMode == circuit.LoadModePower &&
		in.PowerFactor >= MinPowerFactor && in.PowerFactor < LowPowerFactorThreshold {
		res.Warnings = append(res.Warnings, diag.Warning{
			Severity: diag.SeverityWarning,
			Code:     CodeLowPowerFactor,
			Message: fmt.Sprintf("power factor %s is below %s; verify the load characteristics",
				formatValue(in.PowerFactor), formatValue(LowPowerFactorThreshold)),
		})
	}
	if env := in.Environment; env != nil {
		if env.AmbientC != nil && *env.AmbientC > HighAmbientThreshold && *env.AmbientC <= MaxAmbientC {
			res.Warnings = append(res.Warnings, diag.Warning{
				Severity: diag.SeverityWarning,
				Code:     CodeHighAmbient,
				Message: fmt.Sprintf("ambient temperature %s C exceeds %s C; expect heavy derating",
					formatValue(*env.AmbientC), formatValue(HighAmbientThreshold)),
			})
		}
		if env.Grouping != nil && *env.Grouping > HeavyGroupingThreshold && *env.Grouping <= MaxGrouping {
			res.Warnings = append(res.Warnings, diag.Warning{
				Severity: diag.SeverityInfo,
				Code:     CodeHeavyGrouping,
				Message: fmt.Sprintf("%d grouped conductors; consider splitting the run",
					*env.Grouping),
			})
		}
	}

	return res
}

// checkRange appends a FieldError when value falls outside [min, max].
func (r *Result) checkRange(field string, value, min, max float64) {
	if value < min || value > max {
		r.Errors = append(r.Errors, diag.FieldError{
			Field:      field,
			Value:      formatValue(value),
			Constraint: fmt.Sprintf("must be %s-%s", formatValue(min), formatValue(max)),
		})
	}
}

// checkIntRange appends a FieldError when value falls outside [min, max].
func (r *Result) checkIntRange(field string, value, min, max int) {
	if value < min || value > max {
		r.Errors = append(r.Errors, diag.FieldError{
			Field:      field,
			Value:      strconv.Itoa(value),
			Constraint: fmt.Sprintf("must be %d-%d", min, max),
		})
	}
}

// checkPositiveMax appends a FieldError when value is not in (0, max].
func (r *Result) checkPositiveMax(field string, value, max float64) {
	if value <= 0 || value > max {
		r.Errors = append(r.Errors, diag.FieldError{
			Field:      field,
			Value:      formatValue(value),
			Constraint: fmt.Sprintf("must be greater than 0 and at most %s", formatValue(max)),
		})
	}
}

// formatValue renders a float without trailing zeros.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
