package engine

import (
	"fmt"

	"github.com/ampcalc/ampcalc/internal/circuit"
	"github.com/ampcalc/ampcalc/internal/diag"
	"github.com/ampcalc/ampcalc/internal/standards"
)

// analyzeVoltageDrop computes the percent voltage drop over the circuit run
// and grades it against the advisory and hard limits from the standards
// table. A failed check contributes warnings only; the primary sizing
// result stands.
func (e *Engine) analyzeVoltageDrop(in *circuit.Input, res *Result) error {
	vd := in.VoltageDrop

	resistivity, err := e.table.Coefficient(
		standards.CategoryResistivity, vd.Material.String())
	if err != nil {
		return fmt.Errorf("voltage drop: %w", err)
	}
	advisory, err := e.table.Coefficient(
		standards.CategoryVoltageDropLimit, "branch_advisory")
	if err != nil {
		return fmt.Errorf("voltage drop: %w", err)
	}
	limit, err := e.table.Coefficient(
		standards.CategoryVoltageDropLimit, "total_limit")
	if err != nil {
		return fmt.Errorf("voltage drop: %w", err)
	}

	// One-way conductor resistance: rho (ohm mm^2/m) x length (m) / area (mm^2).
	resistance := resistivity.Value * vd.LengthM / vd.AreaMM2

	var dropV float64
	var expr string
	switch in.Phase {
	case circuit.PhaseThree:
		dropV = sqrt3 * res.BaseCurrentA * resistance
		expr = fmt.Sprintf("Vd = sqrt(3) x I x R = 1.732 x %g x %.6g", res.BaseCurrentA, resistance)
	default:
		dropV = 2 * res.BaseCurrentA * resistance
		expr = fmt.Sprintf("Vd = 2 x I x R = 2 x %g x %.6g", res.BaseCurrentA, resistance)
	}

	percent := dropV / in.Voltage * 100
	res.VoltageDropPercent = percent
	res.Formulas = append(res.Formulas, Formula{
		Name:       "voltage drop",
		Expression: expr + fmt.Sprintf("; Vd%% = %.4g / %g x 100", dropV, in.Voltage),
		Result:     percent,
		Unit:       "%",
	})

	switch {
	case percent >= 100:
		res.Warnings = append(res.Warnings, diag.Warning{
			Severity: diag.SeverityError,
			Code:     CodeVoltageDropImpossible,
			Message: fmt.Sprintf(
				"computed voltage drop %.1f%% meets or exceeds the supply voltage; check length and conductor size",
				percent),
		})
	case percent > limit.Value:
		res.Warnings = append(res.Warnings, diag.Warning{
			Severity: diag.SeverityError,
			Code:     CodeVoltageDropExceedsLimit,
			Message: fmt.Sprintf("voltage drop %.2f%% exceeds the %g%% limit",
				percent, limit.Value),
			Citation: limit.Citation,
		})
	case percent > advisory.Value:
		res.Warnings = append(res.Warnings, diag.Warning{
			Severity: diag.SeverityWarning,
			Code:     CodeVoltageDropHigh,
			Message: fmt.Sprintf("voltage drop %.2f%% exceeds the %g%% advisory level",
				percent, advisory.Value),
			Citation: advisory.Citation,
		})
	}
	return nil
}

// analyzeShortCircuit selects the smallest standard interrupting rating
// covering the available fault current. A fault current beyond the largest
// rating is an engineering infeasibility, reported as an error-severity
// warning with the ladder maximum as best effort.
func (e *Engine) analyzeShortCircuit(in *circuit.Input, res *Result) error {
	ratings, err := e.table.Ladder(standards.LadderInterruptingRatings, in.Standard)
	if err != nil {
		return fmt.Errorf("short circuit: %w", err)
	}

	fault := in.ShortCircuit.FaultCurrentKA
	rating, ok := ratings.RoundUp(fault)
	res.InterruptingKA = rating
	res.Formulas = append(res.Formulas, Formula{
		Name:       "interrupting rating",
		Expression: fmt.Sprintf("smallest rating >= %g kA fault current", fault),
		Result:     rating,
		Unit:       "kA",
	})
	if !ok {
		res.Warnings = append(res.Warnings, diag.Warning{
			Severity: diag.SeverityError,
			Code:     CodeFaultExceedsRatings,
			Message: fmt.Sprintf(
				"available fault current %g kA exceeds the largest interrupting rating %g kA",
				fault, ratings.Max()),
			Citation: ratings.Citation,
		})
	}
	return nil
}
