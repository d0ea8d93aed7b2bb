// Package engine orchestrates the breaker sizing pipeline: base load
// current, standard-mandated safety factor, optional environmental
// derating, standard-size rounding, and the optional secondary analyses.
//
// The engine is read-only after construction and safe for concurrent use.
// A Calculate call is pure arithmetic plus table lookups: no I/O, no
// suspension points, no shared mutable state. For identical inputs (and a
// fixed clock and entropy source) it returns bit-identical results,
// warning order included.
package engine

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ampcalc/ampcalc/internal/circuit"
	"github.com/ampcalc/ampcalc/internal/derate"
	"github.com/ampcalc/ampcalc/internal/diag"
	"github.com/ampcalc/ampcalc/internal/logging"
	"github.com/ampcalc/ampcalc/internal/standards"
	"github.com/ampcalc/ampcalc/internal/validate"
)

// sqrt3 is the line factor for three-phase power.
var sqrt3 = math.Sqrt(3)

// Warning codes emitted by the engine stages.
const (
	// CodeExceedsLadderMax marks a requirement beyond the largest standard
	// size; the reported size is the ladder maximum, non-compliant.
	CodeExceedsLadderMax = "exceeds_ladder_max"

	// CodeVoltageDropHigh marks a voltage drop above the advisory limit.
	CodeVoltageDropHigh = "voltage_drop_high"

	// CodeVoltageDropExceedsLimit marks a voltage drop above the hard
	// limit from the standards table.
	CodeVoltageDropExceedsLimit = "voltage_drop_exceeds_limit"

	// CodeVoltageDropImpossible marks a computed drop at or above the
	// supply voltage, a physically impossible circuit.
	CodeVoltageDropImpossible = "voltage_drop_impossible"

	// CodeFaultExceedsRatings marks an available fault current above the
	// largest interrupting rating.
	CodeFaultExceedsRatings = "fault_exceeds_ratings"
)

// Engine runs sizing calculations against an injected standards table.
type Engine struct {
	table    *standards.Table
	composer *derate.Composer
	clock    func() time.Time
	entropy  io.Reader
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine clock. Tests fix the clock to make
// results, including the timestamp and ULID, reproducible.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithEntropy overrides the ULID entropy source.
func WithEntropy(r io.Reader) Option {
	return func(e *Engine) { e.entropy = r }
}

// WithDerateWarnThreshold overrides the combined derating factor warning
// threshold on the engine's composer.
func WithDerateWarnThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.composer = derate.NewComposer(e.table, derate.WithWarnThreshold(threshold))
	}
}

// New creates an Engine over the given standards table. The table must be
// fully loaded before the first Calculate call and is never mutated by the
// engine.
func New(table *standards.Table, opts ...Option) (*Engine, error) {
	if table == nil {
		return nil, ErrNilTable
	}
	e := &Engine{
		table:    table,
		composer: derate.NewComposer(table),
		clock:    time.Now,
		entropy:  ulid.DefaultEntropy(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Calculate sizes a breaker for the given circuit.
//
// The input must already have passed validation; Calculate re-runs the
// validator as a contract check and returns ErrInvalidInput when any
// FieldError is present. All engineering conditions — infeasible sizes,
// extrapolated derating, excessive voltage drop — are reported through the
// result's warning list, never as errors. Calculate never returns an error
// for well-formed, in-range input.
func (e *Engine) Calculate(ctx context.Context, in *circuit.Input) (*Result, error) {
	log := logging.FromContext(ctx)
	start := e.clock()

	if in == nil {
		return nil, ErrNilInput
	}

	validation := validate.Validate(in)
	if !validation.Valid() {
		return nil, fmt.Errorf("%w: %d field error(s), first: %s",
			ErrInvalidInput, len(validation.Errors), validation.Errors[0].Error())
	}

	log.Debug().
		Str("component", "engine").
		Str("operation", "calculate").
		Str("standard", in.Standard.String()).
		Str("load_mode", in.LoadMode.String()).
		Str("phase", in.Phase.String()).
		Msg("starting sizing calculation")

	res := &Result{
		ID:        ulid.MustNew(ulid.Timestamp(start), e.entropy).String(),
		Name:      in.Name,
		Standard:  in.Standard.String(),
		Timestamp: start,
		Warnings:  append([]diag.Warning(nil), validation.Warnings...),
	}

	// Stage 1: base load current.
	if err := e.baseCurrent(in, res); err != nil {
		return nil, err
	}

	// Stage 2: safety factor.
	if err := e.applySafetyFactor(in, res); err != nil {
		return nil, err
	}

	// Stage 3: derating, only when environmental conditions are present.
	if err := e.applyDerating(in, res); err != nil {
		return nil, err
	}

	// Stage 4: standard-size rounding.
	if err := e.roundToLadder(in, res); err != nil {
		return nil, err
	}

	// Stage 5: secondary analyses, each independent of the others.
	if in.VoltageDrop != nil {
		if err := e.analyzeVoltageDrop(in, res); err != nil {
			return nil, err
		}
	}
	if in.ShortCircuit != nil {
		if err := e.analyzeShortCircuit(in, res); err != nil {
			return nil, err
		}
	}

	res.Actionable = !diag.HasError(res.Warnings)

	log.Info().
		Str("component", "engine").
		Str("operation", "calculate").
		Str("result_id", res.ID).
		Float64("required_a", res.RequiredA).
		Float64("breaker_a", res.BreakerA).
		Int("warnings", len(res.Warnings)).
		Bool("actionable", res.Actionable).
		Msg("sizing calculation complete")

	return res, nil
}

// baseCurrent computes the primary derived quantity: load current in
// amperes. The load mode and phase are explicit inputs, never inferred.
func (e *Engine) baseCurrent(in *circuit.Input, res *Result) error {
	switch in.LoadMode {
	case circuit.LoadModeCurrent:
		res.BaseCurrentA = in.CurrentA
		res.Formulas = append(res.Formulas, Formula{
			Name:       "base current",
			Expression: fmt.Sprintf("I = %g (specified)", in.CurrentA),
			Result:     res.BaseCurrentA,
			Unit:       "A",
		})
	case circuit.LoadModePower:
		switch in.Phase {
		case circuit.PhaseSingle:
			res.BaseCurrentA = in.PowerW / (in.Voltage * in.PowerFactor)
			res.Formulas = append(res.Formulas, Formula{
				Name: "base current",
				Expression: fmt.Sprintf("I = P / (V x pf) = %g / (%g x %g)",
					in.PowerW, in.Voltage, in.PowerFactor),
				Result: res.BaseCurrentA,
				Unit:   "A",
			})
		case circuit.PhaseThree:
			res.BaseCurrentA = in.PowerW / (sqrt3 * in.Voltage * in.PowerFactor)
			res.Formulas = append(res.Formulas, Formula{
				Name: "base current",
				Expression: fmt.Sprintf("I = P / (sqrt(3) x V x pf) = %g / (1.732 x %g x %g)",
					in.PowerW, in.Voltage, in.PowerFactor),
				Result: res.BaseCurrentA,
				Unit:   "A",
			})
		default:
			return fmt.Errorf("%w: phase %v", ErrInvalidInput, in.Phase)
		}
	default:
		return fmt.Errorf("%w: load mode %v", ErrInvalidInput, in.LoadMode)
	}
	return nil
}

// applySafetyFactor multiplies the base current by the standard-specific
// safety multiplier from the table.
func (e *Engine) applySafetyFactor(in *circuit.Input, res *Result) error {
	duty := "noncontinuous"
	if in.Continuous {
		duty = "continuous"
	}
	key := in.Standard.String() + "_" + duty

	coeff, err := e.table.Coefficient(standards.CategorySafetyFactor, key)
	if err != nil {
		return fmt.Errorf("safety factor: %w", err)
	}

	res.SafetyFactor = coeff.Value
	res.SafetyCitation = coeff.Citation
	res.RequiredA = res.BaseCurrentA * coeff.Value
	res.Formulas = append(res.Formulas, Formula{
		Name: "safety factor",
		Expression: fmt.Sprintf("I_req = I x %g = %g x %g",
			coeff.Value, res.BaseCurrentA, coeff.Value),
		Result: res.RequiredA,
		Unit:   "A",
	})
	return nil
}

// applyDerating divides the post-safety requirement by the combined
// derating factor. Dividing by a factor <= 1 always increases the
// requirement, reflecting reduced capacity under adverse conditions.
func (e *Engine) applyDerating(in *circuit.Input, res *Result) error {
	if in.Environment == nil {
		return nil
	}

	set, warnings, err := e.composer.Compose(in.Environment, in.Standard)
	if err != nil {
		return fmt.Errorf("derating: %w", err)
	}
	res.Warnings = append(res.Warnings, warnings...)
	if set.Empty() {
		return nil
	}

	combined := set.Combined()
	preDerate := res.RequiredA
	res.Derating = &set
	res.RequiredA = preDerate / combined
	res.Formulas = append(res.Formulas, Formula{
		Name: "derating",
		Expression: fmt.Sprintf("I_adj = I_req / %.4g = %g / %.4g",
			combined, preDerate, combined),
		Result: res.RequiredA,
		Unit:   "A",
	})
	return nil
}

// roundToLadder selects the smallest standard size >= the adjusted
// requirement. An exact match selects that entry. A requirement beyond the
// ladder maximum reports the maximum as a non-compliant best effort with an
// error-severity warning.
func (e *Engine) roundToLadder(in *circuit.Input, res *Result) error {
	ladder, err := e.table.Ladder(standards.LadderBreakerSizes, in.Standard)
	if err != nil {
		return fmt.Errorf("breaker ladder: %w", err)
	}

	size, ok := ladder.RoundUp(res.RequiredA)
	res.BreakerA = size
	res.LadderCitation = ladder.Citation
	res.Formulas = append(res.Formulas, Formula{
		Name:       "standard size",
		Expression: fmt.Sprintf("smallest ladder entry >= %g A", res.RequiredA),
		Result:     size,
		Unit:       "A",
	})
	if !ok {
		res.Warnings = append(res.Warnings, diag.Warning{
			Severity: diag.SeverityError,
			Code:     CodeExceedsLadderMax,
			Message: fmt.Sprintf(
				"required %g A exceeds largest standard size %g A; reported size is non-compliant",
				res.RequiredA, ladder.Max()),
			Citation: ladder.Citation,
		})
	}
	return nil
}
