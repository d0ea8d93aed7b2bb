package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampcalc/ampcalc/internal/circuit"
	"github.com/ampcalc/ampcalc/internal/derate"
	"github.com/ampcalc/ampcalc/internal/diag"
	"github.com/ampcalc/ampcalc/internal/standards"
)

// zeroEntropy is a deterministic ULID entropy source for tests.
type zeroEntropy struct{}

func (zeroEntropy) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

// fixedClock returns a constant time for reproducible results.
func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

// testEngine builds an engine over the embedded dataset with a fixed clock
// and deterministic entropy.
func testEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	table, err := standards.Default()
	require.NoError(t, err)

	all := append([]Option{WithClock(fixedClock), WithEntropy(zeroEntropy{})}, opts...)
	eng, err := New(table, all...)
	require.NoError(t, err)
	return eng
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(n int) *int           { return &n }

func TestNewRequiresTable(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilTable)
}

func TestCalculateNilInput(t *testing.T) {
	eng := testEngine(t)
	_, err := eng.Calculate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilInput)
}

func TestCalculateRefusesUnvalidatedInput(t *testing.T) {
	eng := testEngine(t)

	in := &circuit.Input{
		Standard:    standards.NEC,
		Phase:       circuit.PhaseSingle,
		LoadMode:    circuit.LoadModePower,
		Voltage:     -10, // outside 100-1000
		PowerW:      7200,
		PowerFactor: 1.0,
	}
	_, err := eng.Calculate(context.Background(), in)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalculateBaseSizingNoDerating(t *testing.T) {
	eng := testEngine(t)

	// 7.2 kW at 240 V single phase, unity power factor, continuous duty
	// under NEC: 30 A base, 37.5 A after the 1.25 factor, 40 A breaker.
	in := &circuit.Input{
		Standard:    standards.NEC,
		Phase:       circuit.PhaseSingle,
		LoadMode:    circuit.LoadModePower,
		Voltage:     240,
		PowerW:      7200,
		PowerFactor: 1.0,
		Continuous:  true,
	}

	res, err := eng.Calculate(context.Background(), in)
	require.NoError(t, err)

	assert.InDelta(t, 30.0, res.BaseCurrentA, 1e-9)
	assert.InDelta(t, 1.25, res.SafetyFactor, 1e-12)
	assert.InDelta(t, 37.5, res.RequiredA, 1e-9)
	assert.InDelta(t, 40.0, res.BreakerA, 1e-12)
	assert.Empty(t, res.Warnings)
	assert.True(t, res.Actionable)
	assert.Nil(t, res.Derating)
	assert.Equal(t, "nec", res.Standard)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, fixedClock(), res.Timestamp)

	// Formula annotations follow the stage order.
	require.Len(t, res.Formulas, 3)
	assert.Equal(t, "base current", res.Formulas[0].Name)
	assert.Equal(t, "safety factor", res.Formulas[1].Name)
	assert.Equal(t, "standard size", res.Formulas[2].Name)
}

func TestCalculateThreePhase(t *testing.T) {
	eng := testEngine(t)

	in := &circuit.Input{
		Standard:    standards.IEC,
		Phase:       circuit.PhaseThree,
		LoadMode:    circuit.LoadModePower,
		Voltage:     400,
		PowerW:      50000,
		PowerFactor: 0.9,
	}

	res, err := eng.Calculate(context.Background(), in)
	require.NoError(t, err)

	// I = 50000 / (sqrt(3) x 400 x 0.9) = 80.19 A
	assert.InDelta(t, 80.19, res.BaseCurrentA, 0.01)
	// IEC safety factor is 1.0; next IEC size above 80.19 is 100.
	assert.InDelta(t, 1.0, res.SafetyFactor, 1e-12)
	assert.InDelta(t, 100.0, res.BreakerA, 1e-12)
}

func TestCalculateDeratingIncreasesRequirement(t *testing.T) {
	// Fixture table with exact scenario factors: ambient 0.88, grouping
	// 0.80, combined 0.704.
	table, err := standards.Load([]byte(`
schema_version: "1.0.0"
coefficients:
  - { category: safety_factor, key: nec_continuous, value: 1.25, citation: "NEC 210.20(A)" }
series:
  - category: ambient_correction
    standard: nec
    citation: "ambient cite"
    points:
      - { x: 30, factor: 1.00 }
      - { x: 40, factor: 0.88 }
  - category: grouping_correction
    standard: nec
    citation: "grouping cite"
    points:
      - { x: 3, factor: 1.00 }
      - { x: 6, factor: 0.80 }
ladders:
  - name: breaker_sizes
    standard: nec
    citation: "ladder cite"
    sizes: [40, 50, 60, 100]
`))
	require.NoError(t, err)

	eng, err := New(table, WithClock(fixedClock), WithEntropy(zeroEntropy{}))
	require.NoError(t, err)

	in := &circuit.Input{
		Standard:    standards.NEC,
		Phase:       circuit.PhaseSingle,
		LoadMode:    circuit.LoadModePower,
		Voltage:     240,
		PowerW:      7200,
		PowerFactor: 1.0,
		Continuous:  true,
		Environment: &circuit.Environment{
			AmbientC: floatPtr(40),
			Grouping: intPtr(6),
		},
	}

	res, err := eng.Calculate(context.Background(), in)
	require.NoError(t, err)

	require.NotNil(t, res.Derating)
	assert.InDelta(t, 0.704, res.Derating.Combined(), 1e-12)

	// 37.5 / 0.704 = 53.267 A, rounds to the 60 A entry.
	assert.InDelta(t, 37.5/0.704, res.RequiredA, 1e-9)
	assert.InDelta(t, 60.0, res.BreakerA, 1e-12)
	assert.Greater(t, res.RequiredA, 37.5, "derating must increase the requirement")
	assert.True(t, res.Actionable)
}

func TestCalculateBelowThresholdDeratingWarns(t *testing.T) {
	eng := testEngine(t, WithDerateWarnThreshold(0.75))

	in := &circuit.Input{
		Standard:    standards.NEC,
		Phase:       circuit.PhaseSingle,
		LoadMode:    circuit.LoadModeCurrent,
		Voltage:     240,
		CurrentA:    30,
		Environment: &circuit.Environment{
			AmbientC: floatPtr(40), // 0.91 in the embedded NEC table
			Grouping: intPtr(6),    // 0.80 -> combined 0.728 < 0.75
		},
	}

	res, err := eng.Calculate(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, derate.CodeBelowThreshold, res.Warnings[0].Code)
	assert.Equal(t, diag.SeverityWarning, res.Warnings[0].Severity)
	assert.True(t, res.Actionable, "warning severity does not block the result")
}

func TestCalculateExceedsLadderMax(t *testing.T) {
	eng := testEngine(t)

	in := &circuit.Input{
		Standard: standards.NEC,
		Phase:    circuit.PhaseSingle,
		LoadMode: circuit.LoadModeCurrent,
		Voltage:  480,
		CurrentA: 4100, // beyond the 4000 A ladder maximum
	}

	res, err := eng.Calculate(context.Background(), in)
	require.NoError(t, err, "infeasibility is a warning, never an error")

	assert.InDelta(t, 4000.0, res.BreakerA, 1e-12)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, CodeExceedsLadderMax, res.Warnings[0].Code)
	assert.Equal(t, diag.SeverityError, res.Warnings[0].Severity)
	assert.False(t, res.Actionable)
}

func TestCalculateExactLadderMatch(t *testing.T) {
	eng := testEngine(t)

	in := &circuit.Input{
		Standard: standards.NEC,
		Phase:    circuit.PhaseSingle,
		LoadMode: circuit.LoadModeCurrent,
		Voltage:  240,
		CurrentA: 40, // noncontinuous: requirement is exactly 40
	}

	res, err := eng.Calculate(context.Background(), in)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, res.BreakerA, 1e-12, "exact match selects that entry")
	assert.Empty(t, res.Warnings)
}

func TestCalculateDeterminism(t *testing.T) {
	in := &circuit.Input{
		Name:        "panel-7",
		Standard:    standards.NEC,
		Phase:       circuit.PhaseThree,
		LoadMode:    circuit.LoadModePower,
		Voltage:     480,
		PowerW:      65000,
		PowerFactor: 0.85,
		Continuous:  true,
		Environment: &circuit.Environment{
			AmbientC:     floatPtr(45),
			Grouping:     intPtr(8),
			Installation: circuit.MethodRaceway,
		},
		VoltageDrop: &circuit.VoltageDrop{
			LengthM:  120,
			AreaMM2:  35,
			Material: circuit.Copper,
		},
		ShortCircuit: &circuit.ShortCircuit{FaultCurrentKA: 30},
	}

	eng := testEngine(t)
	first, err := eng.Calculate(context.Background(), in)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := eng.Calculate(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, first, again, "identical inputs must produce identical results")
	}
}
