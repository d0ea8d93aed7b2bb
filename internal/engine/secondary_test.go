package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampcalc/ampcalc/internal/circuit"
	"github.com/ampcalc/ampcalc/internal/diag"
	"github.com/ampcalc/ampcalc/internal/standards"
)

// vdInput returns a 30 A single-phase NEC circuit with a copper run whose
// parameters each test adjusts.
func vdInput() *circuit.Input {
	return &circuit.Input{
		Standard: standards.NEC,
		Phase:    circuit.PhaseSingle,
		LoadMode: circuit.LoadModeCurrent,
		Voltage:  240,
		CurrentA: 30,
		VoltageDrop: &circuit.VoltageDrop{
			LengthM:  100,
			AreaMM2:  2.5,
			Material: circuit.Copper,
		},
	}
}

func TestVoltageDropGrading(t *testing.T) {
	eng := testEngine(t)

	tests := []struct {
		name        string
		areaMM2     float64
		lengthM     float64
		wantPercent float64
		wantCode    string
		wantSev     diag.Severity
	}{
		{
			// R = 0.0175 x 100 / 2.5 = 0.7 ohm; Vd = 2 x 30 x 0.7 = 42 V.
			name:        "undersized conductor exceeds hard limit",
			areaMM2:     2.5,
			lengthM:     100,
			wantPercent: 17.5,
			wantCode:    CodeVoltageDropExceedsLimit,
			wantSev:     diag.SeverityError,
		},
		{
			// R = 0.175 ohm; Vd = 10.5 V = 4.375%, between 3% and 5%.
			name:        "between advisory and limit",
			areaMM2:     10,
			lengthM:     100,
			wantPercent: 4.375,
			wantCode:    CodeVoltageDropHigh,
			wantSev:     diag.SeverityWarning,
		},
		{
			// R = 0.07 ohm; Vd = 4.2 V = 1.75%, under the advisory level.
			name:        "adequately sized conductor",
			areaMM2:     25,
			lengthM:     100,
			wantPercent: 1.75,
		},
		{
			// R = 35 ohm; Vd = 2100 V, far above the supply voltage.
			name:        "drop exceeds supply voltage",
			areaMM2:     2.5,
			lengthM:     5000,
			wantPercent: 875,
			wantCode:    CodeVoltageDropImpossible,
			wantSev:     diag.SeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := vdInput()
			in.VoltageDrop.AreaMM2 = tt.areaMM2
			in.VoltageDrop.LengthM = tt.lengthM

			res, err := eng.Calculate(context.Background(), in)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantPercent, res.VoltageDropPercent, 1e-9)

			if tt.wantCode == "" {
				assert.Empty(t, res.Warnings)
				assert.True(t, res.Actionable)
				return
			}
			require.Len(t, res.Warnings, 1)
			assert.Equal(t, tt.wantCode, res.Warnings[0].Code)
			assert.Equal(t, tt.wantSev, res.Warnings[0].Severity)
			assert.Equal(t, tt.wantSev != diag.SeverityError, res.Actionable)
		})
	}
}

func TestVoltageDropThreePhase(t *testing.T) {
	eng := testEngine(t)

	in := vdInput()
	in.Phase = circuit.PhaseThree
	in.Voltage = 400
	in.VoltageDrop.AreaMM2 = 25

	res, err := eng.Calculate(context.Background(), in)
	require.NoError(t, err)

	// Vd = sqrt(3) x 30 x 0.07 = 3.637 V on a 400 V system: 0.909%.
	assert.InDelta(t, 0.909, res.VoltageDropPercent, 0.001)
	assert.Empty(t, res.Warnings)
}

func TestVoltageDropAluminum(t *testing.T) {
	eng := testEngine(t)

	in := vdInput()
	in.VoltageDrop.AreaMM2 = 25
	in.VoltageDrop.Material = circuit.Aluminum

	res, err := eng.Calculate(context.Background(), in)
	require.NoError(t, err)

	// Aluminum resistivity 0.0283: R = 0.1132 ohm, Vd = 6.792 V = 2.83%.
	assert.InDelta(t, 2.83, res.VoltageDropPercent, 0.001)
	assert.Empty(t, res.Warnings)
}

func TestShortCircuitRating(t *testing.T) {
	eng := testEngine(t)

	t.Run("fault within ratings", func(t *testing.T) {
		in := &circuit.Input{
			Standard:     standards.NEC,
			Phase:        circuit.PhaseSingle,
			LoadMode:     circuit.LoadModeCurrent,
			Voltage:      240,
			CurrentA:     30,
			ShortCircuit: &circuit.ShortCircuit{FaultCurrentKA: 12},
		}
		res, err := eng.Calculate(context.Background(), in)
		require.NoError(t, err)
		assert.InDelta(t, 14.0, res.InterruptingKA, 1e-12)
		assert.Empty(t, res.Warnings)
		assert.True(t, res.Actionable)
	})

	t.Run("fault beyond largest rating", func(t *testing.T) {
		in := &circuit.Input{
			Standard:     standards.NEC,
			Phase:        circuit.PhaseSingle,
			LoadMode:     circuit.LoadModeCurrent,
			Voltage:      240,
			CurrentA:     30,
			ShortCircuit: &circuit.ShortCircuit{FaultCurrentKA: 150},
		}
		res, err := eng.Calculate(context.Background(), in)
		require.NoError(t, err)
		assert.InDelta(t, 100.0, res.InterruptingKA, 1e-12)
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, CodeFaultExceedsRatings, res.Warnings[0].Code)
		assert.Equal(t, diag.SeverityError, res.Warnings[0].Severity)
		assert.False(t, res.Actionable)
	})
}
