package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampcalc/ampcalc/internal/circuit"
	"github.com/ampcalc/ampcalc/internal/engine"
	"github.com/ampcalc/ampcalc/internal/standards"
)

// countingCalc counts underlying calculation invocations.
type countingCalc struct {
	calls int
	inner Calculator
}

func (c *countingCalc) Calculate(ctx context.Context, in *circuit.Input) (*engine.Result, error) {
	c.calls++
	return c.inner.Calculate(ctx, in)
}

func newCountingCalc(t *testing.T) *countingCalc {
	t.Helper()
	table, err := standards.Default()
	require.NoError(t, err)
	eng, err := engine.New(table)
	require.NoError(t, err)
	return &countingCalc{inner: eng}
}

func currentInput(amps float64) *circuit.Input {
	return &circuit.Input{
		Standard: standards.NEC,
		Phase:    circuit.PhaseSingle,
		LoadMode: circuit.LoadModeCurrent,
		Voltage:  240,
		CurrentA: amps,
	}
}

func TestNewValidation(t *testing.T) {
	calc := newCountingCalc(t)

	t.Run("nil calculator", func(t *testing.T) {
		_, err := New(nil, 10)
		assert.ErrorIs(t, err, ErrNilCalculator)
	})

	t.Run("zero max entries", func(t *testing.T) {
		_, err := New(calc, 0)
		assert.ErrorIs(t, err, ErrInvalidMaxSize)
	})

	t.Run("negative max entries", func(t *testing.T) {
		_, err := New(calc, -5)
		assert.ErrorIs(t, err, ErrInvalidMaxSize)
	})
}

func TestMemoizesIdenticalInputs(t *testing.T) {
	calc := newCountingCalc(t)
	memo, err := New(calc, 16)
	require.NoError(t, err)

	first, err := memo.Calculate(context.Background(), currentInput(30))
	require.NoError(t, err)

	second, err := memo.Calculate(context.Background(), currentInput(30))
	require.NoError(t, err)

	assert.Equal(t, 1, calc.calls, "second identical input must hit the cache")
	assert.Same(t, first, second, "cached results are shared")

	hits, misses := memo.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestDistinctInputsComputeSeparately(t *testing.T) {
	calc := newCountingCalc(t)
	memo, err := New(calc, 16)
	require.NoError(t, err)

	resA, err := memo.Calculate(context.Background(), currentInput(30))
	require.NoError(t, err)
	resB, err := memo.Calculate(context.Background(), currentInput(55))
	require.NoError(t, err)

	assert.Equal(t, 2, calc.calls)
	assert.Equal(t, 30.0, resA.BreakerA)
	assert.Equal(t, 60.0, resB.BreakerA)
	assert.Equal(t, 2, memo.Len())
}

func TestLRUEviction(t *testing.T) {
	calc := newCountingCalc(t)
	memo, err := New(calc, 2)
	require.NoError(t, err)

	ctx := context.Background()

	// Fill the cache, then touch the first entry to make it most recent.
	_, err = memo.Calculate(ctx, currentInput(10))
	require.NoError(t, err)
	_, err = memo.Calculate(ctx, currentInput(20))
	require.NoError(t, err)
	_, err = memo.Calculate(ctx, currentInput(10))
	require.NoError(t, err)

	// Inserting a third entry evicts the least recent (20 A).
	_, err = memo.Calculate(ctx, currentInput(30))
	require.NoError(t, err)
	assert.Equal(t, 2, memo.Len())

	calls := calc.calls
	_, err = memo.Calculate(ctx, currentInput(10))
	require.NoError(t, err)
	assert.Equal(t, calls, calc.calls, "10 A entry must survive the eviction")

	_, err = memo.Calculate(ctx, currentInput(20))
	require.NoError(t, err)
	assert.Equal(t, calls+1, calc.calls, "20 A entry was evicted and recomputes")
}

func TestErrorsAreNotCached(t *testing.T) {
	calc := newCountingCalc(t)
	memo, err := New(calc, 16)
	require.NoError(t, err)

	bad := currentInput(-5) // fails validation inside the engine

	_, err = memo.Calculate(context.Background(), bad)
	require.ErrorIs(t, err, engine.ErrInvalidInput)
	_, err = memo.Calculate(context.Background(), bad)
	require.ErrorIs(t, err, engine.ErrInvalidInput)

	assert.Equal(t, 2, calc.calls, "failed calculations must not populate the cache")
	assert.Equal(t, 0, memo.Len())
}

func TestKeyStability(t *testing.T) {
	a, err := Key(currentInput(30))
	require.NoError(t, err)
	b, err := Key(currentInput(30))
	require.NoError(t, err)
	c, err := Key(currentInput(31))
	require.NoError(t, err)

	assert.Equal(t, a, b, "identical inputs share a key")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64, "hex-encoded SHA-256")

	_, err = Key(nil)
	assert.Error(t, err)
}
