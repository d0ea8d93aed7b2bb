// Package batch runs many independent sizing calculations with bounded
// parallelism.
//
// Each circuit is an independent pure computation, so the batch is an
// embarrassingly parallel map: no ordering requirement exists between
// calculations, and the runner preserves input order in its output purely
// as a caller convenience for stable reports.
package batch

import (
	"context"
	"errors"
	"sync"

	"github.com/ampcalc/ampcalc/internal/circuit"
	"github.com/ampcalc/ampcalc/internal/engine"
)

// Parallelism bounds.
const (
	// DefaultParallelism is the default number of concurrent calculations.
	DefaultParallelism = 4

	// MaxParallelism caps the configurable concurrency.
	MaxParallelism = 64
)

// Runner errors.
var (
	ErrEmptyInputs        = errors.New("inputs slice cannot be empty")
	ErrInvalidParallelism = errors.New("parallelism must be between 1 and 64")
	ErrNilCalculator      = errors.New("calculator cannot be nil")
)

// Calculator is the per-circuit calculation dependency. *engine.Engine
// satisfies it, as does the memoizing cache wrapper.
type Calculator interface {
	Calculate(ctx context.Context, in *circuit.Input) (*engine.Result, error)
}

// Item is the outcome for one input circuit. Exactly one of Result and Err
// is set.
type Item struct {
	// Index is the position of the circuit in the input slice.
	Index int `json:"index"`

	// Result is the calculation outcome, nil when Err is set.
	Result *engine.Result `json:"result,omitempty"`

	// Err is the contract-violation error for this circuit, when any.
	Err error `json:"-"`
}

// ProgressFunc is invoked after each completed calculation with the number
// done and the total. Calls may come from any worker goroutine.
type ProgressFunc func(done, total int)

// Runner executes batches of sizing calculations against one calculator.
type Runner struct {
	calc        Calculator
	parallelism int
	onProgress  ProgressFunc
}

// Option configures a Runner.
type Option func(*Runner)

// WithParallelism sets the maximum number of concurrent calculations.
func WithParallelism(n int) Option {
	return func(r *Runner) { r.parallelism = n }
}

// WithProgress sets a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) { r.onProgress = fn }
}

// NewRunner creates a batch runner over the given calculator.
func NewRunner(calc Calculator, opts ...Option) (*Runner, error) {
	if calc == nil {
		return nil, ErrNilCalculator
	}
	r := &Runner{calc: calc, parallelism: DefaultParallelism}
	for _, opt := range opts {
		opt(r)
	}
	if r.parallelism < 1 || r.parallelism > MaxParallelism {
		return nil, ErrInvalidParallelism
	}
	return r, nil
}

// Run calculates every input and returns the outcomes in input order.
// Per-circuit contract errors are carried in the corresponding Item rather
// than aborting the batch; Run itself errors only on an empty input slice
// or context cancellation.
func (r *Runner) Run(ctx context.Context, inputs []*circuit.Input) ([]Item, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyInputs
	}

	items := make([]Item, len(inputs))
	sem := make(chan struct{}, r.parallelism)

	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0

	for i, in := range inputs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		wg.Add(1)
		go func(idx int, in *circuit.Input) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := r.calc.Calculate(ctx, in)
			items[idx] = Item{Index: idx, Result: res, Err: err}

			mu.Lock()
			done++
			completed := done
			mu.Unlock()

			if r.onProgress != nil {
				r.onProgress(completed, len(inputs))
			}
		}(i, in)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
