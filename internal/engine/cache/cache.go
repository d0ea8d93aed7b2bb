// Package cache provides an optional memoizing wrapper around the
// deterministic sizing calculation.
//
// Because Calculate is a pure function of its input (given a fixed engine
// clock the result is bit-identical), memoization is safe: entries are
// keyed by a canonical JSON serialization of the input and evicted with a
// bounded LRU policy. The cache is never unbounded. It is off unless a
// caller constructs one explicitly.
package cache

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ampcalc/ampcalc/internal/circuit"
	"github.com/ampcalc/ampcalc/internal/engine"
)

// DefaultMaxEntries bounds the cache when no size is configured.
const DefaultMaxEntries = 1024

// Construction errors.
var (
	ErrNilCalculator  = errors.New("calculator cannot be nil")
	ErrInvalidMaxSize = errors.New("max entries must be positive")
)

// Calculator is the calculation dependency; *engine.Engine satisfies it.
type Calculator interface {
	Calculate(ctx context.Context, in *circuit.Input) (*engine.Result, error)
}

// entry is one cached calculation keyed by input hash.
type entry struct {
	key    string
	result *engine.Result
}

// Memoizer caches calculation results with LRU eviction. Safe for
// concurrent use.
//
// Cached results carry the timestamp and ID of the original calculation;
// callers that need a fresh timestamp per call should bypass the cache.
type Memoizer struct {
	calc       Calculator
	maxEntries int

	mu      sync.Mutex
	order   *list.List // front = most recently used
	entries map[string]*list.Element

	hits   int
	misses int
}

// New creates a memoizer over the given calculator with the given entry
// bound. maxEntries <= 0 is rejected: an unbounded cache is never allowed.
func New(calc Calculator, maxEntries int) (*Memoizer, error) {
	if calc == nil {
		return nil, ErrNilCalculator
	}
	if maxEntries <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxSize, maxEntries)
	}
	return &Memoizer{
		calc:       calc,
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}, nil
}

// Calculate returns the cached result for an identical input, or runs the
// underlying calculation and caches its result. The returned result is
// shared and must be treated as read-only, which the result contract
// already requires.
func (m *Memoizer) Calculate(ctx context.Context, in *circuit.Input) (*engine.Result, error) {
	key, err := Key(in)
	if err != nil {
		// Unserializable input cannot be cached; fall through to the
		// calculation so the caller still gets its contract error.
		return m.calc.Calculate(ctx, in)
	}

	m.mu.Lock()
	if el, ok := m.entries[key]; ok {
		m.order.MoveToFront(el)
		m.hits++
		res := el.Value.(*entry).result
		m.mu.Unlock()
		return res, nil
	}
	m.misses++
	m.mu.Unlock()

	res, err := m.calc.Calculate(ctx, in)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		m.entries[key] = m.order.PushFront(&entry{key: key, result: res})
		if m.order.Len() > m.maxEntries {
			oldest := m.order.Back()
			m.order.Remove(oldest)
			delete(m.entries, oldest.Value.(*entry).key)
		}
	}
	return res, nil
}

// Len returns the current number of cached entries.
func (m *Memoizer) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

// Stats returns the hit and miss counts.
func (m *Memoizer) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

// Key builds the canonical cache key for an input: the SHA-256 of its JSON
// serialization. Struct field order makes the serialization canonical for
// identical inputs.
func Key(in *circuit.Input) (string, error) {
	if in == nil {
		return "", errors.New("input cannot be nil")
	}
	data, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("serialize input: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
