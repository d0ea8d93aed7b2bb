// Package standards provides the immutable lookup tables behind the sizing
// pipeline: named coefficients, breakpoint series for environmental
// correction factors, and standard size ladders.
//
// A Table is built once by the loader, validated, and never mutated
// afterward, so concurrent reads from any number of goroutines are safe
// without locking. Every entry carries the citation of the table row in the
// governing standard it was taken from.
package standards

import (
	"fmt"
	"sort"
)

// Coefficient is a single named constant with its source citation.
type Coefficient struct {
	Value    float64
	Citation string
}

// Point is one breakpoint row of a correction-factor series.
type Point struct {
	// X is the condition value the factor applies to (ambient degrees C,
	// conductor count, ...).
	X float64

	// Factor is the correction factor at X, always in (0, 1].
	Factor float64
}

// Series is an ordered breakpoint series for one environmental condition
// under one standard. Points are strictly ascending in X.
type Series struct {
	Citation string
	Points   []Point
}

// Interpolate returns the factor at x using linear interpolation between
// the two adjacent breakpoints. Values outside the defined range clamp to
// the boundary row; the second return reports whether clamping occurred.
//
// Interpolation is deliberately linear only: any returned factor is
// traceable to at most two table rows.
func (s *Series) Interpolate(x float64) (float64, bool) {
	pts := s.Points
	if x <= pts[0].X {
		return pts[0].Factor, x < pts[0].X
	}
	last := pts[len(pts)-1]
	if x >= last.X {
		return last.Factor, x > last.X
	}

	// First point with X >= x; i >= 1 because of the boundary checks above.
	i := sort.Search(len(pts), func(i int) bool { return pts[i].X >= x })
	if pts[i].X == x {
		return pts[i].Factor, false
	}

	lo, hi := pts[i-1], pts[i]
	t := (x - lo.X) / (hi.X - lo.X)
	return lo.Factor + t*(hi.Factor-lo.Factor), false
}

// Min returns the smallest defined condition value.
func (s *Series) Min() float64 { return s.Points[0].X }

// Max returns the largest defined condition value.
func (s *Series) Max() float64 { return s.Points[len(s.Points)-1].X }

// Ladder is a monotonically ascending sequence of discrete standard sizes.
type Ladder struct {
	Citation string
	Sizes    []float64
}

// RoundUp returns the smallest ladder entry >= requirement. An exact match
// selects that entry. When the requirement exceeds the largest entry, the
// largest entry is returned with ok=false.
func (l *Ladder) RoundUp(requirement float64) (float64, bool) {
	i := sort.SearchFloat64s(l.Sizes, requirement)
	if i == len(l.Sizes) {
		return l.Sizes[len(l.Sizes)-1], false
	}
	return l.Sizes[i], true
}

// Max returns the largest ladder entry.
func (l *Ladder) Max() float64 { return l.Sizes[len(l.Sizes)-1] }

// seriesKey identifies a breakpoint series by category and standard.
type seriesKey struct {
	category string
	standard Standard
}

// ladderKey identifies a size ladder by name and standard.
type ladderKey struct {
	name     string
	standard Standard
}

// coefficientKey identifies a coefficient by category and key.
type coefficientKey struct {
	category string
	key      string
}

// Table is the immutable standards dataset. Construct it with Load,
// LoadFile, or Default; never mutate it after construction.
type Table struct {
	schemaVersion string
	coefficients  map[coefficientKey]Coefficient
	series        map[seriesKey]*Series
	ladders       map[ladderKey]*Ladder
}

// SchemaVersion returns the dataset's declared schema version.
func (t *Table) SchemaVersion() string { return t.schemaVersion }

// Coefficient returns the named coefficient.
// Returns ErrUnknownCoefficient when no entry exists; an unknown entry is a
// caller contract violation, not an engineering condition.
func (t *Table) Coefficient(category, key string) (Coefficient, error) {
	c, ok := t.coefficients[coefficientKey{category: category, key: key}]
	if !ok {
		return Coefficient{}, fmt.Errorf("%w: %s/%s", ErrUnknownCoefficient, category, key)
	}
	return c, nil
}

// Series returns the breakpoint series for a condition category under a
// standard. Returns ErrUnknownSeries when no series exists.
func (t *Table) Series(category string, std Standard) (*Series, error) {
	s, ok := t.series[seriesKey{category: category, standard: std}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownSeries, category, std)
	}
	return s, nil
}

// Ladder returns the named size ladder under a standard.
// Returns ErrUnknownLadder when no ladder exists.
func (t *Table) Ladder(name string, std Standard) (*Ladder, error) {
	l, ok := t.ladders[ladderKey{name: name, standard: std}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownLadder, name, std)
	}
	return l, nil
}

// Coefficient categories used by the pipeline.
const (
	// CategorySafetyFactor holds the standard-mandated load multipliers.
	CategorySafetyFactor = "safety_factor"

	// CategoryResistivity holds conductor resistivity in ohm*mm^2/m.
	CategoryResistivity = "conductor_resistivity"

	// CategoryVoltageDropLimit holds percent voltage-drop thresholds.
	CategoryVoltageDropLimit = "voltage_drop_limit"

	// CategoryInstallationMethod holds discrete installation-method factors.
	CategoryInstallationMethod = "installation_method"
)

// Series categories used by the derating composer.
const (
	// SeriesAmbientCorrection maps ambient temperature to a correction factor.
	SeriesAmbientCorrection = "ambient_correction"

	// SeriesGroupingCorrection maps conductor count to a correction factor.
	SeriesGroupingCorrection = "grouping_correction"
)

// Ladder names used by the engine.
const (
	// LadderBreakerSizes is the standard breaker ampacity ladder.
	LadderBreakerSizes = "breaker_sizes"

	// LadderInterruptingRatings is the breaker interrupting-capacity ladder in kA.
	LadderInterruptingRatings = "interrupting_ratings"
)
