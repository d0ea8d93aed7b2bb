// Package units converts boundary values to and from the pipeline's
// canonical SI representation: meters for length, square millimeters for
// conductor cross-section, degrees Celsius for temperature.
//
// Conversion happens only at the boundary; all engine arithmetic is
// canonical. Conversions round-trip within 1e-9 relative tolerance.
package units

import (
	"fmt"
	"math"
	"strings"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors, comparable with errors.Is().
var (
	// ErrInvalidUnit indicates an unrecognized unit string.
	// Unknown units fail loudly; there is no silent default.
	ErrInvalidUnit = constError("invalid unit")

	// ErrNotFinite indicates a NaN or infinite input value.
	ErrNotFinite = constError("value is not finite")
)

// Dimension classifies a unit by the quantity it measures.
type Dimension int

const (
	// Length units convert to meters.
	Length Dimension = iota

	// Area units convert to square millimeters.
	Area

	// Temperature units convert to degrees Celsius.
	Temperature
)

// String returns a human-readable dimension name.
func (d Dimension) String() string {
	switch d {
	case Length:
		return "length"
	case Area:
		return "area"
	case Temperature:
		return "temperature"
	default:
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
}

// Exact conversion factors to the canonical unit of each dimension.
const (
	// FeetToMeters is exact by international yard and pound agreement (1959).
	FeetToMeters = 0.3048

	// InchesToMeters is exact (25.4 mm per inch).
	InchesToMeters = 0.0254

	// SquareInchesToMM2 is exact (645.16 mm^2 per in^2).
	SquareInchesToMM2 = 645.16

	// KcmilToMM2 converts thousand circular mils to mm^2
	// (1 kcmil = pi/4 * 0.0254^2 * 1000 mm^2).
	KcmilToMM2 = 0.506707479098
)

// linearUnit describes a purely multiplicative unit.
type linearUnit struct {
	dimension Dimension
	factor    float64
}

// linearUnits maps lowercase unit names to their conversion factors.
// Temperature is handled separately because Fahrenheit is affine.
var linearUnits = map[string]linearUnit{
	"m":     {Length, 1.0},
	"ft":    {Length, FeetToMeters},
	"in":    {Length, InchesToMeters},
	"mm2":   {Area, 1.0},
	"in2":   {Area, SquareInchesToMM2},
	"kcmil": {Area, KcmilToMM2},
}

// normalize lowercases and trims a unit string.
func normalize(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// UnitDimension returns the dimension a unit measures.
// Returns ErrInvalidUnit for unrecognized units.
func UnitDimension(unit string) (Dimension, error) {
	switch u := normalize(unit); u {
	case "c", "f":
		return Temperature, nil
	default:
		if lu, ok := linearUnits[u]; ok {
			return lu.dimension, nil
		}
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}
}

// ToCanonical converts a value in the given unit to the canonical unit of
// its dimension (m, mm2, or C).
func ToCanonical(value float64, unit string) (float64, error) {
	if !isFinite(value) {
		return 0, fmt.Errorf("%w: %v %s", ErrNotFinite, value, unit)
	}

	switch u := normalize(unit); u {
	case "c":
		return value, nil
	case "f":
		return (value - 32.0) * 5.0 / 9.0, nil
	default:
		lu, ok := linearUnits[u]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
		}
		return value * lu.factor, nil
	}
}

// FromCanonical converts a canonical value back to the given unit.
func FromCanonical(value float64, unit string) (float64, error) {
	if !isFinite(value) {
		return 0, fmt.Errorf("%w: %v %s", ErrNotFinite, value, unit)
	}

	switch u := normalize(unit); u {
	case "c":
		return value, nil
	case "f":
		return value*9.0/5.0 + 32.0, nil
	default:
		lu, ok := linearUnits[u]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
		}
		return value / lu.factor, nil
	}
}

// IsRecognizedUnit reports whether the unit string is supported.
func IsRecognizedUnit(unit string) bool {
	_, err := UnitDimension(unit)
	return err == nil
}

// isFinite reports whether v is neither NaN nor infinite.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
