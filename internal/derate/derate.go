// Package derate composes environmental correction factors into a single
// combined derating factor.
//
// Each recognized condition contributes one factor looked up from the
// standards table; ambient temperature and grouping use linear
// interpolation between adjacent breakpoints, the installation method is a
// discrete coefficient. Absent conditions contribute nothing. The combined
// factor is the arithmetic product of the members and always lies in
// (0, 1]: derating never amplifies capacity.
package derate

import (
	"fmt"

	"github.com/ampcalc/ampcalc/internal/circuit"
	"github.com/ampcalc/ampcalc/internal/diag"
	"github.com/ampcalc/ampcalc/internal/standards"
)

// DefaultWarnThreshold is the combined-factor value below which the
// composer recommends re-verifying feasibility. Configurable via
// WithWarnThreshold; the governing standard should be consulted before
// relying on the default.
const DefaultWarnThreshold = 0.70

// Warning codes emitted by the composer.
const (
	// CodeExtrapolated marks a condition outside the table's defined range,
	// clamped to the boundary row.
	CodeExtrapolated = "derate_extrapolated"

	// CodeBelowThreshold marks a combined factor below the warn threshold.
	CodeBelowThreshold = "derate_below_threshold"
)

// Condition labels, in composition order.
const (
	LabelAmbient      = "ambient temperature"
	LabelGrouping     = "conductor grouping"
	LabelInstallation = "installation method"
)

// Factor is one applied derating factor with its table citation.
type Factor struct {
	// Label names the condition the factor corrects for.
	Label string `json:"label"`

	// Factor is the correction factor, in (0, 1].
	Factor float64 `json:"factor"`

	// Citation names the standard table row(s) the factor came from.
	Citation string `json:"citation"`
}

// Set is an ordered list of applied derating factors.
type Set struct {
	// Factors lists the applied factors in composition order:
	// ambient, grouping, installation.
	Factors []Factor `json:"factors"`
}

// Combined returns the product of all member factors. An empty set combines
// to exactly 1.
func (s Set) Combined() float64 {
	combined := 1.0
	for _, f := range s.Factors {
		combined *= f.Factor
	}
	return combined
}

// Empty reports whether no factor applies.
func (s Set) Empty() bool { return len(s.Factors) == 0 }

// Composer looks up and multiplies derating factors. It holds only a
// read-only table reference and is safe for concurrent use.
type Composer struct {
	table         *standards.Table
	warnThreshold float64
}

// Option configures a Composer.
type Option func(*Composer)

// WithWarnThreshold overrides the combined-factor warning threshold.
func WithWarnThreshold(threshold float64) Option {
	return func(c *Composer) { c.warnThreshold = threshold }
}

// NewComposer creates a Composer over the given standards table.
func NewComposer(table *standards.Table, opts ...Option) *Composer {
	c := &Composer{table: table, warnThreshold: DefaultWarnThreshold}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose builds the derating set for the given conditions under the given
// standard. A nil or empty environment yields an empty set and no warnings.
//
// Returned warnings cover extrapolation clamps and a combined factor below
// the warn threshold; they are advisory, the set is still returned. An
// error indicates a missing table entry, which is a dataset or caller
// contract problem rather than an engineering condition.
func (c *Composer) Compose(
	env *circuit.Environment,
	std standards.Standard,
) (Set, []diag.Warning, error) {
	var set Set
	var warnings []diag.Warning

	if env == nil {
		return set, nil, nil
	}

	if env.AmbientC != nil {
		series, err := c.table.Series(standards.SeriesAmbientCorrection, std)
		if err != nil {
			return Set{}, nil, fmt.Errorf("ambient correction: %w", err)
		}
		factor, clamped := series.Interpolate(*env.AmbientC)
		set.Factors = append(set.Factors, Factor{
			Label:    LabelAmbient,
			Factor:   factor,
			Citation: series.Citation,
		})
		if clamped {
			warnings = append(warnings, diag.Warning{
				Severity: diag.SeverityWarning,
				Code:     CodeExtrapolated,
				Message: fmt.Sprintf(
					"ambient %g C is outside the table range %g-%g C; factor clamped to boundary",
					*env.AmbientC, series.Min(), series.Max()),
				Citation: series.Citation,
			})
		}
	}

	if env.Grouping != nil {
		series, err := c.table.Series(standards.SeriesGroupingCorrection, std)
		if err != nil {
			return Set{}, nil, fmt.Errorf("grouping correction: %w", err)
		}
		factor, clamped := series.Interpolate(float64(*env.Grouping))
		set.Factors = append(set.Factors, Factor{
			Label:    LabelGrouping,
			Factor:   factor,
			Citation: series.Citation,
		})
		if clamped {
			warnings = append(warnings, diag.Warning{
				Severity: diag.SeverityWarning,
				Code:     CodeExtrapolated,
				Message: fmt.Sprintf(
					"%d grouped conductors is outside the table range %g-%g; factor clamped to boundary",
					*env.Grouping, series.Min(), series.Max()),
				Citation: series.Citation,
			})
		}
	}

	if env.Installation != circuit.MethodUnspecified {
		coeff, err := c.table.Coefficient(
			standards.CategoryInstallationMethod, env.Installation.TableKey(std))
		if err != nil {
			return Set{}, nil, fmt.Errorf("installation method: %w", err)
		}
		set.Factors = append(set.Factors, Factor{
			Label:    LabelInstallation,
			Factor:   coeff.Value,
			Citation: coeff.Citation,
		})
	}

	if combined := set.Combined(); !set.Empty() && combined < c.warnThreshold {
		warnings = append(warnings, diag.Warning{
			Severity: diag.SeverityWarning,
			Code:     CodeBelowThreshold,
			Message: fmt.Sprintf(
				"combined derating factor %.3f is below %.2f; re-verify installation feasibility",
				combined, c.warnThreshold),
		})
	}

	return set, warnings, nil
}
