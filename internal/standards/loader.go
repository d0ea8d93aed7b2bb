package standards

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// SupportedSchemaRange is the semver constraint a dataset's schema_version
// must satisfy. Major bumps in the dataset format are rejected at load time
// rather than surfacing as lookup failures mid-calculation.
const SupportedSchemaRange = ">= 1.0.0, < 2.0.0"

//go:embed data/default.yaml
var defaultDataset []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the table built from the embedded dataset. The embedded
// dataset is parsed once per process; the returned table is shared and
// read-only. Callers that need fixture data should use Load instead of
// mutating this table.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Load(defaultDataset)
		if defaultErr != nil {
			defaultErr = fmt.Errorf("embedded standards dataset: %w", defaultErr)
		}
	})
	return defaultTable, defaultErr
}

// dataset mirrors the YAML document structure.
type dataset struct {
	SchemaVersion string `yaml:"schema_version"`

	Coefficients []struct {
		Category string  `yaml:"category"`
		Key      string  `yaml:"key"`
		Value    float64 `yaml:"value"`
		Citation string  `yaml:"citation"`
	} `yaml:"coefficients"`

	Series []struct {
		Category string `yaml:"category"`
		Standard string `yaml:"standard"`
		Citation string `yaml:"citation"`
		Points   []struct {
			X      float64 `yaml:"x"`
			Factor float64 `yaml:"factor"`
		} `yaml:"points"`
	} `yaml:"series"`

	Ladders []struct {
		Name     string    `yaml:"name"`
		Standard string    `yaml:"standard"`
		Citation string    `yaml:"citation"`
		Sizes    []float64 `yaml:"sizes"`
	} `yaml:"ladders"`
}

// LoadFile reads and parses a dataset from a YAML file.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open standards dataset: %w", err)
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader parses a dataset from a reader.
func LoadReader(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read standards dataset: %w", err)
	}
	return Load(data)
}

// Load parses and validates a YAML dataset, returning an immutable Table.
//
// Validation enforces the invariants the rest of the pipeline relies on:
// a compatible schema_version, strictly ascending series breakpoints with
// factors in (0, 1], and strictly ascending positive ladder sizes.
func Load(data []byte) (*Table, error) {
	var ds dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}

	if err := checkSchemaVersion(ds.SchemaVersion); err != nil {
		return nil, err
	}

	t := &Table{
		schemaVersion: ds.SchemaVersion,
		coefficients:  make(map[coefficientKey]Coefficient, len(ds.Coefficients)),
		series:        make(map[seriesKey]*Series, len(ds.Series)),
		ladders:       make(map[ladderKey]*Ladder, len(ds.Ladders)),
	}

	for _, c := range ds.Coefficients {
		if c.Category == "" || c.Key == "" {
			return nil, fmt.Errorf("%w: coefficient with empty category or key", ErrInvalidDataset)
		}
		k := coefficientKey{category: c.Category, key: c.Key}
		if _, dup := t.coefficients[k]; dup {
			return nil, fmt.Errorf("%w: duplicate coefficient %s/%s", ErrInvalidDataset, c.Category, c.Key)
		}
		t.coefficients[k] = Coefficient{Value: c.Value, Citation: c.Citation}
	}

	for _, s := range ds.Series {
		std, err := ParseStandard(s.Standard)
		if err != nil {
			return nil, fmt.Errorf("%w: series %s: %v", ErrInvalidDataset, s.Category, err)
		}
		if len(s.Points) == 0 {
			return nil, fmt.Errorf("%w: series %s/%s has no points", ErrInvalidDataset, s.Category, std)
		}
		points := make([]Point, len(s.Points))
		for i, p := range s.Points {
			if p.Factor <= 0 || p.Factor > 1 {
				return nil, fmt.Errorf("%w: series %s/%s factor %g at x=%g outside (0,1]",
					ErrInvalidDataset, s.Category, std, p.Factor, p.X)
			}
			if i > 0 && p.X <= points[i-1].X {
				return nil, fmt.Errorf("%w: series %s/%s breakpoints not strictly ascending at x=%g",
					ErrInvalidDataset, s.Category, std, p.X)
			}
			points[i] = Point{X: p.X, Factor: p.Factor}
		}
		k := seriesKey{category: s.Category, standard: std}
		if _, dup := t.series[k]; dup {
			return nil, fmt.Errorf("%w: duplicate series %s/%s", ErrInvalidDataset, s.Category, std)
		}
		t.series[k] = &Series{Citation: s.Citation, Points: points}
	}

	for _, l := range ds.Ladders {
		std, err := ParseStandard(l.Standard)
		if err != nil {
			return nil, fmt.Errorf("%w: ladder %s: %v", ErrInvalidDataset, l.Name, err)
		}
		if len(l.Sizes) == 0 {
			return nil, fmt.Errorf("%w: ladder %s/%s has no sizes", ErrInvalidDataset, l.Name, std)
		}
		for i, size := range l.Sizes {
			if size <= 0 {
				return nil, fmt.Errorf("%w: ladder %s/%s size %g not positive", ErrInvalidDataset, l.Name, std, size)
			}
			if i > 0 && size <= l.Sizes[i-1] {
				return nil, fmt.Errorf("%w: ladder %s/%s sizes not strictly ascending at %g",
					ErrInvalidDataset, l.Name, std, size)
			}
		}
		k := ladderKey{name: l.Name, standard: std}
		if _, dup := t.ladders[k]; dup {
			return nil, fmt.Errorf("%w: duplicate ladder %s/%s", ErrInvalidDataset, l.Name, std)
		}
		sizes := make([]float64, len(l.Sizes))
		copy(sizes, l.Sizes)
		t.ladders[k] = &Ladder{Citation: l.Citation, Sizes: sizes}
	}

	return t, nil
}

// checkSchemaVersion validates the dataset schema version against the
// supported range.
func checkSchemaVersion(version string) error {
	if version == "" {
		return fmt.Errorf("%w: schema_version missing", ErrIncompatibleSchema)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: schema_version %q: %v", ErrIncompatibleSchema, version, err)
	}

	constraint, err := semver.NewConstraint(SupportedSchemaRange)
	if err != nil {
		// SupportedSchemaRange is a compile-time constant; this cannot
		// happen for a well-formed build.
		return fmt.Errorf("parse supported schema range: %w", err)
	}

	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s (supported: %s)", ErrIncompatibleSchema, version, SupportedSchemaRange)
	}
	return nil
}
