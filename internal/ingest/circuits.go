// Package ingest parses circuit description files into canonical inputs.
//
// The file format is YAML, one document with a `circuits` list. Dimensioned
// fields carry an optional unit (ambient temperature, length, conductor
// area); ingest converts them to the pipeline's canonical SI units at this
// boundary so everything downstream is unit-free.
package ingest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ampcalc/ampcalc/internal/circuit"
	"github.com/ampcalc/ampcalc/internal/standards"
	"github.com/ampcalc/ampcalc/internal/units"
)

// measure is a value with an optional unit.
type measure struct {
	Value float64 `yaml:"value"`
	Unit  string  `yaml:"unit"`
}

// canonical converts the measure to the canonical unit, defaulting the unit
// when none was given.
func (m measure) canonical(defaultUnit string) (float64, error) {
	unit := m.Unit
	if unit == "" {
		unit = defaultUnit
	}
	return units.ToCanonical(m.Value, unit)
}

// loadSpec is the YAML shape of a load description.
type loadSpec struct {
	Mode        string  `yaml:"mode"`
	PowerW      float64 `yaml:"power"`
	PowerFactor float64 `yaml:"power_factor"`
	CurrentA    float64 `yaml:"current"`
}

// environmentSpec is the YAML shape of environmental conditions.
type environmentSpec struct {
	Ambient      *measure `yaml:"ambient"`
	Grouping     *int     `yaml:"grouping"`
	Installation string   `yaml:"installation"`
}

// voltageDropSpec is the YAML shape of the voltage-drop analysis inputs.
type voltageDropSpec struct {
	Length   measure `yaml:"length"`
	Area     measure `yaml:"area"`
	Material string  `yaml:"material"`
}

// shortCircuitSpec is the YAML shape of the short-circuit analysis inputs.
type shortCircuitSpec struct {
	FaultCurrentKA float64 `yaml:"fault_current_ka"`
}

// circuitSpec is the YAML shape of one circuit.
type circuitSpec struct {
	Name         string            `yaml:"name"`
	Standard     string            `yaml:"standard"`
	Phase        string            `yaml:"phase"`
	Voltage      float64           `yaml:"voltage"`
	Continuous   bool              `yaml:"continuous"`
	Load         loadSpec          `yaml:"load"`
	Environment  *environmentSpec  `yaml:"environment"`
	VoltageDrop  *voltageDropSpec  `yaml:"voltage_drop"`
	ShortCircuit *shortCircuitSpec `yaml:"short_circuit"`
}

// file is the YAML document root.
type file struct {
	Circuits []circuitSpec `yaml:"circuits"`
}

// ParseFile reads a circuits file and returns canonical inputs in file
// order.
func ParseFile(path string) ([]*circuit.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read circuits file: %w", err)
	}
	inputs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inputs, nil
}

// Parse converts a YAML circuits document into canonical inputs.
func Parse(data []byte) ([]*circuit.Input, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse circuits document: %w", err)
	}
	if len(f.Circuits) == 0 {
		return nil, fmt.Errorf("no circuits defined")
	}

	inputs := make([]*circuit.Input, 0, len(f.Circuits))
	for i, spec := range f.Circuits {
		in, err := buildInput(spec)
		if err != nil {
			label := spec.Name
			if label == "" {
				label = fmt.Sprintf("#%d", i+1)
			}
			return nil, fmt.Errorf("circuit %s: %w", label, err)
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// buildInput converts one circuit spec to a canonical input.
func buildInput(spec circuitSpec) (*circuit.Input, error) {
	std, err := standards.ParseStandard(spec.Standard)
	if err != nil {
		return nil, err
	}
	phase, err := circuit.ParsePhase(spec.Phase)
	if err != nil {
		return nil, err
	}
	mode, err := circuit.ParseLoadMode(spec.Load.Mode)
	if err != nil {
		return nil, err
	}

	in := &circuit.Input{
		Name:        spec.Name,
		Standard:    std,
		Phase:       phase,
		LoadMode:    mode,
		Voltage:     spec.Voltage,
		PowerW:      spec.Load.PowerW,
		PowerFactor: spec.Load.PowerFactor,
		CurrentA:    spec.Load.CurrentA,
		Continuous:  spec.Continuous,
	}

	if env := spec.Environment; env != nil {
		e := &circuit.Environment{}
		if env.Ambient != nil {
			ambient, err := env.Ambient.canonical("c")
			if err != nil {
				return nil, fmt.Errorf("ambient: %w", err)
			}
			e.AmbientC = &ambient
		}
		if env.Grouping != nil {
			g := *env.Grouping
			e.Grouping = &g
		}
		method, err := circuit.ParseInstallationMethod(env.Installation)
		if err != nil {
			return nil, err
		}
		e.Installation = method
		in.Environment = e
	}

	if vd := spec.VoltageDrop; vd != nil {
		length, err := vd.Length.canonical("m")
		if err != nil {
			return nil, fmt.Errorf("length: %w", err)
		}
		area, err := vd.Area.canonical("mm2")
		if err != nil {
			return nil, fmt.Errorf("conductor area: %w", err)
		}
		material, err := circuit.ParseMaterial(vd.Material)
		if err != nil {
			return nil, err
		}
		in.VoltageDrop = &circuit.VoltageDrop{
			LengthM:  length,
			AreaMM2:  area,
			Material: material,
		}
	}

	if sc := spec.ShortCircuit; sc != nil {
		in.ShortCircuit = &circuit.ShortCircuit{FaultCurrentKA: sc.FaultCurrentKA}
	}

	return in, nil
}
