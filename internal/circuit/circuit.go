// Package circuit defines the input side of the sizing pipeline: the
// parameters describing one circuit to size, in canonical SI units.
//
// An Input is immutable by convention once constructed; the validator and
// engine never mutate it. Optional sub-structs (Environment, VoltageDrop,
// ShortCircuit) use nil-pointer presence: a nil Environment means the
// derating stage does not run at all.
package circuit

import (
	"fmt"
	"strings"

	"github.com/ampcalc/ampcalc/internal/standards"
)

// Phase is the supply phase configuration. Always explicit, never inferred.
type Phase int

const (
	// PhaseSingle is single-phase supply.
	PhaseSingle Phase = iota

	// PhaseThree is three-phase supply.
	PhaseThree
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseSingle:
		return "single"
	case PhaseThree:
		return "three"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ParsePhase maps a phase name to its Phase value.
func ParsePhase(name string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "single", "1", "1p":
		return PhaseSingle, nil
	case "three", "3", "3p":
		return PhaseThree, nil
	default:
		return 0, fmt.Errorf("unknown phase %q", name)
	}
}

// LoadMode selects how the load is specified.
type LoadMode int

const (
	// LoadModePower specifies the load as power in watts plus power factor.
	LoadModePower LoadMode = iota

	// LoadModeCurrent specifies the load directly as current in amperes.
	LoadModeCurrent
)

// String returns the lowercase mode name.
func (m LoadMode) String() string {
	switch m {
	case LoadModePower:
		return "power"
	case LoadModeCurrent:
		return "current"
	default:
		return fmt.Sprintf("LoadMode(%d)", int(m))
	}
}

// ParseLoadMode maps a mode name to its LoadMode value.
func ParseLoadMode(name string) (LoadMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "power":
		return LoadModePower, nil
	case "current":
		return LoadModeCurrent, nil
	default:
		return 0, fmt.Errorf("unknown load mode %q", name)
	}
}

// InstallationMethod is the physical installation of the conductors.
type InstallationMethod int

const (
	// MethodUnspecified contributes no installation factor.
	MethodUnspecified InstallationMethod = iota

	// MethodFreeAir is open-air installation.
	MethodFreeAir

	// MethodRaceway is enclosed raceway or conduit.
	MethodRaceway

	// MethodBuried is direct burial or underground duct.
	MethodBuried
)

// String returns the lowercase method name.
func (m InstallationMethod) String() string {
	switch m {
	case MethodUnspecified:
		return "unspecified"
	case MethodFreeAir:
		return "free_air"
	case MethodRaceway:
		return "raceway"
	case MethodBuried:
		return "buried"
	default:
		return fmt.Sprintf("InstallationMethod(%d)", int(m))
	}
}

// ParseInstallationMethod maps a method name to its value. Empty input maps
// to MethodUnspecified.
func ParseInstallationMethod(name string) (InstallationMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return MethodUnspecified, nil
	case "free_air", "free-air", "air":
		return MethodFreeAir, nil
	case "raceway", "conduit":
		return MethodRaceway, nil
	case "buried", "underground":
		return MethodBuried, nil
	default:
		return 0, fmt.Errorf("unknown installation method %q", name)
	}
}

// TableKey builds the installation-method coefficient key for a standard,
// e.g. "nec_raceway".
func (m InstallationMethod) TableKey(std standards.Standard) string {
	return std.String() + "_" + m.String()
}

// Material is the conductor material.
type Material int

const (
	// Copper conductor.
	Copper Material = iota

	// Aluminum conductor.
	Aluminum
)

// String returns the lowercase material name, matching the resistivity
// coefficient keys in the standards table.
func (m Material) String() string {
	switch m {
	case Copper:
		return "copper"
	case Aluminum:
		return "aluminum"
	default:
		return fmt.Sprintf("Material(%d)", int(m))
	}
}

// ParseMaterial maps a material name to its value.
func ParseMaterial(name string) (Material, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "copper", "cu":
		return Copper, nil
	case "aluminum", "aluminium", "al":
		return Aluminum, nil
	default:
		return 0, fmt.Errorf("unknown conductor material %q", name)
	}
}

// Environment holds the environmental conditions that drive derating.
// Each field is optional; absent conditions contribute no factor.
type Environment struct {
	// AmbientC is the ambient temperature in degrees Celsius.
	AmbientC *float64

	// Grouping is the number of current-carrying conductors installed
	// together.
	Grouping *int

	// Installation is the physical installation method.
	Installation InstallationMethod
}

// VoltageDrop holds the inputs for the optional voltage-drop analysis.
type VoltageDrop struct {
	// LengthM is the one-way circuit length in meters.
	LengthM float64

	// AreaMM2 is the conductor cross-section in square millimeters.
	AreaMM2 float64

	// Material is the conductor material.
	Material Material
}

// ShortCircuit holds the inputs for the optional interrupting-capacity
// analysis.
type ShortCircuit struct {
	// FaultCurrentKA is the available fault current at the breaker in kA.
	FaultCurrentKA float64
}

// Input is one circuit to size, in canonical SI units. Construct it fully
// before calling the validator; the pipeline never mutates it.
type Input struct {
	// Name is an optional caller-supplied label carried into the result.
	Name string

	// Standard is the governing sizing standard.
	Standard standards.Standard

	// Phase is the supply phase configuration.
	Phase Phase

	// LoadMode selects power-based or current-based load specification.
	LoadMode LoadMode

	// Voltage is the supply voltage in volts.
	Voltage float64

	// PowerW is the load power in watts (LoadModePower only).
	PowerW float64

	// PowerFactor is the load power factor (LoadModePower only).
	PowerFactor float64

	// CurrentA is the load current in amperes (LoadModeCurrent only).
	CurrentA float64

	// Continuous marks a continuous-duty load (3 hours or more under NEC).
	Continuous bool

	// Environment, when non-nil, enables the derating stage.
	Environment *Environment

	// VoltageDrop, when non-nil, enables the voltage-drop analysis.
	VoltageDrop *VoltageDrop

	// ShortCircuit, when non-nil, enables the interrupting-capacity
	// analysis.
	ShortCircuit *ShortCircuit
}
