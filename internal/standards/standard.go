package standards

import (
	"fmt"
	"strings"
)

// Standard identifies the governing electrical sizing standard.
// The set is closed: adding a standard means adding a constant here and
// handling it in every exhaustive switch, which the compiler then checks.
type Standard int

const (
	// NEC is the US National Electrical Code (NFPA 70).
	NEC Standard = iota

	// IEC is IEC 60364 (low-voltage electrical installations).
	IEC
)

// String returns the canonical lowercase name of the standard.
func (s Standard) String() string {
	switch s {
	case NEC:
		return "nec"
	case IEC:
		return "iec"
	default:
		return fmt.Sprintf("Standard(%d)", int(s))
	}
}

// ParseStandard maps a standard name to its Standard value.
// Matching is case-insensitive. Returns ErrUnknownStandard for names
// outside the closed set.
func ParseStandard(name string) (Standard, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nec":
		return NEC, nil
	case "iec":
		return IEC, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStandard, name)
	}
}
