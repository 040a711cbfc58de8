package layout

import (
	"strconv"
	"strings"
)

// This file defines the length values accepted by the screen description.

// Unit is the unit a length was written in.
type Unit int

const (
	UnitNone    Unit = iota // unit-less numbers, treated as pixels
	UnitPX                  // pixels
	UnitPercent             // percent of the parent's resolved width or height
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPercent:
		return "%"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value int  `json:"value"`
	Unit  Unit `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// Resolve converts the length to pixels. Percentages are taken of reference
// and truncated toward zero.
func (l Length) Resolve(reference int) int {
	if l.Unit == UnitPercent {
		return reference * l.Value / 100
	}
	return l.Value
}

// ParseLength parses "12", "12px" or "50%". Invalid input yields a zero Length
// and ok=false.
func ParseLength(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitNone
	switch {
	case strings.HasSuffix(v, "px"):
		unit = UnitPX
		v = strings.TrimSuffix(v, "px")
	case strings.HasSuffix(v, "%"):
		unit = UnitPercent
		v = strings.TrimSuffix(v, "%")
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return Length{}, false
	}
	return Length{Value: n, Unit: unit}, true
}
