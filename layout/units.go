package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe helpers. Every coordinate and width in a Scene is in inches;
// point-sized inputs (font sizes, dash and trim-mark widths) are converted once, here.

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, read as inches
	UnitIN               // inches
	UnitPT               // points
	UnitMM               // millimeters
	UnitCM               // centimeters
)

// Conversion constants between inches, points and millimeters.
const (
	PtPerInch = 72.0
	MmPerInch = 25.4
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToIN converts the length to inches. Unit-less values are already inches.
func (l Length) ToIN() float64 {
	switch l.Unit {
	case UnitPT:
		return PtToIn(l.Value)
	case UnitMM:
		return l.Value / MmPerInch
	case UnitCM:
		return l.Value * 10 / MmPerInch
	default:
		return l.Value
	}
}

// String renders the length with its unit suffix, e.g. "1.25in".
func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// PtToIn converts points to inches.
func PtToIn(pt float64) float64 { return pt / PtPerInch }

// InToPt converts inches to points.
func InToPt(in float64) float64 { return in * PtPerInch }

// InToMM converts inches to millimeters.
func InToMM(in float64) float64 { return in * MmPerInch }

// ParseLength parses a length string such as "1.25", "1.25in", "31.75mm" or "0.5pt".
// A bare number keeps UnitNone and is read as inches.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"in", UnitIN}, {"pt", UnitPT}, {"mm", UnitMM}, {"cm", UnitCM}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}
