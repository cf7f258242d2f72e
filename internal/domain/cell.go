package domain

import (
	"math"
	"strconv"
)

// CellKind identifies which variant a Cell holds.
type CellKind uint8

const (
	// KindAbsent marks a blank or missing cell.
	KindAbsent CellKind = iota
	KindNumber
	KindText
	KindBool
)

func (k CellKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	default:
		return "absent"
	}
}

// Cell is a single spreadsheet value as decoded, before any coercion.
// The zero value is an absent cell.
type Cell struct {
	kind CellKind
	num  float64
	text string
	b    bool
}

// Number returns a numeric cell.
func Number(v float64) Cell { return Cell{kind: KindNumber, num: v} }

// Text returns a text cell. An empty string is still a text cell.
func Text(s string) Cell { return Cell{kind: KindText, text: s} }

// Bool returns a boolean cell.
func Bool(v bool) Cell { return Cell{kind: KindBool, b: v} }

// Absent returns a blank cell.
func Absent() Cell { return Cell{} }

// Kind reports the variant held by c.
func (c Cell) Kind() CellKind { return c.kind }

// Float returns the numeric value and true for number cells.
func (c Cell) Float() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.num, true
}

// Str returns the text value and true for text cells.
func (c Cell) Str() (string, bool) {
	if c.kind != KindText {
		return "", false
	}
	return c.text, true
}

// String renders the cell the way it would be interpolated into text:
// numbers use the shortest round-trip decimal form, booleans are "true" or
// "false", absent cells are empty.
func (c Cell) String() string {
	switch c.kind {
	case KindNumber:
		return formatNumber(c.num)
	case KindText:
		return c.text
	case KindBool:
		return strconv.FormatBool(c.b)
	default:
		return ""
	}
}

// Falsy reports whether the cell should be treated as missing for defaulting:
// absent, empty text, zero, NaN or false.
func (c Cell) Falsy() bool {
	switch c.kind {
	case KindNumber:
		return c.num == 0 || math.IsNaN(c.num)
	case KindText:
		return c.text == ""
	case KindBool:
		return !c.b
	default:
		return true
	}
}

func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
