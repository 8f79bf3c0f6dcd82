// Package table provides the in-memory tabular dataset that tabclean operates on.
//
// A Table is an ordered set of named, typed columns of equal length. Tables are
// immutable: every transformation returns a new Table and leaves the receiver
// untouched, so a caller holding a Table can always render it safely.
package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies what a cell holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindText
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "null"
	}
}

// Value is a single cell: a number, a text value, or null.
// The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Null returns the missing value.
func Null() Value {
	return Value{}
}

// Number returns a numeric cell.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text returns a text cell.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Kind reports what the cell holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the cell is missing.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Float returns the numeric value and whether the cell is a number.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Str returns the text value and whether the cell is text.
func (v Value) Str() (string, bool) {
	return v.text, v.kind == KindText
}

// Equal reports whether two cells hold the same value.
// Null equals null; numbers compare by value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	default:
		return true
	}
}

// String formats the cell the way it is written to delimited files.
// Null formats as the empty string and numbers use the shortest
// representation that round-trips.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return FormatNumber(v.num)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// Any returns the cell as nil, float64 or string.
func (v Value) Any() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindText:
		return v.text
	default:
		return nil
	}
}

// key returns an encoding of the cell that is unique per distinct value.
func (v Value) key() string {
	switch v.kind {
	case KindNumber:
		if v.num == 0 {
			// -0 and 0 are the same value
			return "n0"
		}
		return "n" + strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return "t" + strconv.Itoa(len(v.text)) + ":" + v.text
	default:
		return "_"
	}
}

// FormatNumber renders f without a trailing ".0" for integral values.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseNumber parses a numeric literal. Surrounding whitespace is ignored.
// NaN and infinities are not numbers.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
