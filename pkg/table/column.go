package table

import (
	"fmt"
	"strings"
)

// ColumnType is the type tag a column receives when the table is loaded.
type ColumnType string

const (
	TypeNumeric ColumnType = "numeric"
	TypeText    ColumnType = "text"
)

// ParseColumnType accepts the type names used in configuration files.
func ParseColumnType(s string) (ColumnType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numeric", "number", "float", "integer":
		return TypeNumeric, nil
	case "text", "string":
		return TypeText, nil
	default:
		return "", fmt.Errorf("unknown column type %q (use numeric or text)", s)
	}
}

// Accepts reports whether a cell of kind k may be stored in a column of type t.
func (t ColumnType) Accepts(k Kind) bool {
	switch k {
	case KindNull:
		return true
	case KindNumber:
		return t == TypeNumeric
	case KindText:
		return t == TypeText
	}
	return false
}

// Column is a named, typed sequence of cells.
type Column struct {
	name  string
	typ   ColumnType
	cells []Value
}

// NewColumn creates a column holding a copy of cells.
func NewColumn(name string, typ ColumnType, cells ...Value) *Column {
	c := &Column{
		name:  name,
		typ:   typ,
		cells: make([]Value, len(cells)),
	}
	copy(c.cells, cells)
	return c
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Type returns the column type tag.
func (c *Column) Type() ColumnType { return c.typ }

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.cells) }

// Cell returns the cell at row i.
func (c *Column) Cell(i int) Value { return c.cells[i] }

// Values returns a copy of the cells.
func (c *Column) Values() []Value {
	out := make([]Value, len(c.cells))
	copy(out, c.cells)
	return out
}

// NullCount returns the number of null cells.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.cells {
		if v.IsNull() {
			n++
		}
	}
	return n
}

// validate checks every cell against the column type.
func (c *Column) validate() error {
	for i, v := range c.cells {
		if !c.typ.Accepts(v.Kind()) {
			return fmt.Errorf("%w: column %q row %d holds %s, want %s",
				ErrTypeMismatch, c.name, i, v.Kind(), c.typ)
		}
	}
	return nil
}
