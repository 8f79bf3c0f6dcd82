package table

import (
	"fmt"
	"iter"
	"strings"
)

// Table is an immutable, ordered collection of equal-length named columns.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a table from columns. Column names must be unique, all columns
// must have the same length, and every cell must fit its column type.
func New(columns ...*Column) (*Table, error) {
	t := &Table{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, dup := t.index[c.name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d",
				ErrLengthMismatch, c.name, c.Len(), t.rows)
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		t.index[c.name] = i
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the column count.
func (t *Table) NumColumns() int { return len(t.columns) }

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// Columns returns the columns in table order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether name is a column of the table.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column, or an error wrapping ErrUnknownColumn.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownColumn, name)
	}
	return t.columns[i], nil
}

// Row returns a copy of row i in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.cells[i]
	}
	return row
}

// Rows iterates over the rows in order.
func (t *Table) Rows() iter.Seq2[int, []Value] {
	return func(yield func(int, []Value) bool) {
		for i := 0; i < t.rows; i++ {
			if !yield(i, t.Row(i)) {
				return
			}
		}
	}
}

// RowKey returns a string that is equal for two rows exactly when all of
// their cells are equal.
func (t *Table) RowKey(i int) string {
	var sb strings.Builder
	for _, c := range t.columns {
		sb.WriteString(c.cells[i].key())
		sb.WriteByte(0x1f)
	}
	return sb.String()
}

// SelectRows returns a new table holding rows idx of t, in the given order.
func (t *Table) SelectRows(idx []int) *Table {
	out := &Table{
		columns: make([]*Column, len(t.columns)),
		index:   t.index,
		rows:    len(idx),
	}
	for j, c := range t.columns {
		cells := make([]Value, len(idx))
		for k, i := range idx {
			cells[k] = c.cells[i]
		}
		out.columns[j] = &Column{name: c.name, typ: c.typ, cells: cells}
	}
	return out
}

// WithColumnValues returns a new table with the named column's cells
// replaced. The cells must match the table length and the column type.
func (t *Table) WithColumnValues(name string, cells []Value) (*Table, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownColumn, name)
	}
	if len(cells) != t.rows {
		return nil, fmt.Errorf("%w: column %q given %d cells, want %d",
			ErrLengthMismatch, name, len(cells), t.rows)
	}
	col := NewColumn(name, t.columns[j].typ, cells...)
	if err := col.validate(); err != nil {
		return nil, err
	}
	out := &Table{
		columns: make([]*Column, len(t.columns)),
		index:   t.index,
		rows:    t.rows,
	}
	copy(out.columns, t.columns)
	out.columns[j] = col
	return out, nil
}

// Equal reports whether two tables have the same columns, types and cells.
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || len(t.columns) != len(o.columns) {
		return false
	}
	for j, c := range t.columns {
		oc := o.columns[j]
		if c.name != oc.name || c.typ != oc.typ {
			return false
		}
		for i := range c.cells {
			if !c.cells[i].Equal(oc.cells[i]) {
				return false
			}
		}
	}
	return true
}
