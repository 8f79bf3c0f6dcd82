package cleaner

import (
	"strings"

	"github.com/jmylchreest/tabclean/internal/logger"
	"github.com/jmylchreest/tabclean/pkg/table"
)

// Engine applies cleaning operations to a table it exclusively owns.
//
// Every operation is all-or-nothing: the new table is computed in full and
// swapped in only on success, so a failed call leaves Table unchanged.
// An Engine is not safe for concurrent use.
type Engine struct {
	table *table.Table
}

// New creates an engine that owns t.
func New(t *table.Table) *Engine {
	return &Engine{table: t}
}

// Table returns the current table. Tables are immutable, so the result stays
// valid (and unchanged) after later operations.
func (e *Engine) Table() *table.Table {
	return e.table
}

// FillResult describes a completed FillMissing call.
type FillResult struct {
	Column   string
	Strategy Strategy
	Value    table.Value
	Filled   int
}

// NullCount is the number of missing cells in one column.
type NullCount struct {
	Column string
	Nulls  int
}

// RemoveDuplicates drops every row equal to an earlier row across all
// columns, keeping the first occurrence and the order of kept rows.
// It returns the number of rows removed.
func (e *Engine) RemoveDuplicates() int {
	t := e.table
	seen := make(map[string]struct{}, t.NumRows())
	keep := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		key := t.RowKey(i)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}

	removed := t.NumRows() - len(keep)
	if removed > 0 {
		e.table = t.SelectRows(keep)
	}
	logger.Debug("removed duplicate rows", "removed", removed, "rows", e.table.NumRows())
	return removed
}

// NormalizeText lower-cases and then trims every non-null value of every
// text column. Numeric columns and nulls are untouched. It returns the number
// of cells whose value changed.
func (e *Engine) NormalizeText() int {
	out := e.table
	changed := 0
	for _, col := range e.table.Columns() {
		if col.Type() != table.TypeText {
			continue
		}
		cells := col.Values()
		colChanged := 0
		for i, v := range cells {
			s, ok := v.Str()
			if !ok {
				continue
			}
			norm := strings.TrimSpace(strings.ToLower(s))
			if norm != s {
				cells[i] = table.Text(norm)
				colChanged++
			}
		}
		if colChanged == 0 {
			continue
		}
		next, err := out.WithColumnValues(col.Name(), cells)
		if err != nil {
			// unreachable: cells keep the column length and type
			panic(err)
		}
		out = next
		changed += colChanged
	}

	e.table = out
	logger.Debug("normalized text columns", "changed", changed)
	return changed
}

// ColumnsWithMissing returns the names of columns holding at least one null,
// in table order.
func (e *Engine) ColumnsWithMissing() []string {
	var names []string
	for _, col := range e.table.Columns() {
		if col.NullCount() > 0 {
			names = append(names, col.Name())
		}
	}
	return names
}

// NullCounts returns the null count of every column, in table order.
func (e *Engine) NullCounts() []NullCount {
	cols := e.table.Columns()
	out := make([]NullCount, len(cols))
	for i, col := range cols {
		out[i] = NullCount{Column: col.Name(), Nulls: col.NullCount()}
	}
	return out
}

// RowsWithMissing returns the rows whose value in column is null, with all
// columns and in table order. The engine's table is not modified.
func (e *Engine) RowsWithMissing(column string) (*table.Table, error) {
	col, err := e.table.Column(column)
	if err != nil {
		return nil, &OpError{Op: "rows with missing", Column: column, Err: err}
	}
	return e.table.SelectRows(nullRows(col)), nil
}

// FillMissing replaces every null in column with a statistic of the
// column's non-null values. Mean and Median require a numeric column.
func (e *Engine) FillMissing(column string, s Strategy) (FillResult, error) {
	col, err := e.table.Column(column)
	if err != nil {
		return FillResult{}, &OpError{Op: "fill", Column: column, Err: err}
	}

	fill, err := fillValue(col, s)
	if err != nil {
		return FillResult{}, &OpError{Op: "fill " + string(s), Column: column, Err: err}
	}

	cells := col.Values()
	filled := 0
	for i, v := range cells {
		if v.IsNull() {
			cells[i] = fill
			filled++
		}
	}

	if filled > 0 {
		next, err := e.table.WithColumnValues(column, cells)
		if err != nil {
			return FillResult{}, &OpError{Op: "fill " + string(s), Column: column, Err: err}
		}
		e.table = next
	}

	logger.Debug("filled missing values",
		"column", column, "strategy", s, "value", fill.String(), "filled", filled)
	return FillResult{Column: column, Strategy: s, Value: fill, Filled: filled}, nil
}

// DropRowsWithMissing removes every row whose value in column is null and
// returns the number removed.
func (e *Engine) DropRowsWithMissing(column string) (int, error) {
	col, err := e.table.Column(column)
	if err != nil {
		return 0, &OpError{Op: "drop", Column: column, Err: err}
	}

	keep := make([]int, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		if !col.Cell(i).IsNull() {
			keep = append(keep, i)
		}
	}

	removed := col.Len() - len(keep)
	if removed > 0 {
		e.table = e.table.SelectRows(keep)
	}
	logger.Debug("dropped rows with missing values", "column", column, "removed", removed)
	return removed, nil
}

func nullRows(col *table.Column) []int {
	var idx []int
	for i := 0; i < col.Len(); i++ {
		if col.Cell(i).IsNull() {
			idx = append(idx, i)
		}
	}
	return idx
}
