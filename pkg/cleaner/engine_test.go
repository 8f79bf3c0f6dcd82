package cleaner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/tabclean/pkg/table"
)

var (
	n    = table.Number
	s    = table.Text
	null = table.Null()
)

func mustTable(t *testing.T, cols ...*table.Column) *table.Table {
	t.Helper()
	tbl, err := table.New(cols...)
	require.NoError(t, err)
	return tbl
}

func cells(t *testing.T, tbl *table.Table, name string) []table.Value {
	t.Helper()
	col, err := tbl.Column(name)
	require.NoError(t, err)
	return col.Values()
}

func TestRemoveDuplicates(t *testing.T) {
	e := New(mustTable(t,
		table.NewColumn("x", table.TypeText, s("A"), s("A"), s("B"), s("A")),
	))

	removed := e.RemoveDuplicates()

	assert.Equal(t, 2, removed)
	assert.Equal(t, []table.Value{s("A"), s("B")}, cells(t, e.Table(), "x"))
}

func TestRemoveDuplicates_AllColumns(t *testing.T) {
	e := New(mustTable(t,
		table.NewColumn("name", table.TypeText, s("ann"), s("ann"), s("bob"), null, null),
		table.NewColumn("age", table.TypeNumeric, n(30), n(31), n(40), null, null),
	))

	removed := e.RemoveDuplicates()

	assert.Equal(t, 1, removed, "rows differing in any column are kept; null equals null")
	assert.Equal(t, []table.Value{n(30), n(31), n(40), null}, cells(t, e.Table(), "age"))
}

func TestRemoveDuplicates_Idempotent(t *testing.T) {
	e := New(mustTable(t,
		table.NewColumn("x", table.TypeNumeric, n(1), n(2), n(1), n(3), n(2)),
	))

	assert.Equal(t, 2, e.RemoveDuplicates())
	once := e.Table()
	assert.Equal(t, 0, e.RemoveDuplicates())
	assert.True(t, once.Equal(e.Table()))
}

func TestRemoveDuplicates_NumbersCompareByValue(t *testing.T) {
	e := New(mustTable(t,
		table.NewColumn("x", table.TypeNumeric, n(7), n(7.0), n(-0.0), n(0)),
	))

	assert.Equal(t, 2, e.RemoveDuplicates())
	assert.Equal(t, 2, e.Table().NumRows())
}

func TestNormalizeText(t *testing.T) {
	e := New(mustTable(t,
		table.NewColumn("name", table.TypeText, s("  Ann "), s("bob"), null, s("CLEO")),
		table.NewColumn("age", table.TypeNumeric, n(1), n(2), n(3), null),
	))

	changed := e.NormalizeText()

	assert.Equal(t, 2, changed)
	assert.Equal(t, []table.Value{s("ann"), s("bob"), null, s("cleo")}, cells(t, e.Table(), "name"))
	assert.Equal(t, []table.Value{n(1), n(2), n(3), null}, cells(t, e.Table(), "age"))
}

func TestNormalizeText_Idempotent(t *testing.T) {
	e := New(mustTable(t,
		table.NewColumn("city", table.TypeText, s(" Paris\t"), s("LONDON"), s("rome")),
	))

	e.NormalizeText()
	once := e.Table()
	assert.Equal(t, 0, e.NormalizeText())
	assert.True(t, once.Equal(e.Table()))
}

func TestColumnsWithMissing(t *testing.T) {
	e := New(mustTable(t,
		table.NewColumn("a", table.TypeNumeric, n(1), null),
		table.NewColumn("b", table.TypeText, s("x"), s("y")),
		table.NewColumn("c", table.TypeText, null, null),
	))

	assert.Equal(t, []string{"a", "c"}, e.ColumnsWithMissing())
	assert.Equal(t, []NullCount{{"a", 1}, {"b", 0}, {"c", 2}}, e.NullCounts())
}

func TestColumnsWithMissing_None(t *testing.T) {
	e := New(mustTable(t, table.NewColumn("a", table.TypeNumeric, n(1))))
	assert.Empty(t, e.ColumnsWithMissing())
}

func TestRowsWithMissing(t *testing.T) {
	tbl := mustTable(t,
		table.NewColumn("name", table.TypeText, s("ann"), s("bob"), s("cleo")),
		table.NewColumn("age", table.TypeNumeric, null, n(40), null),
	)
	e := New(tbl)

	rows, err := e.RowsWithMissing("age")
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age"}, rows.ColumnNames())
	assert.Equal(t, []table.Value{s("ann"), s("cleo")}, cells(t, rows, "name"))
	assert.Same(t, tbl, e.Table(), "table must not change")
}

func TestRowsWithMissing_UnknownColumn(t *testing.T) {
	e := New(mustTable(t, table.NewColumn("a", table.TypeNumeric, n(1))))

	_, err := e.RowsWithMissing("b")

	require.ErrorIs(t, err, ErrUnknownColumn)
	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "b", opErr.Column)
}

func TestFillMissing(t *testing.T) {
	tests := []struct {
		name     string
		col      *table.Column
		strategy Strategy
		want     table.Value
		filled   int
	}{
		{
			name:     "mean",
			col:      table.NewColumn("x", table.TypeNumeric, n(1), null, n(3)),
			strategy: StrategyMean,
			want:     n(2),
			filled:   1,
		},
		{
			name:     "median_odd",
			col:      table.NewColumn("x", table.TypeNumeric, n(10), null, n(1), n(2)),
			strategy: StrategyMedian,
			want:     n(2),
			filled:   1,
		},
		{
			name:     "median_even",
			col:      table.NewColumn("x", table.TypeNumeric, n(1), n(4), null, n(2), n(10)),
			strategy: StrategyMedian,
			want:     n(3),
			filled:   1,
		},
		{
			name:     "mode_text",
			col:      table.NewColumn("x", table.TypeText, s("b"), null, s("a"), s("a"), null),
			strategy: StrategyMode,
			want:     s("a"),
			filled:   2,
		},
		{
			name:     "mode_tie_first_seen",
			col:      table.NewColumn("x", table.TypeText, s("b"), s("a"), null, s("a"), s("b")),
			strategy: StrategyMode,
			want:     s("b"),
			filled:   1,
		},
		{
			name:     "mode_numeric",
			col:      table.NewColumn("x", table.TypeNumeric, n(5), n(5), n(1), null),
			strategy: StrategyMode,
			want:     n(5),
			filled:   1,
		},
		{
			name:     "no_nulls",
			col:      table.NewColumn("x", table.TypeNumeric, n(1), n(2)),
			strategy: StrategyMean,
			want:     n(1.5),
			filled:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(mustTable(t, tt.col))

			res, err := e.FillMissing("x", tt.strategy)
			require.NoError(t, err)

			assert.True(t, tt.want.Equal(res.Value), "fill value = %v, want %v", res.Value, tt.want)
			assert.Equal(t, tt.filled, res.Filled)
			assert.Equal(t, tt.strategy, res.Strategy)
			assert.Equal(t, []string(nil), e.ColumnsWithMissing())
		})
	}
}

func TestFillMissing_ReplacesOnlyNulls(t *testing.T) {
	e := New(mustTable(t,
		table.NewColumn("x", table.TypeNumeric, n(1), null, n(3)),
		table.NewColumn("y", table.TypeText, null, s("k"), null),
	))

	_, err := e.FillMissing("x", StrategyMean)
	require.NoError(t, err)

	assert.Equal(t, []table.Value{n(1), n(2), n(3)}, cells(t, e.Table(), "x"))
	assert.Equal(t, []table.Value{null, s("k"), null}, cells(t, e.Table(), "y"))
}

func TestFillMissing_LargeValuesStayFinite(t *testing.T) {
	tests := []struct {
		name     string
		values   []table.Value
		strategy Strategy
		want     float64
	}{
		{"mean", []table.Value{n(1e308), n(1e308), null}, StrategyMean, 1e308},
		{"median", []table.Value{n(1.5e308), n(1.7e308), null}, StrategyMedian, 1.6e308},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(mustTable(t, table.NewColumn("x", table.TypeNumeric, tt.values...)))

			res, err := e.FillMissing("x", tt.strategy)
			require.NoError(t, err)

			f, ok := res.Value.Float()
			require.True(t, ok)
			assert.False(t, math.IsInf(f, 0), "fill value %v overflowed", f)
			assert.InEpsilon(t, tt.want, f, 1e-12)
		})
	}
}

func TestFillMissing_Errors(t *testing.T) {
	tests := []struct {
		name     string
		column   string
		strategy Strategy
		want     error
	}{
		{"unknown_column", "missing", StrategyMean, ErrUnknownColumn},
		{"mean_on_text", "name", StrategyMean, ErrTypeMismatch},
		{"median_on_text", "name", StrategyMedian, ErrTypeMismatch},
		{"empty_column", "empty", StrategyMean, ErrEmptyColumn},
		{"mode_empty_column", "empty", StrategyMode, ErrEmptyColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := mustTable(t,
				table.NewColumn("name", table.TypeText, s("ann"), null),
				table.NewColumn("empty", table.TypeNumeric, null, null),
			)
			e := New(tbl)

			_, err := e.FillMissing(tt.column, tt.strategy)

			require.ErrorIs(t, err, tt.want)
			assert.Same(t, tbl, e.Table(), "failed fill must leave table unchanged")
		})
	}
}

func TestDropRowsWithMissing(t *testing.T) {
	e := New(mustTable(t,
		table.NewColumn("id", table.TypeNumeric, n(1), n(2), n(3), n(4), n(5)),
		table.NewColumn("email", table.TypeText, s("a@x"), null, s("c@x"), null, s("e@x")),
	))

	removed, err := e.DropRowsWithMissing("email")
	require.NoError(t, err)

	assert.Equal(t, 2, removed)
	assert.Equal(t, 3, e.Table().NumRows())
	assert.Equal(t, []table.Value{n(1), n(3), n(5)}, cells(t, e.Table(), "id"))
}

func TestDropRowsWithMissing_NoNulls(t *testing.T) {
	tbl := mustTable(t, table.NewColumn("id", table.TypeNumeric, n(1), n(2)))
	e := New(tbl)

	removed, err := e.DropRowsWithMissing("id")
	require.NoError(t, err)

	assert.Zero(t, removed)
	assert.Same(t, tbl, e.Table())
}

func TestDropRowsWithMissing_UnknownColumn(t *testing.T) {
	tbl := mustTable(t, table.NewColumn("id", table.TypeNumeric, n(1)))
	e := New(tbl)

	_, err := e.DropRowsWithMissing("nope")

	require.ErrorIs(t, err, ErrUnknownColumn)
	assert.Same(t, tbl, e.Table())
}

func TestOpError_Message(t *testing.T) {
	e := New(mustTable(t, table.NewColumn("name", table.TypeText, s("a"), null)))

	_, err := e.FillMissing("name", StrategyMean)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fill mean")
	assert.Contains(t, err.Error(), `"name"`)
}
