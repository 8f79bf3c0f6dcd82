package cleaner

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/jmylchreest/tabclean/pkg/table"
)

// Strategy selects the statistic used to fill missing values.
type Strategy string

const (
	StrategyMean   Strategy = "mean"
	StrategyMedian Strategy = "median"
	StrategyMode   Strategy = "mode"
)

// Strategies lists every fill strategy.
var Strategies = []Strategy{StrategyMean, StrategyMedian, StrategyMode}

// ParseStrategy converts a strategy name, ignoring case.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Strategies, st) {
		return "", fmt.Errorf("unknown fill strategy %q (use mean, median or mode)", s)
	}
	return st, nil
}

// Numeric reports whether the strategy only applies to numeric columns.
func (s Strategy) Numeric() bool {
	return s == StrategyMean || s == StrategyMedian
}

// fillValue computes the statistic over the non-null cells of col.
func fillValue(col *table.Column, s Strategy) (table.Value, error) {
	if s.Numeric() && col.Type() != table.TypeNumeric {
		return table.Null(), fmt.Errorf("%w: %s needs a numeric column, %q is %s",
			ErrTypeMismatch, s, col.Name(), col.Type())
	}

	present := make([]table.Value, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		if v := col.Cell(i); !v.IsNull() {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return table.Null(), fmt.Errorf("%w: %q", ErrEmptyColumn, col.Name())
	}

	switch s {
	case StrategyMean:
		return table.Number(mean(floats(present))), nil
	case StrategyMedian:
		return table.Number(median(floats(present))), nil
	case StrategyMode:
		return mode(present), nil
	default:
		return table.Null(), fmt.Errorf("unknown fill strategy %q", s)
	}
}

func floats(vals []table.Value) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// mean falls back to a running mean when the plain sum overflows.
func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	if !math.IsInf(sum, 0) {
		return sum / float64(len(xs))
	}

	var m float64
	for i, x := range xs {
		m += (x - m) / float64(i+1)
	}
	return m
}

// median averages the two central values when len(xs) is even.
func median(xs []float64) float64 {
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1]/2 + sorted[mid]/2
}

// mode returns the most frequent value; ties go to the value seen first.
func mode(vals []table.Value) table.Value {
	index := make(map[table.Value]int, len(vals))
	distinct := make([]table.Value, 0, len(vals))
	counts := make([]int, 0, len(vals))
	for _, v := range vals {
		i, seen := index[v]
		if !seen {
			i = len(distinct)
			index[v] = i
			distinct = append(distinct, v)
			counts = append(counts, 0)
		}
		counts[i]++
	}

	best := 0
	for i := 1; i < len(distinct); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return distinct[best]
}
