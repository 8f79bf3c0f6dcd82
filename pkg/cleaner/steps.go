package cleaner

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/tabclean/pkg/table"
)

// DedupeStep removes duplicate rows.
type DedupeStep struct{}

// NewDedupe creates a step that removes duplicate rows.
func NewDedupe() *DedupeStep {
	return &DedupeStep{}
}

// Apply removes duplicate rows.
func (s *DedupeStep) Apply(e *Engine) (Report, error) {
	r := newReport(s.Name(), e)
	removed := e.RemoveDuplicates()
	r.finish(e)
	r.Detail = fmt.Sprintf("removed %d duplicates", removed)
	return r, nil
}

// Name returns the step type.
func (s *DedupeStep) Name() string {
	return "dedupe"
}

// NormalizeStep lower-cases and trims text values.
type NormalizeStep struct{}

// NewNormalize creates a step that normalizes text columns.
func NewNormalize() *NormalizeStep {
	return &NormalizeStep{}
}

// Apply normalizes every text column.
func (s *NormalizeStep) Apply(e *Engine) (Report, error) {
	r := newReport(s.Name(), e)
	r.CellsChanged = e.NormalizeText()
	r.finish(e)
	r.Detail = "normalized text data"
	return r, nil
}

// Name returns the step type.
func (s *NormalizeStep) Name() string {
	return "normalize"
}

// FillStep fills the missing values of one column.
type FillStep struct {
	Column   string
	Strategy Strategy
}

// NewFill creates a step that fills nulls in column using strategy.
func NewFill(column string, strategy Strategy) *FillStep {
	return &FillStep{Column: column, Strategy: strategy}
}

// Apply fills the column.
func (s *FillStep) Apply(e *Engine) (Report, error) {
	r := newReport(s.Name(), e)
	res, err := e.FillMissing(s.Column, s.Strategy)
	if err != nil {
		return r, err
	}
	r.CellsChanged = res.Filled
	r.finish(e)
	r.Detail = fmt.Sprintf("filled %d values in %s with %s (%s)",
		res.Filled, s.Column, s.Strategy, res.Value)
	return r, nil
}

// Name returns the step type and its parameters.
func (s *FillStep) Name() string {
	return fmt.Sprintf("fill(%s=%s)", s.Column, s.Strategy)
}

// DropStep drops rows with a null in one column.
type DropStep struct {
	Column string
}

// NewDrop creates a step that drops rows with a null in column.
func NewDrop(column string) *DropStep {
	return &DropStep{Column: column}
}

// Apply drops the rows.
func (s *DropStep) Apply(e *Engine) (Report, error) {
	r := newReport(s.Name(), e)
	removed, err := e.DropRowsWithMissing(s.Column)
	if err != nil {
		return r, err
	}
	r.finish(e)
	r.Detail = fmt.Sprintf("dropped %d rows with missing values in %s", removed, s.Column)
	return r, nil
}

// Name returns the step type and its column.
func (s *DropStep) Name() string {
	return "drop(" + s.Column + ")"
}

// FillAllStep fills every column that has missing values.
//
// Columns with no values at all are skipped. When Strategy is numeric and a
// column is text, Fallback is used instead; without a Fallback the step fails
// with ErrTypeMismatch.
type FillAllStep struct {
	Strategy Strategy
	Fallback Strategy
}

// NewFillAll creates a step that fills every column with missing values.
func NewFillAll(strategy, fallback Strategy) *FillAllStep {
	return &FillAllStep{Strategy: strategy, Fallback: fallback}
}

// Apply fills the columns on a scratch engine and keeps the result only when
// every column succeeds.
func (s *FillAllStep) Apply(e *Engine) (Report, error) {
	r := newReport(s.Name(), e)
	scratch := New(e.Table())

	var filled, skipped []string
	for _, name := range scratch.ColumnsWithMissing() {
		col, err := scratch.Table().Column(name)
		if err != nil {
			return r, err
		}
		if col.NullCount() == col.Len() {
			skipped = append(skipped, name)
			continue
		}

		strategy := s.Strategy
		if strategy.Numeric() && col.Type() == table.TypeText && s.Fallback != "" {
			strategy = s.Fallback
		}

		res, err := scratch.FillMissing(name, strategy)
		if err != nil {
			return r, err
		}
		r.CellsChanged += res.Filled
		filled = append(filled, fmt.Sprintf("%s=%s", name, res.Value))
	}

	e.table = scratch.Table()
	r.finish(e)
	r.Detail = "filled " + strings.Join(filled, ", ")
	if len(filled) == 0 {
		r.Detail = "no columns to fill"
	}
	if len(skipped) > 0 {
		r.Detail += "; skipped empty " + strings.Join(skipped, ", ")
	}
	return r, nil
}

// Name returns the step type and its strategy.
func (s *FillAllStep) Name() string {
	if s.Fallback != "" {
		return fmt.Sprintf("fill-all(%s, fallback=%s)", s.Strategy, s.Fallback)
	}
	return fmt.Sprintf("fill-all(%s)", s.Strategy)
}
