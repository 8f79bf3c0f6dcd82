package cleaner

import (
	"errors"

	"github.com/jmylchreest/tabclean/pkg/table"
)

// Error kinds reported by Engine operations. Use errors.Is to check for them.
var (
	// ErrUnknownColumn is returned when the selected column is not in the table.
	ErrUnknownColumn = table.ErrUnknownColumn

	// ErrTypeMismatch is returned when a numeric statistic is requested on a
	// text column.
	ErrTypeMismatch = table.ErrTypeMismatch

	// ErrEmptyColumn is returned when a statistic is requested on a column
	// with no non-null values.
	ErrEmptyColumn = errors.New("column has no non-null values")
)

// OpError records a failed engine operation and the column it targeted.
type OpError struct {
	Op     string
	Column string
	Err    error
}

func (e *OpError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}
