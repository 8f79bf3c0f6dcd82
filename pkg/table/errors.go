package table

import "errors"

var (
	// ErrUnknownColumn is returned when a column name is not present in the table.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrTypeMismatch is returned when a value does not fit its column type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrLengthMismatch is returned when columns differ in row count.
	ErrLengthMismatch = errors.New("column length mismatch")

	// ErrRaggedRow is returned when a data row has more fields than the header.
	ErrRaggedRow = errors.New("row has more fields than header")

	// ErrNoHeader is returned when the input has no header row.
	ErrNoHeader = errors.New("no header row")

	// ErrUnsupportedFormat is returned for input files tabclean cannot read.
	ErrUnsupportedFormat = errors.New("unsupported input format")
)
