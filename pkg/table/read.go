package table

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/tabclean/internal/logger"
)

// ReadOptions controls how raw records become a Table.
type ReadOptions struct {
	// Delimiter separates fields in delimited text. Zero means detect.
	Delimiter rune

	// NullValues lists extra field contents read as null. The empty field
	// is always null.
	NullValues []string

	// ColumnTypes forces the type of named columns instead of inferring it.
	// Names are matched exactly first, then case-insensitively.
	ColumnTypes map[string]ColumnType

	// Sheet selects the worksheet of a spreadsheet. Empty means the first.
	Sheet string
}

// ReadOption configures ReadOptions.
type ReadOption func(*ReadOptions)

// WithDelimiter sets the field delimiter, disabling detection.
func WithDelimiter(r rune) ReadOption {
	return func(o *ReadOptions) {
		o.Delimiter = r
	}
}

// WithNullValues adds field contents that read as null.
func WithNullValues(values ...string) ReadOption {
	return func(o *ReadOptions) {
		o.NullValues = append(o.NullValues, values...)
	}
}

// WithColumnType forces the type of one column.
func WithColumnType(name string, typ ColumnType) ReadOption {
	return func(o *ReadOptions) {
		if o.ColumnTypes == nil {
			o.ColumnTypes = make(map[string]ColumnType)
		}
		o.ColumnTypes[name] = typ
	}
}

// WithSheet selects the worksheet to read from a spreadsheet.
func WithSheet(name string) ReadOption {
	return func(o *ReadOptions) {
		o.Sheet = name
	}
}

func buildOptions(opts []ReadOption) ReadOptions {
	var o ReadOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o ReadOptions) isNull(field string) bool {
	if field == "" {
		return true
	}
	for _, n := range o.NullValues {
		if field == n {
			return true
		}
	}
	return false
}

func (o ReadOptions) columnType(name string) (ColumnType, bool) {
	if typ, ok := o.ColumnTypes[name]; ok {
		return typ, true
	}
	for k, typ := range o.ColumnTypes {
		if strings.EqualFold(k, name) {
			return typ, true
		}
	}
	return "", false
}

// Load reads a table from a file, choosing the reader by extension:
// .csv and .txt (delimiter detected), .tsv and .tab (tab), .xlsx and .xlsm,
// .html and .htm (first table element).
func Load(path string, opts ...ReadOption) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".txt", ".tsv", ".tab", ".xlsx", ".xlsm", ".html", ".htm":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path) //#nosec G304 -- CLI tool reads the user-specified input file
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	var t *Table
	switch ext {
	case ".tsv", ".tab":
		t, err = ReadCSV(f, append([]ReadOption{WithDelimiter('\t')}, opts...)...)
	case ".xlsx", ".xlsm":
		t, err = ReadXLSX(f, opts...)
	case ".html", ".htm":
		t, err = ReadHTML(f, opts...)
	default:
		t, err = ReadCSV(f, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	logger.Debug("table loaded", "path", path, "rows", t.NumRows(), "columns", t.NumColumns())
	return t, nil
}

// fromRecords converts a header and string records into a typed table.
// line is the 1-based source line of records[0], used in error messages.
func fromRecords(header []string, records [][]string, line int, o ReadOptions) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrNoHeader
	}

	names := make([]string, len(header))
	for j, h := range header {
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", j)
		}
		names[j] = h
	}

	for i, rec := range records {
		if len(rec) > len(names) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
				ErrRaggedRow, line+i, len(rec), len(names))
		}
	}

	cols := make([]*Column, len(names))
	for j, name := range names {
		raw := make([]string, len(records))
		null := make([]bool, len(records))
		for i, rec := range records {
			if j < len(rec) {
				raw[i] = rec[j]
			}
			null[i] = o.isNull(raw[i])
		}

		typ, forced := o.columnType(name)
		if !forced {
			typ = inferType(raw, null)
		}

		cells := make([]Value, len(raw))
		for i, s := range raw {
			if null[i] {
				continue
			}
			if typ == TypeText {
				cells[i] = Text(s)
				continue
			}
			f, ok := ParseNumber(s)
			if !ok {
				return nil, fmt.Errorf("%w: column %q line %d: %q is not a number",
					ErrTypeMismatch, name, line+i, s)
			}
			cells[i] = Number(f)
		}
		cols[j] = &Column{name: name, typ: typ, cells: cells}
	}

	return New(cols...)
}

// inferType returns Numeric when every non-null field parses as a number.
// A column with no values at all is Numeric.
func inferType(raw []string, null []bool) ColumnType {
	for i, s := range raw {
		if null[i] {
			continue
		}
		if _, ok := ParseNumber(s); !ok {
			return TypeText
		}
	}
	return TypeNumeric
}
