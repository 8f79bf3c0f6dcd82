// Package output handles table serialization and export files.
package output

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jmylchreest/tabclean/pkg/table"
)

// Format represents output format types.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatTSV   Format = "tsv"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatXLSX  Format = "xlsx"
)

// Formats lists every supported output format.
var Formats = []Format{FormatCSV, FormatTSV, FormatJSON, FormatJSONL, FormatYAML, FormatXLSX}

// ParseFormat converts a format name, ignoring case. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "yml" {
		f = FormatYAML
	}
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
	return f, nil
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Writer handles table serialization.
type Writer interface {
	// Write outputs the rows of a table. Tables written to the same writer
	// must share the same columns.
	Write(t *table.Table) error

	// Flush ensures all data is written.
	Flush() error

	// Close releases resources.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
	indent string
	bom    bool
	sheet  string
}

// WithPretty enables pretty-printing.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the indentation string.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// WithBOM prefixes CSV and TSV output with a UTF-8 byte order mark so
// spreadsheet tools detect the encoding.
func WithBOM(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.bom = enabled
	}
}

// WithSheetName sets the worksheet name for XLSX output.
func WithSheetName(name string) WriterOption {
	return func(c *writerConfig) {
		c.sheet = name
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
		sheet:  "Sheet1",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatCSV:
		return NewCSVWriter(w, ',', cfg.bom), nil
	case FormatTSV:
		return NewCSVWriter(w, '\t', cfg.bom), nil
	case FormatJSON:
		return NewJSONWriter(w, cfg.pretty, cfg.indent), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	case FormatXLSX:
		return NewXLSXWriter(w, cfg.sheet), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// header tracks the column names a writer has committed to.
type header struct {
	names []string
}

// check records the first table's columns and rejects later tables whose
// columns differ. It reports whether t is the first table.
func (h *header) check(t *table.Table) (bool, error) {
	names := t.ColumnNames()
	if h.names == nil {
		h.names = names
		return true, nil
	}
	if !slices.Equal(h.names, names) {
		return false, fmt.Errorf("table columns %v do not match %v", names, h.names)
	}
	return false, nil
}

// record renders row i as strings; nulls become empty fields.
func record(t *table.Table, i int) []string {
	row := t.Row(i)
	out := make([]string, len(row))
	for j, v := range row {
		out[j] = v.String()
	}
	return out
}
