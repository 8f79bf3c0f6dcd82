package output

import (
	"bufio"
	"encoding/csv"
	"io"

	"github.com/jmylchreest/tabclean/pkg/table"
)

const utf8BOM = "\ufeff"

// CSVWriter writes delimited text with a header row.
type CSVWriter struct {
	buf    *bufio.Writer
	w      *csv.Writer
	bom    bool
	header header
}

// NewCSVWriter creates a CSV writer using comma as the field separator.
func NewCSVWriter(w io.Writer, comma rune, bom bool) *CSVWriter {
	buf := bufio.NewWriter(w)
	cw := csv.NewWriter(buf)
	cw.Comma = comma
	return &CSVWriter{buf: buf, w: cw, bom: bom}
}

// Write writes the header on first use, then every row of t.
func (w *CSVWriter) Write(t *table.Table) error {
	first, err := w.header.check(t)
	if err != nil {
		return err
	}
	if first {
		if w.bom {
			if _, err := w.buf.WriteString(utf8BOM); err != nil {
				return err
			}
		}
		if err := w.w.Write(w.header.names); err != nil {
			return err
		}
	}
	for i := 0; i < t.NumRows(); i++ {
		if err := w.w.Write(record(t, i)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the csv encoder and the underlying buffer.
func (w *CSVWriter) Flush() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return err
	}
	return w.buf.Flush()
}

// Close flushes the writer.
func (w *CSVWriter) Close() error {
	return w.Flush()
}
