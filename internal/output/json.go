package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/jmylchreest/tabclean/pkg/table"
)

// row is a table row that marshals to a JSON object with keys in column
// order. Nulls become JSON null.
type row struct {
	names  []string
	values []table.Value
}

func (r row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for j, name := range r.names {
		if j > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[j].Any())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func rows(t *table.Table) []row {
	names := t.ColumnNames()
	out := make([]row, 0, t.NumRows())
	for _, values := range t.Rows() {
		out = append(out, row{names: names, values: values})
	}
	return out
}

// JSONWriter writes the rows as a single JSON array of objects.
type JSONWriter struct {
	w       *bufio.Writer
	pretty  bool
	indent  string
	header  header
	items   []row
	written bool
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
		indent: indent,
		items:  make([]row, 0),
	}
}

// Write buffers the rows of t.
func (w *JSONWriter) Write(t *table.Table) error {
	if _, err := w.header.check(t); err != nil {
		return err
	}
	w.items = append(w.items, rows(t)...)
	return nil
}

// Flush writes the buffered rows as a JSON array. Flushing again without
// new rows writes nothing.
func (w *JSONWriter) Flush() error {
	if w.written && len(w.items) == 0 {
		return w.w.Flush()
	}

	var output []byte
	var err error
	if w.pretty {
		output, err = json.MarshalIndent(w.items, "", w.indent)
	} else {
		output, err = json.Marshal(w.items)
	}
	if err != nil {
		return err
	}

	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	w.items = w.items[:0]
	w.written = true
	return w.w.Flush()
}

// Close flushes and closes the writer.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

// JSONLWriter writes newline-delimited JSON (JSONL), one object per row.
type JSONLWriter struct {
	w      *bufio.Writer
	header header
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		w: bufio.NewWriter(w),
	}
}

// Write writes every row of t as a JSON line.
func (w *JSONLWriter) Write(t *table.Table) error {
	if _, err := w.header.check(t); err != nil {
		return err
	}
	for _, r := range rows(t) {
		output, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := w.w.Write(output); err != nil {
			return err
		}
		if _, err := w.w.WriteString("\n"); err != nil {
			return err
		}
	}
	return w.w.Flush()
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}
