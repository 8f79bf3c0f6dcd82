package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/tabclean/pkg/table"
)

// YAMLWriter writes the rows as a YAML sequence of mappings, keys in column
// order.
type YAMLWriter struct {
	w       *bufio.Writer
	header  header
	items   *yaml.Node
	written bool
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{
		w:     bufio.NewWriter(w),
		items: &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"},
	}
}

// Write buffers the rows of t.
func (w *YAMLWriter) Write(t *table.Table) error {
	if _, err := w.header.check(t); err != nil {
		return err
	}
	names := t.ColumnNames()
	for _, values := range t.Rows() {
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for j, name := range names {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
				scalar(values[j]),
			)
		}
		w.items.Content = append(w.items.Content, m)
	}
	return nil
}

// scalar renders a cell. Numbers are left untagged so they print plain;
// text is tagged !!str so values such as "true" or "12" get quoted.
func scalar(v table.Value) *yaml.Node {
	switch v.Kind() {
	case table.KindNumber:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: v.String()}
	case table.KindText:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.String()}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// Flush writes the buffered rows as YAML. Flushing again without new rows
// writes nothing.
func (w *YAMLWriter) Flush() error {
	if w.written && len(w.items.Content) == 0 {
		return w.w.Flush()
	}

	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)

	if err := encoder.Encode(w.items); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	w.items.Content = nil
	w.written = true
	return w.w.Flush()
}

// Close flushes and closes the writer.
func (w *YAMLWriter) Close() error {
	return w.Flush()
}
