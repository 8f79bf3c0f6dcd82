package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/tabclean/pkg/table"
)

const nullMarker = "NULL"

// Terminal is a line-oriented Presenter that reads commands from in and
// writes aligned tables to out.
type Terminal struct {
	ctx   context.Context
	out   io.Writer
	lines chan string
	err   error
	rows  int
	width int
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithPreview limits ShowTable to rows rows and every cell to width
// characters. Zero means unlimited.
func WithPreview(rows, width int) TerminalOption {
	return func(t *Terminal) {
		t.rows = rows
		t.width = width
	}
}

// NewTerminal creates a terminal presenter. Reads stop when ctx is done or
// in is exhausted. A nil in gives an output-only terminal whose reads
// return io.EOF.
func NewTerminal(ctx context.Context, in io.Reader, out io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		ctx:   ctx,
		out:   out,
		lines: make(chan string),
		rows:  20,
		width: 24,
	}
	for _, opt := range opts {
		opt(t)
	}
	if in == nil {
		close(t.lines)
		return t
	}
	go t.scan(in)
	return t
}

func (t *Terminal) scan(in io.Reader) {
	defer close(t.lines)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		select {
		case t.lines <- sc.Text():
		case <-t.ctx.Done():
			return
		}
	}
	t.err = sc.Err()
}

// ReadLine prints prompt and returns the next input line without its line
// ending. It returns io.EOF at the end of input and the context error when
// the context is done.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	select {
	case <-t.ctx.Done():
		fmt.Fprintln(t.out)
		return "", t.ctx.Err()
	case line, ok := <-t.lines:
		if !ok {
			fmt.Fprintln(t.out)
			if t.err != nil {
				return "", t.err
			}
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

// ShowTable renders the first preview rows of tbl with a row count footer.
func (t *Terminal) ShowTable(tbl *table.Table) {
	shown := tbl.NumRows()
	if t.rows > 0 && shown > t.rows {
		shown = t.rows
	}
	t.render(tbl, shown)
	if shown < tbl.NumRows() {
		fmt.Fprintf(t.out, "... %s more rows\n", humanize.Comma(int64(tbl.NumRows()-shown)))
	}
	fmt.Fprintf(t.out, "[%s rows x %d columns]\n",
		humanize.Comma(int64(tbl.NumRows())), tbl.NumColumns())
}

// ShowRows renders every row of rows under title.
func (t *Terminal) ShowRows(title string, rows *table.Table) {
	fmt.Fprintln(t.out, title)
	if rows.NumRows() == 0 {
		fmt.Fprintln(t.out, "(no rows)")
		return
	}
	t.render(rows, rows.NumRows())
}

// Notify prints msg on its own line.
func (t *Terminal) Notify(msg string) {
	fmt.Fprintln(t.out, msg)
}

// ShowError prints err prefixed with "Error:".
func (t *Terminal) ShowError(err error) {
	fmt.Fprintf(t.out, "Error: %v\n", err)
}

// ChooseColumn lists options numbered from 1 and reads a number or a name.
// An empty answer keeps current; "cancel" backs out.
func (t *Terminal) ChooseColumn(options []string, current string) (string, error) {
	fmt.Fprintln(t.out, "Select Column:")
	for i, opt := range options {
		marker := " "
		if opt == current {
			marker = "*"
		}
		fmt.Fprintf(t.out, " %s %d) %s\n", marker, i+1, opt)
	}

	prompt := "column: "
	if current != "" {
		prompt = fmt.Sprintf("column [%s]: ", current)
	}
	answer, err := t.ReadLine(prompt)
	if err != nil {
		return "", err
	}

	switch {
	case answer == "" && current != "":
		return current, nil
	case answer == "" || strings.EqualFold(answer, "cancel"):
		return "", ErrCancelled
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], nil
	}
	return answer, nil
}

// render writes the first n rows of tbl as aligned columns, headed by
// "name (type)", with a leading 1-based row number.
func (t *Terminal) render(tbl *table.Table, n int) {
	tw := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)

	header := make([]string, 0, tbl.NumColumns()+1)
	header = append(header, "#")
	for _, col := range tbl.Columns() {
		header = append(header, t.clip(fmt.Sprintf("%s (%s)", col.Name(), col.Type())))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for i, row := range tbl.Rows() {
		if i >= n {
			break
		}
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, strconv.Itoa(i+1))
		for _, v := range row {
			s := nullMarker
			if !v.IsNull() {
				s = t.clip(v.String())
			}
			cells = append(cells, s)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
}

// clip shortens s to the preview width, replaces tabs and line breaks, and
// marks truncation with an ellipsis.
func (t *Terminal) clip(s string) string {
	s = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(s)
	if t.width <= 0 || utf8.RuneCountInString(s) <= t.width {
		return s
	}
	if t.width == 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:t.width-1]) + "…"
}
