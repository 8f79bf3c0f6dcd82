package cleaner

import (
	"fmt"
	"strings"
	"time"
)

// Report captures what a step did to the table.
type Report struct {
	Step         string        `json:"step"`
	RowsBefore   int           `json:"rows_before"`
	RowsAfter    int           `json:"rows_after"`
	CellsChanged int           `json:"cells_changed"`
	Detail       string        `json:"detail,omitempty"`
	Duration     time.Duration `json:"duration_ms"`

	start time.Time
}

func newReport(step string, e *Engine) Report {
	return Report{
		Step:       step,
		RowsBefore: e.Table().NumRows(),
		RowsAfter:  e.Table().NumRows(),
		start:      time.Now(),
	}
}

func (r *Report) finish(e *Engine) {
	r.RowsAfter = e.Table().NumRows()
	r.Duration = time.Since(r.start)
}

// RowsRemoved returns how many rows the step removed.
func (r Report) RowsRemoved() int {
	return r.RowsBefore - r.RowsAfter
}

// String returns a one-line summary of the report.
func (r Report) String() string {
	s := fmt.Sprintf("%s: %d -> %d rows", r.Step, r.RowsBefore, r.RowsAfter)
	if r.CellsChanged > 0 {
		s += fmt.Sprintf(", %d cells changed", r.CellsChanged)
	}
	if r.Detail != "" {
		s += " (" + r.Detail + ")"
	}
	return s
}

// Summary aggregates the reports of a chain run.
type Summary struct {
	Reports []Report `json:"reports"`
}

// RowsRemoved returns the total rows removed by all steps.
func (s Summary) RowsRemoved() int {
	total := 0
	for _, r := range s.Reports {
		total += r.RowsRemoved()
	}
	return total
}

// CellsChanged returns the total cells changed by all steps.
func (s Summary) CellsChanged() int {
	total := 0
	for _, r := range s.Reports {
		total += r.CellsChanged
	}
	return total
}

// String returns a human-readable block, one line per step.
func (s Summary) String() string {
	var sb strings.Builder
	for _, r := range s.Reports {
		sb.WriteString(r.String())
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("Total: %d rows removed, %d cells changed\n",
		s.RowsRemoved(), s.CellsChanged()))
	return sb.String()
}
