package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jmylchreest/tabclean/pkg/table"
)

const defaultSheet = "Sheet1"

// XLSXWriter writes the table to a single worksheet of an Excel workbook.
// Numbers are stored as numeric cells and nulls as empty cells.
type XLSXWriter struct {
	w       io.Writer
	f       *excelize.File
	sheet   string
	header  header
	next    int
	written bool
}

// NewXLSXWriter creates an XLSX writer. The workbook is written on Flush.
func NewXLSXWriter(w io.Writer, sheet string) *XLSXWriter {
	if sheet == "" {
		sheet = defaultSheet
	}
	return &XLSXWriter{
		w:     w,
		f:     excelize.NewFile(),
		sheet: sheet,
		next:  1,
	}
}

// Write appends the header on first use, then every row of t.
func (w *XLSXWriter) Write(t *table.Table) error {
	first, err := w.header.check(t)
	if err != nil {
		return err
	}
	if first {
		if w.sheet != defaultSheet {
			if err := w.f.SetSheetName(defaultSheet, w.sheet); err != nil {
				return fmt.Errorf("failed to name sheet: %w", err)
			}
		}
		names := make([]any, len(w.header.names))
		for j, name := range w.header.names {
			names[j] = name
		}
		if err := w.setRow(names); err != nil {
			return err
		}
	}

	for _, values := range t.Rows() {
		cells := make([]any, len(values))
		for j, v := range values {
			cells[j] = v.Any()
		}
		if err := w.setRow(cells); err != nil {
			return err
		}
	}
	return nil
}

func (w *XLSXWriter) setRow(cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", w.next, err)
	}
	w.next++
	return nil
}

// Flush writes the workbook. A workbook is written at most once.
func (w *XLSXWriter) Flush() error {
	if w.written {
		return nil
	}
	if err := w.f.Write(w.w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	w.written = true
	return nil
}

// Close writes the workbook and releases it.
func (w *XLSXWriter) Close() error {
	err := w.Flush()
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	return err
}
