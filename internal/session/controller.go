package session

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/jmylchreest/tabclean/internal/logger"
	"github.com/jmylchreest/tabclean/internal/output"
	"github.com/jmylchreest/tabclean/pkg/cleaner"
)

// Workflow errors.
var (
	// ErrNoMissingValues is returned when the missing-value workflow is
	// opened on a table without nulls.
	ErrNoMissingValues = errors.New("no column has missing values")

	// ErrNoColumnSelected is returned by Fill and DropRows before a column
	// has been selected in the missing-value workflow.
	ErrNoColumnSelected = errors.New("no column selected, open the missing values workflow first")

	// ErrColumnNotOffered is returned when the chosen column is not one of
	// the columns the workflow offered.
	ErrColumnNotOffered = errors.New("column is not in the list of columns with missing values")
)

// ExportSettings controls where Export writes.
type ExportSettings struct {
	Dir     string
	Prefix  string
	Format  output.Format
	Options []output.WriterOption
}

// Controller applies user commands to an engine and reports the results.
//
// It holds the missing-value workflow state: the list of columns offered
// when the workflow was opened, kept unchanged for every later selection,
// and the currently selected column.
type Controller struct {
	engine *cleaner.Engine
	view   Presenter
	export ExportSettings
	log    *slog.Logger

	missing  []string
	selected string
}

// Option configures a Controller.
type Option func(*Controller)

// WithExport sets the export destination.
func WithExport(s ExportSettings) Option {
	return func(c *Controller) {
		c.export = s
	}
}

// NewController creates a controller for engine that reports to view.
func NewController(engine *cleaner.Engine, view Presenter, opts ...Option) *Controller {
	c := &Controller{
		engine: engine,
		view:   view,
		export: ExportSettings{
			Dir:    ".",
			Prefix: output.DefaultPrefix,
			Format: output.DefaultFormat,
		},
		log: logger.Component("session"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Engine returns the engine the controller drives.
func (c *Controller) Engine() *cleaner.Engine {
	return c.engine
}

// Missing returns the column list remembered by the missing-value workflow,
// or nil when the workflow has not been opened.
func (c *Controller) Missing() []string {
	return slices.Clone(c.missing)
}

// Selected returns the selected column, or "" if none.
func (c *Controller) Selected() string {
	return c.selected
}

// Start renders the initial table.
func (c *Controller) Start() {
	c.refresh()
}

func (c *Controller) refresh() {
	c.view.ShowTable(c.engine.Table())
}

func (c *Controller) fail(op string, err error) error {
	c.log.Debug("operation failed", "op", op, "error", err)
	c.view.ShowError(err)
	return err
}

// RemoveDuplicates removes duplicate rows.
func (c *Controller) RemoveDuplicates() {
	removed := c.engine.RemoveDuplicates()
	c.refresh()
	c.view.Notify(fmt.Sprintf("Removed %d duplicates.", removed))
}

// NormalizeText lower-cases and trims every text column.
func (c *Controller) NormalizeText() {
	changed := c.engine.NormalizeText()
	c.log.Debug("normalized text", "changed", changed)
	c.refresh()
	c.view.Notify("Normalized text data.")
}

// ShowNullCounts reports the null count of every column.
func (c *Controller) ShowNullCounts() {
	var sb strings.Builder
	sb.WriteString("Missing values per column:")
	for _, nc := range c.engine.NullCounts() {
		fmt.Fprintf(&sb, "\n  %s: %d", nc.Column, nc.Nulls)
	}
	c.view.Notify(sb.String())
}

// OpenMissingValues opens the missing-value workflow: it remembers the
// columns that currently hold nulls, preselects the first and asks the user
// to confirm a column. With no such column the workflow stays closed and
// ErrNoMissingValues is returned.
func (c *Controller) OpenMissingValues() error {
	cols := c.engine.ColumnsWithMissing()
	if len(cols) == 0 {
		c.missing = nil
		c.selected = ""
		c.view.Notify("No missing values to handle.")
		return ErrNoMissingValues
	}

	c.missing = cols
	c.selected = cols[0]
	c.log.Debug("missing value workflow opened", "columns", cols)
	return c.SelectColumn()
}

// SelectColumn offers the remembered column list, records the choice and
// displays the rows where the chosen column is null.
func (c *Controller) SelectColumn() error {
	if c.missing == nil {
		return c.fail("select", ErrNoColumnSelected)
	}

	choice, err := c.view.ChooseColumn(c.Missing(), c.selected)
	if errors.Is(err, ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}
	if !slices.Contains(c.missing, choice) {
		return c.fail("select", fmt.Errorf("%w: %q", ErrColumnNotOffered, choice))
	}
	c.selected = choice

	rows, err := c.engine.RowsWithMissing(choice)
	if err != nil {
		return c.fail("select", err)
	}
	c.view.ShowRows(fmt.Sprintf("Missing Data in %s:", choice), rows)
	return nil
}

// Fill replaces the nulls of the selected column using strategy.
func (c *Controller) Fill(strategy cleaner.Strategy) error {
	if c.selected == "" {
		return c.fail("fill", ErrNoColumnSelected)
	}

	res, err := c.engine.FillMissing(c.selected, strategy)
	if err != nil {
		return c.fail("fill", err)
	}
	c.refresh()
	c.view.Notify(fmt.Sprintf("Filled missing values in %s with %s (%s).",
		res.Column, res.Strategy, res.Value))
	return nil
}

// DropRows removes the rows where the selected column is null.
func (c *Controller) DropRows() error {
	if c.selected == "" {
		return c.fail("drop", ErrNoColumnSelected)
	}

	removed, err := c.engine.DropRowsWithMissing(c.selected)
	if err != nil {
		return c.fail("drop", err)
	}
	c.refresh()
	c.view.Notify(fmt.Sprintf("Dropped %d rows with missing values in %s.", removed, c.selected))
	return nil
}

// Export writes the current table to the next free export file and returns
// its path.
func (c *Controller) Export() (string, error) {
	path, err := output.Export(c.export.Dir, c.export.Prefix, c.export.Format,
		c.engine.Table(), c.export.Options...)
	if err != nil {
		return "", c.fail("export", err)
	}
	c.view.Notify(fmt.Sprintf("Data exported to %s.", path))
	return path, nil
}
