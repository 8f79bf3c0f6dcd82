// Package session drives an interactive cleaning session: a Controller owns
// the cleaning engine and workflow state and reports every outcome to a
// Presenter, which renders the table and asks the user for choices.
package session

import (
	"errors"

	"github.com/jmylchreest/tabclean/pkg/table"
)

// ErrCancelled is returned by a Presenter when the user backs out of a choice.
var ErrCancelled = errors.New("selection cancelled")

// Presenter is the display side of a session.
type Presenter interface {
	// ShowTable renders the whole current table, replacing any earlier view.
	ShowTable(t *table.Table)

	// Notify reports the outcome of an operation.
	Notify(msg string)

	// ShowError reports a failed operation.
	ShowError(err error)

	// ChooseColumn asks the user to pick one of options, offering current as
	// the default. It returns ErrCancelled when the user backs out.
	ChooseColumn(options []string, current string) (string, error)

	// ShowRows displays a read-only set of rows under a title.
	ShowRows(title string, rows *table.Table)
}
