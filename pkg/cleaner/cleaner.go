// Package cleaner provides the cleaning engine and composable cleaning steps.
// The Engine owns a table and applies one operation at a time; Steps wrap
// those operations so they can be chained and loaded from recipe files.
package cleaner

// Step is one cleaning operation applied to an engine.
type Step interface {
	// Apply runs the step against the engine's current table.
	// On error the engine's table is unchanged.
	Apply(e *Engine) (Report, error)

	// Name returns the step name for logging and reports.
	Name() string
}
