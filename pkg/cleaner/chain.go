package cleaner

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/tabclean/internal/logger"
)

// Chain applies multiple steps in sequence.
//
// Steps run in the order provided and the chain stops at the first error.
// With Run, steps that completed before the failure stay applied; Apply
// keeps the table unchanged on failure like any other Step.
type Chain struct {
	steps []Step
}

// NewChain creates a chain of steps.
//
// Example:
//
//	chain := cleaner.NewChain(
//	    cleaner.NewDedupe(),
//	    cleaner.NewNormalize(),
//	    cleaner.NewFill("age", cleaner.StrategyMedian),
//	)
func NewChain(steps ...Step) *Chain {
	return &Chain{steps: steps}
}

// Steps returns the chained steps.
func (c *Chain) Steps() []Step {
	return c.steps
}

// Run applies every step and returns their reports. On failure the reports
// of the completed steps are returned along with the error.
func (c *Chain) Run(e *Engine) (Summary, error) {
	var sum Summary
	for i, step := range c.steps {
		r, err := step.Apply(e)
		if err != nil {
			logger.Debug("step failed", "step", step.Name(), "index", i, "error", err)
			return sum, fmt.Errorf("step %d (%s): %w", i+1, step.Name(), err)
		}
		logger.Debug("step applied", "step", step.Name(), "rows", r.RowsAfter, "changed", r.CellsChanged)
		sum.Reports = append(sum.Reports, r)
	}
	return sum, nil
}

// Apply runs the chain as a single step. The steps run on a scratch engine
// and the result replaces the engine's table only when every step succeeds.
func (c *Chain) Apply(e *Engine) (Report, error) {
	r := newReport(c.Name(), e)
	scratch := New(e.Table())
	sum, err := c.Run(scratch)
	r.CellsChanged = sum.CellsChanged()
	r.Detail = fmt.Sprintf("%d of %d steps", len(sum.Reports), len(c.steps))
	if err != nil {
		r.finish(e)
		return r, err
	}
	e.table = scratch.Table()
	r.finish(e)
	return r, nil
}

// Name returns the names of all chained steps.
func (c *Chain) Name() string {
	names := make([]string, len(c.steps))
	for i, step := range c.steps {
		names[i] = step.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}
