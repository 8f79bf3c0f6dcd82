package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/tabclean/pkg/cleaner"
)

// Prompt is printed before every command.
const Prompt = "tabclean> "

const helpText = `Commands:
  show                      redisplay the table
  dedupe                    remove duplicate rows
  normalize                 lower-case and trim text columns
  nulls                     count missing values per column
  missing                   open the missing values workflow
  select                    choose another column in the workflow
  fill mean|median|mode     fill the selected column's missing values
  drop                      drop rows missing the selected column
  export                    write the table to the next free file
  help                      show this help
  quit                      leave the session`

// Run reads commands from term and applies them through c until the user
// quits, input ends or ctx is done. Operation errors are shown to the user
// and do not end the session.
func Run(ctx context.Context, c *Controller, term *Terminal) error {
	c.Start()
	term.Notify(`Type "help" for commands.`)

	for {
		line, err := term.ReadLine(Prompt)
		if err != nil {
			return endOfSession(ctx, err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		quit, err := dispatch(c, term, strings.ToLower(fields[0]), fields[1:])
		if quit {
			return nil
		}
		if err != nil && isInputEnd(ctx, err) {
			return endOfSession(ctx, err)
		}
	}
}

func dispatch(c *Controller, term *Terminal, cmd string, args []string) (quit bool, err error) {
	switch cmd {
	case "help", "?":
		term.Notify(helpText)
	case "show":
		c.Start()
	case "dedupe":
		c.RemoveDuplicates()
	case "normalize":
		c.NormalizeText()
	case "nulls":
		c.ShowNullCounts()
	case "missing":
		err = c.OpenMissingValues()
	case "select":
		err = c.SelectColumn()
	case "fill":
		if len(args) != 1 {
			term.ShowError(errors.New("usage: fill mean|median|mode"))
			return false, nil
		}
		strategy, perr := cleaner.ParseStrategy(args[0])
		if perr != nil {
			term.ShowError(perr)
			return false, nil
		}
		err = c.Fill(strategy)
	case "drop":
		err = c.DropRows()
	case "export":
		_, err = c.Export()
	case "quit", "exit", "q":
		return true, nil
	default:
		term.ShowError(fmt.Errorf("unknown command %q, type \"help\" for commands", cmd))
	}
	return false, err
}

func isInputEnd(ctx context.Context, err error) bool {
	return errors.Is(err, io.EOF) || ctx.Err() != nil
}

// endOfSession treats end of input and cancellation as a normal exit.
func endOfSession(ctx context.Context, err error) error {
	if isInputEnd(ctx, err) {
		return nil
	}
	return fmt.Errorf("failed to read command: %w", err)
}
