package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tabclean/internal/session"
	"github.com/jmylchreest/tabclean/pkg/cleaner"
	"github.com/jmylchreest/tabclean/pkg/table"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show the columns, missing values and first rows of a file",
	Long: `Load a table and print its shape, the inferred type and missing value
count of every column, and a preview of the first rows.

Examples:
  # Inspect data.csv
  tabclean inspect

  # Check how a zip code column is read when forced to text
  tabclean inspect customers.csv --type zip=text --rows 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	addInputFlags(inspectCmd)
	addPreviewFlags(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	tbl, err := loadTable(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n\n", cfg.Input, shape(tbl))
	if err := writeColumns(out, tbl); err != nil {
		return err
	}
	fmt.Fprintln(out)

	term := session.NewTerminal(context.Background(), nil, out,
		session.WithPreview(cfg.Preview.Rows, cfg.Preview.Width))
	term.ShowTable(tbl)
	return nil
}

// writeColumns prints one line per column with its type and null count.
func writeColumns(w io.Writer, tbl *table.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTYPE\tMISSING")
	for _, nc := range cleaner.New(tbl).NullCounts() {
		col, err := tbl.Column(nc.Column)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", nc.Column, col.Type(), nc.Nulls)
	}
	return tw.Flush()
}
