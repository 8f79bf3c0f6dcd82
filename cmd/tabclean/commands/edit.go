package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tabclean/internal/logger"
	"github.com/jmylchreest/tabclean/internal/session"
	"github.com/jmylchreest/tabclean/internal/version"
	"github.com/jmylchreest/tabclean/pkg/cleaner"
)

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Clean a file interactively",
	Long: `Load a table and clean it from an interactive prompt.

The file defaults to data.csv in the current directory. Type "help" at the
prompt for the available commands.

Examples:
  # Edit data.csv
  tabclean edit

  # Edit a semicolon separated file and export to XLSX
  tabclean edit sales.csv --delimiter ';' --format xlsx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	addInputFlags(editCmd)
	addExportFlags(editCmd)
	addPreviewFlags(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	tbl, err := loadTable(cfg)
	if err != nil {
		return err
	}
	export, err := exportSettings(cfg)
	if err != nil {
		return err
	}

	term := session.NewTerminal(ctx, cmd.InOrStdin(), cmd.OutOrStdout(),
		session.WithPreview(cfg.Preview.Rows, cfg.Preview.Width))
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", version.Short(), cfg.Input, shape(tbl))

	c := session.NewController(cleaner.New(tbl), term, session.WithExport(export))
	logger.Debug("interactive session starting", "input", cfg.Input, "format", export.Format)
	return session.Run(ctx, c, term)
}
