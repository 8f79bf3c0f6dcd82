package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tabclean/internal/output"
)

var nextCmd = &cobra.Command{
	Use:   "next-name",
	Short: "Print the file name the next export would use",
	Long: `Print the path of the first free export file, e.g. cleaned_data3.csv when
cleaned_data1.csv and cleaned_data2.csv already exist. Nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runNextName,
}

func init() {
	rootCmd.AddCommand(nextCmd)

	addExportFlags(nextCmd)
}

func runNextName(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	format, err := cfg.ExportFormat()
	if err != nil {
		return err
	}
	path, err := output.NextName(cfg.Export.Dir, cfg.Export.Prefix, format.Ext())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
