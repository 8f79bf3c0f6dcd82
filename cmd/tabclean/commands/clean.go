package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tabclean/internal/config"
	"github.com/jmylchreest/tabclean/internal/logger"
	"github.com/jmylchreest/tabclean/internal/output"
	"github.com/jmylchreest/tabclean/pkg/cleaner"
	"github.com/jmylchreest/tabclean/pkg/table"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Clean a file in batch and export the result",
	Long: `Apply cleaning steps to a table without prompting and export the result.

Steps come either from a recipe file (JSON or YAML) or from flags. Flag steps
always run in this order: dedupe, normalize, drop, fill, fill-all.

Examples:
  # Remove duplicates, tidy text and fill ages with the median
  tabclean clean survey.csv --dedupe --normalize --fill age=median

  # Drop rows without an email, then fill every other gap
  tabclean clean survey.csv --drop email --fill-all median --fill-all-fallback mode

  # Run a recipe and write JSON to stdout
  tabclean clean survey.csv --recipe tidy.yaml --format json --stdout`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	addInputFlags(cleanCmd)
	addExportFlags(cleanCmd)

	flags := cleanCmd.Flags()
	flags.StringP("recipe", "r", "", "recipe file with the steps to run (JSON or YAML)")
	flags.Bool("dedupe", false, "remove duplicate rows")
	flags.Bool("normalize", false, "lower-case and trim text values")
	flags.StringArray("drop", nil, "drop rows with a missing value in COLUMN (can be repeated)")
	flags.StringArray("fill", nil, "fill missing values, COLUMN=mean|median|mode (can be repeated)")
	flags.String("fill-all", "", "fill every column with missing values: mean, median, mode")
	flags.String("fill-all-fallback", "", "strategy for text columns when --fill-all is numeric")
	flags.Bool("dry-run", false, "report the changes without exporting")
	flags.Bool("stdout", false, "write the cleaned table to stdout instead of a file")

	cleanCmd.MarkFlagsMutuallyExclusive("recipe", "dedupe")
	cleanCmd.MarkFlagsMutuallyExclusive("recipe", "normalize")
	cleanCmd.MarkFlagsMutuallyExclusive("recipe", "drop")
	cleanCmd.MarkFlagsMutuallyExclusive("recipe", "fill")
	cleanCmd.MarkFlagsMutuallyExclusive("recipe", "fill-all")
	cleanCmd.MarkFlagsMutuallyExclusive("dry-run", "stdout")
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	chain, err := buildChain(cmd)
	if err != nil {
		return err
	}
	logger.Debug("clean chain", "steps", chain.Name())

	tbl, err := loadTable(cfg)
	if err != nil {
		return err
	}

	engine := cleaner.New(tbl)
	sum, err := chain.Run(engine)
	if len(sum.Reports) > 0 || err == nil {
		fmt.Fprint(cmd.ErrOrStderr(), sum.String())
	}
	if err != nil {
		return err
	}
	result := engine.Table()

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		logInfo("Dry run: %s not exported.", shape(result))
		return nil
	}

	format, err := cfg.ExportFormat()
	if err != nil {
		return err
	}
	if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
		return writeTo(cmd, cfg, format, result)
	}

	path, err := output.Export(cfg.Export.Dir, cfg.Export.Prefix, format, result, cfg.WriterOptions()...)
	if err != nil {
		return err
	}
	logInfo("Data exported to %s.", path)
	return nil
}

// buildChain assembles the steps from --recipe or from the step flags.
func buildChain(cmd *cobra.Command) (*cleaner.Chain, error) {
	flags := cmd.Flags()
	if path, _ := flags.GetString("recipe"); path != "" {
		recipe, err := cleaner.RecipeFromFile(path)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded recipe", "path", path, "name", recipe.Name, "steps", len(recipe.Steps))
		return recipe.Build()
	}

	var steps []cleaner.StepConfig
	if ok, _ := flags.GetBool("dedupe"); ok {
		steps = append(steps, cleaner.StepConfig{Action: cleaner.ActionDedupe})
	}
	if ok, _ := flags.GetBool("normalize"); ok {
		steps = append(steps, cleaner.StepConfig{Action: cleaner.ActionNormalize})
	}
	drops, _ := flags.GetStringArray("drop")
	for _, col := range drops {
		steps = append(steps, cleaner.StepConfig{Action: cleaner.ActionDrop, Column: col})
	}
	fills, _ := flags.GetStringArray("fill")
	for _, spec := range fills {
		col, strategy, ok := strings.Cut(spec, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid --fill %q, expected COLUMN=STRATEGY", spec)
		}
		steps = append(steps, cleaner.StepConfig{Action: cleaner.ActionFill, Column: col, Strategy: strategy})
	}
	if strategy, _ := flags.GetString("fill-all"); strategy != "" {
		fallback, _ := flags.GetString("fill-all-fallback")
		steps = append(steps, cleaner.StepConfig{Action: cleaner.ActionFillAll, Strategy: strategy, Fallback: fallback})
	}

	if len(steps) == 0 {
		return nil, errors.New("no cleaning steps given, use --recipe or a step flag such as --dedupe")
	}
	return cleaner.Recipe{Name: "flags", Steps: steps}.Build()
}

// writeTo writes the cleaned table to the command's stdout.
func writeTo(cmd *cobra.Command, cfg config.Config, format output.Format, result *table.Table) error {
	w, err := output.NewWriter(cmd.OutOrStdout(), format, cfg.WriterOptions()...)
	if err != nil {
		return err
	}
	if err := w.Write(result); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
