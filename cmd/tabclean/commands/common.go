package commands

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/tabclean/internal/config"
	"github.com/jmylchreest/tabclean/internal/logger"
	"github.com/jmylchreest/tabclean/internal/output"
	"github.com/jmylchreest/tabclean/internal/session"
	"github.com/jmylchreest/tabclean/pkg/table"
)

// flagKeys maps command flags to config keys. A flag is bound only when set
// on the command line, so config file and environment values otherwise
// apply and commands sharing a flag name do not override each other.
var flagKeys = map[string]string{
	"delimiter":  config.KeyDelimiter,
	"sheet":      config.KeySheet,
	"null":       config.KeyNullValues,
	"export-dir": config.KeyExportDir,
	"prefix":     config.KeyExportPrefix,
	"format":     config.KeyExportFormat,
	"bom":        config.KeyExportBOM,
	"rows":       config.KeyPreviewRows,
	"width":      config.KeyPreviewWidth,
}

func addInputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("delimiter", "", "field delimiter: a character, tab, or empty to detect")
	flags.String("sheet", "", "worksheet to read from an XLSX file (default: first)")
	flags.StringSlice("null", nil, "field values read as null (replaces the default list)")
	flags.StringToString("type", nil, "force a column type, e.g. --type zip=text")
}

func addExportFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("export-dir", ".", "directory for exported files")
	flags.String("prefix", output.DefaultPrefix, "export file name prefix")
	flags.String("format", string(output.DefaultFormat), "export format: csv, tsv, json, jsonl, yaml, xlsx")
	flags.Bool("bom", false, "start CSV/TSV exports with a UTF-8 byte order mark")
}

func addPreviewFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Int("rows", 20, "rows shown in table previews (0: all)")
	flags.Int("width", 24, "maximum cell width in table previews (0: unlimited)")
}

// loadConfig binds the command's flags, applies the optional file argument
// and returns the validated configuration.
func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return config.Config{}, err
		}
	}
	if len(args) > 0 {
		viper.Set(config.KeyInput, args[0])
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, err
	}

	if f := cmd.Flags().Lookup("type"); f != nil && f.Changed {
		types, err := cmd.Flags().GetStringToString("type")
		if err != nil {
			return config.Config{}, err
		}
		if cfg.ColumnTypes == nil {
			cfg.ColumnTypes = make(map[string]string, len(types))
		}
		for name, typ := range types {
			cfg.ColumnTypes[name] = strings.ToLower(typ)
		}
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

// loadTable reads the configured input file.
func loadTable(cfg config.Config) (*table.Table, error) {
	opts, err := cfg.ReadOptions()
	if err != nil {
		return nil, err
	}
	tbl, err := table.Load(cfg.Input, opts...)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded table", "file", cfg.Input,
		"rows", tbl.NumRows(), "columns", tbl.NumColumns())
	return tbl, nil
}

// exportSettings converts the export config for the session controller.
func exportSettings(cfg config.Config) (session.ExportSettings, error) {
	format, err := cfg.ExportFormat()
	if err != nil {
		return session.ExportSettings{}, err
	}
	return session.ExportSettings{
		Dir:     cfg.Export.Dir,
		Prefix:  cfg.Export.Prefix,
		Format:  format,
		Options: cfg.WriterOptions(),
	}, nil
}

// shape describes a table size for user messages.
func shape(tbl *table.Table) string {
	return fmt.Sprintf("%s rows x %d columns", humanize.Comma(int64(tbl.NumRows())), tbl.NumColumns())
}
