// Package config loads tabclean settings from viper (file, environment and
// flags) into a validated Config.
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jmylchreest/tabclean/internal/output"
	"github.com/jmylchreest/tabclean/pkg/table"
)

// Config keys.
const (
	KeyInput         = "input"
	KeyDelimiter     = "delimiter"
	KeyNullValues    = "null_values"
	KeySheet         = "sheet"
	KeyColumnTypes   = "column_types"
	KeyLogLevel      = "log.level"
	KeyExportDir     = "export.dir"
	KeyExportPrefix  = "export.prefix"
	KeyExportFormat  = "export.format"
	KeyExportBOM     = "export.bom"
	KeyPreviewRows   = "preview.rows"
	KeyPreviewWidth  = "preview.width"
	DefaultInputFile = "data.csv"
)

// EnvPrefix and EnvKeyReplacer map keys such as export.format to
// TABCLEAN_EXPORT_FORMAT.
var (
	EnvPrefix      = "TABCLEAN"
	EnvKeyReplacer = strings.NewReplacer(".", "_", "-", "_")
)

// DefaultNullValues are the field contents read as null besides the empty
// field. They match the markers common spreadsheet and dataframe tools emit.
var DefaultNullValues = []string{
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// Config holds every tabclean setting.
type Config struct {
	Input       string            `mapstructure:"input" validate:"required"`
	Delimiter   string            `mapstructure:"delimiter"`
	NullValues  []string          `mapstructure:"null_values"`
	Sheet       string            `mapstructure:"sheet"`
	ColumnTypes map[string]string `mapstructure:"column_types" validate:"dive,keys,required,endkeys,oneof=numeric number float integer text string"`
	Log         LogConfig         `mapstructure:"log"`
	Export      ExportConfig      `mapstructure:"export"`
	Preview     PreviewConfig     `mapstructure:"preview"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
}

// ExportConfig configures export file naming and format.
type ExportConfig struct {
	Dir    string `mapstructure:"dir" validate:"required"`
	Prefix string `mapstructure:"prefix" validate:"required,excludesall=/\\"`
	Format string `mapstructure:"format" validate:"required,oneof=csv tsv json jsonl yaml yml xlsx"`
	BOM    bool   `mapstructure:"bom"`
}

// PreviewConfig configures the terminal table view. Zero means unlimited.
type PreviewConfig struct {
	Rows  int `mapstructure:"rows" validate:"gte=0"`
	Width int `mapstructure:"width" validate:"gte=0"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Input:      DefaultInputFile,
		NullValues: DefaultNullValues,
		Export: ExportConfig{
			Dir:    ".",
			Prefix: output.DefaultPrefix,
			Format: string(output.DefaultFormat),
		},
		Preview: PreviewConfig{
			Rows:  20,
			Width: 24,
		},
	}
}

// SetDefaults registers the built-in values with v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(KeyInput, d.Input)
	v.SetDefault(KeyDelimiter, d.Delimiter)
	v.SetDefault(KeyNullValues, d.NullValues)
	v.SetDefault(KeySheet, d.Sheet)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyExportDir, d.Export.Dir)
	v.SetDefault(KeyExportPrefix, d.Export.Prefix)
	v.SetDefault(KeyExportFormat, d.Export.Format)
	v.SetDefault(KeyExportBOM, d.Export.BOM)
	v.SetDefault(KeyPreviewRows, d.Preview.Rows)
	v.SetDefault(KeyPreviewWidth, d.Preview.Width)
}

// Load applies defaults to v, unmarshals it and validates the result.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and the delimiter.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s: invalid value %v (%s)", fe.Namespace(), fe.Value(), fe.Tag())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ParseDelimiter converts a delimiter setting to a rune. Empty and "auto"
// mean detect (zero); "tab" and `\t` mean a tab character.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter %q must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("delimiter %q is not allowed", s)
	}
	return r, nil
}

// ReadOptions converts the input settings to table read options.
func (c Config) ReadOptions() ([]table.ReadOption, error) {
	delim, err := ParseDelimiter(c.Delimiter)
	if err != nil {
		return nil, err
	}

	var opts []table.ReadOption
	if delim != 0 {
		opts = append(opts, table.WithDelimiter(delim))
	}
	if len(c.NullValues) > 0 {
		opts = append(opts, table.WithNullValues(c.NullValues...))
	}
	if c.Sheet != "" {
		opts = append(opts, table.WithSheet(c.Sheet))
	}
	for name, typ := range c.ColumnTypes {
		ct, err := table.ParseColumnType(typ)
		if err != nil {
			return nil, fmt.Errorf("column_types.%s: %w", name, err)
		}
		opts = append(opts, table.WithColumnType(name, ct))
	}
	return opts, nil
}

// ExportFormat returns the parsed export format.
func (c Config) ExportFormat() (output.Format, error) {
	return output.ParseFormat(c.Export.Format)
}

// WriterOptions returns the writer options for exports.
func (c Config) WriterOptions() []output.WriterOption {
	return []output.WriterOption{output.WithBOM(c.Export.BOM)}
}
