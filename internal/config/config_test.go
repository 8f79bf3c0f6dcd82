package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/tabclean/internal/output"
	"github.com/jmylchreest/tabclean/pkg/table"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, "data.csv", cfg.Input)
	assert.Equal(t, "cleaned_data", cfg.Export.Prefix)

	format, err := cfg.ExportFormat()
	require.NoError(t, err)
	assert.Equal(t, output.FormatCSV, format)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".tabclean.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input: survey.tsv
delimiter: tab
null_values: ["-", "?"]
column_types:
  ZIP: text
log:
  level: debug
export:
  dir: out
  prefix: tidy
  format: xlsx
preview:
  rows: 5
  width: 0
`), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "survey.tsv", cfg.Input)
	assert.Equal(t, []string{"-", "?"}, cfg.NullValues)
	assert.Equal(t, map[string]string{"zip": "text"}, cfg.ColumnTypes, "viper lower-cases keys")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ExportConfig{Dir: "out", Prefix: "tidy", Format: "xlsx"}, cfg.Export)
	assert.Equal(t, PreviewConfig{Rows: 5, Width: 0}, cfg.Preview)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("TABCLEAN_EXPORT_FORMAT", "json")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(EnvKeyReplacer)
	v.AutomaticEnv()

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Export.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"no_input", func(c *Config) { c.Input = "" }, "Input"},
		{"bad_format", func(c *Config) { c.Export.Format = "parquet" }, "Format"},
		{"prefix_with_slash", func(c *Config) { c.Export.Prefix = "a/b" }, "Prefix"},
		{"negative_rows", func(c *Config) { c.Preview.Rows = -1 }, "Rows"},
		{"bad_level", func(c *Config) { c.Log.Level = "loud" }, "Level"},
		{"bad_column_type", func(c *Config) { c.ColumnTypes = map[string]string{"a": "date"} }, "ColumnTypes"},
		{"long_delimiter", func(c *Config) { c.Delimiter = ";;" }, "single character"},
		{"quote_delimiter", func(c *Config) { c.Delimiter = `"` }, "not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{"", 0},
		{"auto", 0},
		{"tab", '\t'},
		{`\t`, '\t'},
		{"TAB", '\t'},
		{";", ';'},
		{"pipe", '|'},
		{"§", '§'},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDelimiter(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("Zip;city\n01234;-\n;Oslo\n"), 0o644))

	cfg := Defaults()
	cfg.Delimiter = ";"
	cfg.NullValues = []string{"-"}
	cfg.ColumnTypes = map[string]string{"zip": "text"}

	opts, err := cfg.ReadOptions()
	require.NoError(t, err)

	tbl, err := table.Load(path, opts...)
	require.NoError(t, err)

	zip, err := tbl.Column("Zip")
	require.NoError(t, err)
	assert.Equal(t, table.TypeText, zip.Type(), "override matches case-insensitively")
	assert.Equal(t, table.Text("01234"), zip.Cell(0))

	city, err := tbl.Column("city")
	require.NoError(t, err)
	assert.True(t, city.Cell(0).IsNull())
}

func TestReadOptions_BadColumnType(t *testing.T) {
	cfg := Defaults()
	cfg.ColumnTypes = map[string]string{"a": "date"}

	_, err := cfg.ReadOptions()
	assert.Error(t, err)
}
