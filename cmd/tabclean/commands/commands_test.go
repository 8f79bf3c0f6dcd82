package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const surveyCSV = `name,age,city
Ann,30,Rome
Ann,30,Rome
 Bob ,,Oslo
Cleo,40,
`

// execute runs the root command with args and returns stdout and stderr.
// Flags and viper state are reset so every call starts clean.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	for _, cmd := range rootCmd.Commands() {
		resetFlags(cmd)
	}
	resetFlags(rootCmd)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	_, err := rootCmd.ExecuteC()
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

func writeSurvey(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte(surveyCSV), 0o644))
	return dir, path
}

func TestClean_FlagsToStdout(t *testing.T) {
	_, path := writeSurvey(t)

	stdout, stderr, err := execute(t, "", "clean", path,
		"--dedupe", "--normalize", "--fill", "age=median", "--stdout")

	require.NoError(t, err)
	assert.Equal(t, "name,age,city\nann,30,rome\nbob,35,oslo\ncleo,40,\n", stdout)
	assert.Contains(t, stderr, "Total: 1 rows removed")
}

func TestClean_DropAndExport(t *testing.T) {
	dir, path := writeSurvey(t)

	_, _, err := execute(t, "", "clean", path, "--drop", "city", "--export-dir", dir, "--format", "json")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "cleaned_data1.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Cleo")
	assert.Contains(t, string(data), `"name": " Bob "`)
}

func TestClean_Recipe(t *testing.T) {
	dir, path := writeSurvey(t)
	recipe := filepath.Join(dir, "tidy.yaml")
	require.NoError(t, os.WriteFile(recipe, []byte(`name: tidy
steps:
  - action: dedupe
  - action: fill-all
    strategy: mean
    fallback: mode
`), 0o644))

	stdout, _, err := execute(t, "", "clean", path, "--recipe", recipe, "--stdout", "--format", "jsonl")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `{"name":"Cleo","age":40,"city":"Rome"}`, lines[2])
}

func TestClean_Errors(t *testing.T) {
	_, path := writeSurvey(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no_steps", []string{"clean", path}, "no cleaning steps"},
		{"bad_fill", []string{"clean", path, "--fill", "age"}, "expected COLUMN=STRATEGY"},
		{"bad_strategy", []string{"clean", path, "--fill", "age=average"}, "unknown fill strategy"},
		{"type_mismatch", []string{"clean", path, "--fill", "city=mean", "--dry-run"}, "type mismatch"},
		{"recipe_and_flags", []string{"clean", path, "--recipe", "x.yaml", "--dedupe"}, "none of the others can be"},
		{"missing_file", []string{"clean", filepath.Join(t.TempDir(), "nope.csv"), "--dedupe"}, "nope.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInspect(t *testing.T) {
	_, path := writeSurvey(t)

	stdout, _, err := execute(t, "", "inspect", path, "--rows", "2")

	require.NoError(t, err)
	assert.Contains(t, stdout, "4 rows x 3 columns")
	assert.Contains(t, stdout, "COLUMN")
	assert.Regexp(t, `age\s+numeric\s+1`, stdout)
	assert.Regexp(t, `city\s+text\s+1`, stdout)
	assert.Contains(t, stdout, "... 2 more rows")
}

func TestNextName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "out1.tsv"), nil, 0o644))

	stdout, _, err := execute(t, "", "next-name", "--export-dir", dir, "--prefix", "out", "--format", "tsv")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out2.tsv")+"\n", stdout)
}

func TestEdit_Script(t *testing.T) {
	dir, path := writeSurvey(t)

	stdout, _, err := execute(t, "dedupe\nexport\nquit\n", "edit", path, "--export-dir", dir)

	require.NoError(t, err)
	assert.Contains(t, stdout, "survey.csv (4 rows x 3 columns)")
	assert.Contains(t, stdout, "Removed 1 duplicates.")
	exported := filepath.Join(dir, "cleaned_data1.csv")
	assert.Contains(t, stdout, "Data exported to "+exported+".")
	assert.FileExists(t, exported)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "", "version", "--json")

	require.NoError(t, err)
	assert.Contains(t, stdout, `"name": "tabclean"`)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("export:\n  prefix: tidy\n  format: tsv\n"), 0o644))
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("export: [unclosed\n"), 0o644))

	stdout, _, err := execute(t, "", "next-name", "--config", good, "--export-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tidy1.tsv")+"\n", stdout)

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "nope.yaml")},
		{"malformed", bad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", "next-name", "--config", tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to read config file")
		})
	}
}
