// Package commands implements the CLI commands for tabclean.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/tabclean/internal/config"
	"github.com/jmylchreest/tabclean/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tabclean",
	Short: "Interactive cleaning for tabular data files",
	Long: `Tabclean loads a CSV (or TSV, XLSX, HTML table) file and cleans it:
remove duplicate rows, normalize text, fill or drop missing values, then
export the result to the next free cleaned_dataN.csv.

Examples:
  # Clean data.csv interactively
  tabclean edit

  # Batch clean with flags
  tabclean clean survey.csv --dedupe --normalize --fill age=median --drop email

  # Batch clean with a recipe file
  tabclean clean survey.csv --recipe tidy.yaml --format xlsx

  # Look at a file before cleaning it
  tabclean inspect survey.csv`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initLogger(); err != nil {
			return err
		}
		return configErr
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.tabclean.yaml or ./.tabclean.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log.json", rootCmd.PersistentFlags().Lookup("log-json"))
}

// configErr holds the config file error found by initConfig, reported
// when the command runs.
var configErr error

func initConfig() {
	configErr = nil
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".tabclean")
		viper.SetConfigType("yaml")
	}

	// Environment variables, e.g. TABCLEAN_EXPORT_FORMAT
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer)
	viper.AutomaticEnv()

	// A missing default config file is fine; an explicit one must load.
	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	case cfgFile == "" && errors.As(err, &notFound):
	default:
		configErr = fmt.Errorf("failed to read config file: %w", err)
	}
}

func initLogger() error {
	err := logger.Init(logger.Options{
		Level: viper.GetString(config.KeyLogLevel),
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log.json"),
	})
	if err != nil {
		logger.Warn("ignoring log level", "error", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logError("%v", err)
	}
	return err
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
