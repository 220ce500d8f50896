// Package cmd provides the pagesmith command-line interface.
//
// Global settings come from flags or PAGESMITH_* environment variables:
//
//	--dir / PAGESMITH_DIR              project directory (default ".")
//	--log-level / PAGESMITH_LOG_LEVEL  debug, info, warn or error
//	--log-format / PAGESMITH_LOG_FORMAT text or json
//
// Project settings live in the project's config.json or config.local.json
// and are loaded per command by internal/config.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/pagesmith/internal/logging"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pagesmith",
	Short: "Build a static landing page from a template and a JSON config",
	Long: `Pagesmith renders a landing page template with site metadata and optional
analytics snippets taken from config.json (or config.local.json when present).

Quick Start:
  pagesmith init my-site          Create a project
  pagesmith build                 Render src/index.template.html to dist/index.html
  pagesmith serve                 Preview with live reload
  pagesmith inspect               Check the built page's interactive hooks`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("dir", "C", ".", "project directory")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	_ = viper.BindPFlag("dir", rootCmd.PersistentFlags().Lookup("dir"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	viper.SetEnvPrefix("PAGESMITH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

// projectDir returns the project directory selected by --dir.
func projectDir() string {
	if dir := viper.GetString("dir"); dir != "" {
		return dir
	}
	return "."
}

// newLogger builds the command logger from --log-level and --log-format.
func newLogger(cmd *cobra.Command) (logging.Logger, error) {
	level, err := logging.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: viper.GetString("log-format"),
		Output: cmd.ErrOrStderr(),
	}), nil
}

// signalContext is cancelled on interrupt or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
