package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/conneroisu/pagesmith/internal/build"
	siteerrors "github.com/conneroisu/pagesmith/internal/errors"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Render the page template with the project configuration",
	Long: `Render the project template with the site metadata and analytics snippets
from config.local.json, or config.json when no local file exists.

Examples:
  pagesmith build                  # Build the project in the current directory
  pagesmith build -C sites/acme    # Build another project`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	builder := build.NewBuilder(projectDir(), logger, cmd.OutOrStdout())
	if _, err := builder.Build(cmd.Context()); err != nil {
		printBuildError(cmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

// printBuildError reports a failed build with its error code and a hint
// matching the error category.
func printBuildError(w io.Writer, err error) {
	fmt.Fprintf(w, "❌ Error building HTML: %v\n", err)
	if code := siteerrors.GetErrorCode(err); code != "" {
		fmt.Fprintf(w, "   %s [%s]\n", code, siteerrors.GetErrorType(err))
	}
	if hint := buildErrorHint(err); hint != "" {
		fmt.Fprintf(w, "💡 %s\n", hint)
	}
}

func buildErrorHint(err error) string {
	switch {
	case siteerrors.IsConfigError(err):
		return "Check config.json or config.local.json; run `pagesmith config validate` for details"
	case siteerrors.IsIOError(err):
		return "Check that the template exists and the output directory is writable"
	case siteerrors.IsBuildError(err):
		return "Check the template for malformed placeholders"
	default:
		return ""
	}
}

// printBuildSummary writes the counters collected while watching.
func printBuildSummary(w io.Writer, m *build.Metrics) {
	stats := m.Snapshot()
	if stats.TotalBuilds == 0 {
		return
	}
	fmt.Fprintf(w, "📈 %s (%.0f%% successful)\n", stats, m.SuccessRate())
}
