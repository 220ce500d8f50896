package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/pagesmith/internal/config"
	"github.com/conneroisu/pagesmith/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:     "init [dir]",
	Aliases: []string{"i"},
	Short:   "Create a new landing page project",
	Long: `Create config.json, the page template and a starter stylesheet. Without a
directory argument the project directory selected by --dir is used.

Examples:
  pagesmith init                          # Initialize the current directory
  pagesmith init acme-rockets             # Title defaults to "Acme Rockets"
  pagesmith init site --title "Acme"      # Explicit title
  pagesmith init --force                  # Overwrite existing files`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var (
	initTitle string
	initForce bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initTitle, "title", "t", "", "site title (derived from the directory name by default)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := projectDir()
	if len(args) == 1 {
		dir = args[0]
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🚀 Initializing project in %s\n", dir)

	if _, err := scaffold.Generate(scaffold.Options{
		Dir:   dir,
		Title: initTitle,
		Force: initForce,
	}, out); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	if len(args) == 1 {
		fmt.Fprintf(out, "  cd %s\n", dir)
	}
	fmt.Fprintf(out, "  Edit %s (copy it to %s for private tracking IDs)\n", config.DefaultFile, config.LocalFile)
	fmt.Fprintln(out, "  pagesmith serve")
	return nil
}
