package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/pagesmith/internal/version"
)

var (
	versionFormat string
	versionShort  bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for pagesmith.

Examples:
  pagesmith version                # Version and commit
  pagesmith version --short        # Version only
  pagesmith version --detailed     # Commit, build time, Go version and platform
  pagesmith version --format json  # Machine readable`,
	Args: cobra.NoArgs,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json, yaml)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
	versionCmd.Flags().Bool("detailed", false, "Show detailed version information")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	detailed, _ := cmd.Flags().GetBool("detailed")
	out := cmd.OutOrStdout()
	info := version.GetBuildInfo()

	switch versionFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(info)
	case "text":
		switch {
		case versionShort:
			fmt.Fprintln(out, info.Version)
		case detailed:
			fmt.Fprintln(out, "pagesmith")
			fmt.Fprintln(out, info.String())
		default:
			fmt.Fprintf(out, "pagesmith %s\n", version.GetShortVersion())
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", versionFormat)
	}
}
