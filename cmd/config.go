package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/pagesmith/internal/config"
	"github.com/conneroisu/pagesmith/internal/tracking"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the project configuration",
	Long: `Inspect the configuration a build would use. config.local.json takes
precedence over config.json when both exist.

Examples:
  pagesmith config show                # Effective configuration as YAML
  pagesmith config show --format json
  pagesmith config validate            # Check required fields`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var configFormat string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	configShowCmd.Flags().StringVarP(&configFormat, "format", "f", "yaml", "output format (yaml, json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(projectDir())
	if err != nil {
		return err
	}

	var data []byte
	switch configFormat {
	case "yaml":
		data, err = yaml.Marshal(cfg)
	case "json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported format: %s (supported: yaml, json)", configFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", cfg.Source)
	_, err = out.Write(data)
	return err
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(projectDir())
	if err != nil {
		fmt.Fprintf(out, "❌ %v\n", err)
		return err
	}

	fmt.Fprintf(out, "✅ %s is valid\n", cfg.Source)
	for _, w := range cfg.Warnings() {
		fmt.Fprintf(out, "⚠️  %s\n", w)
	}

	status := tracking.Summarize(cfg.Analytics)
	fmt.Fprintf(out, "📊 Analytics enabled: %t\n", status.Enabled)
	fmt.Fprintf(out, "🔍 Google Analytics: %s\n", tracking.Label(status.GoogleAnalytics))
	fmt.Fprintf(out, "📘 Facebook Pixel: %s\n", tracking.Label(status.FacebookPixel))
	return nil
}
