package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/pagesmith/internal/behavior"
	"github.com/conneroisu/pagesmith/internal/config"
	"github.com/conneroisu/pagesmith/internal/dom"
	siteerrors "github.com/conneroisu/pagesmith/internal/errors"
	"github.com/conneroisu/pagesmith/internal/render"
	"github.com/conneroisu/pagesmith/internal/tracking"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [page]",
	Short: "Check a built page for analytics and interactive hooks",
	Long: `Load a built page into an in-memory document, attach the page behaviors
and report which of them found their elements. The page defaults to the
configured build output.

Examples:
  pagesmith inspect
  pagesmith inspect dist/index.html --simulate   # Click the CTAs and list tracked events`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

var inspectSimulate bool

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectSimulate, "simulate", false, "click the call-to-action buttons and print the tracked events")
}

// eventRecorder is an Analytics backend that keeps calls as readable lines.
type eventRecorder struct {
	events []string
}

func (r *eventRecorder) analytics() behavior.Analytics {
	return behavior.Analytics{
		Gtag: behavior.GtagFunc(func(name string, params map[string]any) {
			keys := make([]string, 0, len(params))
			for k := range params {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
			}
			r.events = append(r.events, fmt.Sprintf("gtag event %s {%s}", name, strings.Join(parts, ", ")))
		}),
		Pixel: behavior.PixelFunc(func(event string) {
			r.events = append(r.events, "fbq track "+event)
		}),
	}
}

func inspectTarget(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	dir := projectDir()
	cfg, err := config.Load(dir)
	if err != nil {
		return "", err
	}
	return cfg.OutputPath(dir), nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	path, err := inspectTarget(args)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return siteerrors.WrapIO(err, siteerrors.ErrCodeFileNotFound, "failed to read page", path)
	}
	doc, err := dom.ParseString(string(raw))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🔎 %s\n", path)

	status := tracking.Detect(string(raw))
	fmt.Fprintf(out, "🔍 Google Analytics: %s\n", tracking.Label(status.GoogleAnalytics))
	fmt.Fprintf(out, "📘 Facebook Pixel: %s\n", tracking.Label(status.FacebookPixel))

	if left := render.Placeholders(string(raw)); len(left) > 0 {
		fmt.Fprintf(out, "⚠️  Unresolved placeholders: %s\n", strings.Join(left, ", "))
	}

	rec := &eventRecorder{}
	win := dom.NewWindow(doc)
	report := behavior.Attach(doc, win, rec.analytics())
	printReport(out, report)

	if inspectSimulate {
		simulate(out, doc, rec)
	}
	return nil
}

func printReport(out io.Writer, report *behavior.Report) {
	for _, name := range report.Attached {
		fmt.Fprintf(out, "✅ %s\n", name)
	}
	for _, name := range report.Skipped {
		fmt.Fprintf(out, "⏭️  %s (elements not found)\n", name)
	}
	names := make([]string, 0, len(report.Failed))
	for name := range report.Failed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "❌ %s: %v\n", name, report.Failed[name])
	}
}

func simulate(out io.Writer, doc *dom.Document, rec *eventRecorder) {
	fmt.Fprintln(out, "🖱️  Simulating clicks")
	for _, sel := range []string{behavior.PrimaryCTA, behavior.SecondaryCTA} {
		for _, el := range doc.FindAll(sel) {
			doc.Click(el)
		}
	}

	if len(rec.events) == 0 {
		fmt.Fprintln(out, "   no events tracked")
		return
	}
	for _, e := range rec.events {
		fmt.Fprintf(out, "   %s\n", e)
	}
}
