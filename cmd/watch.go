package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/pagesmith/internal/build"
	"github.com/conneroisu/pagesmith/internal/config"
	"github.com/conneroisu/pagesmith/internal/logging"
	"github.com/conneroisu/pagesmith/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Rebuild whenever the configuration or template changes",
	Long: `Build once, then rebuild each time config.json, config.local.json or the
page template changes. Rapid successive saves are batched into one build.

Examples:
  pagesmith watch
  pagesmith watch --debounce 500ms`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

const defaultDebounce = 200 * time.Millisecond

var watchDebounce time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", defaultDebounce, "delay used to batch file changes")
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(cmd)
	defer stop()

	dir := projectDir()
	out := cmd.OutOrStdout()
	builder := build.NewBuilder(dir, logger, out)

	if _, err := builder.Build(ctx); err != nil {
		printBuildError(cmd.ErrOrStderr(), err)
	}

	fw, err := startWatcher(ctx, dir, builder, logger, cmd.ErrOrStderr(), watchDebounce, nil)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "👀 Watching for changes (Ctrl+C to stop)")
	<-ctx.Done()

	fw.Stop()
	printBuildSummary(out, builder.Metrics())
	return nil
}

// watchedFiles lists the files whose changes trigger a rebuild.
func watchedFiles(dir string) []string {
	template := filepath.Join(dir, config.DefaultTemplate)
	if cfg, err := config.Load(dir); err == nil {
		template = cfg.TemplatePath(dir)
	}
	return append(config.Files(dir), template)
}

// startWatcher rebuilds the project on relevant changes and passes each
// successful result to after. The watched set is recomputed after every
// change so a new build.template is picked up without a restart.
func startWatcher(
	ctx context.Context,
	dir string,
	builder *build.Builder,
	logger logging.Logger,
	errOut io.Writer,
	debounce time.Duration,
	after func(context.Context, *build.Result),
) (*watcher.FileWatcher, error) {
	fw, err := watcher.NewFileWatcher(debounce, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	files := watcher.NewPathSet()
	dirs := make(map[string]bool)
	track := func(ctx context.Context) {
		paths := watchedFiles(dir)
		files.Set(paths...)
		for _, f := range paths {
			d := filepath.Dir(f)
			if dirs[d] {
				continue
			}
			if err := fw.AddPath(d); err != nil {
				logger.Warn(ctx, err, "Cannot watch directory", "path", d)
				continue
			}
			dirs[d] = true
			logger.Debug(ctx, "Watching directory", "path", d)
		}
	}

	fw.AddFilter(watcher.NoGitFilter)
	fw.AddFilter(watcher.NoEditorTempFilter)
	fw.AddFilter(files.Match)
	fw.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		for _, e := range events {
			logger.Debug(ctx, "File changed", "path", e.Path, "type", e.Type.String())
		}

		res, err := builder.Build(ctx)
		track(ctx)
		if err != nil {
			printBuildError(errOut, err)
			return nil
		}
		if after != nil {
			after(ctx, res)
		}
		return nil
	})

	track(ctx)

	if err := fw.Start(ctx); err != nil {
		fw.Stop()
		return nil, err
	}
	return fw, nil
}
