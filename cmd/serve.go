package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/pagesmith/internal/build"
	"github.com/conneroisu/pagesmith/internal/config"
	"github.com/conneroisu/pagesmith/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Build, watch and preview the page with live reload",
	Long: `Build the page, serve the output directory and reload connected browsers
after every successful rebuild.

Examples:
  pagesmith serve                     # http://127.0.0.1:3000
  pagesmith serve --port 8080
  pagesmith serve --host 0.0.0.0
  pagesmith serve --no-watch          # Serve the current output only
  pagesmith serve --open              # Open the page in the default browser`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "127.0.0.1", "host to bind")
	serveCmd.Flags().IntP("port", "p", 3000, "port to listen on")
	serveCmd.Flags().Bool("no-watch", false, "do not rebuild on changes")
	serveCmd.Flags().Bool("open", false, "open the page in the default browser")
	serveCmd.Flags().DurationVar(&watchDebounce, "debounce", defaultDebounce, "delay used to batch file changes")

	_ = viper.BindPFlag("serve.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("serve.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(cmd)
	defer stop()

	dir := projectDir()
	out := cmd.OutOrStdout()
	builder := build.NewBuilder(dir, logger, out)

	output := filepath.Join(dir, config.DefaultOutput)
	if res, err := builder.Build(ctx); err != nil {
		printBuildError(cmd.ErrOrStderr(), err)
	} else {
		output = res.Output
	}

	srv := server.New(server.Config{
		Host:  viper.GetString("serve.host"),
		Port:  viper.GetInt("serve.port"),
		Root:  filepath.Dir(output),
		Index: filepath.Base(output),
		Stats: func() any { return builder.Metrics().Snapshot() },
	}, logger)

	noWatch, _ := cmd.Flags().GetBool("no-watch")
	if !noWatch {
		fw, err := startWatcher(ctx, dir, builder, logger, cmd.ErrOrStderr(), watchDebounce,
			func(ctx context.Context, res *build.Result) {
				if res.Unchanged {
					return
				}
				if err := srv.Reload(ctx); err != nil {
					logger.Warn(ctx, err, "Failed to notify browsers")
				}
			})
		if err != nil {
			return err
		}
		defer func() {
			fw.Stop()
			printBuildSummary(out, builder.Metrics())
		}()
	}

	open, _ := cmd.Flags().GetBool("open")
	go func() {
		select {
		case <-srv.Ready():
		case <-ctx.Done():
			return
		}
		fmt.Fprintf(out, "🌐 Serving %s at %s\n", filepath.Dir(output), srv.URL())
		if open {
			if err := server.OpenBrowser(srv.URL() + "/"); err != nil {
				logger.Warn(ctx, err, "Failed to open browser")
			}
		}
	}()

	return srv.Start(ctx)
}
