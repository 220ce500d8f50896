package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"

	"github.com/conneroisu/pagesmith/internal/assets"
	"github.com/conneroisu/pagesmith/internal/config"
	siteerrors "github.com/conneroisu/pagesmith/internal/errors"
	"github.com/conneroisu/pagesmith/internal/logging"
	"github.com/conneroisu/pagesmith/internal/render"
	"github.com/conneroisu/pagesmith/internal/tracking"
)

// Site metadata placeholders.
const (
	SlotSiteTitle       = "SITE_TITLE"
	SlotSiteDescription = "SITE_DESCRIPTION"
	SlotSiteKeywords    = "SITE_KEYWORDS"
	SlotSiteURL         = "SITE_URL"
	SlotOGImage         = "OG_IMAGE"
)

// Result describes a finished build.
type Result struct {
	Config     *config.Config
	ConfigFile string
	Template   string
	Output     string
	Bytes      int
	Unresolved []string
	Analytics  tracking.Status
	Duration   time.Duration
	// Checksum is the CRC32-Castagnoli checksum of the output.
	Checksum uint32
	// Unchanged is set when the output already held the rendered page and
	// was left untouched.
	Unchanged bool
	// Assets lists the runtime files written next to the output.
	Assets []string
}

// Builder turns a project directory into its output page.
type Builder struct {
	dir      string
	logger   logging.Logger
	out      io.Writer
	renderer *render.Renderer
	metrics  *Metrics
}

// NewBuilder creates a builder for the project in dir. Status lines are
// written to out (os.Stdout when nil).
func NewBuilder(dir string, logger logging.Logger, out io.Writer) *Builder {
	if logger == nil {
		logger = logging.Nop()
	}
	if out == nil {
		out = os.Stdout
	}
	logger = logger.WithComponent("build")

	return &Builder{
		dir:      dir,
		logger:   logger,
		out:      out,
		renderer: render.NewRenderer(logger),
		metrics:  NewMetrics(),
	}
}

// Metrics returns the builder's build counters.
func (b *Builder) Metrics() *Metrics {
	return b.metrics
}

// Dir returns the project directory.
func (b *Builder) Dir() string {
	return b.dir
}

// SiteSlots returns the metadata slots for site.
func SiteSlots(site config.SiteConfig) []render.Slot {
	return []render.Slot{
		render.Value(SlotSiteTitle, site.Title),
		render.Value(SlotSiteDescription, site.Description),
		render.Value(SlotSiteKeywords, site.Keywords),
		render.Value(SlotSiteURL, site.URL),
		render.Value(SlotOGImage, site.OGImage),
	}
}

// Slots returns every slot a build fills for cfg.
func Slots(cfg *config.Config) []render.Slot {
	return append(SiteSlots(cfg.Site), tracking.Slots(cfg.Analytics)...)
}

// Build runs the pipeline once: load configuration, render the template and
// write the output file.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	op := logging.StartOperation(b.logger, "build")

	res, err := b.build(ctx)
	if err != nil {
		b.metrics.RecordBuild(nil, err, op.EndWithError(ctx, err))
		return nil, err
	}
	res.Duration = op.End(ctx)
	b.metrics.RecordBuild(res, nil, res.Duration)

	b.report(res)
	return res, nil
}

func (b *Builder) build(ctx context.Context) (*Result, error) {
	if _, local := config.Resolve(b.dir); local {
		fmt.Fprintln(b.out, "📋 Using local configuration file")
	} else {
		fmt.Fprintln(b.out, "📋 Using default configuration file")
	}

	cfg, err := config.Load(b.dir)
	if err != nil {
		return nil, err
	}
	for _, w := range cfg.Warnings() {
		b.logger.Warn(ctx, nil, w, "config", cfg.Source)
	}

	templatePath := cfg.TemplatePath(b.dir)
	tmpl, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, siteerrors.ErrFileNotFound(templatePath, err)
		}
		return nil, siteerrors.WrapIO(err, siteerrors.ErrCodeFileNotFound, "failed to read template", templatePath)
	}

	slots := Slots(cfg)
	html, err := b.renderer.Render(ctx, string(tmpl), slots...)
	if err != nil {
		return nil, siteerrors.WrapBuild(err, siteerrors.ErrCodeRenderFailed, "failed to render template")
	}

	unresolved := render.Unresolved(string(tmpl), slots...)
	if len(unresolved) > 0 {
		b.logger.Warn(ctx, nil, "Template contains placeholders without a value",
			"template", templatePath, "placeholders", unresolved)
	}

	outputPath := cfg.OutputPath(b.dir)
	unchanged := sameContent(outputPath, []byte(html))
	if unchanged {
		b.logger.Debug(ctx, "Output unchanged", "path", outputPath)
	} else {
		if err := writeOutput(outputPath, []byte(html)); err != nil {
			return nil, err
		}
		b.logger.Debug(ctx, "Wrote output", "path", outputPath, "bytes", len(html))
	}

	written, err := b.writeAssets(ctx, filepath.Dir(outputPath))
	if err != nil {
		return nil, err
	}

	return &Result{
		Config:     cfg,
		ConfigFile: cfg.Source,
		Template:   templatePath,
		Output:     outputPath,
		Bytes:      len(html),
		Unresolved: unresolved,
		Analytics:  tracking.Summarize(cfg.Analytics),
		Checksum:   contentHash([]byte(html)),
		Unchanged:  unchanged,
		Assets:     written,
	}, nil
}

// writeAssets copies the embedded runtime files into dir/js. Files that
// already hold the embedded bytes are left alone.
func (b *Builder) writeAssets(ctx context.Context, dir string) ([]string, error) {
	files, err := assets.Files()
	if err != nil {
		return nil, siteerrors.WrapBuild(err, siteerrors.ErrCodeInternalError, "failed to read embedded assets")
	}
	if !assets.Has(assets.BehaviorWasm) {
		b.logger.Warn(ctx, nil, "Page behaviors are not embedded; run go generate ./internal/assets",
			"asset", assets.BehaviorWasm)
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, assets.Dir, f.Name)
		paths = append(paths, path)
		if sameContent(path, f.Data) {
			continue
		}
		if err := writeOutput(path, f.Data); err != nil {
			return nil, err
		}
		b.logger.Debug(ctx, "Wrote asset", "path", path, "bytes", len(f.Data))
	}
	return paths, nil
}

// writeOutput replaces path atomically.
func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return siteerrors.WrapIO(err, siteerrors.ErrCodeWriteFailed, "failed to create output directory", filepath.Dir(path))
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return siteerrors.WrapIO(err, siteerrors.ErrCodeWriteFailed, "failed to create output file", path)
	}
	defer pending.Cleanup()

	if _, err := pending.Write(data); err != nil {
		return siteerrors.WrapIO(err, siteerrors.ErrCodeWriteFailed, "failed to write output", path)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return siteerrors.WrapIO(err, siteerrors.ErrCodeWriteFailed, "failed to replace output", path)
	}

	return nil
}

func (b *Builder) report(res *Result) {
	fmt.Fprintln(b.out, "✅ HTML built successfully with analytics configuration")
	fmt.Fprintf(b.out, "📊 Analytics enabled: %t\n", res.Analytics.Enabled)
	if res.Analytics.Enabled {
		fmt.Fprintf(b.out, "🔍 Google Analytics: %s\n", tracking.Label(res.Analytics.GoogleAnalytics))
		fmt.Fprintf(b.out, "📘 Facebook Pixel: %s\n", tracking.Label(res.Analytics.FacebookPixel))
	}
}
