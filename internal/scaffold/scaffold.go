// Package scaffold creates a new pagesmith project: a default configuration,
// a starter template containing every placeholder and the element ids the
// page behaviors look for, and a stylesheet.
package scaffold

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/pagesmith/internal/config"
	siteerrors "github.com/conneroisu/pagesmith/internal/errors"
)

//go:embed templates/index.template.html
var starterTemplate string

//go:embed templates/styles.css
var starterStyles string

// ignoredLocal is the .gitignore entry that keeps the local override out of
// version control.
const ignoredLocal = config.LocalFile

// Template returns the embedded starter template.
func Template() string {
	return starterTemplate
}

// Options controls project generation.
type Options struct {
	Dir   string
	Title string // derived from Dir when empty
	Force bool   // overwrite existing files
}

// File is one generated file.
type File struct {
	Path    string
	Content []byte
	// Merge marks files whose existing copy is extended instead of
	// replaced. Such files never conflict.
	Merge bool
}

// TitleFromDir turns a directory name such as "acme-rockets" into "Acme Rockets".
func TitleFromDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	base := filepath.Base(abs)
	base = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return "My Site"
	}
	return cases.Title(language.English).String(base)
}

// DefaultConfig returns the starter configuration for title.
func DefaultConfig(title string) config.Config {
	return config.Config{
		Site: config.SiteConfig{
			Title:       title,
			Description: title + " - built with pagesmith",
			Keywords:    strings.ToLower(title),
			URL:         "https://example.com",
			OGImage:     "https://example.com/og-image.png",
		},
		Analytics: config.AnalyticsConfig{
			Enabled: false,
		},
		Build: config.BuildConfig{
			Template: config.DefaultTemplate,
			Output:   config.DefaultOutput,
		},
	}
}

// Files returns the files a project consists of, relative to the project dir.
func Files(opts Options) ([]File, error) {
	title := opts.Title
	if title == "" {
		title = TitleFromDir(opts.Dir)
	}

	cfg, err := json.MarshalIndent(DefaultConfig(title), "", "  ")
	if err != nil {
		return nil, siteerrors.NewInternalError(siteerrors.ErrCodeInternalError, "encode starter config", err)
	}

	return []File{
		{Path: config.DefaultFile, Content: append(cfg, '\n')},
		{Path: config.DefaultTemplate, Content: []byte(starterTemplate)},
		{Path: filepath.Join(filepath.Dir(config.DefaultOutput), "css", "styles.css"), Content: []byte(starterStyles)},
		{Path: ".gitignore", Content: []byte(ignoredLocal + "\n"), Merge: true},
	}, nil
}

// Generate writes the project into opts.Dir, reporting each file on out.
// Existing files are left alone unless opts.Force is set; the first conflict
// aborts before anything is written.
func Generate(opts Options, out io.Writer) ([]string, error) {
	if out == nil {
		out = io.Discard
	}
	files, err := Files(opts)
	if err != nil {
		return nil, err
	}

	if !opts.Force {
		for _, f := range files {
			if f.Merge {
				continue
			}
			path := filepath.Join(opts.Dir, f.Path)
			if _, err := os.Stat(path); err == nil {
				return nil, siteerrors.NewValidationError(siteerrors.ErrCodeScaffoldExists,
					"file already exists (use --force to overwrite)").WithFile(path)
			}
		}
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(opts.Dir, f.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, siteerrors.WrapIO(err, siteerrors.ErrCodeWriteFailed, "failed to create directory", filepath.Dir(path))
		}
		if f.Merge {
			if _, err := os.Stat(path); err == nil {
				updated, err := ensureIgnored(path, ignoredLocal)
				if err != nil {
					return written, err
				}
				if updated {
					fmt.Fprintf(out, "✅ Updated %s\n", path)
					written = append(written, path)
				}
				continue
			}
		}
		if err := os.WriteFile(path, f.Content, 0o644); err != nil {
			return written, siteerrors.WrapIO(err, siteerrors.ErrCodeWriteFailed, "failed to write file", path)
		}
		fmt.Fprintf(out, "✅ Created %s\n", path)
		written = append(written, path)
	}

	return written, nil
}

// ensureIgnored appends entry to the .gitignore at path unless a line
// already names it. It reports whether the file changed.
func ensureIgnored(path, entry string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, siteerrors.WrapIO(err, siteerrors.ErrCodeWriteFailed, "failed to read file", path)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == entry || line == "/"+entry {
			return false, nil
		}
	}

	var b strings.Builder
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		b.WriteString("\n")
	}
	b.WriteString(entry)
	b.WriteString("\n")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return false, siteerrors.WrapIO(err, siteerrors.ErrCodeWriteFailed, "failed to open file", path)
	}
	defer f.Close()
	if _, err := f.WriteString(b.String()); err != nil {
		return false, siteerrors.WrapIO(err, siteerrors.ErrCodeWriteFailed, "failed to write file", path)
	}
	return true, nil
}
