//go:build property

package build

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/pagesmith/internal/config"
)

// TestBuildProperties validates properties of repeated builds
func TestBuildProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1234) // For reproducible results
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	project := func(title string, gaID string) (string, error) {
		dir, err := os.MkdirTemp("", "pagesmith-build-prop")
		if err != nil {
			return "", err
		}
		cfg := config.Config{
			Site: config.SiteConfig{Title: title},
			Analytics: config.AnalyticsConfig{
				Enabled:           gaID != "",
				GoogleAnalyticsID: gaID,
			},
		}
		data, err := json.Marshal(cfg)
		if err != nil {
			return dir, err
		}
		if err := os.WriteFile(filepath.Join(dir, config.DefaultFile), data, 0o644); err != nil {
			return dir, err
		}
		tmpl := filepath.Join(dir, config.DefaultTemplate)
		if err := os.MkdirAll(filepath.Dir(tmpl), 0o755); err != nil {
			return dir, err
		}
		return dir, os.WriteFile(tmpl, []byte("<title>{{SITE_TITLE}}</title>{{GOOGLE_ANALYTICS}}"), 0o644)
	}

	// Property: a second build with no input changes leaves the output alone
	properties.Property("rebuild is idempotent", prop.ForAll(
		func(title, gaID string) bool {
			dir, err := project(title, gaID)
			defer os.RemoveAll(dir)
			if err != nil {
				return false
			}

			b := NewBuilder(dir, nil, io.Discard)
			first, err := b.Build(context.Background())
			if err != nil || first.Unchanged {
				return false
			}
			second, err := b.Build(context.Background())
			if err != nil {
				return false
			}
			return second.Unchanged && second.Checksum == first.Checksum
		},
		gen.AlphaString(),
		gen.OneConstOf("", "G-ABC123", "G-XYZ999"),
	))

	// Property: every known placeholder is consumed
	properties.Property("known placeholders are replaced", prop.ForAll(
		func(title, gaID string) bool {
			dir, err := project(title, gaID)
			defer os.RemoveAll(dir)
			if err != nil {
				return false
			}

			res, err := NewBuilder(dir, nil, io.Discard).Build(context.Background())
			if err != nil {
				return false
			}
			html, err := os.ReadFile(res.Output)
			if err != nil {
				return false
			}
			page := string(html)
			return !strings.Contains(page, "{{") &&
				strings.Contains(page, "<title>"+title+"</title>") &&
				res.Analytics.GoogleAnalytics == (gaID != "")
		},
		gen.AlphaString(),
		gen.OneConstOf("", "G-ABC123", "G-XYZ999"),
	))

	properties.TestingRun(t)
}
