// Package config loads pagesmith project configuration using Viper.
//
// A project directory holds config.json and, optionally, config.local.json.
// When the local file exists it is used instead of the default one (the two
// are not merged). The document carries the site metadata substituted into
// the template and the analytics identifiers that decide which tracking
// snippets are rendered. Build paths are optional and defaulted.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	siteerrors "github.com/conneroisu/pagesmith/internal/errors"
)

const (
	// LocalFile takes precedence over DefaultFile when present.
	LocalFile = "config.local.json"
	// DefaultFile is the checked-in project configuration.
	DefaultFile = "config.json"

	DefaultTemplate = "src/index.template.html"
	DefaultOutput   = "dist/index.html"
)

type Config struct {
	Site      SiteConfig      `mapstructure:"site" json:"site" yaml:"site"`
	Analytics AnalyticsConfig `mapstructure:"analytics" json:"analytics" yaml:"analytics"`
	Build     BuildConfig     `mapstructure:"build" json:"build" yaml:"build"`

	// Source is the file the configuration was read from.
	Source string `mapstructure:"-" json:"-" yaml:"-"`
	// Local is true when Source is the local override.
	Local bool `mapstructure:"-" json:"-" yaml:"-"`
}

type SiteConfig struct {
	Title       string `mapstructure:"title" json:"title" yaml:"title"`
	Description string `mapstructure:"description" json:"description" yaml:"description"`
	Keywords    string `mapstructure:"keywords" json:"keywords" yaml:"keywords"`
	URL         string `mapstructure:"url" json:"url" yaml:"url"`
	OGImage     string `mapstructure:"ogImage" json:"ogImage" yaml:"ogImage"`
}

type AnalyticsConfig struct {
	Enabled           bool   `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	GoogleAnalyticsID string `mapstructure:"googleAnalyticsId" json:"googleAnalyticsId,omitempty" yaml:"googleAnalyticsId,omitempty"`
	FacebookPixelID   string `mapstructure:"facebookPixelId" json:"facebookPixelId,omitempty" yaml:"facebookPixelId,omitempty"`
}

// GoogleAnalyticsEnabled reports whether the gtag snippet should be rendered.
func (a AnalyticsConfig) GoogleAnalyticsEnabled() bool {
	return a.Enabled && a.GoogleAnalyticsID != ""
}

// FacebookPixelEnabled reports whether the pixel snippet should be rendered.
func (a AnalyticsConfig) FacebookPixelEnabled() bool {
	return a.Enabled && a.FacebookPixelID != ""
}

type BuildConfig struct {
	Template string `mapstructure:"template" json:"template" yaml:"template"`
	Output   string `mapstructure:"output" json:"output" yaml:"output"`
}

// Files returns the configuration files that may participate in a build,
// local override first.
func Files(dir string) []string {
	return []string{filepath.Join(dir, LocalFile), filepath.Join(dir, DefaultFile)}
}

// Resolve picks the configuration file for dir: the local override when it
// exists, the default file otherwise. The default file is returned even when
// it does not exist so that the read error names it.
func Resolve(dir string) (path string, local bool) {
	files := Files(dir)
	if _, err := os.Stat(files[0]); err == nil {
		return files[0], true
	}
	return files[1], false
}

// Load reads the project configuration from dir.
func Load(dir string) (*Config, error) {
	path, local := Resolve(dir)

	if _, err := os.Stat(path); err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.ErrorTypeConfig, siteerrors.ErrCodeConfigMissing,
			"configuration file not found").WithFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, siteerrors.WrapIO(err, siteerrors.ErrCodeFileNotFound, "failed to read configuration", path)
	}

	// Required keys are checked on the raw document: viper folds key case.
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, siteerrors.WrapConfig(err, siteerrors.ErrCodeConfigMalformed, "failed to parse configuration", path)
	}
	if err := checkRequired(doc, path); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, siteerrors.WrapConfig(err, siteerrors.ErrCodeConfigMalformed, "failed to parse configuration", path)
	}

	cfg, err := decode(v, path)
	if err != nil {
		return nil, err
	}
	cfg.Source = path
	cfg.Local = local

	return cfg, nil
}

// decode fills a Config from an already-read viper instance and applies the
// build path defaults.
func decode(v *viper.Viper, path string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, siteerrors.WrapConfig(err, siteerrors.ErrCodeConfigMalformed, "failed to decode configuration", path)
	}

	if cfg.Build.Template == "" {
		cfg.Build.Template = DefaultTemplate
	}
	if cfg.Build.Output == "" {
		cfg.Build.Output = DefaultOutput
	}

	return &cfg, nil
}

// TemplatePath resolves the template path against the project directory.
func (c *Config) TemplatePath(dir string) string {
	return resolvePath(dir, c.Build.Template)
}

// OutputPath resolves the output path against the project directory.
func (c *Config) OutputPath(dir string) string {
	return resolvePath(dir, c.Build.Output)
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
