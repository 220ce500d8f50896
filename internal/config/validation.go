package config

import (
	"fmt"
	"strings"

	siteerrors "github.com/conneroisu/pagesmith/internal/errors"
	"github.com/conneroisu/pagesmith/internal/validation"
)

// requiredKeys must be present in the configuration document. Values may be
// empty strings; absence is an error because nothing sensible can be
// substituted in their place.
var requiredKeys = []string{
	"site",
	"site.title",
	"site.description",
	"site.keywords",
	"site.url",
	"site.ogImage",
	"analytics",
}

// checkRequired fails on the first missing required key, in declaration
// order. Keys match case-sensitively. analytics.enabled, when present and
// not null, must be a JSON boolean.
func checkRequired(doc map[string]any, path string) error {
	for _, key := range requiredKeys {
		if _, ok := lookup(doc, key); !ok {
			return siteerrors.ErrMissingField(path, key)
		}
	}

	if enabled, ok := lookup(doc, "analytics.enabled"); ok && enabled != nil {
		if _, isBool := enabled.(bool); !isBool {
			return siteerrors.NewConfigError(siteerrors.ErrCodeConfigField,
				fmt.Sprintf("analytics.enabled must be true or false, got %T", enabled)).
				WithFile(path).
				WithContext("field", "analytics.enabled")
		}
	}
	return nil
}

// lookup resolves a dotted key in a decoded JSON document.
func lookup(doc map[string]any, key string) (any, bool) {
	var cur any = doc
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Warnings reports configuration that is legal but probably unintended.
func (c *Config) Warnings() []string {
	var warnings []string

	a := c.Analytics
	if a.Enabled && a.GoogleAnalyticsID == "" && a.FacebookPixelID == "" {
		warnings = append(warnings, "analytics is enabled but no tracking identifiers are configured")
	}
	if !a.Enabled && (a.GoogleAnalyticsID != "" || a.FacebookPixelID != "") {
		warnings = append(warnings, "tracking identifiers are configured but analytics is disabled")
	}

	for _, f := range []struct{ key, value string }{
		{"site.url", c.Site.URL},
		{"site.ogImage", c.Site.OGImage},
	} {
		if f.value == "" {
			continue
		}
		if err := validation.ValidateAttributeURL(f.value); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", f.key, err))
		}
	}

	return warnings
}
