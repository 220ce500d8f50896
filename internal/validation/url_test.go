package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		expectErr bool
	}{
		{"http with port", "http://127.0.0.1:3000", false},
		{"https with path", "https://example.com/path/to/resource", false},
		{"query", "https://example.com?param=value", false},
		{"javascript scheme", "javascript:alert(1)", true},
		{"file scheme", "file:///etc/passwd", true},
		{"no host", "http://", true},
		{"relative", "not-a-url", true},
		{"command separator", "http://localhost:3000; rm -rf /", true},
		{"pipe", "http://localhost:3000|nc host 4444", true},
		{"backtick", "http://localhost:3000`whoami`", true},
		{"subshell", "http://localhost:3000$(id)", true},
		{"ampersand", "http://localhost:3000/?a=1&b=2", true},
		{"newline", "http://localhost:3000\nGET /", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAttributeURL(t *testing.T) {
	valid := []string{
		"https://example.com",
		"https://cdn.example.com/og.png?w=1200&h=630",
		"http://localhost:3000/#home",
	}
	for _, u := range valid {
		assert.NoError(t, ValidateAttributeURL(u), u)
	}

	invalid := []string{
		`https://example.com/"><script>alert(1)</script>`,
		"https://example.com/a b.png",
		"og-image.png",
		"/images/og.png",
		"ftp://example.com/og.png",
		"javascript:alert(1)",
	}
	for _, u := range invalid {
		assert.Error(t, ValidateAttributeURL(u), u)
	}
}
