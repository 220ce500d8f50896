// Package validation checks URLs before they reach a shell or an HTML
// attribute.
package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// shellMeta are characters that must never reach a system command.
const shellMeta = ";&|`$()<>\"'\\\n\r "

// attributeMeta are characters that would break out of a quoted attribute.
const attributeMeta = "\"'<>\n\r\t "

func parseHTTP(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme: %q (only http/https allowed)", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("URL must have a valid hostname")
	}
	return parsed, nil
}

// ValidateURL checks a URL before it is handed to the platform browser
// opener.
func ValidateURL(rawURL string) error {
	if i := strings.IndexAny(rawURL, shellMeta); i >= 0 {
		return fmt.Errorf("URL contains dangerous character: %q", rawURL[i])
	}
	_, err := parseHTTP(rawURL)
	return err
}

// ValidateAttributeURL checks a configured URL that is substituted into
// page markup such as <link rel="canonical"> or og:image.
func ValidateAttributeURL(rawURL string) error {
	if i := strings.IndexAny(rawURL, attributeMeta); i >= 0 {
		return fmt.Errorf("URL contains character not allowed in markup: %q", rawURL[i])
	}
	_, err := parseHTTP(rawURL)
	return err
}
