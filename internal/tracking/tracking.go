// Package tracking renders the third-party analytics snippets a page may
// carry. Each snippet is a render.Slot that yields either the vendor loader
// with the configured identifier interpolated, or an HTML comment marking the
// service as disabled.
package tracking

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/pagesmith/internal/config"
	"github.com/conneroisu/pagesmith/internal/render"
)

const (
	GoogleAnalyticsSlot = "GOOGLE_ANALYTICS"
	FacebookPixelSlot   = "FACEBOOK_PIXEL"

	GoogleAnalyticsDisabled = "Google Analytics disabled"
	FacebookPixelDisabled   = "Facebook Pixel disabled"

	// Loader URLs, used to recognize rendered snippets.
	GoogleAnalyticsLoader = "https://www.googletagmanager.com/gtag/js"
	FacebookPixelLoader   = "https://connect.facebook.net/en_US/fbevents.js"
)

// GoogleAnalyticsScript returns the gtag.js loader for id. The identifier is
// escaped for each context it appears in; identifiers made of letters,
// digits and dashes come out unchanged.
func GoogleAnalyticsScript(id string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return writeAll(w, `
    <!-- Google Analytics -->
    <script async src="`, GoogleAnalyticsLoader, `?id=`, queryAttr(id), `"></script>
    <script>
        window.dataLayer = window.dataLayer || [];
        function gtag(){dataLayer.push(arguments);}
        gtag('js', new Date());
        gtag('config', '`, jsString(id), `');
    </script>`)
	})
}

// FacebookPixelScript returns the Meta pixel loader for id, escaped the same
// way as GoogleAnalyticsScript.
func FacebookPixelScript(id string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return writeAll(w, `
    <!-- Facebook Pixel -->
    <script>
        !function(f,b,e,v,n,t,s)
        {if(f.fbq)return;n=f.fbq=function(){n.callMethod?
        n.callMethod.apply(n,arguments):n.queue.push(arguments)};
        if(!f._fbq)f._fbq=n;n.push=n;n.loaded=!0;n.version='2.0';
        n.queue=[];t=b.createElement(e);t.async=!0;
        t.src=v;s=b.getElementsByTagName(e)[0];
        s.parentNode.insertBefore(t,s)}(window, document,'script',
        '`, FacebookPixelLoader, `');
        fbq('init', '`, jsString(id), `');
        fbq('track', 'PageView');
    </script>
    <noscript><img height="1" width="1" style="display:none"
        src="https://www.facebook.com/tr?id=`, queryAttr(id), `&ev=PageView&noscript=1"
    /></noscript>`)
	})
}

// jsEscaper makes a value safe inside a single-quoted script string.
var jsEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`<`, `\x3c`,
	`>`, `\x3e`,
	`&`, `\x26`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

func jsString(s string) string {
	return jsEscaper.Replace(s)
}

// queryAttr encodes s as a query value inside a double-quoted attribute.
func queryAttr(s string) string {
	return templ.EscapeString(url.QueryEscape(s))
}

func writeAll(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	return nil
}

// GoogleAnalytics returns the GOOGLE_ANALYTICS slot for a.
func GoogleAnalytics(a config.AnalyticsConfig) render.Slot {
	return render.Toggle(GoogleAnalyticsSlot,
		a.GoogleAnalyticsEnabled,
		func() templ.Component { return GoogleAnalyticsScript(a.GoogleAnalyticsID) },
		func() templ.Component { return render.Comment(GoogleAnalyticsDisabled) },
	)
}

// FacebookPixel returns the FACEBOOK_PIXEL slot for a.
func FacebookPixel(a config.AnalyticsConfig) render.Slot {
	return render.Toggle(FacebookPixelSlot,
		a.FacebookPixelEnabled,
		func() templ.Component { return FacebookPixelScript(a.FacebookPixelID) },
		func() templ.Component { return render.Comment(FacebookPixelDisabled) },
	)
}

// Slots returns every tracking slot for a.
func Slots(a config.AnalyticsConfig) []render.Slot {
	return []render.Slot{GoogleAnalytics(a), FacebookPixel(a)}
}

// Status summarizes which services a build configured.
type Status struct {
	Enabled         bool `json:"enabled"`
	GoogleAnalytics bool `json:"google_analytics"`
	FacebookPixel   bool `json:"facebook_pixel"`
}

// Summarize reports configured services. A service counts as configured
// when its identifier is set, independent of the enabled flag.
func Summarize(a config.AnalyticsConfig) Status {
	return Status{
		Enabled:         a.Enabled,
		GoogleAnalytics: a.GoogleAnalyticsID != "",
		FacebookPixel:   a.FacebookPixelID != "",
	}
}

// Detect reports which loaders a rendered page contains.
func Detect(page string) Status {
	s := Status{
		GoogleAnalytics: strings.Contains(page, GoogleAnalyticsLoader),
		FacebookPixel:   strings.Contains(page, FacebookPixelLoader),
	}
	s.Enabled = s.GoogleAnalytics || s.FacebookPixel
	return s
}

// Label renders a configured flag the way build output prints it.
func Label(configured bool) string {
	if configured {
		return "Configured"
	}
	return "Not configured"
}
