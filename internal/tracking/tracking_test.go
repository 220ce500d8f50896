package tracking

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/pagesmith/internal/config"
	"github.com/conneroisu/pagesmith/internal/render"
)

const head = `<head>{{GOOGLE_ANALYTICS}}{{FACEBOOK_PIXEL}}</head>`

const wantGtag = `
    <!-- Google Analytics -->
    <script async src="https://www.googletagmanager.com/gtag/js?id=G-ABC123"></script>
    <script>
        window.dataLayer = window.dataLayer || [];
        function gtag(){dataLayer.push(arguments);}
        gtag('js', new Date());
        gtag('config', 'G-ABC123');
    </script>`

const wantPixel = `
    <!-- Facebook Pixel -->
    <script>
        !function(f,b,e,v,n,t,s)
        {if(f.fbq)return;n=f.fbq=function(){n.callMethod?
        n.callMethod.apply(n,arguments):n.queue.push(arguments)};
        if(!f._fbq)f._fbq=n;n.push=n;n.loaded=!0;n.version='2.0';
        n.queue=[];t=b.createElement(e);t.async=!0;
        t.src=v;s=b.getElementsByTagName(e)[0];
        s.parentNode.insertBefore(t,s)}(window, document,'script',
        'https://connect.facebook.net/en_US/fbevents.js');
        fbq('init', '1234567890');
        fbq('track', 'PageView');
    </script>
    <noscript><img height="1" width="1" style="display:none"
        src="https://www.facebook.com/tr?id=1234567890&ev=PageView&noscript=1"
    /></noscript>`

func renderComponent(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func renderHead(t *testing.T, a config.AnalyticsConfig) string {
	t.Helper()
	out, err := render.NewRenderer(nil).Render(context.Background(), head, Slots(a)...)
	require.NoError(t, err)
	return out
}

func TestDisabledAnalyticsRendersComments(t *testing.T) {
	out := renderHead(t, config.AnalyticsConfig{
		Enabled:           false,
		GoogleAnalyticsID: "G-SHOULDNOTAPPEAR",
		FacebookPixelID:   "555",
	})

	assert.Contains(t, out, "<!-- Google Analytics disabled -->")
	assert.Contains(t, out, "<!-- Facebook Pixel disabled -->")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "G-SHOULDNOTAPPEAR")
}

func TestEnabledAnalyticsRendersBothSnippets(t *testing.T) {
	out := renderHead(t, config.AnalyticsConfig{
		Enabled:           true,
		GoogleAnalyticsID: "G-ABC123",
		FacebookPixelID:   "1234567890",
	})

	assert.Contains(t, out, `https://www.googletagmanager.com/gtag/js?id=G-ABC123`)
	assert.Contains(t, out, `gtag('config', 'G-ABC123');`)
	assert.Contains(t, out, `fbq('init', '1234567890');`)
	assert.Contains(t, out, `https://www.facebook.com/tr?id=1234567890&ev=PageView&noscript=1`)
	assert.NotContains(t, out, "disabled -->")
	assert.NotContains(t, out, "%ID%")
}

func TestScriptsMatchVendorSnippets(t *testing.T) {
	assert.Equal(t, wantGtag, renderComponent(t, GoogleAnalyticsScript("G-ABC123")))
	assert.Equal(t, wantPixel, renderComponent(t, FacebookPixelScript("1234567890")))
	assert.Equal(t, "<head>"+wantGtag+wantPixel+"</head>", renderHead(t, config.AnalyticsConfig{
		Enabled:           true,
		GoogleAnalyticsID: "G-ABC123",
		FacebookPixelID:   "1234567890",
	}))
}

func TestScriptsEscapeIdentifiers(t *testing.T) {
	hostile := `G-1'</script><script>alert("x")//`

	tests := []struct {
		name   string
		script templ.Component
		want   []string
	}{
		{
			name:   "gtag",
			script: GoogleAnalyticsScript(hostile),
			want: []string{
				`gtag('config', 'G-1\'\x3c/script\x3e\x3cscript\x3ealert(\"x\")//');`,
				`gtag/js?id=G-1%27%3C%2Fscript%3E%3Cscript%3Ealert%28%22x%22%29%2F%2F"`,
			},
		},
		{
			name:   "pixel",
			script: FacebookPixelScript(hostile),
			want: []string{
				`fbq('init', 'G-1\'\x3c/script\x3e\x3cscript\x3ealert(\"x\")//');`,
				`tr?id=G-1%27%3C%2Fscript%3E%3Cscript%3Ealert%28%22x%22%29%2F%2F&ev=PageView`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderComponent(t, tt.script)
			assert.NotContains(t, out, "<script>alert")
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestEnabledWithoutIdentifierIsDisabled(t *testing.T) {
	out := renderHead(t, config.AnalyticsConfig{Enabled: true, GoogleAnalyticsID: "G-ONLY"})

	assert.Contains(t, out, "G-ONLY")
	assert.Contains(t, out, "<!-- Facebook Pixel disabled -->")
	assert.Equal(t, 0, strings.Count(out, "fbq("))
}

func TestSlotNames(t *testing.T) {
	slots := Slots(config.AnalyticsConfig{})
	require.Len(t, slots, 2)
	assert.Equal(t, GoogleAnalyticsSlot, slots[0].Name())
	assert.Equal(t, FacebookPixelSlot, slots[1].Name())
}

func TestSummarize(t *testing.T) {
	s := Summarize(config.AnalyticsConfig{Enabled: true, GoogleAnalyticsID: "G-1"})
	assert.True(t, s.Enabled)
	assert.True(t, s.GoogleAnalytics)
	assert.False(t, s.FacebookPixel)

	assert.Equal(t, "Configured", Label(s.GoogleAnalytics))
	assert.Equal(t, "Not configured", Label(s.FacebookPixel))
}

func TestDetect(t *testing.T) {
	both := renderHead(t, config.AnalyticsConfig{Enabled: true, GoogleAnalyticsID: "G-1", FacebookPixelID: "2"})
	assert.Equal(t, Status{Enabled: true, GoogleAnalytics: true, FacebookPixel: true}, Detect(both))

	gaOnly := renderHead(t, config.AnalyticsConfig{Enabled: true, GoogleAnalyticsID: "G-1"})
	assert.Equal(t, Status{Enabled: true, GoogleAnalytics: true}, Detect(gaOnly))

	assert.Equal(t, Status{}, Detect(renderHead(t, config.AnalyticsConfig{})))
}
