package behavior_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/pagesmith/internal/behavior"
	"github.com/conneroisu/pagesmith/internal/dom"
)

type mockGtag struct {
	mock.Mock
}

func (m *mockGtag) Event(name string, params map[string]any) {
	m.Called(name, params)
}

type mockPixel struct {
	mock.Mock
}

func (m *mockPixel) Track(event string) {
	m.Called(event)
}

const landing = `<!DOCTYPE html>
<html><head><title>t</title></head>
<body>
<nav>
  <a href="#features">Features</a>
  <a href="#nowhere">Nowhere</a>
  <a href="#">Top</a>
  <button id="mobile-menu-button">Menu</button>
  <div id="mobile-menu" class="hidden"><a href="#features">Features</a></div>
</nav>
<section id="hero">
  <button class="btn-primary">Start</button>
  <button class="btn-secondary">More</button>
  <button class="plain">Plain</button>
</section>
<section id="features"><div class="card">A</div><div class="card">B</div></section>
<form>
  <input name="name"><input name="email"><textarea name="message"></textarea>
  <button type="submit">Send</button>
</form>
</body></html>`

type page struct {
	doc    *dom.Document
	win    *dom.Window
	report *behavior.Report
}

func attach(t *testing.T, src string, a behavior.Analytics) *page {
	t.Helper()
	doc, err := dom.ParseString(src)
	require.NoError(t, err)
	win := dom.NewWindow(doc)
	return &page{doc: doc, win: win, report: behavior.Attach(doc, win, a)}
}

func TestAttachReportsEveryBehavior(t *testing.T) {
	p := attach(t, landing, behavior.Analytics{})

	assert.ElementsMatch(t, []string{
		behavior.MobileMenu, behavior.SmoothScroll, behavior.ContactForm, behavior.FadeIn,
		behavior.NavShadow, behavior.CTATracking, behavior.LoadTiming,
	}, p.report.Attached)
	assert.Empty(t, p.report.Skipped)
	assert.Empty(t, p.report.Failed)
	assert.Contains(t, p.doc.String(), ".animate-fade-in")
}

func TestAttachSkipsMissingElements(t *testing.T) {
	p := attach(t, `<html><body><p>bare</p></body></html>`, behavior.Analytics{})

	assert.ElementsMatch(t, []string{
		behavior.MobileMenu, behavior.SmoothScroll, behavior.ContactForm,
		behavior.FadeIn, behavior.NavShadow,
	}, p.report.Skipped)
	assert.True(t, p.report.Has(behavior.CTATracking))
	assert.True(t, p.report.Has(behavior.LoadTiming))

	p.doc.Click(p.doc.Find("p"))
	p.win.ScrollTo(100)
	p.win.Load(behavior.NavigationTiming{NavigationStart: 1, LoadEventEnd: 2})
}

func TestMobileMenuToggles(t *testing.T) {
	p := attach(t, landing, behavior.Analytics{})
	menu := p.doc.ByID("mobile-menu")
	button := p.doc.ByID("mobile-menu-button")

	p.doc.Click(button)
	assert.False(t, menu.HasClass("hidden"))
	p.doc.Click(button)
	assert.True(t, menu.HasClass("hidden"))
}

func TestSmoothScroll(t *testing.T) {
	p := attach(t, landing, behavior.Analytics{})
	menu := p.doc.ByID("mobile-menu")
	features := p.doc.ByID("features")

	p.doc.Click(p.doc.ByID("mobile-menu-button"))
	require.False(t, menu.HasClass("hidden"))

	ev := p.doc.Click(p.doc.Find(`a[href="#features"]`))
	assert.True(t, ev.DefaultPrevented())

	opts, ok := features.ScrolledInto()
	require.True(t, ok)
	assert.Equal(t, behavior.ScrollOptions{Behavior: "smooth", Block: "start"}, opts)
	assert.True(t, menu.HasClass("hidden"))
}

func TestSmoothScrollMissingTarget(t *testing.T) {
	p := attach(t, landing, behavior.Analytics{})
	menu := p.doc.ByID("mobile-menu")
	p.doc.Click(p.doc.ByID("mobile-menu-button"))

	for _, href := range []string{"#nowhere", "#"} {
		ev := p.doc.Click(p.doc.Find(`a[href="` + href + `"]`))
		assert.True(t, ev.DefaultPrevented(), href)
	}

	assert.False(t, menu.HasClass("hidden"))
	assert.Empty(t, p.report.Failed)
}

func TestContactFormValidation(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		alert   string
		tracked bool
	}{
		{
			name:   "empty name",
			fields: map[string]string{"email": "a@b.co", "message": "hi"},
			alert:  behavior.MsgFillAllFields,
		},
		{
			name:   "empty message",
			fields: map[string]string{"name": "Ann", "email": "a@b.co"},
			alert:  behavior.MsgFillAllFields,
		},
		{
			name:   "email without tld",
			fields: map[string]string{"name": "Ann", "email": "foo@bar", "message": "hi"},
			alert:  behavior.MsgInvalidEmail,
		},
		{
			name:    "valid",
			fields:  map[string]string{"name": "Ann", "email": "foo@bar.com", "message": "hi"},
			alert:   behavior.MsgThankYou,
			tracked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gtag := new(mockGtag)
			pixel := new(mockPixel)
			if tt.tracked {
				gtag.On("Event", "form_submit", map[string]any{
					"event_category": "Contact",
					"event_label":    "Contact Form",
				}).Once()
				pixel.On("Track", "Contact").Once()
			}

			p := attach(t, landing, behavior.Analytics{Gtag: gtag, Pixel: pixel})
			form := dom.AsForm(p.doc.Find("form"))
			for k, v := range tt.fields {
				require.True(t, form.Fill(k, v))
			}

			ev := form.Submit()
			assert.True(t, ev.DefaultPrevented())
			assert.Equal(t, []string{tt.alert}, p.win.Alerts())

			if tt.tracked {
				assert.Equal(t, "", form.Value("name"), "form is reset after success")
			} else {
				assert.Equal(t, tt.fields["email"], form.Value("email"), "form keeps input on failure")
			}

			gtag.AssertExpectations(t)
			pixel.AssertExpectations(t)
			if !tt.tracked {
				gtag.AssertNotCalled(t, "Event", mock.Anything, mock.Anything)
				pixel.AssertNotCalled(t, "Track", mock.Anything)
			}
		})
	}
}

func TestContactFormWithoutAnalytics(t *testing.T) {
	p := attach(t, landing, behavior.Analytics{})
	form := dom.AsForm(p.doc.Find("form"))
	form.Fill("name", "Ann")
	form.Fill("email", "ann@example.com")
	form.Fill("message", "hi")

	form.Submit()
	assert.Equal(t, []string{behavior.MsgThankYou}, p.win.Alerts())
	assert.Empty(t, p.report.Failed)
}

func TestFadeIn(t *testing.T) {
	p := attach(t, landing, behavior.Analytics{})

	require.Equal(t, []behavior.ObserverOptions{{Threshold: 0.1, RootMargin: "0px 0px -50px 0px"}}, p.win.Observers())

	cards := p.doc.FindAll(".card")
	p.win.Reveal(cards[0])
	assert.True(t, cards[0].HasClass("animate-fade-in"))
	assert.False(t, cards[1].HasClass("animate-fade-in"))

	p.win.Reveal(p.doc.ByID("hero"))
	assert.True(t, p.doc.ByID("hero").HasClass("animate-fade-in"))

	p.win.Reveal(p.doc.Find("form"))
	assert.False(t, p.doc.Find("form").HasClass("animate-fade-in"))
}

func TestNavShadow(t *testing.T) {
	p := attach(t, landing, behavior.Analytics{})
	nav := p.doc.Find("nav")

	p.win.ScrollTo(50)
	assert.False(t, nav.HasClass("shadow-md"))
	p.win.ScrollTo(51)
	assert.True(t, nav.HasClass("shadow-md"))
	p.win.ScrollTo(0)
	assert.False(t, nav.HasClass("shadow-md"))
}

func TestCTATracking(t *testing.T) {
	t.Run("primary with both services", func(t *testing.T) {
		gtag := new(mockGtag)
		pixel := new(mockPixel)
		gtag.On("Event", "button_click", map[string]any{
			"event_category": "CTA",
			"event_label":    "Primary Button",
		}).Once()
		pixel.On("Track", "button_click").Once()

		p := attach(t, landing, behavior.Analytics{Gtag: gtag, Pixel: pixel})
		p.doc.Click(p.doc.Find(".btn-primary"))

		gtag.AssertExpectations(t)
		pixel.AssertExpectations(t)
		gtag.AssertNumberOfCalls(t, "Event", 1)
		pixel.AssertNumberOfCalls(t, "Track", 1)
	})

	t.Run("secondary with gtag only", func(t *testing.T) {
		gtag := new(mockGtag)
		gtag.On("Event", "button_click", map[string]any{
			"event_category": "CTA",
			"event_label":    "Secondary Button",
		}).Once()

		p := attach(t, landing, behavior.Analytics{Gtag: gtag})
		p.doc.Click(p.doc.Find(".btn-secondary"))

		gtag.AssertNumberOfCalls(t, "Event", 1)
	})

	t.Run("other buttons", func(t *testing.T) {
		gtag := new(mockGtag)
		p := attach(t, landing, behavior.Analytics{Gtag: gtag})
		p.doc.Click(p.doc.Find(".plain"))
		gtag.AssertNotCalled(t, "Event", mock.Anything, mock.Anything)
	})

	t.Run("no services", func(t *testing.T) {
		p := attach(t, landing, behavior.Analytics{})
		assert.NotPanics(t, func() { p.doc.Click(p.doc.Find(".btn-primary")) })
		assert.Empty(t, p.report.Failed)
	})
}

func TestLoadTiming(t *testing.T) {
	var got []map[string]any
	gtag := behavior.GtagFunc(func(name string, params map[string]any) {
		assert.Equal(t, "timing_complete", name)
		got = append(got, params)
	})
	pixel := new(mockPixel)

	p := attach(t, landing, behavior.Analytics{Gtag: gtag, Pixel: pixel})
	p.win.Load(behavior.NavigationTiming{NavigationStart: 1000, LoadEventStart: 1400, LoadEventEnd: 1450})

	require.Len(t, got, 1)
	assert.Equal(t, map[string]any{"name": "load", "value": int64(450)}, got[0])
	pixel.AssertNotCalled(t, "Track", mock.Anything)
}

func TestHandlerPanicsAreContained(t *testing.T) {
	var failures []string
	boom := behavior.PixelFunc(func(string) { panic("tracker exploded") })

	doc, err := dom.ParseString(landing)
	require.NoError(t, err)
	win := dom.NewWindow(doc)
	behavior.Attach(doc, win, behavior.Analytics{Pixel: boom},
		behavior.WithErrorHandler(func(name string, err error) {
			failures = append(failures, name)
		}))

	assert.NotPanics(t, func() { doc.Click(doc.Find(".btn-primary")) })
	assert.Equal(t, []string{behavior.CTATracking}, failures)

	win.ScrollTo(100)
	assert.True(t, doc.Find("nav").HasClass("shadow-md"))
}
