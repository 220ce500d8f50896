// Package behavior wires the interactive behaviors of the generated landing
// page onto a DOM. It is host independent: the browser build binds it to
// syscall/js and tests bind it to an in-memory document.
package behavior

import (
	"fmt"
	"strings"
)

// Behavior names as they appear in a Report.
const (
	MobileMenu   = "mobile-menu"
	SmoothScroll = "smooth-scroll"
	ContactForm  = "contact-form"
	FadeIn       = "fade-in"
	NavShadow    = "nav-shadow"
	CTATracking  = "cta-tracking"
	LoadTiming   = "load-timing"
)

// Hooks the page template is expected to provide.
const (
	MobileMenuButtonID = "mobile-menu-button"
	MobileMenuID       = "mobile-menu"
	AnchorSelector     = `a[href^="#"]`
	FadeInSelector     = ".card, section"
	PrimaryCTA         = ".btn-primary"
	SecondaryCTA       = ".btn-secondary"

	HiddenClass = "hidden"
	FadeInClass = "animate-fade-in"
	ShadowClass = "shadow-md"

	// ShadowOffset is the scroll position past which the nav gets a shadow.
	ShadowOffset = 50
)

// FadeInCSS is the stylesheet backing FadeInClass.
const FadeInCSS = `
    .animate-fade-in {
        animation: fadeIn 0.6s ease-in-out;
    }

    @keyframes fadeIn {
        from {
            opacity: 0;
            transform: translateY(20px);
        }
        to {
            opacity: 1;
            transform: translateY(0);
        }
    }
`

// StyleAppender is implemented by documents that accept injected styles.
// Attach adds FadeInCSS to such documents.
type StyleAppender interface {
	AppendStyle(css string)
}

// Report lists which behaviors were attached.
type Report struct {
	Attached []string
	Skipped  []string
	Failed   map[string]error
}

// Has reports whether behavior was attached.
func (r *Report) Has(behavior string) bool {
	for _, name := range r.Attached {
		if name == behavior {
			return true
		}
	}
	return false
}

// Option configures Attach.
type Option func(*attacher)

// WithErrorHandler receives panics recovered from behaviors and their event
// handlers.
func WithErrorHandler(fn func(behavior string, err error)) Option {
	return func(a *attacher) {
		a.onError = fn
	}
}

type attacher struct {
	doc       Document
	win       Window
	analytics Analytics
	onError   func(string, error)
	report    *Report
}

// Attach wires every behavior whose elements are present. Behaviors are
// independent: a failing one is recorded in the report and the rest are
// still attached.
func Attach(doc Document, win Window, analytics Analytics, opts ...Option) *Report {
	a := &attacher{
		doc:       doc,
		win:       win,
		analytics: analytics,
		report:    &Report{Failed: make(map[string]error)},
	}
	for _, opt := range opts {
		opt(a)
	}

	if s, ok := doc.(StyleAppender); ok {
		s.AppendStyle(FadeInCSS)
	}

	steps := []struct {
		name string
		fn   func() bool
	}{
		{MobileMenu, a.mobileMenu},
		{SmoothScroll, a.smoothScroll},
		{ContactForm, a.contactForm},
		{FadeIn, a.fadeIn},
		{NavShadow, a.navShadow},
		{CTATracking, a.ctaTracking},
		{LoadTiming, a.loadTiming},
	}
	for _, step := range steps {
		a.run(step.name, step.fn)
	}

	return a.report
}

func (a *attacher) run(name string, fn func() bool) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%s: %v", name, r)
			a.report.Failed[name] = err
			a.fail(name, err)
		}
	}()

	if fn() {
		a.report.Attached = append(a.report.Attached, name)
	} else {
		a.report.Skipped = append(a.report.Skipped, name)
	}
}

func (a *attacher) fail(name string, err error) {
	if a.onError != nil {
		a.onError(name, err)
	}
}

// guard isolates a handler so a panic in it does not reach the host.
func (a *attacher) guard(name string, fn Listener) Listener {
	return func(e Event) {
		defer func() {
			if r := recover(); r != nil {
				a.fail(name, fmt.Errorf("%s handler: %v", name, r))
			}
		}()
		fn(e)
	}
}

func (a *attacher) mobileMenu() bool {
	button := a.doc.GetElementByID(MobileMenuButtonID)
	menu := a.doc.GetElementByID(MobileMenuID)
	if button == nil || menu == nil {
		return false
	}

	button.AddEventListener("click", a.guard(MobileMenu, func(Event) {
		menu.ClassList().Toggle(HiddenClass)
	}))
	return true
}

func (a *attacher) smoothScroll() bool {
	links := a.doc.QuerySelectorAll(AnchorSelector)
	if len(links) == 0 {
		return false
	}

	for _, link := range links {
		link.AddEventListener("click", a.guard(SmoothScroll, func(e Event) {
			e.PreventDefault()

			href, _ := link.Attr("href")
			target := a.anchorTarget(href)
			if target == nil {
				return
			}
			target.ScrollIntoView(ScrollOptions{Behavior: "smooth", Block: "start"})

			if menu := a.doc.GetElementByID(MobileMenuID); menu != nil && !menu.ClassList().Contains(HiddenClass) {
				menu.ClassList().Add(HiddenClass)
			}
		}))
	}
	return true
}

func (a *attacher) anchorTarget(href string) Element {
	id := strings.TrimPrefix(href, "#")
	if id == "" || id == href {
		return nil
	}
	return a.doc.GetElementByID(id)
}

func (a *attacher) contactForm() bool {
	form, ok := a.doc.QuerySelector("form").(Form)
	if !ok {
		return false
	}

	form.AddEventListener("submit", a.guard(ContactForm, func(e Event) {
		e.PreventDefault()

		err := ValidateContact(form.Value("name"), form.Value("email"), form.Value("message"))
		if err != nil {
			a.win.Alert(err.Error())
			return
		}

		a.win.Alert(MsgThankYou)
		form.Reset()
		a.analytics.TrackContact()
	}))
	return true
}

func (a *attacher) fadeIn() bool {
	targets := a.doc.QuerySelectorAll(FadeInSelector)
	if len(targets) == 0 {
		return false
	}

	observer := a.win.NewIntersectionObserver(ObserverOptions{
		Threshold:  0.1,
		RootMargin: "0px 0px -50px 0px",
	}, func(entries []IntersectionEntry) {
		for _, entry := range entries {
			if entry.IsIntersecting && entry.Target != nil {
				entry.Target.ClassList().Add(FadeInClass)
			}
		}
	})
	if observer == nil {
		return false
	}

	for _, el := range targets {
		observer.Observe(el)
	}
	return true
}

func (a *attacher) navShadow() bool {
	nav := a.doc.QuerySelector("nav")
	if nav == nil {
		return false
	}

	a.win.AddEventListener("scroll", a.guard(NavShadow, func(Event) {
		if a.win.ScrollY() > ShadowOffset {
			nav.ClassList().Add(ShadowClass)
		} else {
			nav.ClassList().Remove(ShadowClass)
		}
	}))
	return true
}

func (a *attacher) ctaTracking() bool {
	a.doc.AddEventListener("click", a.guard(CTATracking, func(e Event) {
		target := e.Target()
		if target == nil {
			return
		}

		switch {
		case target.Matches(PrimaryCTA):
			a.analytics.TrackEvent("button_click", "CTA", "Primary Button")
		case target.Matches(SecondaryCTA):
			a.analytics.TrackEvent("button_click", "CTA", "Secondary Button")
		}
	}))
	return true
}

func (a *attacher) loadTiming() bool {
	a.win.AddEventListener("load", a.guard(LoadTiming, func(Event) {
		a.analytics.TrackTiming("load", a.win.Timing().LoadDuration())
	}))
	return true
}
