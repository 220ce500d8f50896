package dom

import "github.com/conneroisu/pagesmith/internal/behavior"

// Event is a dispatched event.
type Event struct {
	Type      string
	target    *Element
	prevented bool
}

var _ behavior.Event = (*Event)(nil)

// Target implements behavior.Event.
func (e *Event) Target() behavior.Element {
	return e.target.facade()
}

// PreventDefault implements behavior.Event.
func (e *Event) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

// Window is a scripted browsing context for a Document. Nothing happens on
// its own: tests scroll, load and reveal explicitly.
type Window struct {
	doc       *Document
	scrollY   float64
	alerts    []string
	listeners map[string][]behavior.Listener
	observers []*observer
	timing    behavior.NavigationTiming
}

var _ behavior.Window = (*Window)(nil)

// NewWindow returns a window showing doc.
func NewWindow(doc *Document) *Window {
	return &Window{
		doc:       doc,
		listeners: make(map[string][]behavior.Listener),
	}
}

// Document returns the shown document.
func (w *Window) Document() *Document {
	return w.doc
}

// ScrollY implements behavior.Window.
func (w *Window) ScrollY() float64 {
	return w.scrollY
}

// AddEventListener implements behavior.Window.
func (w *Window) AddEventListener(event string, fn behavior.Listener) {
	w.listeners[event] = append(w.listeners[event], fn)
}

// Alert records msg.
func (w *Window) Alert(msg string) {
	w.alerts = append(w.alerts, msg)
}

// Alerts returns every alert shown so far.
func (w *Window) Alerts() []string {
	return w.alerts
}

// Timing implements behavior.Window.
func (w *Window) Timing() behavior.NavigationTiming {
	return w.timing
}

func (w *Window) dispatch(event string) *Event {
	e := &Event{Type: event}
	for _, fn := range w.listeners[event] {
		fn(e)
	}
	return e
}

// ScrollTo moves the viewport and fires scroll.
func (w *Window) ScrollTo(y float64) {
	w.scrollY = y
	w.dispatch("scroll")
}

// Load records timing and fires load.
func (w *Window) Load(timing behavior.NavigationTiming) {
	w.timing = timing
	w.dispatch("load")
}

type observer struct {
	opts     behavior.ObserverOptions
	fn       func([]behavior.IntersectionEntry)
	observed []*Element
}

func (o *observer) Observe(el behavior.Element) {
	var e *Element
	switch v := el.(type) {
	case *Element:
		e = v
	case *Form:
		e = v.Element
	}
	if e != nil {
		o.observed = append(o.observed, e)
	}
}

func (o *observer) watches(e *Element) bool {
	for _, el := range o.observed {
		if el == e {
			return true
		}
	}
	return false
}

// NewIntersectionObserver implements behavior.Window.
func (w *Window) NewIntersectionObserver(
	opts behavior.ObserverOptions,
	fn func([]behavior.IntersectionEntry),
) behavior.IntersectionObserver {
	o := &observer{opts: opts, fn: fn}
	w.observers = append(w.observers, o)
	return o
}

// Observers returns the options of every observer created so far.
func (w *Window) Observers() []behavior.ObserverOptions {
	opts := make([]behavior.ObserverOptions, 0, len(w.observers))
	for _, o := range w.observers {
		opts = append(opts, o.opts)
	}
	return opts
}

// Reveal reports els as intersecting to every observer watching them.
func (w *Window) Reveal(els ...*Element) {
	for _, o := range w.observers {
		var entries []behavior.IntersectionEntry
		for _, e := range els {
			if o.watches(e) {
				entries = append(entries, behavior.IntersectionEntry{Target: e.facade(), IsIntersecting: true})
			}
		}
		if len(entries) > 0 {
			o.fn(entries)
		}
	}
}
