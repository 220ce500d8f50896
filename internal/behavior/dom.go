package behavior

// The interfaces below are the slice of the browser DOM the behaviors need.
// Lookups return a nil interface value, never a typed nil, when nothing
// matches.

// Listener handles a dispatched event.
type Listener func(Event)

// Event is a dispatched DOM event.
type Event interface {
	// Target is the element the event was dispatched to, nil for window
	// and document level events.
	Target() Element
	PreventDefault()
}

// ClassList mirrors Element.classList.
type ClassList interface {
	Add(class string)
	Remove(class string)
	// Toggle flips class and reports whether it is now present.
	Toggle(class string) bool
	Contains(class string) bool
}

// ScrollOptions mirrors the scrollIntoView options dictionary.
type ScrollOptions struct {
	Behavior string
	Block    string
}

// Element is a DOM element.
type Element interface {
	Attr(name string) (string, bool)
	Matches(selector string) bool
	ClassList() ClassList
	AddEventListener(event string, fn Listener)
	ScrollIntoView(opts ScrollOptions)
}

// Form is a form element.
type Form interface {
	Element
	// Value returns the submitted value of the named control, "" when the
	// control is missing.
	Value(name string) string
	Reset()
}

// Document is the page document.
type Document interface {
	GetElementByID(id string) Element
	QuerySelector(selector string) Element
	QuerySelectorAll(selector string) []Element
	AddEventListener(event string, fn Listener)
}

// ObserverOptions mirrors IntersectionObserver init options.
type ObserverOptions struct {
	Threshold  float64
	RootMargin string
}

// IntersectionEntry reports a visibility change of one observed element.
type IntersectionEntry struct {
	Target         Element
	IsIntersecting bool
}

// IntersectionObserver watches elements entering the viewport.
type IntersectionObserver interface {
	Observe(el Element)
}

// NavigationTiming carries the navigation timestamps in milliseconds.
type NavigationTiming struct {
	NavigationStart int64
	LoadEventStart  int64
	LoadEventEnd    int64
}

// LoadDuration returns the page load latency in milliseconds. While load
// handlers are still running LoadEventEnd is zero, in which case the start of
// the load event is used.
func (t NavigationTiming) LoadDuration() int64 {
	end := t.LoadEventEnd
	if end == 0 {
		end = t.LoadEventStart
	}
	if end < t.NavigationStart {
		return 0
	}
	return end - t.NavigationStart
}

// Window is the browsing context.
type Window interface {
	ScrollY() float64
	AddEventListener(event string, fn Listener)
	Alert(msg string)
	// NewIntersectionObserver returns nil when the host has no observer support.
	NewIntersectionObserver(opts ObserverOptions, fn func([]IntersectionEntry)) IntersectionObserver
	Timing() NavigationTiming
}
