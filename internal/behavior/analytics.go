package behavior

// Gtag receives Google Analytics events.
type Gtag interface {
	Event(name string, params map[string]any)
}

// Pixel receives Meta pixel events.
type Pixel interface {
	Track(event string)
}

// GtagFunc adapts a function to Gtag.
type GtagFunc func(name string, params map[string]any)

// Event calls f when it is set.
func (f GtagFunc) Event(name string, params map[string]any) {
	if f != nil {
		f(name, params)
	}
}

// PixelFunc adapts a function to Pixel.
type PixelFunc func(event string)

// Track calls f when it is set.
func (f PixelFunc) Track(event string) {
	if f != nil {
		f(event)
	}
}

// Analytics is the tracking capability handed to Attach. Either service may
// be nil, in which case its events are dropped.
type Analytics struct {
	Gtag  Gtag
	Pixel Pixel
}

// Enabled reports whether any service is present.
func (a Analytics) Enabled() bool {
	return a.Gtag != nil || a.Pixel != nil
}

// TrackEvent sends a categorized event to Google Analytics and the event
// name to the pixel.
func (a Analytics) TrackEvent(name, category, label string) {
	if a.Gtag != nil {
		a.Gtag.Event(name, map[string]any{
			"event_category": category,
			"event_label":    label,
		})
	}
	if a.Pixel != nil {
		a.Pixel.Track(name)
	}
}

// TrackContact records a successful contact form submission.
func (a Analytics) TrackContact() {
	if a.Gtag != nil {
		a.Gtag.Event("form_submit", map[string]any{
			"event_category": "Contact",
			"event_label":    "Contact Form",
		})
	}
	if a.Pixel != nil {
		a.Pixel.Track("Contact")
	}
}

// TrackTiming reports a timing measurement to Google Analytics only.
func (a Analytics) TrackTiming(name string, ms int64) {
	if a.Gtag != nil {
		a.Gtag.Event("timing_complete", map[string]any{
			"name":  name,
			"value": ms,
		})
	}
}
