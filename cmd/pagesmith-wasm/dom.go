//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/conneroisu/pagesmith/internal/behavior"
)

// present reports whether v holds an object.
func present(v js.Value) bool {
	return !v.IsNull() && !v.IsUndefined()
}

// try runs fn, turning a thrown JavaScript exception into ok == false.
func try(fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isJS := r.(js.Error); !isJS {
				panic(r)
			}
			ok = false
		}
	}()
	fn()
	return true
}

func listen(target js.Value, event string, fn behavior.Listener) {
	// Listeners live as long as the page, so the funcs are never released.
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ev := js.Undefined()
		if len(args) > 0 {
			ev = args[0]
		}
		fn(&jsEvent{v: ev})
		return nil
	})
	target.Call("addEventListener", event, cb)
}

type jsEvent struct {
	v js.Value
}

func (e *jsEvent) Target() behavior.Element {
	if !present(e.v) {
		return nil
	}
	return element(e.v.Get("target"))
}

func (e *jsEvent) PreventDefault() {
	if present(e.v) {
		e.v.Call("preventDefault")
	}
}

// element wraps v, returning nil for anything that is not an element node.
func element(v js.Value) behavior.Element {
	if !present(v) || v.Get("nodeType").Int() != 1 {
		return nil
	}
	el := &jsElement{v: v}
	if v.Get("tagName").String() == "FORM" {
		return &jsForm{jsElement: el}
	}
	return el
}

type jsElement struct {
	v js.Value
}

func (e *jsElement) value() js.Value {
	return e.v
}

func (e *jsElement) Attr(name string) (string, bool) {
	if !e.v.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return e.v.Call("getAttribute", name).String(), true
}

func (e *jsElement) Matches(selector string) bool {
	var matched bool
	try(func() { matched = e.v.Call("matches", selector).Bool() })
	return matched
}

func (e *jsElement) ClassList() behavior.ClassList {
	return jsClassList{v: e.v.Get("classList")}
}

func (e *jsElement) AddEventListener(event string, fn behavior.Listener) {
	listen(e.v, event, fn)
}

func (e *jsElement) ScrollIntoView(opts behavior.ScrollOptions) {
	e.v.Call("scrollIntoView", map[string]any{
		"behavior": opts.Behavior,
		"block":    opts.Block,
	})
}

type jsForm struct {
	*jsElement
}

func (f *jsForm) Value(name string) string {
	control := f.v.Get("elements").Call("namedItem", name)
	if !present(control) {
		return ""
	}
	return control.Get("value").String()
}

func (f *jsForm) Reset() {
	f.v.Call("reset")
}

type jsClassList struct {
	v js.Value
}

func (c jsClassList) Add(class string)    { c.v.Call("add", class) }
func (c jsClassList) Remove(class string) { c.v.Call("remove", class) }

func (c jsClassList) Toggle(class string) bool {
	return c.v.Call("toggle", class).Bool()
}

func (c jsClassList) Contains(class string) bool {
	return c.v.Call("contains", class).Bool()
}

type jsDocument struct {
	v js.Value
}

func (d *jsDocument) GetElementByID(id string) behavior.Element {
	return element(d.v.Call("getElementById", id))
}

func (d *jsDocument) QuerySelector(selector string) behavior.Element {
	found := js.Null()
	try(func() { found = d.v.Call("querySelector", selector) })
	return element(found)
}

func (d *jsDocument) QuerySelectorAll(selector string) []behavior.Element {
	list := js.Null()
	if !try(func() { list = d.v.Call("querySelectorAll", selector) }) {
		return nil
	}

	n := list.Get("length").Int()
	out := make([]behavior.Element, 0, n)
	for i := 0; i < n; i++ {
		if el := element(list.Call("item", i)); el != nil {
			out = append(out, el)
		}
	}
	return out
}

func (d *jsDocument) AddEventListener(event string, fn behavior.Listener) {
	listen(d.v, event, fn)
}

func (d *jsDocument) AppendStyle(css string) {
	style := d.v.Call("createElement", "style")
	style.Set("textContent", css)
	d.v.Get("head").Call("appendChild", style)
}

type jsWindow struct {
	v   js.Value
	doc js.Value
}

func (w *jsWindow) ScrollY() float64 {
	return w.v.Get("scrollY").Float()
}

// AddEventListener runs load listeners at once when the page has already
// finished loading.
func (w *jsWindow) AddEventListener(event string, fn behavior.Listener) {
	if event == "load" && w.doc.Get("readyState").String() == "complete" {
		fn(&jsEvent{v: js.Undefined()})
		return
	}
	listen(w.v, event, fn)
}

func (w *jsWindow) Alert(msg string) {
	w.v.Call("alert", msg)
}

func (w *jsWindow) NewIntersectionObserver(
	opts behavior.ObserverOptions,
	fn func([]behavior.IntersectionEntry),
) behavior.IntersectionObserver {
	ctor := w.v.Get("IntersectionObserver")
	if ctor.Type() != js.TypeFunction {
		return nil
	}

	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		list := args[0]
		n := list.Get("length").Int()
		entries := make([]behavior.IntersectionEntry, 0, n)
		for i := 0; i < n; i++ {
			entry := list.Index(i)
			entries = append(entries, behavior.IntersectionEntry{
				Target:         element(entry.Get("target")),
				IsIntersecting: entry.Get("isIntersecting").Bool(),
			})
		}
		fn(entries)
		return nil
	})

	return &jsObserver{v: ctor.New(cb, map[string]any{
		"threshold":  opts.Threshold,
		"rootMargin": opts.RootMargin,
	})}
}

func (w *jsWindow) Timing() behavior.NavigationTiming {
	perf := w.v.Get("performance")
	if !present(perf) || !present(perf.Get("timing")) {
		return behavior.NavigationTiming{}
	}
	t := perf.Get("timing")
	return behavior.NavigationTiming{
		NavigationStart: int64(t.Get("navigationStart").Float()),
		LoadEventStart:  int64(t.Get("loadEventStart").Float()),
		LoadEventEnd:    int64(t.Get("loadEventEnd").Float()),
	}
}

type jsObserver struct {
	v js.Value
}

func (o *jsObserver) Observe(el behavior.Element) {
	if v, ok := el.(interface{ value() js.Value }); ok {
		o.v.Call("observe", v.value())
	}
}
