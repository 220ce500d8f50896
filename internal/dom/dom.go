// Package dom is an in-memory document for running page behaviors outside a
// browser. It parses HTML with golang.org/x/net/html, answers CSS selectors
// through cascadia, dispatches bubbling events and keeps form state.
package dom

import (
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/conneroisu/pagesmith/internal/behavior"
)

// Document is a parsed page.
type Document struct {
	root      *html.Node
	elements  map[*html.Node]*Element
	values    map[*html.Node]string
	listeners map[string][]behavior.Listener
	selectors map[string]cascadia.Matcher
}

var _ behavior.Document = (*Document)(nil)

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{
		root:      root,
		elements:  make(map[*html.Node]*Element),
		values:    make(map[*html.Node]string),
		listeners: make(map[string][]behavior.Listener),
		selectors: make(map[string]cascadia.Matcher),
	}, nil
}

// ParseString parses an HTML string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Render writes the current tree.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the current tree, "" if rendering fails.
func (d *Document) String() string {
	var sb strings.Builder
	if err := d.Render(&sb); err != nil {
		return ""
	}
	return sb.String()
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	if e, ok := d.elements[n]; ok {
		return e
	}
	e := &Element{doc: d, node: n, listeners: make(map[string][]behavior.Listener)}
	d.elements[n] = e
	return e
}

// walk visits element nodes under n in document order until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && !fn(c) {
			return false
		}
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func (d *Document) find(under *html.Node, sel cascadia.Matcher) *Element {
	var found *html.Node
	walk(under, func(n *html.Node) bool {
		if sel.Match(n) {
			found = n
			return false
		}
		return true
	})
	return d.wrap(found)
}

func (d *Document) findAll(under *html.Node, sel cascadia.Matcher) []*Element {
	var found []*Element
	walk(under, func(n *html.Node) bool {
		if sel.Match(n) {
			found = append(found, d.wrap(n))
		}
		return true
	})
	return found
}

// ByID returns the first element with the given id.
func (d *Document) ByID(id string) *Element {
	if id == "" {
		return nil
	}
	return d.find(d.root, matchID(id))
}

// Find returns the first element matching selector, nil when nothing matches
// or the selector is invalid.
func (d *Document) Find(selector string) *Element {
	sel, err := d.compile(selector)
	if err != nil {
		return nil
	}
	return d.find(d.root, sel)
}

// FindAll returns every element matching selector in document order.
func (d *Document) FindAll(selector string) []*Element {
	sel, err := d.compile(selector)
	if err != nil {
		return nil
	}
	return d.findAll(d.root, sel)
}

// GetElementByID implements behavior.Document.
func (d *Document) GetElementByID(id string) behavior.Element {
	return d.ByID(id).facade()
}

// QuerySelector implements behavior.Document.
func (d *Document) QuerySelector(selector string) behavior.Element {
	return d.Find(selector).facade()
}

// QuerySelectorAll implements behavior.Document.
func (d *Document) QuerySelectorAll(selector string) []behavior.Element {
	found := d.FindAll(selector)
	out := make([]behavior.Element, 0, len(found))
	for _, e := range found {
		out = append(out, e.facade())
	}
	return out
}

// AddEventListener registers a document level listener. Element events
// bubble up to it.
func (d *Document) AddEventListener(event string, fn behavior.Listener) {
	d.listeners[event] = append(d.listeners[event], fn)
}

// AppendStyle adds a style element with css to the head.
func (d *Document) AppendStyle(css string) {
	head := d.find(d.root, matchTag("head"))
	if head == nil {
		return
	}
	style := &html.Node{Type: html.ElementNode, Data: "style", DataAtom: atom.Style}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	head.node.AppendChild(style)
}

// Dispatch fires event at target. Listeners on the target run first, then
// on each ancestor, then on the document.
func (d *Document) Dispatch(target *Element, event string) *Event {
	e := &Event{Type: event, target: target}
	if target == nil {
		for _, fn := range d.listeners[event] {
			fn(e)
		}
		return e
	}

	for n := target.node; n != nil; n = n.Parent {
		el, ok := d.elements[n]
		if !ok {
			continue
		}
		for _, fn := range el.listeners[event] {
			fn(e)
		}
	}
	for _, fn := range d.listeners[event] {
		fn(e)
	}

	return e
}

// Click dispatches a click at el.
func (d *Document) Click(el *Element) *Event {
	return d.Dispatch(el, "click")
}
