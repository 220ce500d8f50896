package dom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/conneroisu/pagesmith/internal/behavior"
)

// Element wraps an element node of a Document. Wrappers are cached so
// listeners survive repeated lookups.
type Element struct {
	doc       *Document
	node      *html.Node
	listeners map[string][]behavior.Listener
	scrolled  *behavior.ScrollOptions
}

var _ behavior.Element = (*Element)(nil)

// facade returns the behavior view of e: a nil interface for a nil element
// and a Form for form elements.
func (e *Element) facade() behavior.Element {
	if e == nil {
		return nil
	}
	if e.node.Data == "form" {
		return &Form{Element: e}
	}
	return e
}

// Tag returns the lower case tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// Node exposes the underlying html node.
func (e *Element) Node() *html.Node {
	return e.node
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	return attr(e.node, strings.ToLower(name))
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(name, value string) {
	setAttr(e.node, strings.ToLower(name), value)
}

// Matches reports whether e matches selector. Invalid selectors match
// nothing.
func (e *Element) Matches(selector string) bool {
	sel, err := e.doc.compile(selector)
	if err != nil {
		return false
	}
	return sel.Match(e.node)
}

// Find returns the first descendant matching selector.
func (e *Element) Find(selector string) *Element {
	sel, err := e.doc.compile(selector)
	if err != nil {
		return nil
	}
	return e.doc.find(e.node, sel)
}

// Text returns the concatenated text content.
func (e *Element) Text() string {
	return textContent(e.node)
}

// HasClass reports whether class is set.
func (e *Element) HasClass(class string) bool {
	return contains(classes(e.node), class)
}

// ClassList implements behavior.Element.
func (e *Element) ClassList() behavior.ClassList {
	return classList{node: e.node}
}

// AddEventListener implements behavior.Element.
func (e *Element) AddEventListener(event string, fn behavior.Listener) {
	e.listeners[event] = append(e.listeners[event], fn)
}

// ScrollIntoView records the request.
func (e *Element) ScrollIntoView(opts behavior.ScrollOptions) {
	e.scrolled = &opts
}

// ScrolledInto returns the options of the last ScrollIntoView call.
func (e *Element) ScrolledInto() (behavior.ScrollOptions, bool) {
	if e.scrolled == nil {
		return behavior.ScrollOptions{}, false
	}
	return *e.scrolled, true
}

// Form is a form element with its controls.
type Form struct {
	*Element
}

var _ behavior.Form = (*Form)(nil)

// AsForm returns el as a form, nil when it is not one.
func AsForm(el *Element) *Form {
	if el == nil || el.node.Data != "form" {
		return nil
	}
	return &Form{Element: el}
}

func (f *Form) control(name string) *html.Node {
	el := f.doc.find(f.node, matchControl(name))
	if el == nil {
		return nil
	}
	return el.node
}

// Value returns the current value of the named control.
func (f *Form) Value(name string) string {
	n := f.control(name)
	if n == nil {
		return ""
	}
	if v, ok := f.doc.values[n]; ok {
		return v
	}
	return defaultValue(n)
}

// Fill sets the value of the named control and reports whether it exists.
func (f *Form) Fill(name, value string) bool {
	n := f.control(name)
	if n == nil {
		return false
	}
	f.doc.values[n] = value
	return true
}

// Reset restores every control to its initial value.
func (f *Form) Reset() {
	walk(f.node, func(n *html.Node) bool {
		delete(f.doc.values, n)
		return true
	})
}

// Submit dispatches a submit event at the form.
func (f *Form) Submit() *Event {
	return f.doc.Dispatch(f.Element, "submit")
}

func defaultValue(n *html.Node) string {
	switch n.Data {
	case "textarea":
		return textContent(n)
	case "select":
		var first, selected string
		var haveFirst, haveSelected bool
		walk(n, func(o *html.Node) bool {
			if o.Data != "option" {
				return true
			}
			v, ok := attr(o, "value")
			if !ok {
				v = strings.TrimSpace(textContent(o))
			}
			if !haveFirst {
				first, haveFirst = v, true
			}
			if _, ok := attr(o, "selected"); ok {
				selected, haveSelected = v, true
				return false
			}
			return true
		})
		if haveSelected {
			return selected
		}
		return first
	default:
		v, _ := attr(n, "value")
		return v
	}
}

type classList struct {
	node *html.Node
}

func (c classList) Add(class string) {
	have := classes(c.node)
	if contains(have, class) {
		return
	}
	setAttr(c.node, "class", strings.Join(append(have, class), " "))
}

func (c classList) Remove(class string) {
	have := classes(c.node)
	kept := have[:0]
	for _, name := range have {
		if name != class {
			kept = append(kept, name)
		}
	}
	setAttr(c.node, "class", strings.Join(kept, " "))
}

func (c classList) Toggle(class string) bool {
	if c.Contains(class) {
		c.Remove(class)
		return false
	}
	c.Add(class)
	return true
}

func (c classList) Contains(class string) bool {
	return contains(classes(c.node), class)
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func classes(n *html.Node) []string {
	v, _ := attr(n, "class")
	return strings.Fields(v)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
