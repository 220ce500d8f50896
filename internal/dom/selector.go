package dom

import (
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// matchFunc adapts a predicate to cascadia.Matcher.
type matchFunc func(n *html.Node) bool

func (f matchFunc) Match(n *html.Node) bool {
	return f(n)
}

// Compile parses a CSS selector group such as ".card, section".
func Compile(selector string) (cascadia.Matcher, error) {
	return cascadia.ParseGroup(selector)
}

// compile caches parsed selectors for the lifetime of the document.
func (d *Document) compile(selector string) (cascadia.Matcher, error) {
	if m, ok := d.selectors[selector]; ok {
		return m, nil
	}
	m, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	d.selectors[selector] = m
	return m, nil
}

func matchID(id string) cascadia.Matcher {
	return matchFunc(func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		v, ok := attr(n, "id")
		return ok && v == id
	})
}

func matchTag(tags ...string) cascadia.Matcher {
	return matchFunc(func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, t := range tags {
			if n.Data == t {
				return true
			}
		}
		return false
	})
}

// matchControl matches form controls by their name attribute.
func matchControl(name string) cascadia.Matcher {
	tags := matchTag("input", "textarea", "select")
	return matchFunc(func(n *html.Node) bool {
		if !tags.Match(n) {
			return false
		}
		v, ok := attr(n, "name")
		return ok && v == name
	})
}
