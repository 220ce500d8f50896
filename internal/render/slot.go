package render

import (
	"regexp"

	"github.com/a-h/templ"
)

// Slot is a named insertion point in a template. Fragment is called exactly
// once per render and its output replaces every {{NAME}} token.
type Slot interface {
	Name() string
	Fragment() templ.Component
}

type funcSlot struct {
	name string
	fn   func() templ.Component
}

func (s funcSlot) Name() string              { return s.name }
func (s funcSlot) Fragment() templ.Component { return s.fn() }

// NewSlot creates a slot whose fragment is produced by fn.
func NewSlot(name string, fn func() templ.Component) Slot {
	return funcSlot{name: name, fn: fn}
}

// Value creates a slot that inserts text verbatim.
func Value(name, text string) Slot {
	return NewSlot(name, func() templ.Component {
		return templ.Raw(text)
	})
}

// Toggle creates a slot that renders on when enabled and off otherwise.
// The branch is chosen when the fragment is requested, so each render makes
// the decision once.
func Toggle(name string, enabled func() bool, on, off func() templ.Component) Slot {
	return NewSlot(name, func() templ.Component {
		if enabled() {
			return on()
		}
		return off()
	})
}

// Comment returns a fragment holding a single HTML comment.
func Comment(text string) templ.Component {
	return templ.Raw("<!-- " + text + " -->")
}

var (
	slotNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	tokenPattern    = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)
)

// Token returns the placeholder text for name.
func Token(name string) string {
	return "{{" + name + "}}"
}

// ValidName reports whether name can be used as a slot name.
func ValidName(name string) bool {
	return slotNamePattern.MatchString(name)
}
