// Package render substitutes {{NAME}} placeholders in template text.
//
// Values come from Slots: each slot renders a templ.Component once and its
// output replaces every occurrence of the slot's token. Substitution is
// literal, case-sensitive and happens in a single left-to-right pass, so the
// result does not depend on slot order and text produced by one slot is never
// re-scanned for tokens. Placeholders without a slot are left as they are.
package render

import (
	"bytes"
	"context"
	"strings"

	siteerrors "github.com/conneroisu/pagesmith/internal/errors"
	"github.com/conneroisu/pagesmith/internal/logging"
)

// Renderer performs placeholder substitution.
type Renderer struct {
	logger logging.Logger
}

// NewRenderer creates a renderer. A nil logger discards output.
func NewRenderer(logger logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Renderer{logger: logger.WithComponent("render")}
}

// Render replaces the tokens of all slots in tmpl.
func (r *Renderer) Render(ctx context.Context, tmpl string, slots ...Slot) (string, error) {
	seen := make(map[string]struct{}, len(slots))
	pairs := make([]string, 0, len(slots)*2)

	for _, slot := range slots {
		name := slot.Name()
		if !ValidName(name) {
			return "", siteerrors.NewValidationError(siteerrors.ErrCodeRenderFailed, "invalid slot name: "+name)
		}
		if _, dup := seen[name]; dup {
			return "", siteerrors.NewValidationError(siteerrors.ErrCodeDuplicateSlot, "duplicate slot: "+name)
		}
		seen[name] = struct{}{}

		var buf bytes.Buffer
		if err := slot.Fragment().Render(ctx, &buf); err != nil {
			return "", siteerrors.NewBuildError(siteerrors.ErrCodeRenderFailed, "render slot "+name, err)
		}

		r.logger.Debug(ctx, "Rendered slot", "slot", name, "bytes", buf.Len(),
			"occurrences", strings.Count(tmpl, Token(name)))
		pairs = append(pairs, Token(name), buf.String())
	}

	if len(pairs) == 0 {
		return tmpl, nil
	}

	return strings.NewReplacer(pairs...).Replace(tmpl), nil
}

// Placeholders returns the distinct placeholder names in text, in order of
// first appearance.
func Placeholders(text string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

// Unresolved returns placeholders in tmpl that none of slots fill.
func Unresolved(tmpl string, slots ...Slot) []string {
	known := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		known[s.Name()] = struct{}{}
	}

	var missing []string
	for _, name := range Placeholders(tmpl) {
		if _, ok := known[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
