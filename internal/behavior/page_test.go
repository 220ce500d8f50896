package behavior_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/pagesmith/internal/behavior"
	"github.com/conneroisu/pagesmith/internal/build"
	"github.com/conneroisu/pagesmith/internal/dom"
	"github.com/conneroisu/pagesmith/internal/scaffold"
)

// TestScaffoldedPage builds a freshly initialized project and runs the
// behaviors against the generated page.
func TestScaffoldedPage(t *testing.T) {
	dir := t.TempDir()
	_, err := scaffold.Generate(scaffold.Options{Dir: dir, Title: "Acme"}, nil)
	require.NoError(t, err)

	res, err := build.NewBuilder(dir, nil, nil).Build(context.Background())
	require.NoError(t, err)

	f, err := os.Open(res.Output)
	require.NoError(t, err)
	defer f.Close()

	doc, err := dom.Parse(f)
	require.NoError(t, err)
	win := dom.NewWindow(doc)

	gtag := new(mockGtag)
	gtag.On("Event", "button_click", map[string]any{
		"event_category": "CTA",
		"event_label":    "Primary Button",
	}).Once()

	report := behavior.Attach(doc, win, behavior.Analytics{Gtag: gtag})
	assert.Len(t, report.Attached, 7)

	hero := doc.ByID("home")
	require.NotNil(t, hero)
	doc.Click(hero.Find(".btn-primary"))
	gtag.AssertNumberOfCalls(t, "Event", 1)

	assert.Equal(t, filepath.Join(dir, "dist", "index.html"), res.Output)
}
