package scaffold

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/pagesmith/internal/config"
	siteerrors "github.com/conneroisu/pagesmith/internal/errors"
	"github.com/conneroisu/pagesmith/internal/render"
)

func TestTitleFromDir(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"acme-rockets", "Acme Rockets"},
		{"/srv/sites/my_landing.page", "My Landing Page"},
		{"x", "X"},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFromDir(tt.dir))
		})
	}
}

func TestTemplateHasEveryPlaceholder(t *testing.T) {
	got := render.Placeholders(Template())
	assert.ElementsMatch(t, []string{
		"SITE_TITLE", "SITE_DESCRIPTION", "SITE_KEYWORDS", "SITE_URL", "OG_IMAGE",
		"GOOGLE_ANALYTICS", "FACEBOOK_PIXEL",
	}, got)
}

func TestTemplateHasBehaviorHooks(t *testing.T) {
	tmpl := Template()
	for _, hook := range []string{
		`id="mobile-menu-button"`, `id="mobile-menu"`, `class="card"`,
		`class="btn-primary"`, `class="btn-secondary"`, `<form>`, `name="email"`,
	} {
		assert.Contains(t, tmpl, hook)
	}
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "acme-rockets")
	var out bytes.Buffer

	written, err := Generate(Options{Dir: dir}, &out)
	require.NoError(t, err)
	assert.Len(t, written, 4)
	assert.Contains(t, out.String(), "Created")

	assert.FileExists(t, filepath.Join(dir, config.DefaultFile))
	assert.FileExists(t, filepath.Join(dir, config.DefaultTemplate))
	assert.FileExists(t, filepath.Join(dir, "dist", "css", "styles.css"))
	assert.FileExists(t, filepath.Join(dir, ".gitignore"))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Acme Rockets", cfg.Site.Title)
	assert.False(t, cfg.Analytics.Enabled)
}

func TestGenerateRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte("{}"), 0o644))

	_, err := Generate(Options{Dir: dir, Title: "Mine"}, nil)
	require.Error(t, err)
	assert.Equal(t, siteerrors.ErrCodeScaffoldExists, siteerrors.GetErrorCode(err))

	data, err := os.ReadFile(filepath.Join(dir, config.DefaultFile))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
	assert.NoFileExists(t, filepath.Join(dir, config.DefaultTemplate))
}

func TestGenerateForce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte("{}"), 0o644))

	_, err := Generate(Options{Dir: dir, Title: "Forced", Force: true}, nil)
	require.NoError(t, err)

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Forced", cfg.Site.Title)
}

func TestGenerateKeepsExistingGitignore(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		want     string
		updated  bool
	}{
		{
			name:     "entry appended",
			existing: "node_modules/\n",
			want:     "node_modules/\nconfig.local.json\n",
			updated:  true,
		},
		{
			name:     "missing trailing newline",
			existing: "node_modules/",
			want:     "node_modules/\nconfig.local.json\n",
			updated:  true,
		},
		{
			name:     "already ignored",
			existing: "dist/\n/config.local.json\n",
			want:     "dist/\n/config.local.json\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			ignore := filepath.Join(dir, ".gitignore")
			require.NoError(t, os.WriteFile(ignore, []byte(tt.existing), 0o644))

			var out bytes.Buffer
			written, err := Generate(Options{Dir: dir, Title: "Mine"}, &out)
			require.NoError(t, err, "an existing .gitignore is not a conflict")

			data, err := os.ReadFile(ignore)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
			assert.Equal(t, tt.updated, slices.Contains(written, ignore))
			assert.Equal(t, tt.updated, strings.Contains(out.String(), "Updated "+ignore))
			assert.FileExists(t, filepath.Join(dir, config.DefaultFile))
		})
	}
}

func TestGenerateForceKeepsGitignore(t *testing.T) {
	dir := t.TempDir()
	ignore := filepath.Join(dir, ".gitignore")
	require.NoError(t, os.WriteFile(ignore, []byte("*.log\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte("{}"), 0o644))

	_, err := Generate(Options{Dir: dir, Title: "Forced", Force: true}, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(ignore)
	require.NoError(t, err)
	assert.Equal(t, "*.log\nconfig.local.json\n", string(data))
}
