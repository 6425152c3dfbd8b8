package harvest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolve_Literal(t *testing.T) {
	r := NewSourceResolver(nil)
	r.IgnoreFile = ""

	got, err := r.Resolve([]Source{
		{Content: "<p class=\"lead\">", Kind: "markup"},
		{Content: "el.classList.add('open')"},
	})
	require.NoError(t, err)
	assert.Equal(t, []Fragment{
		{Kind: KindMarkup, Content: "<p class=\"lead\">"},
		{Kind: KindScript, Content: "el.classList.add('open')"},
	}, got)
}

func TestResolve_Glob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "views", "index.html"), "<main class=\"page\">")
	writeFile(t, filepath.Join(dir, "views", "nested", "menu.htm"), "<nav class=\"menu\">")
	writeFile(t, filepath.Join(dir, "views", "app.js"), "render('card')")

	r := NewSourceResolver(nil)
	r.IgnoreFile = ""

	got, err := r.Resolve([]Source{{Glob: filepath.Join(dir, "views", "**", "*.{html,htm}")}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, f := range got {
		assert.Equal(t, KindMarkup, f.Kind)
	}
	assert.ElementsMatch(t, []string{"<main class=\"page\">", "<nav class=\"menu\">"},
		[]string{got[0].Content, got[1].Content})

	got, err = r.Resolve([]Source{{Glob: filepath.Join(dir, "views", "*.js"), Kind: "script"}})
	require.NoError(t, err)
	assert.Equal(t, []Fragment{{Kind: KindScript, Content: "render('card')"}}, got)
}

func TestResolve_GitIgnore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gitignore"), "dist/\n")
	writeFile(t, filepath.Join(dir, "src", "a.html"), "a")
	writeFile(t, filepath.Join(dir, "dist", "b.html"), "b")

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	got, err := NewSourceResolver(nil).Resolve([]Source{{Glob: "**/*.html"}})
	require.NoError(t, err)
	assert.Equal(t, []Fragment{{Kind: KindMarkup, Content: "a"}}, got)
}

func TestResolve_BadGlob(t *testing.T) {
	r := NewSourceResolver(nil)
	r.IgnoreFile = ""

	_, err := r.Resolve([]Source{{Glob: "src/[.html"}})
	var cfgErr *FilterConfigError
	require.True(t, errors.As(err, &cfgErr))
}
