package linkcheck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeHTML(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestExtractLinks_FindsAnchorsAndAssets(t *testing.T) {
	page := `<html><body>
<a href="/about/">About</a>
<a href="https://external.example.net/page">External</a>
<img src="/images/pic.png">
<a href="mailto:someone@example.com">Mail</a>
</body></html>`

	links, err := extractFromReader(strings.NewReader(page), "https://example.com")
	require.NoError(t, err)

	byURL := map[string]Link{}
	for _, l := range links {
		byURL[l.URL] = l
	}
	require.True(t, byURL["/about/"].IsInternal)
	require.False(t, byURL["https://external.example.net/page"].IsInternal)
	require.True(t, byURL["/images/pic.png"].IsInternal)
	require.False(t, byURL["mailto:someone@example.com"].IsInternal)
}

func TestExtractLinks_BaseHostCountsAsInternal(t *testing.T) {
	page := `<a href="https://example.com/about/">Abs</a>`

	links, err := extractFromReader(strings.NewReader(page), "https://example.com")
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.True(t, links[0].IsInternal)
}

func TestChecker_ReportsBrokenInternalLinks(t *testing.T) {
	dir := t.TempDir()
	writeHTML(t, dir, "index.html", `<a href="/about/">ok</a> <a href="/missing/">broken</a>`)
	writeHTML(t, dir, "about/index.html", `<p>about</p>`)

	checked, broken, err := NewChecker(dir, "https://example.com").Run()
	require.NoError(t, err)
	require.Equal(t, 2, checked)
	require.Len(t, broken, 1)
	require.Equal(t, "index.html", broken[0].Page)
	require.Equal(t, "/missing/", broken[0].URL)
}

func TestChecker_IgnoresExternalLinks(t *testing.T) {
	dir := t.TempDir()
	writeHTML(t, dir, "index.html", `<a href="https://elsewhere.example.net/gone">x</a>`)

	_, broken, err := NewChecker(dir, "https://example.com").Run()
	require.NoError(t, err)
	require.Empty(t, broken)
}

func TestChecker_ResolvesExplicitHTMLPaths(t *testing.T) {
	dir := t.TempDir()
	writeHTML(t, dir, "index.html", `<a href="/404.html">x</a>`)
	writeHTML(t, dir, "404.html", `<p>not found</p>`)

	_, broken, err := NewChecker(dir, "").Run()
	require.NoError(t, err)
	require.Empty(t, broken)
}
