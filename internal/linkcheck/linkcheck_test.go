package linkcheck

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

func TestExtractLinksFromReader(t *testing.T) {
	src := `<html><head><link rel="stylesheet" href="css/style.css"><script src="js/app.js"></script></head>
<body><a href="about.html">About <em>us</em></a><img src="img/logo.png" alt="Logo"><a name="x">no href</a></body></html>`

	links, err := ExtractLinksFromReader(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, links, 4)

	require.Equal(t, "css/style.css", links[0].URL)
	require.Equal(t, "stylesheet", links[0].Text)
	require.Equal(t, "js/app.js", links[1].URL)
	require.Equal(t, "about.html", links[2].URL)
	require.Equal(t, "About us", links[2].Text)
	require.Equal(t, "img", links[3].Tag)
	require.Equal(t, "Logo", links[3].Text)
}

func TestInternalTarget(t *testing.T) {
	tests := []struct {
		page, link, want string
		ok               bool
	}{
		{"index.html", "about.html", "about.html", true},
		{"guides/setup.html", "../about.html#top", "about.html", true},
		{"guides/setup.html", "/about.html", "about.html", true},
		{"guides/setup.html", "install.html?x=1", "guides/install.html", true},
		{"index.html", "guides", "guides", true},
		{"index.html", "https://example.org/a.html", "", false},
		{"index.html", "mailto:me@example.org", "", false},
		{"index.html", "#section", "", false},
		{"index.html", "", "", false},
		{"index.html", "../outside.html", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.page+"|"+tt.link, func(t *testing.T) {
			got, ok := InternalTarget(tt.page, tt.link)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCheck_ReportsBrokenLinks(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"index.html":        `<a href="about.html">About</a><a href="guides">Guides</a><a href="missing.html">Gone</a>`,
		"about.html":        `<a href="index">Home</a><a href="https://example.org">Ext</a>`,
		"guides/setup.html": `<a href="/about.html">About</a><img src="shot.png">`,
	})

	broken, err := Check(context.Background(), root, Options{})
	require.NoError(t, err)
	require.Len(t, broken, 2)
	require.Equal(t, "guides/setup.html", broken[0].Page)
	require.Equal(t, "guides/shot.png", broken[0].Target)
	require.Equal(t, "index.html", broken[1].Page)
	require.Equal(t, "missing.html", broken[1].Target)
}

func TestCheck_StrictModeFails(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"index.html": `<a href="missing.html">Gone</a>`,
	})

	broken, err := Check(context.Background(), root, Options{Strict: true})
	require.Error(t, err)
	require.Len(t, broken, 1)
	require.Equal(t, errors.CategoryValidation, errors.GetCategory(err))
}

func TestCheck_CleanTree(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"index.html": `<a href="about.html">About</a>`,
		"about.html": `<p>no links</p>`,
	})

	broken, err := Check(context.Background(), root, Options{Strict: true})
	require.NoError(t, err)
	require.Empty(t, broken)
}
