package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/markupdown/internal/document"
	"git.home.luguber.info/inful/markupdown/internal/workspace"
)

func TestWorkspaceLinkResolver(t *testing.T) {
	ws, err := workspace.Open(t.TempDir())
	require.NoError(t, err)
	for _, rel := range []string{"guides/index.md", "guides/setup.md", "img/logo.png", "blog/posts/index.md"} {
		require.NoError(t, ws.WriteFile(rel, []byte("x")))
	}
	r := WorkspaceLinkResolver{Workspace: ws}
	root := &document.Document{Path: "index.md"}
	nested := &document.Document{Path: "blog/index.md"}

	cases := []struct {
		doc  *document.Document
		dest string
		want string
	}{
		{root, "about.md", "about.html"},
		{root, "about", "about.html"},
		{root, "/about.md", "about.html"},
		{root, "guides/", "guides"},
		{root, "/guides", "guides"},
		{root, "guides/setup.md#install", "guides/setup.html#install"},
		{root, "search.md?q=x", "search.html?q=x"},
		{root, "img/logo.png", "img/logo.png"},
		{root, "page.html", "page.html"},
		{root, "#top", "#top"},
		{root, "", ""},
		{root, "/", "/"},
		{root, "https://example.org/a.md", "https://example.org/a.md"},
		{root, "mailto:me@example.org", "mailto:me@example.org"},
		{root, "//cdn.example.org/x", "//cdn.example.org/x"},
		{nested, "posts", "posts"},
		{nested, "posts.md", "posts.html"},
		{nested, "../guides/setup.md", "../guides/setup.html"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, r.ResolveLink(c.doc, c.dest), "%s in %s", c.dest, c.doc.Path)
	}
}

func TestLinkResolverFunc(t *testing.T) {
	var lr LinkResolver = LinkResolverFunc(func(_ *document.Document, dest string) string { return "x" + dest })
	require.Equal(t, "xa", lr.ResolveLink(nil, "a"))
}
