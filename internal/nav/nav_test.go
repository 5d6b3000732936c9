package nav

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/markupdown/internal/document"
	"git.home.luguber.info/inful/markupdown/internal/markdown"
	"git.home.luguber.info/inful/markupdown/internal/site"
	"git.home.luguber.info/inful/markupdown/internal/workspace"
)

func setup(t *testing.T, files map[string]string) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.Open(t.TempDir())
	require.NoError(t, err)
	for rel, content := range files {
		require.NoError(t, ws.WriteFile(rel, []byte(content)))
	}
	return ws
}

func TestInclude_Precedence(t *testing.T) {
	cases := []struct {
		path    string
		content string
		want    bool
		reason  Reason
	}{
		{"about.md", "---\nnav: false\n---\n\nx\n", false, ExcludedByFlag},
		{"guides/index.md", "---\nnav: false\n---\n\nx\n", false, ExcludedByFlag},
		{"a/b/deep.md", "---\nnav: true\n---\n\nx\n", true, IncludedByFlag},
		{"guides/index.md", "x\n", true, TopLevelIndex},
		{"about.md", "x\n", true, RootPage},
		{"index.md", "x\n", true, SiteIndex},
		{"index.md", "---\nnav: false\n---\n\nx\n", false, ExcludedByFlag},
		{"guides/setup.md", "x\n", false, NotEligible},
		{"a/b/index.md", "x\n", false, NotEligible},
	}
	for _, c := range cases {
		doc, err := document.Parse(c.path, []byte(c.content))
		require.NoError(t, err)
		got, reason := Include(doc)
		require.Equal(t, c.want, got, c.path)
		require.Equal(t, c.reason, reason, c.path)
	}
}

func TestRun_ReplacesSiteNav(t *testing.T) {
	ws := setup(t, map[string]string{
		"index.md":        "---\ntitle: Home\nnav: true\n---\n\nx\n",
		"about.md":        "---\ntitle: About Us\n---\n\nx\n",
		"hidden.md":       "---\ntitle: Hidden\nnav: false\n---\n\nx\n",
		"guides/index.md": "---\ntitle: Guides\n---\n\nx\n",
		"guides/setup.md": "---\ntitle: Setup\n---\n\nx\n",
		"zeta.md":         "x\n",
	})
	store := site.ForWorkspace(ws)
	require.NoError(t, store.Update(func(c *site.Config) error {
		c.SetNav([]site.NavEntry{{Title: "Stale", Path: "/stale"}})
		c.Merge(map[string]any{"title": "Kept"})
		return nil
	}))

	entries, err := Run(context.Background(), ws, store, Options{})
	require.NoError(t, err)

	want := []site.NavEntry{
		{Title: "About Us", Path: "/about"},
		{Title: "Guides", Path: "/guides"},
		{Title: "Home", Path: "/"},
		{Title: "Zeta", Path: "/zeta"},
	}
	require.Equal(t, want, entries)

	cfg, err := store.Load()
	require.NoError(t, err)
	nav, err := cfg.Nav()
	require.NoError(t, err)
	require.Equal(t, want, nav)
	require.Equal(t, "Kept", cfg.Title())
	require.True(t, sort.SliceIsSorted(nav, func(i, j int) bool { return nav[i].Title < nav[j].Title }))
}

func TestBuild_DuplicateTitleLaterWins(t *testing.T) {
	ws := setup(t, map[string]string{
		"a.md":       "---\ntitle: Same\n---\n\nx\n",
		"b.md":       "---\ntitle: Same\n---\n\nx\n",
		"c/index.md": "---\ntitle: Other\n---\n\nx\n",
	})
	paths, err := ws.List("**/*.md")
	require.NoError(t, err)

	q, err := markdown.CompileQuery("")
	require.NoError(t, err)
	entries, err := Build(ws, paths, q)
	require.NoError(t, err)
	require.Equal(t, []site.NavEntry{
		{Title: "Other", Path: "/c"},
		{Title: "Same", Path: "/b"},
	}, entries)
}

func TestRun_OrdinalSort(t *testing.T) {
	ws := setup(t, map[string]string{
		"a.md": "---\ntitle: apple\n---\n\nx\n",
		"b.md": "---\ntitle: Banana\n---\n\nx\n",
		"c.md": "---\ntitle: Cherry\n---\n\nx\n",
	})
	entries, err := Run(context.Background(), ws, site.ForWorkspace(ws), Options{})
	require.NoError(t, err)
	require.Equal(t, "Banana", entries[0].Title)
	require.Equal(t, "Cherry", entries[1].Title)
	require.Equal(t, "apple", entries[2].Title)
}

func TestRun_UntitledDocumentsUseHeading(t *testing.T) {
	ws := setup(t, map[string]string{
		"a.md":            "# Zulu\n",
		"z.md":            "# Alpha\n",
		"guides/index.md": "intro without heading\n",
	})

	entries, err := Run(context.Background(), ws, site.ForWorkspace(ws), Options{})
	require.NoError(t, err)
	require.Equal(t, []site.NavEntry{
		{Title: "Alpha", Path: "/z"},
		{Title: "Index", Path: "/guides"},
		{Title: "Zulu", Path: "/a"},
	}, entries)

	d, err := document.Load(ws, "a.md")
	require.NoError(t, err)
	require.False(t, d.HasTitle())
}

func TestRun_InvalidQuery(t *testing.T) {
	ws := setup(t, nil)
	_, err := Run(context.Background(), ws, site.ForWorkspace(ws), Options{Query: "[?"})
	require.Error(t, err)
}
