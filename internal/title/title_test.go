package title

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/markupdown/internal/document"
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

func titleOf(t *testing.T, ws *workspace.Workspace, rel string) any {
	t.Helper()
	d, err := document.Load(ws, rel)
	require.NoError(t, err)
	return d.Metadata[document.KeyTitle]
}

func TestRun_DerivesTitles(t *testing.T) {
	ws := setup(t, map[string]string{
		"index.md":             "# Home\n\nWelcome.\n",
		"getting-started.md":   "No heading here.\n",
		"guides/advanced.md":   "## Only h2\n",
		"guides/with-intro.md": "Intro text\n\n# Real Title\n",
	})

	n, err := Run(context.Background(), ws, Options{})
	require.NoError(t, err)
	require.Equal(t, 4, n)

	require.Equal(t, "Home", titleOf(t, ws, "index.md"))
	require.Equal(t, "Getting started", titleOf(t, ws, "getting-started.md"))
	require.Equal(t, "Advanced", titleOf(t, ws, "guides/advanced.md"))
	require.Equal(t, "Real Title", titleOf(t, ws, "guides/with-intro.md"))
}

func TestRun_NeverOverwritesExistingTitle(t *testing.T) {
	ws := setup(t, map[string]string{
		"index.md": "---\ntitle: Custom\n---\n\n# Home\n",
	})
	before, err := os.ReadFile(filepath.Join(ws.Root(), "index.md"))
	require.NoError(t, err)

	n, err := Run(context.Background(), ws, Options{})
	require.NoError(t, err)
	require.Zero(t, n)

	after, err := os.ReadFile(filepath.Join(ws.Root(), "index.md"))
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestRun_Idempotent(t *testing.T) {
	ws := setup(t, map[string]string{"a.md": "# A\n", "b/index.md": "text\n"})

	_, err := Run(context.Background(), ws, Options{})
	require.NoError(t, err)
	first, err := ws.ReadFile("b/index.md")
	require.NoError(t, err)

	n, err := Run(context.Background(), ws, Options{})
	require.NoError(t, err)
	require.Zero(t, n)
	second, err := ws.ReadFile("b/index.md")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRun_CustomPatternAndQuery(t *testing.T) {
	ws := setup(t, map[string]string{
		"docs/a.md":  "# One\n\n## Two\n",
		"other/b.md": "# B\n",
	})

	_, err := Run(context.Background(), ws, Options{
		Pattern: "docs/*.md",
		Query:   "([?type=='heading' && attrs.level==`2`])[0].children[0].raw",
	})
	require.NoError(t, err)
	require.Equal(t, "Two", titleOf(t, ws, "docs/a.md"))
	require.Nil(t, titleOf(t, ws, "other/b.md"))
}

func TestRun_InvalidQuery(t *testing.T) {
	ws := setup(t, nil)
	_, err := Run(context.Background(), ws, Options{Query: "[?"})
	require.Error(t, err)
}

func TestRun_IndexFallsBackToFileStem(t *testing.T) {
	ws := setup(t, map[string]string{"guides/index.md": "no heading\n"})

	_, err := Run(context.Background(), ws, Options{})
	require.NoError(t, err)
	require.Equal(t, "Index", titleOf(t, ws, "guides/index.md"))
}
