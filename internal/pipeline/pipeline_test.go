package pipeline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/markupdown/internal/config"
	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/metrics"
	"git.home.luguber.info/inful/markupdown/internal/site"
)

const layout = "<title>{{ page.title }}</title>{{ content }}"

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

// project writes files below a fresh project directory and returns its
// build configuration with defaults applied.
func project(t *testing.T, files map[string]string, mutate func(*config.Config)) *config.Config {
	t.Helper()
	dir := t.TempDir()
	writeTree(t, dir, files)
	overrides := config.Config{ProjectDir: dir}
	if mutate != nil {
		mutate(&overrides)
	}
	cfg, err := config.Load(overrides)
	require.NoError(t, err)
	return cfg
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// snapshot returns every file below dir keyed by slash path.
func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := map[string]string{}
	require.NoError(t, filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = readFile(t, p)
		return nil
	}))
	return out
}

func TestBuild_EndToEnd(t *testing.T) {
	cfg := project(t, map[string]string{
		"pages/index.md":          "# Home\n",
		"pages/about.md":          "---\nnav: true\n---\n\n# About Us\n",
		"templates/layout.liquid": layout,
	}, nil)

	report, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, metrics.OutcomeSuccess, report.Outcome)
	require.Equal(t, []string{"about.md", "index.md"}, report.Staged)
	require.Equal(t, 2, report.Rendered)
	require.NotEmpty(t, report.BuildID)

	require.Contains(t, readFile(t, filepath.Join(cfg.SiteDir, "index.html")), "<title>Home</title>")
	require.Contains(t, readFile(t, filepath.Join(cfg.SiteDir, "about.html")), "<title>About Us</title>")

	store := site.NewStore(cfg.SiteDir)
	siteCfg, err := store.Load()
	require.NoError(t, err)
	nav, err := siteCfg.Nav()
	require.NoError(t, err)
	require.Equal(t, []site.NavEntry{
		{Title: "About Us", Path: "/about"},
		{Title: "Home", Path: "/"},
	}, nav)
	require.Equal(t, config.DefaultSiteTitle, siteCfg.Title())
	require.Equal(t, config.DefaultTemplateName, siteCfg.DefaultTemplate())
}

func TestBuild_Idempotent(t *testing.T) {
	cfg := project(t, map[string]string{
		"pages/index.md":                  "# Home\n\nSee [setup](guides/setup.md).\n",
		"pages/about.md":                  "---\nnav: true\n---\n\n# About Us\n",
		"pages/guides/index.md":           "# Guides\n",
		"pages/guides/setup.md":           "Install things.\n",
		"pages/guides/getting-started.md": "---\ntitle: Start Here\n---\n\nBody.\n",
		"templates/layout.liquid":         layout + "{% for n in site.nav %}<a href=\"{{ n.path }}\">{{ n.title }}</a>{% endfor %}",
		"css/style.css":                   "body{}",
	}, func(c *config.Config) { c.StampSource = true })

	_, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	first := snapshot(t, cfg.SiteDir)

	_, err = Build(context.Background(), cfg)
	require.NoError(t, err)
	second := snapshot(t, cfg.SiteDir)

	require.Equal(t, first, second)
	require.Contains(t, first, "css/style.css")
	require.Contains(t, first, "guides/setup.html")
	require.Contains(t, first["guides/setup.md"], "title: Setup")
}

func TestBuild_KeepsExistingSiteValues(t *testing.T) {
	cfg := project(t, map[string]string{
		"pages/index.md":        "# Home\n",
		"templates/page.liquid": "{{ site.title }}|{{ content }}",
		"site/site.yaml":        "title: My Site\ndefault_template: page\n",
	}, nil)

	_, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	require.Contains(t, readFile(t, filepath.Join(cfg.SiteDir, "index.html")), "My Site|")
}

func TestBuild_MissingTemplateFails(t *testing.T) {
	cfg := project(t, map[string]string{
		"pages/about.md":          "---\ntemplate: missing\n---\n\n# About\n",
		"pages/index.md":          "# Home\n",
		"templates/layout.liquid": layout,
	}, nil)

	report, err := Build(context.Background(), cfg)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryTemplateNotFound))
	require.Equal(t, metrics.OutcomeFailed, report.Outcome)
	require.NoFileExists(t, filepath.Join(cfg.SiteDir, "about.html"))

	sr, ok := report.Stage(StageRender)
	require.True(t, ok)
	require.Error(t, sr.Err)
	_, ok = report.Stage(StageLinkCheck)
	require.False(t, ok)
}

func TestBuild_MissingContentDir(t *testing.T) {
	cfg := project(t, map[string]string{
		"templates/layout.liquid": layout,
	}, nil)

	_, err := Build(context.Background(), cfg)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategorySourceNotFound))
}

func TestBuild_BrokenLinksWarnOrFail(t *testing.T) {
	files := map[string]string{
		"pages/index.md":          "# Home\n\n[gone](missing.md)\n",
		"templates/layout.liquid": layout,
	}

	cfg := project(t, files, nil)
	report, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, metrics.OutcomeWarning, report.Outcome)
	require.Len(t, report.BrokenLinks, 1)
	require.Equal(t, "missing.html", report.BrokenLinks[0].Target)

	strict := project(t, files, func(c *config.Config) { c.LinkCheck = config.LinkCheckStrict })
	_, err = Build(context.Background(), strict)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestBuild_SeparateOutputDir(t *testing.T) {
	out := t.TempDir()
	cfg := project(t, map[string]string{
		"pages/index.md":          "# Home\n",
		"templates/layout.liquid": layout,
		"js/site.js":              "//",
	}, func(c *config.Config) { c.OutputDir = out })

	report, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, out, report.OutputDir)
	require.FileExists(t, filepath.Join(out, "index.html"))
	require.FileExists(t, filepath.Join(out, "js", "site.js"))
	require.NoFileExists(t, filepath.Join(cfg.SiteDir, "index.html"))
	require.FileExists(t, filepath.Join(cfg.SiteDir, "index.md"))
}

func TestBuild_IndexModeOffSkipsStage(t *testing.T) {
	cfg := project(t, map[string]string{
		"pages/guides/index.md":   "# Guides\n",
		"pages/guides/setup.md":   "# Setup\n",
		"templates/layout.liquid": layout,
	}, func(c *config.Config) { c.IndexMode = config.IndexModeOff })

	report, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	sr, ok := report.Stage(StageIndex)
	require.True(t, ok)
	require.True(t, sr.Skipped)
	require.NotContains(t, readFile(t, filepath.Join(cfg.SiteDir, "guides", "index.md")), "children")
}

func TestBuild_CanceledContext(t *testing.T) {
	cfg := project(t, map[string]string{
		"pages/index.md":          "# Home\n",
		"templates/layout.liquid": layout,
	}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Build(ctx, cfg)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, metrics.OutcomeCanceled, report.Outcome)
}

type countingRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	results  map[string]metrics.ResultLabel
	docs     map[string]int
	outcomes []metrics.BuildOutcome
}

func (c *countingRecorder) IncStageResult(stage string, r metrics.ResultLabel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[stage] = r
}

func (c *countingRecorder) AddDocuments(stage string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[stage] += n
}

func (c *countingRecorder) IncBuildOutcome(o metrics.BuildOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes = append(c.outcomes, o)
}

func (c *countingRecorder) ObserveBuildDuration(time.Duration) {}

func TestBuild_RecordsMetrics(t *testing.T) {
	cfg := project(t, map[string]string{
		"pages/index.md":          "# Home\n",
		"pages/about.md":          "# About\n",
		"templates/layout.liquid": layout,
	}, nil)
	rec := &countingRecorder{results: map[string]metrics.ResultLabel{}, docs: map[string]int{}}

	_, err := New().WithRecorder(rec).Build(context.Background(), cfg)
	require.NoError(t, err)
	for _, s := range []string{StagePrepare, StageStage, StageAssets, StageTitle, StageIndex, StageNav, StageRender, StageLinkCheck} {
		require.Equal(t, metrics.ResultSuccess, rec.results[s], s)
	}
	require.Equal(t, 2, rec.docs[StageRender])
	require.Equal(t, []metrics.BuildOutcome{metrics.OutcomeSuccess}, rec.outcomes)
}
