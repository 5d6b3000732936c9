// Package pipeline runs a complete markupdown build: staging, metadata
// derivation and rendering, in that order, on one workspace.
package pipeline

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/markupdown/internal/config"
	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/git"
	"git.home.luguber.info/inful/markupdown/internal/index"
	"git.home.luguber.info/inful/markupdown/internal/linkcheck"
	"git.home.luguber.info/inful/markupdown/internal/logfields"
	"git.home.luguber.info/inful/markupdown/internal/markdown"
	"git.home.luguber.info/inful/markupdown/internal/metrics"
	"git.home.luguber.info/inful/markupdown/internal/nav"
	"git.home.luguber.info/inful/markupdown/internal/observability"
	"git.home.luguber.info/inful/markupdown/internal/render"
	"git.home.luguber.info/inful/markupdown/internal/site"
	"git.home.luguber.info/inful/markupdown/internal/stage"
	"git.home.luguber.info/inful/markupdown/internal/title"
	"git.home.luguber.info/inful/markupdown/internal/workspace"
)

// Stage names, in execution order.
const (
	StageClone     = "clone"
	StagePrepare   = "prepare"
	StageStage     = "stage"
	StageAssets    = "assets"
	StageTitle     = "title"
	StageIndex     = "index"
	StageNav       = "nav"
	StageRender    = "render"
	StageLinkCheck = "linkcheck"
)

// Builder runs builds. The zero value is not usable; use New.
type Builder struct {
	recorder         metrics.Recorder
	scratchFactory   func() *workspace.Manager
	gitClientFactory func(baseDir string) *git.Client
}

// New returns a Builder with a no-op recorder.
func New() *Builder {
	return &Builder{
		recorder: metrics.NoopRecorder{},
		scratchFactory: func() *workspace.Manager {
			return workspace.NewManager("")
		},
		gitClientFactory: func(baseDir string) *git.Client {
			return git.NewClient(baseDir)
		},
	}
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

// WithGitClientFactory allows injecting a custom git client factory (for testing).
func (b *Builder) WithGitClientFactory(factory func(baseDir string) *git.Client) *Builder {
	b.gitClientFactory = factory
	return b
}

// Build runs every stage against cfg and stops at the first error. The
// returned report is non-nil even when the build fails.
func Build(ctx context.Context, cfg *config.Config) (*Report, error) {
	return New().Build(ctx, cfg)
}

// Build runs every stage against cfg and stops at the first error.
func (b *Builder) Build(ctx context.Context, cfg *config.Config) (*Report, error) {
	report := &Report{
		BuildID:   uuid.NewString(),
		StartTime: time.Now(),
		SiteDir:   cfg.SiteDir,
		OutputDir: cfg.OutputDir,
	}
	if report.OutputDir == "" {
		report.OutputDir = cfg.SiteDir
	}
	ctx = observability.WithBuildID(ctx, report.BuildID)
	observability.InfoContext(ctx, "Build started", logfields.Path(cfg.SiteDir))

	err := b.run(ctx, cfg, report)

	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil && (stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)):
		outcome = metrics.OutcomeCanceled
	case err != nil:
		outcome = metrics.OutcomeFailed
	case len(report.BrokenLinks) > 0:
		outcome = metrics.OutcomeWarning
	}
	report.finish(outcome)
	b.recorder.IncBuildOutcome(outcome)
	b.recorder.ObserveBuildDuration(report.Duration)

	attrs := []slog.Attr{
		logfields.Outcome(string(outcome)),
		logfields.DurationMS(float64(report.Duration.Microseconds()) / 1000),
		logfields.Count(report.Rendered),
	}
	if err != nil {
		observability.ErrorContext(ctx, "Build failed", append(attrs, logfields.Error(err))...)
		return report, err
	}
	observability.InfoContext(ctx, "Build finished", attrs...)
	return report, nil
}

func (b *Builder) run(ctx context.Context, cfg *config.Config, report *Report) error {
	contentDir := cfg.ContentDir
	if cfg.SourceRepo != "" {
		scratch := b.scratchFactory()
		if err := scratch.Create(); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create clone directory").Build()
		}
		defer func() {
			if err := scratch.Cleanup(); err != nil {
				observability.WarnContext(ctx, "Failed to clean up clone directory", logfields.Error(err))
			}
		}()
		var repoPath string
		err := b.stage(ctx, report, StageClone, func(ctx context.Context) (int, error) {
			var err error
			repoPath, err = b.gitClientFactory(scratch.Path()).
				WithPolicy(cfg.CloneRetry).
				WithRecorder(b.recorder).
				Clone(ctx, git.Source{URL: cfg.SourceRepo, Ref: cfg.SourceRef, Depth: 1, Token: cfg.SourceToken})
			return 0, err
		})
		if err != nil {
			return err
		}
		contentDir = filepath.Join(repoPath, cfg.ContentDir)
	}

	ws, err := workspace.Open(cfg.SiteDir)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to open site directory").
			WithContext("path", cfg.SiteDir).
			Build()
	}
	out := ws
	if cfg.OutputDir != "" {
		if out, err = workspace.Open(cfg.OutputDir); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to open output directory").
				WithContext("path", cfg.OutputDir).
				Build()
		}
	}
	store := site.ForWorkspace(ws)

	steps := []struct {
		name string
		skip bool
		fn   func(ctx context.Context) (int, error)
	}{
		{StagePrepare, false, func(context.Context) (int, error) {
			return 0, seedSite(store, cfg)
		}},
		{StageStage, false, func(ctx context.Context) (int, error) {
			staged, err := stage.Stage(ctx, ws, stage.Options{
				SourceDir:   contentDir,
				Patterns:    cfg.Patterns,
				Required:    true,
				StampSource: cfg.StampSource,
			})
			report.Staged = staged
			return len(staged), err
		}},
		{StageAssets, cfg.SkipAssets, func(ctx context.Context) (int, error) {
			assets, err := stage.Assets(ctx, out, cfg.ProjectDir)
			report.Assets = assets
			return len(assets), err
		}},
		{StageTitle, false, func(ctx context.Context) (int, error) {
			return title.Run(ctx, ws, title.Options{Query: cfg.TitleQuery})
		}},
		{StageIndex, cfg.IndexMode == config.IndexModeOff, func(ctx context.Context) (int, error) {
			return index.Run(ctx, ws, index.Options{Mode: index.Mode(cfg.IndexMode), Query: cfg.TitleQuery})
		}},
		{StageNav, false, func(ctx context.Context) (int, error) {
			entries, err := nav.Run(ctx, ws, store, nav.Options{Query: cfg.TitleQuery})
			report.Nav = entries
			return len(entries), err
		}},
		{StageRender, false, func(ctx context.Context) (int, error) {
			n, err := render.Run(ctx, ws, store, render.Options{
				TemplateDir: cfg.TemplateDir,
				OutputDir:   cfg.OutputDir,
				Markdown:    markdown.Options{Extensions: cfg.Extensions, SafeMode: cfg.SafeMode},
			})
			report.Rendered = n
			return n, err
		}},
		{StageLinkCheck, cfg.LinkCheck == config.LinkCheckOff, func(ctx context.Context) (int, error) {
			broken, err := linkcheck.Check(ctx, out.Root(), linkcheck.Options{Strict: cfg.LinkCheck == config.LinkCheckStrict})
			report.BrokenLinks = broken
			return len(broken), err
		}},
	}

	for _, s := range steps {
		if s.skip {
			report.Stages = append(report.Stages, StageReport{Name: s.name, Skipped: true})
			continue
		}
		if err := b.stage(ctx, report, s.name, s.fn); err != nil {
			return err
		}
	}
	return nil
}

// stage runs fn as the named stage, timing it and recording its result.
func (b *Builder) stage(ctx context.Context, report *Report, name string, fn func(context.Context) (int, error)) error {
	if err := ctx.Err(); err != nil {
		b.recorder.IncStageResult(name, metrics.ResultCanceled)
		return err
	}
	ctx = observability.WithStage(ctx, name)
	start := time.Now()
	n, err := fn(ctx)
	d := time.Since(start)

	report.Stages = append(report.Stages, StageReport{Name: name, Duration: d, Documents: n, Err: err})
	b.recorder.ObserveStageDuration(name, d)
	switch {
	case err == nil:
		b.recorder.IncStageResult(name, metrics.ResultSuccess)
		b.recorder.AddDocuments(name, n)
		observability.DebugContext(ctx, "Stage finished",
			logfields.Count(n),
			logfields.DurationMS(float64(d.Microseconds())/1000))
	case stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded):
		b.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		b.recorder.IncStageResult(name, metrics.ResultFatal)
	}
	return err
}

// seedSite adds the site title and default template when site.yaml lacks them.
func seedSite(store *site.Store, cfg *config.Config) error {
	return store.Update(func(c *site.Config) error {
		delta := map[string]any{}
		if _, ok := c.Get(site.KeyTitle); !ok {
			delta[site.KeyTitle] = cfg.SiteTitle
		}
		if _, ok := c.Get(site.KeyDefaultTemplate); !ok && cfg.DefaultTemplate != "" {
			delta[site.KeyDefaultTemplate] = cfg.DefaultTemplate
		}
		c.Merge(delta)
		return nil
	})
}
