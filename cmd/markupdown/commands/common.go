package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/markupdown/internal/config"
	"git.home.luguber.info/inful/markupdown/internal/retry"
)

// Global carries state shared by every command.
type Global struct {
	Ctx context.Context
	Out io.Writer
}

func (g *Global) context() context.Context {
	if g == nil || g.Ctx == nil {
		return context.Background()
	}
	return g.Ctx
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Verbose bool             `short:"v" help:"Enable verbose logging" env:"MARKUPDOWN_VERBOSE"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Stage, index and render the project into the site directory"`
	Init  InitCmd  `cmd:"" help:"Create a starter project from the bundled example"`
	Serve ServeCmd `cmd:"" help:"Serve a built site locally, optionally rebuilding on changes"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// BuildFlags are the pipeline options shared by build and serve. Every flag
// can also be set through a MARKUPDOWN_* environment variable.
type BuildFlags struct {
	Project     string   `short:"p" name:"project" default:"." env:"MARKUPDOWN_PROJECT" help:"Project directory other paths resolve against."`
	Content     string   `name:"content" env:"MARKUPDOWN_CONTENT" help:"Directory of source documents (default pages)."`
	Templates   string   `name:"templates" env:"MARKUPDOWN_TEMPLATES" help:"Directory of Liquid templates (default templates)."`
	Site        string   `name:"site" env:"MARKUPDOWN_SITE" help:"Build workspace (default site)."`
	Output      string   `short:"o" name:"output" env:"MARKUPDOWN_OUTPUT" help:"Write rendered pages here instead of beside the documents."`
	Pattern     []string `name:"pattern" env:"MARKUPDOWN_PATTERNS" help:"Glob selecting source documents; repeatable."`
	StampSource bool     `name:"stamp-source" env:"MARKUPDOWN_STAMP_SOURCE" help:"Record each document's source path in its front matter."`
	SkipAssets  bool     `name:"skip-assets" env:"MARKUPDOWN_SKIP_ASSETS" help:"Do not copy css, img and js directories."`
	TitleQuery  string   `name:"title-query" env:"MARKUPDOWN_TITLE_QUERY" help:"JMESPath expression over the heading list selecting the title."`
	IndexMode   string   `name:"index-mode" default:"metadata" enum:"metadata,body,off" env:"MARKUPDOWN_INDEX_MODE" help:"How directory indices list their children (${enum})."`
	LinkCheck   string   `name:"link-check" default:"warn" enum:"warn,strict,off" env:"MARKUPDOWN_LINK_CHECK" help:"Verify internal links after rendering (${enum})."`
	Extension   []string `name:"extension" env:"MARKUPDOWN_EXTENSIONS" help:"Goldmark extension to enable; repeatable (default gfm)."`
	Safe        bool     `name:"safe" env:"MARKUPDOWN_SAFE" help:"Drop raw HTML from rendered Markdown."`
	Title       string   `name:"title" env:"MARKUPDOWN_TITLE" help:"Site title seeded into site.yaml when absent."`
	Template    string   `name:"template" env:"MARKUPDOWN_TEMPLATE" help:"Default template seeded into site.yaml when absent."`
	SourceRepo  string   `name:"source-repo" env:"MARKUPDOWN_SOURCE_REPO" help:"Clone documents from this Git repository."`
	SourceRef   string   `name:"source-ref" env:"MARKUPDOWN_SOURCE_REF" help:"Branch or tag of --source-repo."`
	SourceToken string   `name:"source-token" env:"MARKUPDOWN_SOURCE_TOKEN" help:"Token for an HTTPS --source-repo."`

	CloneRetries    int           `name:"clone-retries" default:"2" env:"MARKUPDOWN_CLONE_RETRIES" help:"Retries after a failed clone."`
	CloneBackoff    string        `name:"clone-backoff" default:"linear" enum:"fixed,linear,exponential" env:"MARKUPDOWN_CLONE_BACKOFF" help:"Growth of the delay between clone attempts (${enum})."`
	CloneRetryDelay time.Duration `name:"clone-retry-delay" default:"1s" env:"MARKUPDOWN_CLONE_RETRY_DELAY" help:"Delay before the first clone retry."`
	CloneRetryMax   time.Duration `name:"clone-retry-max" default:"30s" env:"MARKUPDOWN_CLONE_RETRY_MAX" help:"Upper bound of the clone retry delay."`
}

// Config turns the flags into a validated build configuration.
func (f *BuildFlags) Config() (*config.Config, error) {
	return config.Load(config.Config{
		ProjectDir:      f.Project,
		ContentDir:      f.Content,
		TemplateDir:     f.Templates,
		SiteDir:         f.Site,
		OutputDir:       f.Output,
		Patterns:        f.Pattern,
		StampSource:     f.StampSource,
		SkipAssets:      f.SkipAssets,
		TitleQuery:      f.TitleQuery,
		IndexMode:       config.IndexMode(f.IndexMode),
		LinkCheck:       config.LinkCheckMode(f.LinkCheck),
		Extensions:      f.Extension,
		SafeMode:        f.Safe,
		SiteTitle:       f.Title,
		DefaultTemplate: f.Template,
		SourceRepo:      f.SourceRepo,
		SourceRef:       f.SourceRef,
		SourceToken:     f.SourceToken,
		CloneRetry:      retry.NewPolicy(retry.BackoffMode(f.CloneBackoff), f.CloneRetryDelay, f.CloneRetryMax, f.CloneRetries),
	})
}
