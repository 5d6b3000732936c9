package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/markupdown/internal/config"
	"git.home.luguber.info/inful/markupdown/internal/logfields"
	"git.home.luguber.info/inful/markupdown/internal/metrics"
	"git.home.luguber.info/inful/markupdown/internal/pipeline"
	"git.home.luguber.info/inful/markupdown/internal/preview"
)

// ServeCmd starts the local preview server.
type ServeCmd struct {
	Port int    `arg:"" optional:"" default:"8000" help:"Port to listen on."`
	Dir  string `arg:"" optional:"" default:"site" help:"Directory to serve; also the build workspace when rebuilding and --site is unset."`

	Host         string        `name:"host" default:"localhost" env:"MARKUPDOWN_HOST" help:"Interface to bind."`
	Build        bool          `name:"build" help:"Build before serving and rebuild when sources change."`
	Watch        []string      `name:"watch" help:"Directory whose changes trigger a rebuild; repeatable (default content and template dirs)."`
	RebuildEvery time.Duration `name:"rebuild-every" env:"MARKUPDOWN_REBUILD_EVERY" help:"Schedule a full rebuild at this interval."`
	Debounce     time.Duration `name:"debounce" default:"300ms" help:"Quiet period after a change before rebuilding."`

	BuildFlags
}

func (s *ServeCmd) rebuilds() bool {
	return s.Build || len(s.Watch) > 0 || s.RebuildEvery > 0
}

func (s *ServeCmd) Run(g *Global, _ *CLI) error {
	ctx, cancel := signal.NotifyContext(g.context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, err := s.server()
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

// server assembles the preview server from the flags.
func (s *ServeCmd) server() (*preview.Server, error) {
	reg := prom.NewRegistry()
	opts := preview.Options{
		Host:         s.Host,
		Port:         s.Port,
		SiteDir:      s.Dir,
		RebuildEvery: s.RebuildEvery,
		Debounce:     s.Debounce,
		Gatherer:     reg,
	}
	if !s.rebuilds() {
		return preview.New(opts), nil
	}

	if s.Site == "" && s.Output == "" {
		s.Site = s.Dir
	}
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	opts.SiteDir = cfg.SiteDir
	if cfg.OutputDir != "" {
		opts.SiteDir = cfg.OutputDir
	}
	opts.Watch = s.Watch
	if len(opts.Watch) == 0 {
		opts.Watch = defaultWatchDirs(cfg)
	}

	builder := pipeline.New().WithRecorder(metrics.NewPrometheusRecorder(reg))
	opts.Build = func(ctx context.Context) error {
		_, err := builder.Build(ctx, cfg)
		return err
	}
	slog.Debug("Rebuilds enabled", logfields.Path(cfg.SiteDir), logfields.Count(len(opts.Watch)))
	return preview.New(opts), nil
}

// defaultWatchDirs are the local inputs of a build. A cloned content source
// is not watched.
func defaultWatchDirs(cfg *config.Config) []string {
	dirs := []string{cfg.TemplateDir}
	if cfg.SourceRepo == "" {
		dirs = append([]string{cfg.ContentDir}, dirs...)
	}
	return dirs
}
