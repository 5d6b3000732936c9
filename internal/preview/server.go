// Package preview serves a built site locally and rebuilds it when sources
// change or on a schedule.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/logfields"
)

// DefaultDebounce is the quiet period after the last file event before a
// rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// Options configures the preview server.
type Options struct {
	Host    string
	Port    int
	SiteDir string

	// Build rebuilds the site. Nil serves SiteDir as is.
	Build BuildFunc
	// Watch lists directories whose changes trigger a rebuild.
	Watch []string
	// RebuildEvery schedules periodic full rebuilds when positive.
	RebuildEvery time.Duration
	Debounce     time.Duration

	// Gatherer is exposed at /metrics when set.
	Gatherer prom.Gatherer
}

// Server is a local preview server.
type Server struct {
	opts    Options
	status  *buildStatus
	rebuild *rebuilder
	http    *http.Server
	addr    net.Addr
	ready   chan struct{}
}

// New creates a Server.
func New(opts Options) *Server {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	status := &buildStatus{}
	s := &Server{
		opts:   opts,
		status: status,
		ready:  make(chan struct{}),
	}
	if opts.Build != nil {
		s.rebuild = newRebuilder(opts.Build, status, opts.Debounce)
	}
	adapter := errors.NewHTTPErrorAdapter(slog.Default())
	s.http = &http.Server{
		Handler:           withMiddleware(slog.Default(), adapter, newMux(opts.SiteDir, status, opts.Gatherer, adapter)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Ready is closed once the server listens.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the listening address; valid after Ready is closed.
func (s *Server) Addr() net.Addr { return s.addr }

// Run builds the site once, serves it and watches for changes until ctx is
// done. A failing build is logged and reported on the status endpoint; the
// server keeps serving the previous output.
func (s *Server) Run(ctx context.Context) error {
	if s.rebuild != nil {
		s.rebuild.runOnce(ctx)
	}
	if err := os.MkdirAll(s.opts.SiteDir, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create site directory").
			WithContext("path", s.opts.SiteDir).
			Build()
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port))
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to listen").
			WithContext("port", s.opts.Port).
			Build()
	}
	s.addr = ln.Addr()
	serveErr := make(chan error, 1)
	go func() { serveErr <- s.http.Serve(ln) }()
	close(s.ready)
	slog.Info("Preview server listening", logfields.URL("http://"+displayAddr(s.addr)), logfields.Path(s.opts.SiteDir))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var events <-chan struct{}
	if s.rebuild != nil {
		go s.rebuild.Run(runCtx)
		defer s.rebuild.stop()

		if len(s.opts.Watch) > 0 {
			ch, stop, err := s.watch(runCtx)
			if err != nil {
				_ = s.shutdown()
				return err
			}
			defer stop()
			events = ch
		}
		if s.opts.RebuildEvery > 0 {
			sched, err := NewScheduler()
			if err != nil {
				_ = s.shutdown()
				return errors.WrapError(err, errors.CategoryRuntime, "failed to start scheduler").Build()
			}
			if _, err := sched.SchedulePeriodicRebuild(s.opts.RebuildEvery, s.rebuild.Request); err != nil {
				_ = s.shutdown()
				return errors.WrapError(err, errors.CategoryConfig, "invalid rebuild interval").
					WithContext("interval", s.opts.RebuildEvery.String()).
					Build()
			}
			sched.Start()
			defer func() {
				if err := sched.Stop(); err != nil {
					slog.Warn("Scheduler shutdown error", logfields.Error(err))
				}
			}()
		}
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down preview server")
			return s.shutdown()
		case err := <-serveErr:
			if err == http.ErrServerClosed {
				return nil
			}
			return errors.WrapError(err, errors.CategoryRuntime, "preview server stopped").Build()
		case <-events:
			s.rebuild.Trigger()
		}
	}
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
		return err
	}
	return nil
}

// watch forwards relevant file events of the watched directories.
func (s *Server) watch(ctx context.Context) (<-chan struct{}, func(), error) {
	watcher, err := setupFileWatcher(s.opts.Watch)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategorySourceNotFound, "failed to watch sources").
			WithContext("dirs", s.opts.Watch).
			Build()
	}
	out := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if handleFileEvent(watcher, ev) {
					select {
					case out <- struct{}{}:
					default:
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Watcher error", logfields.Error(err))
			}
		}
	}()
	for _, dir := range s.opts.Watch {
		slog.Info("Watching for changes", logfields.Path(dir))
	}
	return out, func() { _ = watcher.Close() }, nil
}

func displayAddr(a net.Addr) string {
	if tcp, ok := a.(*net.TCPAddr); ok && tcp.IP.IsUnspecified() {
		return fmt.Sprintf("localhost:%d", tcp.Port)
	}
	return a.String()
}
