package preview

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/markupdown/internal/logfields"
)

// BuildFunc runs one full build.
type BuildFunc func(ctx context.Context) error

// rebuilder serializes builds. Requests arriving while a build runs are
// coalesced into a single follow-up build.
type rebuilder struct {
	build    BuildFunc
	status   *buildStatus
	debounce time.Duration
	req      chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

func newRebuilder(build BuildFunc, status *buildStatus, debounce time.Duration) *rebuilder {
	return &rebuilder{
		build:    build,
		status:   status,
		debounce: debounce,
		req:      make(chan struct{}, 1),
	}
}

// Request asks for a rebuild without waiting.
func (r *rebuilder) Request() {
	select {
	case r.req <- struct{}{}:
	default:
	}
}

// Trigger requests a rebuild once no further trigger arrived for the
// debounce interval.
func (r *rebuilder) Trigger() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, r.Request)
}

func (r *rebuilder) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
}

// Run processes requests until ctx is done.
func (r *rebuilder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.req:
			r.runOnce(ctx)
		}
	}
}

func (r *rebuilder) runOnce(ctx context.Context) {
	start := time.Now()
	err := r.build(ctx)
	r.status.record(err)
	d := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		slog.Warn("Rebuild failed", logfields.DurationMS(d), logfields.Error(err))
		return
	}
	slog.Info("Site rebuilt", logfields.DurationMS(d))
}
