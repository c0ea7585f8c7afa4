package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mhartig/shopfront/internal/platform/correlation"
)

// Refresher periodically re-exchanges the refresh token so the access token
// never goes stale while the process is running. A tick on an anonymous
// session is a no-op; a rejected refresh ends the session through the
// manager's normal logout path.
type Refresher struct {
	manager  *Manager
	clock    clockwork.Clock
	interval time.Duration
}

// NewRefresher creates a refresher ticking at the given interval.
func NewRefresher(manager *Manager, clock clockwork.Clock, interval time.Duration) *Refresher {
	return &Refresher{
		manager:  manager,
		clock:    clock,
		interval: interval,
	}
}

// Run starts the refresh loop. It blocks until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	if !r.manager.Snapshot().IsAuthenticated {
		return
	}

	tickCtx := correlation.WithID(ctx, correlation.NewID())
	slog.DebugContext(tickCtx, "Background token refresh")
	r.manager.RefreshAuth(tickCtx)
}
