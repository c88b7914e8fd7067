package core

// scheduler.go keeps the catalog fresh in the background.
//
// The refresher runs a refresh immediately on start, then on every tick until
// its context is cancelled. Failed refreshes are logged by Catalog.Refresh and
// never stop the loop; the next tick retries naturally.

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DefaultRefreshInterval is how often the catalog is re-read from the source.
const DefaultRefreshInterval = 120 * time.Second

// StartRefreshScheduler blocks, refreshing the catalog every interval.
// A non-positive interval uses DefaultRefreshInterval.
func (c *Catalog) StartRefreshScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	slog.Info("catalog refresher started", "interval", interval.String())

	// Run immediately on startup
	c.runRefreshJob(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("catalog refresher stopped")
			return
		case <-ticker.C:
			c.runRefreshJob(ctx)
		}
	}
}

func (c *Catalog) runRefreshJob(ctx context.Context) {
	err := c.Refresh(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrStaleRefresh):
		slog.Debug("scheduled refresh superseded")
	case errors.Is(err, ErrRefreshBusy):
		slog.Warn("scheduled refresh skipped, fetch slots busy")
	case ctx.Err() != nil:
		slog.Debug("scheduled refresh cancelled", "error", err)
	}
}
