// Package refresh schedules periodic weather refreshes against the engine.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Refreshable is the part of the engine the scheduler drives.
type Refreshable interface {
	RefreshWeather(ctx context.Context) error
}

// Refresher runs an immediate refresh on start and then one per interval.
// The engine itself skips overlapping cycles, so a slow provider cannot pile
// up goroutines here.
type Refresher struct {
	cron     *cron.Cron
	target   Refreshable
	interval time.Duration
	logger   *slog.Logger
}

// New creates a Refresher ticking at the given interval.
func New(target Refreshable, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{
		cron:     cron.New(),
		target:   target,
		interval: interval,
		logger:   logger,
	}
}

// Start performs the initial refresh and begins the schedule. ctx bounds each
// refresh run, not the scheduler's lifetime.
func (r *Refresher) Start(ctx context.Context) error {
	if err := r.target.RefreshWeather(ctx); err != nil {
		r.logger.Warn("initial weather refresh failed", "error", err)
	}

	spec := fmt.Sprintf("@every %s", r.interval)
	if _, err := r.cron.AddFunc(spec, func() {
		if err := r.target.RefreshWeather(ctx); err != nil {
			r.logger.Warn("scheduled weather refresh failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}

	r.cron.Start()
	r.logger.Info("refresh schedule started", "interval", r.interval)
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (r *Refresher) Stop() {
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.logger.Info("refresh schedule stopped")
}
