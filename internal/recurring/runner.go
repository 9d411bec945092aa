package recurring

import (
	"context"
	"log/slog"
	"time"
)

// Runner drives a Scheduler: one catch-up pass at start, then one pass per
// interval and one per Wake.
type Runner struct {
	scheduler *Scheduler
	interval  time.Duration
	wake      chan struct{}
}

// NewRunner creates a runner that processes due payments every interval.
func NewRunner(s *Scheduler, interval time.Duration) *Runner {
	return &Runner{
		scheduler: s,
		interval:  interval,
		wake:      make(chan struct{}, 1),
	}
}

// Wake requests an extra pass. Requests made while one is pending coalesce.
func (r *Runner) Wake() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	slog.Info("Recurring payment runner started", "interval", r.interval.String())
	r.pass(ctx, "startup")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Recurring payment runner stopped")
			return
		case <-ticker.C:
			r.pass(ctx, "tick")
		case <-r.wake:
			r.pass(ctx, "wake")
		}
	}
}

func (r *Runner) pass(ctx context.Context, trigger string) {
	created, err := r.scheduler.ProcessDuePayments(ctx, r.scheduler.Today(), nil)
	if err != nil {
		slog.Error("Recurring payment pass failed", "trigger", trigger, "error", err)
		return
	}
	slog.Debug("Recurring payment pass finished", "trigger", trigger, "created", len(created))
}
