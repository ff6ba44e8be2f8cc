// Package worker runs periodic housekeeping next to the HTTP server.
package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Pruner drops entries older than a cutoff: stored location fixes or cached
// route sessions.
type Pruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionWorker drops entries past their retention window.
type RetentionWorker struct {
	name      string
	pruner    Pruner
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

func NewRetentionWorker(p Pruner, interval, retention time.Duration) *RetentionWorker {
	if interval < time.Minute {
		interval = time.Hour
	}
	return &RetentionWorker{name: "location history", pruner: p, interval: interval, retention: retention, now: time.Now}
}

// Named sets the name the worker logs under.
func (w *RetentionWorker) Named(name string) *RetentionWorker {
	w.name = name
	return w
}

// Start prunes once immediately and then on every tick until ctx is done.
// A zero retention disables pruning.
func (w *RetentionWorker) Start(ctx context.Context) {
	if w.retention <= 0 {
		logrus.WithField("worker", w.name).Info("Retention disabled.")
		return
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.WithFields(logrus.Fields{
		"worker":    w.name,
		"interval":  w.interval.String(),
		"retention": w.retention.String(),
	}).Info("Retention worker started.")

	w.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			logrus.WithField("worker", w.name).Info("Retention worker stopped.")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single prune pass. Panics are logged and swallowed so the
// next tick still runs.
func (w *RetentionWorker) RunOnce(ctx context.Context) (pruned int64) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{"worker": w.name, "panic": r}).Error("Retention pass panicked.")
			pruned = 0
		}
	}()

	cutoff := w.now().Add(-w.retention)
	n, err := w.pruner.PruneBefore(ctx, cutoff)
	if err != nil {
		logrus.WithError(err).WithField("worker", w.name).Error("Failed to prune.")
		return 0
	}
	if n > 0 {
		logrus.WithFields(logrus.Fields{
			"worker": w.name,
			"pruned": n,
			"cutoff": cutoff.Format(time.RFC3339),
		}).Info("Pruned expired entries.")
	}
	return n
}
