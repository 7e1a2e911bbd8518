package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-sync-service/internal/models"
)

// StaleRunStore is the run access the watchdog needs
type StaleRunStore interface {
	GetStaleRuns(ctx context.Context, cutoff time.Time) ([]models.SyncRun, error)
	FailRun(ctx context.Context, id uuid.UUID, errorMessage string) error
}

// Watchdog sweeps runs stuck in RUNNING after a crash. A run whose last
// heartbeat is older than the stale timeout is transitioned to FAILED so
// its site lock semantics stay truthful across restarts.
type Watchdog struct {
	runs         StaleRunStore
	interval     time.Duration
	staleTimeout time.Duration
	logger       *logrus.Logger
}

// NewWatchdog creates a new Watchdog
func NewWatchdog(runs StaleRunStore, interval, staleTimeout time.Duration, logger *logrus.Logger) *Watchdog {
	return &Watchdog{
		runs:         runs,
		interval:     interval,
		staleTimeout: staleTimeout,
		logger:       logger,
	}
}

// Start runs the sweep loop until ctx is cancelled
func (w *Watchdog) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.WithFields(logrus.Fields{
		"interval":      w.interval.String(),
		"stale_timeout": w.staleTimeout.String(),
	}).Info("Sync watchdog started")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep fails every run whose heartbeat has gone stale
func (w *Watchdog) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleTimeout)
	stale, err := w.runs.GetStaleRuns(ctx, cutoff)
	if err != nil {
		w.logger.WithError(err).Error("Watchdog sweep failed")
		return
	}

	for _, run := range stale {
		if err := w.runs.FailRun(ctx, run.ID, "sync run abandoned: no heartbeat within stale timeout"); err != nil {
			w.logger.WithError(err).WithField("run_id", run.ID).Error("Failed to fail stale run")
			continue
		}
		w.logger.WithFields(logrus.Fields{
			"run_id":  run.ID,
			"site_id": run.SiteID,
		}).Warn("Swept stale sync run to FAILED")
	}
}
