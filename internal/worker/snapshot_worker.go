package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/logiops/ops-portal/internal/service"
)

// SnapshotWorker periodically recomputes the unfiltered KPI watch
// report so the dashboard's first paint is served from cache.
type SnapshotWorker struct {
	reports  *service.ReportService
	interval time.Duration
	logger   *zap.Logger
}

// NewSnapshotWorker creates the worker.
func NewSnapshotWorker(reports *service.ReportService, interval time.Duration, logger *zap.Logger) *SnapshotWorker {
	return &SnapshotWorker{reports: reports, interval: interval, logger: logger}
}

// Run starts the refresh loop and should be launched in its own
// goroutine. A zero interval disables the worker.
func (w *SnapshotWorker) Run(ctx context.Context) {
	if w.interval <= 0 {
		return
	}

	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("snapshot worker shutting down")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *SnapshotWorker) refresh(ctx context.Context) {
	if err := w.reports.RefreshKPIWatch(ctx); err != nil {
		w.logger.Warn("kpi watch snapshot refresh failed", zap.Error(err))
		return
	}
	w.logger.Debug("kpi watch snapshot refreshed")
}
