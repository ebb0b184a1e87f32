// Package worker rebuilds reports in the background when record change
// events arrive, so interactive reads hit a warm cache.
package worker

import (
	"context"
	"fmt"

	"burokasa/internal/amqp"
	"burokasa/internal/core"
	applog "burokasa/internal/log"
	"burokasa/internal/services"
)

// warmPeriods are the selections the reporting screens open with; those are
// the ones worth precomputing.
var warmPeriods = []core.PeriodTag{
	core.PeriodThisMonth,
	core.PeriodLast3Months,
	core.PeriodThisYear,
}

// RecomputeWorker consumes record changes and recomputes the standard
// reports. It never patches a cached value: it drops everything and runs a
// fresh pass, mirroring how the engine itself works.
type RecomputeWorker struct {
	reports *services.ReportService
	logger  *applog.Logger
}

func NewRecomputeWorker(reports *services.ReportService, logger *applog.Logger) *RecomputeWorker {
	if logger == nil {
		logger = applog.New(applog.Config{Component: applog.ComponentWorker})
	}
	return &RecomputeWorker{
		reports: reports,
		logger:  logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleChange is the AMQP message handler. Returning an error requeues the
// delivery.
func (w *RecomputeWorker) HandleChange(ctx context.Context) func(*amqp.RecordChangeMessage) error {
	return func(msg *amqp.RecordChangeMessage) error {
		w.logger.InfoContext(ctx, "Record change received",
			applog.FieldSourceKind, msg.Kind,
			applog.FieldRecordID, msg.ID,
			"op", msg.Op)

		w.reports.InvalidateReports()
		return w.Warm(ctx)
	}
}

// Warm precomputes the default dashboard selections and the trend report.
func (w *RecomputeWorker) Warm(ctx context.Context) error {
	for _, tag := range warmPeriods {
		if _, err := w.reports.BuildDashboard(ctx, tag, nil); err != nil {
			return fmt.Errorf("warm dashboard %s: %w", tag, err)
		}
	}
	if _, err := w.reports.BuildTrend(ctx); err != nil {
		return fmt.Errorf("warm trend: %w", err)
	}
	w.logger.InfoContext(ctx, "Reports warmed", "periods", len(warmPeriods))
	return nil
}
