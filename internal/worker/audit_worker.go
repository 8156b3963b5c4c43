// Package worker consumes store-saved notifications and checks each one
// against the persisted data.
package worker

import (
	"context"
	"sync/atomic"

	"exptracker/internal/amqp"
	"exptracker/internal/core"
	applog "exptracker/internal/log"
	"exptracker/internal/persist"
)

// AuditWorker reloads the persisted store for every notification and reports
// whether it matches the announced summary.
type AuditWorker struct {
	gateway persist.Gateway
	logger  *applog.Logger

	processed atomic.Int64
	drifted   atomic.Int64
}

// Check is the outcome of comparing one notification with the persisted data.
type Check struct {
	Status persist.LoadStatus
	Count  int
	Total  float64
	InSync bool
}

// Stats counts handled notifications.
type Stats struct {
	Processed int64
	Drifted   int64
}

func NewAuditWorker(gateway persist.Gateway, logger *applog.Logger) *AuditWorker {
	if logger == nil {
		logger = applog.Discard()
	}
	return &AuditWorker{
		gateway: gateway,
		logger:  logger.WithComponent(applog.ComponentWorker),
	}
}

// Check loads the persisted store and compares it with msg.
func (w *AuditWorker) Check(ctx context.Context, msg *amqp.StoreSavedMessage) Check {
	res := w.gateway.Load(ctx)
	c := Check{
		Status: res.Status,
		Count:  len(res.Expenses),
		Total:  core.Total(res.Expenses),
	}
	c.InSync = res.Status != persist.StatusCorrupt && c.Count == msg.Count && c.Total == msg.Total
	return c
}

// HandleStoreSaved is the consumer callback. A mismatch is logged and
// counted, never returned.
func (w *AuditWorker) HandleStoreSaved(ctx context.Context, msg *amqp.StoreSavedMessage) error {
	c := w.Check(ctx, msg)
	w.processed.Add(1)

	if c.InSync {
		w.logger.InfoContext(ctx, "Persisted data matches notification",
			applog.FieldCount, c.Count,
			applog.FieldTotal, c.Total,
			"saved_at", msg.Timestamp)
		return nil
	}

	w.drifted.Add(1)
	w.logger.WarnContext(ctx, "Persisted data differs from notification",
		applog.FieldLoadStatus, c.Status,
		"announced_count", msg.Count,
		"announced_total", msg.Total,
		applog.FieldCount, c.Count,
		applog.FieldTotal, c.Total,
		"saved_at", msg.Timestamp)
	return nil
}

func (w *AuditWorker) Stats() Stats {
	return Stats{
		Processed: w.processed.Load(),
		Drifted:   w.drifted.Load(),
	}
}
