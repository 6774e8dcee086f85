// Package sweep runs the periodic alert pass: re-derive alerts from the
// current snapshots, drop duplicates, forward the rest to the webhook
// sink, and persist them when a store is configured. It is decoupled from
// request handling and stops with its context.
package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/pegwatch/stablecoin-monitor/internal/dedup"
	"github.com/pegwatch/stablecoin-monitor/internal/metrics"
	"github.com/pegwatch/stablecoin-monitor/internal/notify"
	"github.com/pegwatch/stablecoin-monitor/internal/service"
	"github.com/pegwatch/stablecoin-monitor/internal/store"
)

type Sweeper struct {
	svc      *service.Service
	dd       *dedup.Deduplicator
	sink     *notify.Webhook
	db       *store.Store
	logger   *slog.Logger
	interval time.Duration
}

// New creates a Sweeper. dd and db may be nil; sink may be unconfigured.
func New(svc *service.Service, dd *dedup.Deduplicator, sink *notify.Webhook, db *store.Store, logger *slog.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{svc: svc, dd: dd, sink: sink, db: db, logger: logger, interval: interval}
}

// Run warms the caches then sweeps on a ticker until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.svc.Warmup(ctx)
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	events := s.svc.Alerts(ctx)
	if len(events) == 0 {
		return
	}
	s.logger.Info("alert sweep", "derived", len(events))

	for _, ev := range events {
		key := ev.Key()
		if s.dd.AlreadySent(ctx, key) {
			metrics.AlertsDeduplicatedTotal.WithLabelValues(ev.Type).Inc()
			continue
		}

		if s.sink.Enabled() {
			if err := s.sink.Send(ctx, ev); err != nil {
				metrics.AlertsFailedTotal.WithLabelValues(ev.Type).Inc()
				s.logger.Error("alert delivery failed", "type", ev.Type, "entity", ev.Entity, "error", err)
				continue
			}
			metrics.AlertsSentTotal.WithLabelValues(ev.Type).Inc()
		}

		if err := s.db.InsertAlert(ctx, ev); err != nil {
			s.logger.Error("persist alert failed", "type", ev.Type, "error", err)
		}

		s.dd.Record(ctx, key)
	}
}
