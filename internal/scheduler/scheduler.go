package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/claimshield/compliance-engine/internal/metrics"
	"github.com/claimshield/compliance-engine/internal/monitoring"
)

// AlertPersister saves alerts raised by scheduled scans.
type AlertPersister interface {
	SaveAlert(ctx context.Context, alert *monitoring.Alert) error
}

// Scheduler runs periodic compliance scans over the monitoring layer.
type Scheduler struct {
	cron      *cron.Cron
	monitor   *monitoring.Monitor
	store     AlertPersister
	collector *metrics.Collector
	logger    *zap.Logger
}

// New creates a scheduler with the compliance scan registered on the given
// cron schedule. The store may be nil, in which case raised alerts live only
// in memory.
func New(schedule string, monitor *monitoring.Monitor, store AlertPersister, collector *metrics.Collector, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		monitor:   monitor,
		store:     store,
		collector: collector,
		logger:    logger,
	}
	if _, err := s.cron.AddFunc(schedule, s.runScan); err != nil {
		return nil, fmt.Errorf("invalid scan schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins scheduled execution.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("compliance scan scheduler started")
}

// Stop halts scheduling and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("compliance scan scheduler stopped")
}

func (s *Scheduler) runScan() {
	ctx := context.Background()
	raised, err := s.monitor.Scan(ctx)
	if err != nil {
		s.logger.Error("scheduled compliance scan failed", zap.Error(err))
		return
	}
	for _, alert := range raised {
		if s.collector != nil {
			s.collector.ObserveAlert(alert.Severity)
		}
		if s.store == nil {
			continue
		}
		if err := s.store.SaveAlert(ctx, alert); err != nil {
			s.logger.Error("failed to persist alert",
				zap.String("alert_id", alert.ID),
				zap.Error(err),
			)
		}
	}
}
