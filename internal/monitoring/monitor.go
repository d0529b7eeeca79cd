package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/claimshield/compliance-engine/internal/claims"
	"github.com/claimshield/compliance-engine/internal/config"
)

// ReportSource loads validation reports for a time window, oldest first.
type ReportSource interface {
	ReportsInWindow(ctx context.Context, from, to time.Time) ([]*claims.ValidationReport, error)
}

// Cache stores computed monitoring payloads. A nil-safe no-op implementation
// is acceptable; the monitor recomputes on every miss.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// Bundle is the full monitoring payload for one time window.
type Bundle struct {
	Metrics  ComplianceMetrics `json:"metrics"`
	Trends   []TrendPoint      `json:"trends"`
	Patterns []claims.Pattern  `json:"patterns,omitempty"`
	Summary  ExecutiveSummary  `json:"summary"`
}

// Monitor computes compliance metrics, trends, patterns, and summaries over
// the report store, and drives alert evaluation.
type Monitor struct {
	source ReportSource
	cache  Cache
	alerts *AlertManager
	cfg    config.MonitoringConfig
	risk   config.RiskThresholds
	clock  clockwork.Clock
	logger *zap.Logger
}

// NewMonitor creates a monitor. The cache may be nil.
func NewMonitor(source ReportSource, cache Cache, alerts *AlertManager, cfg config.MonitoringConfig, risk config.RiskThresholds, clock clockwork.Clock, logger *zap.Logger) *Monitor {
	return &Monitor{
		source: source,
		cache:  cache,
		alerts: alerts,
		cfg:    cfg,
		risk:   risk,
		clock:  clock,
		logger: logger,
	}
}

// Snapshot computes the monitoring bundle for a range string. Unrecognized
// ranges fall back to the configured default. Cached bundles are served
// until their TTL expires.
func (m *Monitor) Snapshot(ctx context.Context, rawRange string) (*Bundle, error) {
	if rawRange == "" {
		rawRange = m.cfg.DefaultTimeRange
	}
	timeRange, _ := ParseTimeRange(rawRange)
	cacheKey := fmt.Sprintf("compliance:bundle:%s", timeRange)

	if m.cache != nil {
		var cached Bundle
		hit, err := m.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			m.logger.Warn("metrics cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	bundle, err := m.compute(ctx, timeRange)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		if err := m.cache.Set(ctx, cacheKey, bundle); err != nil {
			m.logger.Warn("metrics cache write failed", zap.Error(err))
		}
	}
	return bundle, nil
}

func (m *Monitor) compute(ctx context.Context, timeRange TimeRange) (*Bundle, error) {
	now := m.clock.Now().UTC()
	from, to := WindowBounds(now, timeRange)

	reports, err := m.source.ReportsInWindow(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports for window: %w", err)
	}

	metrics := ComputeMetrics(reports, timeRange, from, to)
	patterns := DetectPatterns(reports)
	summary := BuildSummary(metrics, patterns, m.alerts.Alerts(), m.risk, now)

	return &Bundle{
		Metrics:  metrics,
		Trends:   ComputeTrends(reports),
		Patterns: patterns,
		Summary:  summary,
	}, nil
}

// Scan recomputes the default window and evaluates alert thresholds. The
// scheduler invokes it periodically; raised alerts are returned for
// persistence and notification by the caller.
func (m *Monitor) Scan(ctx context.Context) ([]*Alert, error) {
	timeRange, _ := ParseTimeRange(m.cfg.DefaultTimeRange)
	bundle, err := m.compute(ctx, timeRange)
	if err != nil {
		return nil, err
	}

	raised := m.alerts.EvaluateMetrics(ctx, bundle.Metrics)
	if len(raised) > 0 {
		m.logger.Info("compliance scan raised alerts",
			zap.Int("count", len(raised)),
			zap.String("time_range", string(timeRange)),
		)
	}
	return raised, nil
}

// Alerts exposes the alert manager for the HTTP layer.
func (m *Monitor) Alerts() *AlertManager { return m.alerts }
