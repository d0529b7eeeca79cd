package monitoring

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/claimshield/compliance-engine/internal/claims"
	"github.com/claimshield/compliance-engine/internal/config"
)

type stubSource struct {
	reports []*claims.ValidationReport
	calls   int
}

func (s *stubSource) ReportsInWindow(_ context.Context, from, to time.Time) ([]*claims.ValidationReport, error) {
	s.calls++
	var out []*claims.ValidationReport
	for _, report := range s.reports {
		if !report.ValidatedAt.Before(from) && report.ValidatedAt.Before(to) {
			out = append(out, report)
		}
	}
	return out, nil
}

type memoryCache struct {
	entries map[string][]byte
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	payload, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(payload, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.entries == nil {
		c.entries = make(map[string][]byte)
	}
	c.entries[key] = payload
	return nil
}

func newTestMonitor(source ReportSource, cache Cache) *Monitor {
	cfg := config.MonitoringConfig{
		DefaultTimeRange: "30d",
		AlertThresholds:  testThresholds(),
	}
	clock := clockwork.NewFakeClockAt(windowEnd)
	manager := NewAlertManager(cfg.AlertThresholds, clock, nil, zap.NewNop())
	return NewMonitor(source, cache, manager, cfg, config.RiskThresholds{Critical: 90, High: 70, Medium: 40}, clock, zap.NewNop())
}

func TestMonitorSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("Bundle Covers The Requested Window", func(t *testing.T) {
		source := &stubSource{reports: []*claims.ValidationReport{
			reportWith(claims.StatusPass, 100, windowEnd.AddDate(0, 0, -3)),
			reportWith(claims.StatusFailed, 50, windowEnd.AddDate(0, 0, -5)),
			// Outside a 7d window.
			reportWith(claims.StatusPass, 100, windowEnd.AddDate(0, 0, -12)),
		}}
		monitor := newTestMonitor(source, nil)

		bundle, err := monitor.Snapshot(ctx, "7d")
		require.NoError(t, err)
		assert.Equal(t, 2, bundle.Metrics.TotalClaims)
		assert.Equal(t, Range7Days, bundle.Metrics.TimeRange)
		assert.Len(t, bundle.Trends, 2)
		assert.Equal(t, bundle.Metrics.OverallScore, bundle.Summary.OverallScore)
	})

	t.Run("Unknown Range Falls Back To Default", func(t *testing.T) {
		source := &stubSource{}
		monitor := newTestMonitor(source, nil)

		bundle, err := monitor.Snapshot(ctx, "yesterday")
		require.NoError(t, err)
		assert.Equal(t, Range30Days, bundle.Metrics.TimeRange)
	})

	t.Run("Second Snapshot Is Served From Cache", func(t *testing.T) {
		source := &stubSource{reports: []*claims.ValidationReport{
			reportWith(claims.StatusPass, 100, windowEnd.AddDate(0, 0, -1)),
		}}
		cache := &memoryCache{}
		monitor := newTestMonitor(source, cache)

		first, err := monitor.Snapshot(ctx, "30d")
		require.NoError(t, err)
		second, err := monitor.Snapshot(ctx, "30d")
		require.NoError(t, err)

		assert.Equal(t, 1, source.calls, "second snapshot must not hit the store")
		assert.Equal(t, first.Metrics, second.Metrics)
	})
}

func TestMonitorScan(t *testing.T) {
	ctx := context.Background()

	t.Run("Degraded Window Raises Alerts", func(t *testing.T) {
		var reports []*claims.ValidationReport
		for i := 0; i < 6; i++ {
			reports = append(reports, reportWith(claims.StatusFailed, 40, windowEnd.AddDate(0, 0, -1)))
		}
		for i := 0; i < 4; i++ {
			reports = append(reports, reportWith(claims.StatusPass, 100, windowEnd.AddDate(0, 0, -1)))
		}
		monitor := newTestMonitor(&stubSource{reports: reports}, nil)

		raised, err := monitor.Scan(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, raised)
		assert.NotEmpty(t, monitor.Alerts().Alerts())
	})

	t.Run("Healthy Window Raises Nothing", func(t *testing.T) {
		var reports []*claims.ValidationReport
		for i := 0; i < 10; i++ {
			reports = append(reports, reportWith(claims.StatusPass, 100, windowEnd.AddDate(0, 0, -1)))
		}
		monitor := newTestMonitor(&stubSource{reports: reports}, nil)

		raised, err := monitor.Scan(ctx)
		require.NoError(t, err)
		assert.Empty(t, raised)
	})
}
