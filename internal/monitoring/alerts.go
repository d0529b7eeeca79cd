package monitoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/claimshield/compliance-engine/internal/audit"
	"github.com/claimshield/compliance-engine/internal/config"
)

// Alert severities, ordered most severe first.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Alert metric types.
const (
	AlertTypeComplianceScore = "compliance_score"
	AlertTypeValidationRate  = "validation_rate"
	AlertTypeDenialRate      = "denial_rate"
)

// severityColors map severities to dashboard display colors.
var severityColors = map[string]string{
	SeverityCritical: "#dc2626",
	SeverityHigh:     "#ea580c",
	SeverityMedium:   "#d97706",
	SeverityLow:      "#2563eb",
}

// SeverityColor returns the display color for a severity, defaulting to the
// low-severity color.
func SeverityColor(severity string) string {
	if color, ok := severityColors[severity]; ok {
		return color
	}
	return severityColors[SeverityLow]
}

// Alert is raised when a tracked metric crosses a severity threshold. Alerts
// are never deleted; they are resolved only by explicit acknowledgment.
type Alert struct {
	ID             string     `json:"id"`
	Severity       string     `json:"severity"`
	Type           string     `json:"type"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Color          string     `json:"color"`
	MetricValue    float64    `json:"metric_value"`
	AffectedClaims int        `json:"affected_claims"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedBy string     `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// AlertManager evaluates metrics against configured thresholds and owns the
// alert lifecycle.
type AlertManager struct {
	thresholds config.AlertThresholds
	clock      clockwork.Clock
	sink       audit.Sink
	logger     *zap.Logger

	mu     sync.RWMutex
	alerts map[string]*Alert
	order  []string
}

// NewAlertManager creates an alert manager. The sink may be nil.
func NewAlertManager(thresholds config.AlertThresholds, clock clockwork.Clock, sink audit.Sink, logger *zap.Logger) *AlertManager {
	return &AlertManager{
		thresholds: thresholds,
		clock:      clock,
		sink:       sink,
		logger:     logger,
		alerts:     make(map[string]*Alert),
	}
}

// EvaluateMetrics compares the window's metrics against the configured
// severity cutoffs and raises one alert per crossed metric. An open
// unacknowledged alert of the same type and severity suppresses a fresh one,
// so a condition persisting across scans does not accumulate duplicates. The
// raised alerts are returned; previously raised alerts are unaffected.
func (m *AlertManager) EvaluateMetrics(ctx context.Context, metrics ComplianceMetrics) []*Alert {
	var raised []*Alert

	if metrics.TotalClaims == 0 {
		return raised
	}

	if severity, ok := severityBelow(metrics.OverallScore, m.thresholds.ComplianceScore); ok && !m.hasOpen(AlertTypeComplianceScore, severity) {
		raised = append(raised, m.raise(ctx, Alert{
			Severity:       severity,
			Type:           AlertTypeComplianceScore,
			Title:          fmt.Sprintf("Compliance score dropped to %.1f", metrics.OverallScore),
			Description:    fmt.Sprintf("Average compliance score over the %s window is %.1f", metrics.TimeRange, metrics.OverallScore),
			MetricValue:    metrics.OverallScore,
			AffectedClaims: metrics.NonCompliantClaims + metrics.PendingReview,
		}))
	}
	if severity, ok := severityBelow(metrics.ValidationRate, m.thresholds.ValidationRate); ok && !m.hasOpen(AlertTypeValidationRate, severity) {
		raised = append(raised, m.raise(ctx, Alert{
			Severity:       severity,
			Type:           AlertTypeValidationRate,
			Title:          fmt.Sprintf("Validation rate dropped to %.1f%%", metrics.ValidationRate),
			Description:    fmt.Sprintf("Only %d of %d claims cleared validation in the %s window", metrics.CompliantClaims, metrics.TotalClaims, metrics.TimeRange),
			MetricValue:    metrics.ValidationRate,
			AffectedClaims: metrics.NonCompliantClaims + metrics.PendingReview,
		}))
	}
	if severity, ok := severityAbove(metrics.DenialRate, m.thresholds.DenialRate); ok && !m.hasOpen(AlertTypeDenialRate, severity) {
		raised = append(raised, m.raise(ctx, Alert{
			Severity:       severity,
			Type:           AlertTypeDenialRate,
			Title:          fmt.Sprintf("Denial rate rose to %.1f%%", metrics.DenialRate),
			Description:    fmt.Sprintf("%d of %d claims failed validation in the %s window", metrics.NonCompliantClaims, metrics.TotalClaims, metrics.TimeRange),
			MetricValue:    metrics.DenialRate,
			AffectedClaims: metrics.NonCompliantClaims,
		}))
	}
	return raised
}

// hasOpen reports whether an unacknowledged alert of the given type and
// severity is outstanding.
func (m *AlertManager) hasOpen(alertType, severity string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, alert := range m.alerts {
		if alert.Type == alertType && alert.Severity == severity && !alert.Acknowledged {
			return true
		}
	}
	return false
}

func (m *AlertManager) raise(ctx context.Context, alert Alert) *Alert {
	alert.ID = uuid.New().String()
	alert.Color = SeverityColor(alert.Severity)
	alert.CreatedAt = m.clock.Now().UTC()

	stored := alert
	m.mu.Lock()
	m.alerts[stored.ID] = &stored
	m.order = append(m.order, stored.ID)
	m.mu.Unlock()

	m.emit(ctx, audit.EventTypeAlertCreated, &alert)
	m.logger.Warn("compliance alert raised",
		zap.String("alert_id", alert.ID),
		zap.String("severity", alert.Severity),
		zap.String("type", alert.Type),
		zap.Float64("metric_value", alert.MetricValue),
	)
	return &alert
}

// Restore seeds the manager with previously persisted alerts, oldest first.
func (m *AlertManager) Restore(alerts []*Alert) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, alert := range alerts {
		if _, exists := m.alerts[alert.ID]; exists {
			continue
		}
		stored := *alert
		m.alerts[stored.ID] = &stored
		m.order = append(m.order, stored.ID)
	}
}

// Alerts returns all alerts, newest first. The returned alerts are copies;
// mutating them does not touch the manager's state.
func (m *AlertManager) Alerts() []*Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Alert, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		alert := *m.alerts[m.order[i]]
		out = append(out, &alert)
	}
	return out
}

// Acknowledge marks an alert as acknowledged and returns a copy of its new
// state. The operation is idempotent: acknowledging an already-acknowledged
// alert changes nothing and is not an error. An unknown ID is an error.
func (m *AlertManager) Acknowledge(ctx context.Context, alertID, acknowledgedBy string) (*Alert, error) {
	m.mu.Lock()
	alert, ok := m.alerts[alertID]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("alert %s not found", alertID)
	}
	if alert.Acknowledged {
		snapshot := *alert
		m.mu.Unlock()
		return &snapshot, nil
	}
	now := m.clock.Now().UTC()
	alert.Acknowledged = true
	alert.AcknowledgedBy = acknowledgedBy
	alert.AcknowledgedAt = &now
	snapshot := *alert
	m.mu.Unlock()

	m.emit(ctx, audit.EventTypeAlertAcknowledged, &snapshot)
	return &snapshot, nil
}

func (m *AlertManager) emit(ctx context.Context, eventType string, alert *Alert) {
	if m.sink == nil {
		return
	}
	event := audit.NewEvent(eventType, "", m.clock.Now().UTC(), map[string]interface{}{
		"alert_id":        alert.ID,
		"severity":        alert.Severity,
		"alert_type":      alert.Type,
		"metric_value":    alert.MetricValue,
		"affected_claims": alert.AffectedClaims,
	})
	if err := m.sink.Emit(ctx, event); err != nil {
		m.logger.Warn("failed to emit audit event",
			zap.String("event_type", eventType),
			zap.String("alert_id", alert.ID),
			zap.Error(err),
		)
	}
}

// severityBelow classifies a metric that alerts when it falls under a
// cutoff. Cutoffs are ordered critical <= high <= medium <= low.
func severityBelow(value float64, band config.ThresholdBand) (string, bool) {
	switch {
	case value < band.Critical:
		return SeverityCritical, true
	case value < band.High:
		return SeverityHigh, true
	case value < band.Medium:
		return SeverityMedium, true
	case value < band.Low:
		return SeverityLow, true
	default:
		return "", false
	}
}

// severityAbove classifies a metric that alerts when it rises over a cutoff.
// Cutoffs are ordered critical >= high >= medium >= low.
func severityAbove(value float64, band config.ThresholdBand) (string, bool) {
	switch {
	case value > band.Critical:
		return SeverityCritical, true
	case value > band.High:
		return SeverityHigh, true
	case value > band.Medium:
		return SeverityMedium, true
	case value > band.Low:
		return SeverityLow, true
	default:
		return "", false
	}
}
