package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Event types emitted by the engine and monitoring layer.
const (
	EventTypeRiskAssessed      = "risk_assessed"
	EventTypeAlertCreated      = "alert_created"
	EventTypeAlertAcknowledged = "alert_acknowledged"
)

// Event is a single audit trail entry. The engine emits events; persistence
// and delivery belong to the configured sink.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"event_type"`
	ClaimID   string                 `json:"claim_id,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Result    string                 `json:"result"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewEvent builds an event with a deterministic ID derived from its type,
// subject, and timestamp.
func NewEvent(eventType, claimID string, ts time.Time, details map[string]interface{}) Event {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", eventType, claimID, ts.UnixNano())))
	return Event{
		ID:        hex.EncodeToString(sum[:])[:24],
		Type:      eventType,
		ClaimID:   claimID,
		Details:   details,
		Result:    "success",
		Timestamp: ts,
	}
}

// Sink receives audit events. Implementations must be safe for concurrent
// use; the engine emits from parallel validation workers.
type Sink interface {
	Emit(ctx context.Context, event Event) error
	Close() error
}

// LogSink writes audit events to the structured log. It backs development
// environments and tests.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a log-backed audit sink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit logs the event.
func (s *LogSink) Emit(_ context.Context, event Event) error {
	s.logger.Info("audit event",
		zap.String("audit_id", event.ID),
		zap.String("event_type", event.Type),
		zap.String("claim_id", event.ClaimID),
		zap.Time("timestamp", event.Timestamp),
		zap.Any("details", event.Details),
	)
	return nil
}

// Close implements Sink.
func (s *LogSink) Close() error { return nil }
