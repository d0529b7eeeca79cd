package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewEvent(t *testing.T) {
	ts := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Identical Inputs Yield Identical IDs", func(t *testing.T) {
		first := NewEvent(EventTypeRiskAssessed, "CLM-1", ts, nil)
		second := NewEvent(EventTypeRiskAssessed, "CLM-1", ts, nil)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("Different Subjects Yield Different IDs", func(t *testing.T) {
		first := NewEvent(EventTypeRiskAssessed, "CLM-1", ts, nil)
		second := NewEvent(EventTypeRiskAssessed, "CLM-2", ts, nil)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("Fields Are Populated", func(t *testing.T) {
		event := NewEvent(EventTypeAlertCreated, "", ts, map[string]interface{}{"alert_id": "a-1"})
		assert.Equal(t, EventTypeAlertCreated, event.Type)
		assert.Equal(t, "success", event.Result)
		assert.Equal(t, ts, event.Timestamp)
		assert.Len(t, event.ID, 24)
	})
}

func TestLogSink(t *testing.T) {
	sink := NewLogSink(zap.NewNop())
	event := NewEvent(EventTypeRiskAssessed, "CLM-1", time.Now(), nil)
	require.NoError(t, sink.Emit(context.Background(), event))
	require.NoError(t, sink.Close())
}
