package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dutyops/duty-roster-api/internal/models"
	"github.com/dutyops/duty-roster-api/pkg/config"
)

func newTestHub() *EventHub {
	return NewEventHub(config.EventsConfig{ClientBuffer: 4}, nil, zap.NewNop())
}

func TestHubDeliversToSubscribers(t *testing.T) {
	hub := newTestHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.RecordDeleted(context.Background(), "2026-01-02")

	raw := <-ch
	var event Event
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, EventRecordDeleted, event.Type)
	payload := event.Payload.(map[string]interface{})
	assert.Equal(t, "2026-01-02", payload["date"])
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := newTestHub()
	ch, cancel := hub.Subscribe()
	require.Equal(t, 1, hub.ClientCount())

	cancel()
	assert.Equal(t, 0, hub.ClientCount())
	_, open := <-ch
	assert.False(t, open)

	// Double cancel is safe.
	cancel()
}

func TestHubDropsEventsForSlowSubscriber(t *testing.T) {
	hub := newTestHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	// Fill the buffer without draining; extra events must not block.
	for i := 0; i < 10; i++ {
		hub.ScheduleUpdated(context.Background())
	}
	assert.Len(t, ch, 4)
}

func TestHubRecordAddedPayload(t *testing.T) {
	hub := newTestHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	personID := "p1"
	name := "Alice"
	hub.RecordAdded(context.Background(), models.DutyRecord{
		Date:       "2026-01-05",
		PersonID:   &personID,
		PersonName: &name,
		Kind:       models.KindManual,
	})

	var event Event
	require.NoError(t, json.Unmarshal(<-ch, &event))
	assert.Equal(t, EventRecordAdded, event.Type)
}
