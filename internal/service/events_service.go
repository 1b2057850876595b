package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dutyops/duty-roster-api/internal/models"
	"github.com/dutyops/duty-roster-api/internal/repository"
	"github.com/dutyops/duty-roster-api/pkg/config"
)

// Event types pushed to SSE subscribers.
const (
	EventScheduleUpdated = "scheduleUpdated"
	EventRecordAdded     = "recordAdded"
	EventRecordDeleted   = "recordDeleted"
)

// Event is one change notification.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// envelope wraps events on the Redis channel so an instance can skip the
// messages it published itself.
type envelope struct {
	Origin string          `json:"origin"`
	Event  json.RawMessage `json:"event"`
}

// EventHub fans schedule change events out to SSE subscribers. When Redis is
// enabled, events are also bridged over pub/sub so every instance behind a
// load balancer sees every change.
type EventHub struct {
	id      string
	buffer  int
	channel string
	cache   *repository.CacheRepository
	logger  *zap.Logger

	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

// NewEventHub constructs the hub. cache may wrap a nil Redis client, in
// which case events stay instance-local.
func NewEventHub(cfg config.EventsConfig, cache *repository.CacheRepository, logger *zap.Logger) *EventHub {
	buffer := cfg.ClientBuffer
	if buffer <= 0 {
		buffer = 16
	}
	return &EventHub{
		id:      uuid.NewString(),
		buffer:  buffer,
		channel: cfg.RedisChannel,
		cache:   cache,
		logger:  logger,
		clients: make(map[chan []byte]struct{}),
	}
}

// Subscribe registers an SSE client. The returned cancel func must be called
// when the client disconnects.
func (h *EventHub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, h.buffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.clients[ch]; ok {
			delete(h.clients, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// ClientCount returns the number of connected SSE subscribers.
func (h *EventHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends the event to local subscribers and, when Redis is wired,
// to peer instances.
func (h *EventHub) Broadcast(ctx context.Context, event Event) {
	raw, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("encode event", zap.String("type", event.Type), zap.Error(err))
		return
	}
	h.deliver(raw)

	if h.cache != nil && h.cache.Enabled() {
		wrapped, err := json.Marshal(envelope{Origin: h.id, Event: raw})
		if err != nil {
			return
		}
		if err := h.cache.Publish(ctx, h.channel, wrapped); err != nil {
			h.logger.Warn("publish event to peers", zap.Error(err))
		}
	}
}

// deliver pushes raw bytes to every local client. Slow consumers whose
// buffer is full drop the event rather than block the writer.
func (h *EventHub) deliver(raw []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- raw:
		default:
			h.logger.Warn("dropping event for slow subscriber")
		}
	}
}

// Run bridges peer events from Redis into the local hub until ctx ends.
// No-op without Redis.
func (h *EventHub) Run(ctx context.Context) {
	if h.cache == nil || !h.cache.Enabled() {
		return
	}
	sub := h.cache.Subscribe(ctx, h.channel)
	if sub == nil {
		return
	}
	defer sub.Close() //nolint:errcheck

	h.logger.Info("event bridge started", zap.String("channel", h.channel))
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				h.logger.Warn("decode peer event", zap.Error(err))
				continue
			}
			if env.Origin == h.id {
				continue
			}
			h.deliver(env.Event)
		}
	}
}

// ScheduleUpdated signals that roster or settings changed and clients
// should refetch the snapshot.
func (h *EventHub) ScheduleUpdated(ctx context.Context) {
	h.Broadcast(ctx, Event{Type: EventScheduleUpdated})
}

// RecordAdded signals a new override record.
func (h *EventHub) RecordAdded(ctx context.Context, record models.DutyRecord) {
	h.Broadcast(ctx, Event{Type: EventRecordAdded, Payload: map[string]interface{}{"record": record}})
}

// RecordDeleted signals that the record for a date was removed.
func (h *EventHub) RecordDeleted(ctx context.Context, date string) {
	h.Broadcast(ctx, Event{Type: EventRecordDeleted, Payload: map[string]interface{}{"date": date}})
}
