package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var sseClients = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "duty_roster_sse_clients",
	Help: "Currently connected SSE subscribers.",
})

// EventSource hands out change event subscriptions.
type EventSource interface {
	Subscribe() (<-chan []byte, func())
}

// EventsHandler streams schedule change events over SSE.
type EventsHandler struct {
	source EventSource
	logger *zap.Logger
}

// NewEventsHandler constructs the events handler.
func NewEventsHandler(source EventSource, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{source: source, logger: logger}
}

// Stream godoc
// @Summary Server-sent schedule change events
// @Tags events
// @Produce text/event-stream
// @Router /events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}

	events, cancel := h.source.Subscribe()
	defer cancel()
	sseClients.Inc()
	defer sseClients.Dec()

	// Initial comment so proxies open the stream immediately.
	fmt.Fprint(c.Writer, ": connected\n\n")
	flusher.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case raw, open := <-events:
			if !open {
				return
			}
			fmt.Fprintf(c.Writer, "data: %s\n\n", raw)
			flusher.Flush()
		}
	}
}
