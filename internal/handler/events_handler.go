package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fly8-hq/fly8-api/internal/realtime"
	"github.com/fly8-hq/fly8-api/internal/service"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
	"github.com/fly8-hq/fly8-api/pkg/response"
)

// EventsHandler serves the server-sent events stream backing real-time
// notifications. Authentication happens at the handshake; the connection is
// subscribed to its per-user and per-role channels before the first byte is
// streamed, so no published event can slip past a connected client.
type EventsHandler struct {
	hub       *realtime.Hub
	metrics   *service.MetricsService
	heartbeat time.Duration
}

// NewEventsHandler creates a new handler.
func NewEventsHandler(hub *realtime.Hub, metrics *service.MetricsService, heartbeat time.Duration) *EventsHandler {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return &EventsHandler{hub: hub, metrics: metrics, heartbeat: heartbeat}
}

// Stream godoc
// @Summary Open the live event stream
// @Tags Events
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "event stream"
// @Failure 401 {object} response.Envelope
// @Router /events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	sub := h.hub.Subscribe(claims.UserID, claims.Role)
	defer h.hub.Unsubscribe(sub)

	if h.metrics != nil {
		h.metrics.ConnectionOpened()
		defer h.metrics.ConnectionClosed()
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	c.SSEvent("connected", gin.H{"userId": claims.UserID, "role": claims.Role})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent(event.Name, event.Payload)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().UTC().Unix())
			return true
		case <-clientGone:
			return false
		}
	})
}
