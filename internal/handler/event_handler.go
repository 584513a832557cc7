package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"inkpost/internal/events"
)

const defaultHeartbeat = 25 * time.Second

// Subscriber hands out event streams bound to a context.
type Subscriber interface {
	Subscribe(ctx context.Context) <-chan events.Event
}

// EventHandler streams content change notifications.
type EventHandler struct {
	subscriber Subscriber
	heartbeat  time.Duration
}

// NewEventHandler creates a new event handler.
func NewEventHandler(subscriber Subscriber) *EventHandler {
	return &EventHandler{subscriber: subscriber, heartbeat: defaultHeartbeat}
}

// Stream godoc
// @Summary Stream content changes
// @Description Server-sent events: post.created and comment.added. Clients re-fetch affected posts.
// @Tags events
// @Produce text/event-stream
// @Success 200 {object} events.Event
// @Router /events [get]
func (h *EventHandler) Stream(c echo.Context) error {
	ctx := c.Request().Context()
	stream := h.subscriber.Subscribe(ctx)

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	w.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-stream:
			if !ok {
				return nil
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			w.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			w.Flush()
		}
	}
}
