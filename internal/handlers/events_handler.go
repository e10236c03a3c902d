package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/middleware"
)

const keepAliveInterval = 25 * time.Second

// Subscriber streams a user's realtime events as raw JSON strings.
type Subscriber interface {
	Subscribe(ctx context.Context, userID uint) (<-chan string, func() error)
}

// EventsHandler exposes the realtime channel over Server-Sent Events for
// clients that cannot speak Redis.
type EventsHandler struct {
	sub Subscriber
	log *zap.Logger
}

// NewEventsHandler accepts a nil subscriber; the stream then answers 503.
func NewEventsHandler(sub Subscriber, log *zap.Logger) *EventsHandler {
	return &EventsHandler{sub: sub, log: log}
}

func (h *EventsHandler) Stream(c *gin.Context) {
	if h.sub == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "realtime_unavailable", "Realtime events are not configured.")
		return
	}

	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	events, closeSub := h.sub.Subscribe(ctx, userID)
	defer func() {
		if err := closeSub(); err != nil {
			h.log.Debug("close subscription", zap.Uint("user_id", userID), zap.Error(err))
		}
	}()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case msg, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("message", msg)
			return true
		case <-ticker.C:
			c.SSEvent("ping", "")
			return true
		}
	})
}
