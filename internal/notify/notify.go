package notify

import (
	"context"

	"go.uber.org/zap"
)

// Event types delivered on the realtime channel.
const (
	EventMessageCreated     = "message.created"
	EventAppointmentUpdated = "appointment.updated"
	EventConnectionUpdated  = "connection.updated"
	EventLesionAnalyzed     = "lesion.analyzed"
	EventAppointmentSoon    = "appointment.reminder"
)

type Notification struct {
	Type    string
	Title   string
	Body    string
	Data    map[string]string
	Payload any
}

// Publisher delivers events to connected clients in realtime.
type Publisher interface {
	Publish(ctx context.Context, userID uint, eventType string, payload any) error
}

// Pusher delivers mobile push notifications.
type Pusher interface {
	Push(ctx context.Context, userID uint, title, body string, data map[string]string) error
}

// Service fans a notification out to realtime and push. Delivery failures are
// logged and never returned: notifications must not fail the request that
// triggered them.
type Service struct {
	realtime Publisher
	push     Pusher
	log      *zap.Logger
}

func NewService(realtime Publisher, push Pusher, log *zap.Logger) *Service {
	return &Service{realtime: realtime, push: push, log: log}
}

func (s *Service) Notify(ctx context.Context, userID uint, n Notification) {
	if s.realtime != nil {
		if err := s.realtime.Publish(ctx, userID, n.Type, n.Payload); err != nil {
			s.log.Warn("realtime publish failed",
				zap.Uint("user_id", userID), zap.String("type", n.Type), zap.Error(err))
		}
	}

	if s.push != nil && n.Title != "" {
		data := map[string]string{"type": n.Type}
		for k, v := range n.Data {
			data[k] = v
		}
		if err := s.push.Push(ctx, userID, n.Title, n.Body, data); err != nil {
			s.log.Warn("push failed",
				zap.Uint("user_id", userID), zap.String("type", n.Type), zap.Error(err))
		}
	}
}
