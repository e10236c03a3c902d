package notify

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type recordingPublisher struct {
	events []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, userID uint, eventType string, _ any) error {
	p.events = append(p.events, eventType)
	return p.err
}

type recordingPusher struct {
	titles []string
	data   []map[string]string
}

func (p *recordingPusher) Push(_ context.Context, _ uint, title, _ string, data map[string]string) error {
	p.titles = append(p.titles, title)
	p.data = append(p.data, data)
	return nil
}

func TestNotify_FansOut(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("redis down")}
	push := &recordingPusher{}
	svc := NewService(pub, push, zap.NewNop())

	svc.Notify(context.Background(), 7, Notification{
		Type:  EventAppointmentUpdated,
		Title: "Appointment confirmed",
		Data:  map[string]string{"appointment_id": "3"},
	})

	if len(pub.events) != 1 || pub.events[0] != EventAppointmentUpdated {
		t.Fatalf("expected realtime event, got %v", pub.events)
	}
	if len(push.titles) != 1 {
		t.Fatalf("expected push despite realtime failure, got %d", len(push.titles))
	}
	if push.data[0]["type"] != EventAppointmentUpdated || push.data[0]["appointment_id"] != "3" {
		t.Fatalf("unexpected push data %v", push.data[0])
	}
}

func TestNotify_SilentEventsSkipPush(t *testing.T) {
	pub := &recordingPublisher{}
	push := &recordingPusher{}
	svc := NewService(pub, push, zap.NewNop())

	svc.Notify(context.Background(), 7, Notification{Type: EventConnectionUpdated})

	if len(push.titles) != 0 {
		t.Fatalf("expected no push for untitled notification, got %d", len(push.titles))
	}
}
