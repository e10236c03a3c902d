package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/GHanamaAhmed/cancer-detection/internal/models"
	"github.com/GHanamaAhmed/cancer-detection/internal/notify"
)

type stubLoader struct {
	ap *models.Appointment
}

func (l stubLoader) GetAppointment(context.Context, uint) (*models.Appointment, error) {
	if l.ap == nil {
		return nil, errors.New("not found")
	}
	return l.ap, nil
}

type recordingNotifier struct {
	users []uint
}

func (n *recordingNotifier) Notify(_ context.Context, userID uint, msg notify.Notification) {
	n.users = append(n.users, userID)
}

func TestNewReminderTask(t *testing.T) {
	task, opts, err := NewReminderTask(42, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TypeAppointmentReminder {
		t.Fatalf("unexpected type %s", task.Type())
	}
	if string(task.Payload()) != `{"appointment_id":42}` {
		t.Fatalf("unexpected payload %s", task.Payload())
	}
	if len(opts) != 3 {
		t.Fatalf("expected 3 options, got %d", len(opts))
	}
}

func TestScheduleReminder_PastIsNoop(t *testing.T) {
	// a nil client would panic if the scheduler tried to enqueue
	s := &Scheduler{now: time.Now}
	ap := &models.Appointment{ID: 1, StartTime: time.Now().Add(30 * time.Minute)}

	if err := s.ScheduleReminder(context.Background(), ap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHandler_NotifiesBothParticipants(t *testing.T) {
	notifier := &recordingNotifier{}
	ap := &models.Appointment{ID: 9, DoctorID: 1, PatientID: 2, Status: "confirmed", StartTime: time.Now().Add(time.Hour)}
	h := NewHandler(stubLoader{ap: ap}, notifier, zap.NewNop())

	task, _, _ := NewReminderTask(9, time.Now())
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.users) != 2 || notifier.users[0] != 2 || notifier.users[1] != 1 {
		t.Fatalf("expected patient then doctor, got %v", notifier.users)
	}
}

func TestHandler_SkipsCancelled(t *testing.T) {
	notifier := &recordingNotifier{}
	ap := &models.Appointment{ID: 9, DoctorID: 1, PatientID: 2, Status: "cancelled"}
	h := NewHandler(stubLoader{ap: ap}, notifier, zap.NewNop())

	task, _, _ := NewReminderTask(9, time.Now())
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.users) != 0 {
		t.Fatalf("expected no notifications, got %v", notifier.users)
	}
}

func TestHandler_BadPayloadSkipsRetry(t *testing.T) {
	h := NewHandler(stubLoader{}, &recordingNotifier{}, zap.NewNop())

	err := h.ProcessTask(context.Background(), asynq.NewTask(TypeAppointmentReminder, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}
