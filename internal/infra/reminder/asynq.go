package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
	"github.com/GHanamaAhmed/cancer-detection/internal/notify"
)

const (
	TypeAppointmentReminder = "appointment:reminder"

	// LeadTime is how long before the start the reminder fires.
	LeadTime = time.Hour
)

type Payload struct {
	AppointmentID uint `json:"appointment_id"`
}

func NewReminderTask(appointmentID uint, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(Payload{AppointmentID: appointmentID})
	if err != nil {
		return nil, nil, err
	}

	task := asynq.NewTask(TypeAppointmentReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(fmt.Sprintf("appointment-reminder-%d", appointmentID)),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// ======================================================
// Producer
// ======================================================

type Scheduler struct {
	client *asynq.Client
	now    func() time.Time
}

func NewScheduler(client *asynq.Client) *Scheduler {
	return &Scheduler{client: client, now: time.Now}
}

// ScheduleReminder is a no-op when the reminder time has already passed or
// the reminder is already queued.
func (s *Scheduler) ScheduleReminder(ctx context.Context, ap *models.Appointment) error {
	fireAt := ap.StartTime.Add(-LeadTime)
	if !fireAt.After(s.now()) {
		return nil
	}

	task, opts, err := NewReminderTask(ap.ID, fireAt)
	if err != nil {
		return err
	}

	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue reminder: %w", err)
	}
	return nil
}

// ======================================================
// Consumer
// ======================================================

type AppointmentLoader interface {
	GetAppointment(ctx context.Context, appointmentID uint) (*models.Appointment, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID uint, n notify.Notification)
}

type Handler struct {
	loader   AppointmentLoader
	notifier Notifier
	log      *zap.Logger
}

func NewHandler(loader AppointmentLoader, notifier Notifier, log *zap.Logger) *Handler {
	return &Handler{loader: loader, notifier: notifier, log: log}
}

func (h *Handler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var p Payload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		// retrying cannot fix a bad payload
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	ap, err := h.loader.GetAppointment(ctx, p.AppointmentID)
	if err != nil {
		return fmt.Errorf("load appointment %d: %w", p.AppointmentID, err)
	}

	// cancelled or rejected after scheduling
	if ap.Status != string(domain.StatusConfirmed) {
		h.log.Info("reminder skipped", zap.Uint("appointment_id", ap.ID), zap.String("status", ap.Status))
		return nil
	}

	data := map[string]string{
		"appointment_id": fmt.Sprint(ap.ID),
		"start_time":     ap.StartTime.UTC().Format(time.RFC3339),
	}

	for _, userID := range []uint{ap.PatientID, ap.DoctorID} {
		h.notifier.Notify(ctx, userID, notify.Notification{
			Type:    notify.EventAppointmentSoon,
			Title:   "Upcoming consultation",
			Body:    "Your consultation starts in one hour.",
			Data:    data,
			Payload: ap,
		})
	}

	h.log.Info("reminder sent", zap.Uint("appointment_id", ap.ID))
	return nil
}

// ======================================================
// Worker
// ======================================================

type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewWorker(opt asynq.RedisClientOpt, h *Handler) *Worker {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.Handle(TypeAppointmentReminder, h)

	return &Worker{srv: srv, mux: mux}
}

// Start runs the worker in the background.
func (w *Worker) Start() error {
	return w.srv.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
