package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

func requested(repo *fakeRepo, withService bool) *models.Appointment {
	ap := repo.book(doctorID, monday.Add(10*time.Hour), 60, domain.StatusRequested)
	if withService {
		ap.ServiceID = uintPtr(5)
		ap.Service = repo.services[5]
	}
	return ap
}

func TestConfirmAppointment_SchedulesReminderAndCheckout(t *testing.T) {
	repo := seededRepo()
	ap := requested(repo, true)
	notifier := &recordingNotifier{}
	reminders := &recordingScheduler{}
	checkout := &stubCheckout{}

	uc := NewConfirmAppointment(repo, newTestDispatcher(t), notifier, reminders, checkout, zap.NewNop())
	uc.now = fixedClock(fixedNow)

	got, err := uc.Execute(context.Background(), doctorID, ap.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Status != string(domain.StatusConfirmed) || got.ConfirmedAt == nil {
		t.Fatalf("expected confirmed appointment, got %+v", got)
	}
	if got.PaymentURL != "https://pay.example/pref-1" || got.PaymentPreferenceID != "pref-1" {
		t.Fatalf("expected payment link, got %q", got.PaymentURL)
	}
	if len(reminders.scheduled) != 1 || reminders.scheduled[0] != ap.ID {
		t.Fatalf("expected reminder for %d, got %v", ap.ID, reminders.scheduled)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].userID != patientID {
		t.Fatalf("expected patient notification, got %+v", notifier.sent)
	}

	stored, _ := repo.GetAppointment(context.Background(), ap.ID)
	if stored.Status != string(domain.StatusConfirmed) {
		t.Fatalf("status not persisted: %s", stored.Status)
	}
}

func TestConfirmAppointment_CheckoutFailureStillConfirms(t *testing.T) {
	repo := seededRepo()
	ap := requested(repo, true)

	uc := NewConfirmAppointment(repo, newTestDispatcher(t), &recordingNotifier{}, nil, &stubCheckout{err: errors.New("gateway down")}, zap.NewNop())
	uc.now = fixedClock(fixedNow)

	got, err := uc.Execute(context.Background(), doctorID, ap.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != string(domain.StatusConfirmed) || got.PaymentURL != "" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestConfirmAppointment_FreeConsultationSkipsCheckout(t *testing.T) {
	repo := seededRepo()
	ap := requested(repo, false)
	checkout := &stubCheckout{}

	uc := NewConfirmAppointment(repo, newTestDispatcher(t), &recordingNotifier{}, nil, checkout, zap.NewNop())
	uc.now = fixedClock(fixedNow)

	if _, err := uc.Execute(context.Background(), doctorID, ap.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checkout.calls != 0 {
		t.Fatalf("expected no checkout, got %d calls", checkout.calls)
	}
}

func TestConfirmAppointment_OnlyOwningDoctor(t *testing.T) {
	repo := seededRepo()
	ap := requested(repo, false)

	uc := NewConfirmAppointment(repo, newTestDispatcher(t), &recordingNotifier{}, nil, nil, zap.NewNop())
	uc.now = fixedClock(fixedNow)

	_, err := uc.Execute(context.Background(), patientID, ap.ID)
	wantCode(t, err, "appointment_not_found")
}

func TestRejectAppointment(t *testing.T) {
	repo := seededRepo()
	ap := requested(repo, false)
	notifier := &recordingNotifier{}

	uc := NewRejectAppointment(repo, newTestDispatcher(t), notifier)
	uc.now = fixedClock(fixedNow)

	got, err := uc.Execute(context.Background(), doctorID, ap.ID, "fully booked that week")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != string(domain.StatusRejected) || got.Notes != "fully booked that week" {
		t.Fatalf("unexpected result %+v", got)
	}

	// a rejected request cannot be rejected again
	_, err = uc.Execute(context.Background(), doctorID, ap.ID, "")
	wantCode(t, err, "invalid_state")
}

func TestCancelAppointment_ByPatientNotifiesDoctor(t *testing.T) {
	repo := seededRepo()
	ap := requested(repo, false)
	notifier := &recordingNotifier{}

	uc := NewCancelAppointment(repo, newTestDispatcher(t), notifier)
	uc.now = fixedClock(fixedNow)

	got, err := uc.Execute(context.Background(), patientID, ap.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != string(domain.StatusCancelled) {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].userID != doctorID {
		t.Fatalf("expected doctor notification, got %+v", notifier.sent)
	}

	_, err = uc.Execute(context.Background(), 42, ap.ID)
	wantCode(t, err, "appointment_not_found")
}

func TestCompleteAppointment_RequiresStart(t *testing.T) {
	repo := seededRepo()
	ap := repo.book(doctorID, monday.Add(10*time.Hour), 60, domain.StatusConfirmed)

	uc := NewCompleteAppointment(repo, newTestDispatcher(t), &recordingNotifier{})
	uc.now = fixedClock(fixedNow)

	_, err := uc.Execute(context.Background(), doctorID, ap.ID)
	wantCode(t, err, "appointment_not_started")

	uc.now = fixedClock(monday.Add(10*time.Hour + 45*time.Minute))
	got, err := uc.Execute(context.Background(), doctorID, ap.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != string(domain.StatusCompleted) {
		t.Fatalf("expected completed, got %s", got.Status)
	}
}

func TestListAppointments_ByRole(t *testing.T) {
	repo := seededRepo()
	repo.book(doctorID, monday.Add(9*time.Hour), 30, domain.StatusConfirmed)
	repo.book(doctorID, monday.AddDate(0, 0, 7).Add(9*time.Hour), 30, domain.StatusRequested)

	byDate := NewListAppointmentsByDate(repo, testSettings)
	byDate.now = fixedClock(fixedNow)

	doctorDay, err := byDate.Execute(context.Background(), repo.users[doctorID], "2026-10-19")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doctorDay) != 1 {
		t.Fatalf("expected 1 appointment on the 19th, got %d", len(doctorDay))
	}

	today, err := byDate.Execute(context.Background(), repo.users[patientID], "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(today) != 0 {
		t.Fatalf("expected nothing today, got %d", len(today))
	}

	byMonth := NewListAppointmentsByMonth(repo, testSettings)
	month, err := byMonth.Execute(context.Background(), repo.users[patientID], 2026, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(month) != 2 {
		t.Fatalf("expected 2 appointments in October, got %d", len(month))
	}

	_, err = byMonth.Execute(context.Background(), repo.users[patientID], 2026, 13)
	wantCode(t, err, "invalid_month")
}
