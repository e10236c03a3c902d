package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/GHanamaAhmed/cancer-detection/internal/audit"
	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
	"github.com/GHanamaAhmed/cancer-detection/internal/notify"
)

var errNotFound = errors.New("record not found")

type fakeRepo struct {
	mu           sync.Mutex
	users        map[uint]*models.User
	facilities   map[uint]*models.Facility
	services     map[uint]*models.ConsultationService
	rules        []models.AvailabilityRule
	appointments []*models.Appointment
	nextID       uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:      map[uint]*models.User{},
		facilities: map[uint]*models.Facility{},
		services:   map[uint]*models.ConsultationService{},
		nextID:     100,
	}
}

func (r *fakeRepo) GetDoctor(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errNotFound
	}
	return u, nil
}

func (r *fakeRepo) GetFacilityByDoctor(_ context.Context, doctorID uint) (*models.Facility, error) {
	f, ok := r.facilities[doctorID]
	if !ok {
		return nil, errNotFound
	}
	return f, nil
}

func (r *fakeRepo) GetService(_ context.Context, doctorID, serviceID uint) (*models.ConsultationService, error) {
	s, ok := r.services[serviceID]
	if !ok || s.DoctorID != doctorID {
		return nil, errNotFound
	}
	return s, nil
}

func (r *fakeRepo) CreateIfFree(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.appointments {
		if other.DoctorID != ap.DoctorID || !domain.Status(other.Status).Occupies() {
			continue
		}
		if ap.StartTime.Before(other.EndTime) && ap.EndTime.After(other.StartTime) {
			return httperr.ErrBusiness("time_conflict")
		}
	}

	r.nextID++
	ap.ID = r.nextID
	if ap.ServiceID != nil {
		ap.Service = r.services[*ap.ServiceID]
	}
	cp := *ap
	r.appointments = append(r.appointments, &cp)
	return nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	for _, ap := range r.appointments {
		if ap.ID == id {
			cp := *ap
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	for i, cur := range r.appointments {
		if cur.ID == ap.ID {
			cp := *ap
			r.appointments[i] = &cp
			return nil
		}
	}
	return errNotFound
}

func (r *fakeRepo) ListRules(_ context.Context, doctorID uint) ([]models.AvailabilityRule, error) {
	var out []models.AvailabilityRule
	for _, rule := range r.rules {
		if rule.DoctorID == doctorID {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListOccupying(_ context.Context, doctorID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.DoctorID != doctorID || !domain.Status(ap.Status).Occupies() {
			continue
		}
		if ap.StartTime.Before(end) && ap.EndTime.After(start) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAppointmentsForPeriod(_ context.Context, userID uint, role string, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		owner := ap.PatientID
		if role == models.RoleDoctor {
			owner = ap.DoctorID
		}
		if owner != userID || ap.StartTime.Before(start) || !ap.StartTime.Before(end) {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

func (r *fakeRepo) book(doctorID uint, start time.Time, minutes int, status domain.Status) *models.Appointment {
	r.nextID++
	ap := &models.Appointment{
		ID:              r.nextID,
		DoctorID:        doctorID,
		PatientID:       2,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
		Status:          string(status),
	}
	r.appointments = append(r.appointments, ap)
	return ap
}

// ======================================================
// collaborators
// ======================================================

type sentNotification struct {
	userID uint
	n      notify.Notification
}

type recordingNotifier struct {
	sent []sentNotification
}

func (n *recordingNotifier) Notify(_ context.Context, userID uint, msg notify.Notification) {
	n.sent = append(n.sent, sentNotification{userID: userID, n: msg})
}

type recordingScheduler struct {
	scheduled []uint
}

func (s *recordingScheduler) ScheduleReminder(_ context.Context, ap *models.Appointment) error {
	s.scheduled = append(s.scheduled, ap.ID)
	return nil
}

type stubCheckout struct {
	calls int
	err   error
}

func (c *stubCheckout) CreateCheckout(_ context.Context, ap *models.Appointment, _ *models.ConsultationService) (string, string, error) {
	c.calls++
	if c.err != nil {
		return "", "", c.err
	}
	return "pref-1", "https://pay.example/pref-1", nil
}

type nopSink struct{}

func (nopSink) Log(audit.Event) error { return nil }

func newTestDispatcher(t *testing.T) *audit.Dispatcher {
	t.Helper()
	d := audit.NewDispatcher(nopSink{}, zap.NewNop())
	t.Cleanup(d.Close)
	return d
}

// ======================================================
// fixtures
// ======================================================

const (
	doctorID  uint = 1
	patientID uint = 2
)

// Saturday 2026-10-17 10:00 UTC
var fixedNow = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func seededRepo() *fakeRepo {
	repo := newFakeRepo()
	repo.users[doctorID] = &models.User{ID: doctorID, Name: "Dr. Amel", Role: models.RoleDoctor}
	repo.users[patientID] = &models.User{ID: patientID, Name: "Karim", Role: models.RolePatient}
	repo.facilities[doctorID] = &models.Facility{
		ID:                   10,
		DoctorID:             doctorID,
		Timezone:             "UTC",
		SlotMinutes:          30,
		SameDayBufferMinutes: 60,
	}
	repo.services[5] = &models.ConsultationService{
		ID: 5, DoctorID: doctorID, Name: "Skin check", DurationMin: 60,
		Price: 2500, Currency: "DZD", Mode: models.ModeVideo, Active: true,
	}
	repo.rules = []models.AvailabilityRule{
		{DoctorID: doctorID, Weekday: int(time.Monday), StartTime: "09:00", EndTime: "12:00", Enabled: true},
	}
	return repo
}

var testSettings = Settings{
	SlotMinutes:          30,
	SameDayBufferMinutes: 60,
	WindowDays:           14,
	DefaultTimezone:      "UTC",
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	got, ok := httperr.BusinessCode(err)
	if !ok || got != code {
		t.Fatalf("expected business error %q, got %v", code, err)
	}
}
