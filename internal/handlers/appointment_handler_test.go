package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GHanamaAhmed/cancer-detection/internal/audit"
	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/middleware"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
	"github.com/GHanamaAhmed/cancer-detection/internal/notify"
	"github.com/GHanamaAhmed/cancer-detection/internal/usecase/appointment"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testDoctorID  = 1
	testPatientID = 2
	testServiceID = 5
)

// ======================================================
// Fakes
// ======================================================

type memRepo struct {
	mu           sync.Mutex
	rules        []models.AvailabilityRule
	appointments []*models.Appointment
}

func (r *memRepo) GetDoctor(_ context.Context, id uint) (*models.User, error) {
	if id != testDoctorID {
		return nil, errors.New("not found")
	}
	return &models.User{ID: id, Name: "Dr. Amrani", Role: models.RoleDoctor}, nil
}

func (r *memRepo) GetFacilityByDoctor(_ context.Context, doctorID uint) (*models.Facility, error) {
	if doctorID != testDoctorID {
		return nil, errors.New("not found")
	}
	return &models.Facility{ID: 9, DoctorID: doctorID, Timezone: "UTC", SlotMinutes: 30, SameDayBufferMinutes: 60}, nil
}

func (r *memRepo) GetService(_ context.Context, doctorID, serviceID uint) (*models.ConsultationService, error) {
	if doctorID != testDoctorID || serviceID != testServiceID {
		return nil, errors.New("not found")
	}
	return &models.ConsultationService{ID: serviceID, DoctorID: doctorID, DurationMin: 60, Mode: models.ModeVideo, Active: true}, nil
}

func (r *memRepo) CreateIfFree(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.appointments {
		if domain.Status(o.Status).Occupies() && ap.StartTime.Before(o.EndTime) && ap.EndTime.After(o.StartTime) {
			return httperr.ErrBusiness("time_conflict")
		}
	}
	ap.ID = uint(len(r.appointments) + 1)
	r.appointments = append(r.appointments, ap)
	return nil
}

func (r *memRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ap := range r.appointments {
		if ap.ID == id {
			cp := *ap
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *memRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.appointments {
		if o.ID == ap.ID {
			cp := *ap
			r.appointments[i] = &cp
			return nil
		}
	}
	return errors.New("not found")
}

func (r *memRepo) ListRules(_ context.Context, _ uint) ([]models.AvailabilityRule, error) {
	return r.rules, nil
}

func (r *memRepo) ListOccupying(_ context.Context, _ uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if domain.Status(ap.Status).Occupies() && ap.StartTime.Before(end) && ap.EndTime.After(start) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *memRepo) ListAppointmentsForPeriod(_ context.Context, userID uint, role string, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		owner := ap.PatientID
		if role == models.RoleDoctor {
			owner = ap.DoctorID
		}
		if owner == userID && !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

type nopSink struct{}

func (nopSink) Log(audit.Event) error { return nil }

type countingNotifier struct {
	mu    sync.Mutex
	calls map[uint]int
}

func (n *countingNotifier) Notify(_ context.Context, userID uint, _ notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.calls == nil {
		n.calls = map[uint]int{}
	}
	n.calls[userID]++
}

// ======================================================
// Helpers
// ======================================================

// nextWeek is a date one week out so same-day rules never apply.
func nextWeek() time.Time {
	d := time.Now().UTC().AddDate(0, 0, 7)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func newAppointmentRouter(t *testing.T, repo *memRepo, notifier *countingNotifier) *gin.Engine {
	t.Helper()

	dispatcher := audit.NewDispatcher(nopSink{}, zap.NewNop())
	t.Cleanup(dispatcher.Close)

	h := NewAppointmentHandler(AppointmentDeps{
		Repo:     repo,
		Audit:    dispatcher,
		Notifier: notifier,
		Settings: appointment.Settings{DefaultTimezone: "UTC", WindowDays: 14},
		Log:      zap.NewNop(),
	})

	r := gin.New()

	// X-Test-User / X-Test-Role stand in for the JWT middleware
	as := func(c *gin.Context) {
		role := c.GetHeader("X-Test-Role")
		id := uint(testPatientID)
		if role == models.RoleDoctor {
			id = testDoctorID
		}
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextUserRole, role)
	}

	r.GET("/doctors/:id/availability", h.DoctorAvailability)
	r.GET("/me/availability", as, h.MyAvailability)
	r.POST("/doctors/:id/appointments", as, h.Create)
	r.GET("/me/appointments", as, h.ListByDate)
	r.PATCH("/me/appointments/:id/confirm", as, h.Confirm)
	r.PATCH("/me/appointments/:id/cancel", as, h.Cancel)
	r.POST("/appointments/:id/video-token", as, h.VideoToken)
	return r
}

func send(r http.Handler, method, path, role string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("X-Test-Role", role)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body httperr.HTTPError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return body.Code
}

// ======================================================
// Tests
// ======================================================

func TestDoctorAvailability_JSON(t *testing.T) {
	day := nextWeek()
	repo := &memRepo{rules: []models.AvailabilityRule{{
		DoctorID: testDoctorID, Weekday: int(day.Weekday()), StartTime: "09:00", EndTime: "12:00", Enabled: true,
	}}}
	r := newAppointmentRouter(t, repo, &countingNotifier{})

	date := day.Format("2006-01-02")
	w := send(r, http.MethodGet, "/doctors/1/availability?from="+date+"&to="+date, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Timezone string `json:"timezone"`
		Days     []struct {
			Date  string `json:"date"`
			Slots []struct {
				Time          string `json:"time"`
				FormattedDate string `json:"formattedDate"`
			} `json:"slots"`
		} `json:"days"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp.Timezone != "UTC" || len(resp.Days) != 1 || resp.Days[0].Date != date {
		t.Fatalf("unexpected response %s", w.Body.String())
	}
	if got := len(resp.Days[0].Slots); got != 6 {
		t.Fatalf("slots = %d, want 6", got)
	}
	if resp.Days[0].Slots[0].Time != "9:00 AM" {
		t.Fatalf("first slot label = %q", resp.Days[0].Slots[0].Time)
	}
}

func TestDoctorAvailability_Errors(t *testing.T) {
	r := newAppointmentRouter(t, &memRepo{}, &countingNotifier{})

	cases := []struct {
		path   string
		status int
		code   string
	}{
		{"/doctors/abc/availability", http.StatusBadRequest, "invalid_id"},
		{"/doctors/3/availability", http.StatusNotFound, "facility_not_found"},
		{"/doctors/1/availability?from=2026-13-01", http.StatusBadRequest, "invalid_date"},
		{"/doctors/1/availability?from=2026-01-01&to=2026-06-01", http.StatusBadRequest, "range_too_large"},
	}
	for _, tc := range cases {
		w := send(r, http.MethodGet, tc.path, "", nil)
		if w.Code != tc.status || errorCode(t, w) != tc.code {
			t.Errorf("%s: got %d %s, want %d %s", tc.path, w.Code, w.Body.String(), tc.status, tc.code)
		}
	}
}

func TestCreateConfirmFlow(t *testing.T) {
	day := nextWeek()
	repo := &memRepo{rules: []models.AvailabilityRule{{
		DoctorID: testDoctorID, Weekday: int(day.Weekday()), StartTime: "09:00", EndTime: "12:00", Enabled: true,
	}}}
	notifier := &countingNotifier{}
	r := newAppointmentRouter(t, repo, notifier)

	body := gin.H{"service_id": testServiceID, "date": day.Format("2006-01-02"), "time": "09:00", "reason": "mole on shoulder"}

	w := send(r, http.MethodPost, "/doctors/1/appointments", models.RolePatient, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var created models.Appointment
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.Status != "requested" || created.DurationMinutes != 60 {
		t.Fatalf("unexpected appointment %+v", created)
	}

	// the same slot is gone now
	w = send(r, http.MethodPost, "/doctors/1/appointments", models.RolePatient, body)
	if w.Code != http.StatusConflict {
		t.Fatalf("second create status = %d, body %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodPatch, "/me/appointments/1/confirm", models.RoleDoctor, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("confirm status = %d, body %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodPatch, "/me/appointments/1/confirm", models.RoleDoctor, nil)
	if w.Code != http.StatusConflict || errorCode(t, w) != "invalid_state" {
		t.Fatalf("re-confirm: got %d %s", w.Code, w.Body.String())
	}

	if notifier.calls[testDoctorID] != 1 || notifier.calls[testPatientID] != 1 {
		t.Fatalf("notifications = %v", notifier.calls)
	}
}

func TestCreate_Validation(t *testing.T) {
	r := newAppointmentRouter(t, &memRepo{}, &countingNotifier{})

	w := send(r, http.MethodPost, "/doctors/1/appointments", models.RolePatient, gin.H{"date": "2026-10-19"})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_request" {
		t.Fatalf("missing time: got %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodPost, "/doctors/4/appointments", models.RolePatient, gin.H{"date": "2026-10-19", "time": "09:00"})
	if w.Code != http.StatusNotFound || errorCode(t, w) != "doctor_not_found" {
		t.Fatalf("unknown doctor: got %d %s", w.Code, w.Body.String())
	}
}

func TestConfirm_NotFound(t *testing.T) {
	r := newAppointmentRouter(t, &memRepo{}, &countingNotifier{})

	w := send(r, http.MethodPatch, "/me/appointments/42/confirm", models.RoleDoctor, nil)
	if w.Code != http.StatusNotFound || errorCode(t, w) != "appointment_not_found" {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
}

func TestVideoToken_NotConfigured(t *testing.T) {
	r := newAppointmentRouter(t, &memRepo{}, &countingNotifier{})

	w := send(r, http.MethodPost, "/appointments/1/video-token", models.RolePatient, nil)
	if w.Code != http.StatusServiceUnavailable || errorCode(t, w) != "video_unavailable" {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
}

func TestListByDate_RoleAware(t *testing.T) {
	day := nextWeek()
	start := day.Add(9 * time.Hour)
	repo := &memRepo{appointments: []*models.Appointment{{
		ID: 1, DoctorID: testDoctorID, PatientID: testPatientID,
		StartTime: start, EndTime: start.Add(30 * time.Minute), Status: "requested",
	}}}
	r := newAppointmentRouter(t, repo, &countingNotifier{})

	for _, role := range []string{models.RoleDoctor, models.RolePatient} {
		w := send(r, http.MethodGet, "/me/appointments?date="+day.Format("2006-01-02"), role, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d", role, w.Code)
		}
		var resp struct {
			Appointments []map[string]any `json:"appointments"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if len(resp.Appointments) != 1 {
			t.Fatalf("%s: got %d appointments", role, len(resp.Appointments))
		}
	}
}
