package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/GHanamaAhmed/cancer-detection/internal/audit"
	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/domain/availability"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
	"github.com/GHanamaAhmed/cancer-detection/internal/notify"
	"github.com/GHanamaAhmed/cancer-detection/internal/timezone"
)

// ======================================================
// USE CASE
// ======================================================

// RequestAppointment is a patient asking for a slot on a doctor's calendar.
// The appointment starts in the requested state and occupies the slot until
// the doctor rejects it or someone cancels it.
type RequestAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier Notifier
	settings Settings
	clock    func() time.Time
}

func NewRequestAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier Notifier,
	settings Settings,
) *RequestAppointment {
	return &RequestAppointment{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		settings: settings,
		clock:    time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *RequestAppointment) Execute(
	ctx context.Context,
	in domain.CreateRequestInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Doctor + facility
	// --------------------------------------------------
	doctor, err := uc.repo.GetDoctor(ctx, in.DoctorID)
	if err != nil || !doctor.IsDoctor() {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}
	if in.PatientID == in.DoctorID {
		return nil, httperr.ErrBusiness("cannot_book_self")
	}

	facility, err := uc.repo.GetFacilityByDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, httperr.ErrBusiness("facility_not_found")
	}
	loc := facilityLocation(facility, uc.settings.DefaultTimezone)

	// --------------------------------------------------
	// Start time in the facility's timezone
	// --------------------------------------------------
	start, err := timezone.ParseDateTime(in.Date, in.Time, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	now := uc.clock().In(loc)
	if !start.After(now) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	// --------------------------------------------------
	// Service and duration
	// --------------------------------------------------
	slotMinutes := pick(facility.SlotMinutes, uc.settings.SlotMinutes, availability.DefaultSlotMinutes)
	duration := slotMinutes
	mode := models.ModeVideo

	var service *models.ConsultationService
	if in.ServiceID != nil {
		service, err = uc.repo.GetService(ctx, in.DoctorID, *in.ServiceID)
		if err != nil || !service.Active {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		if service.DurationMin > 0 {
			duration = service.DurationMin
		}
		mode = service.Mode
	}

	end := start.Add(time.Duration(duration) * time.Minute)

	// --------------------------------------------------
	// The start must be a bookable slot and the whole
	// consultation must fit one availability window
	// --------------------------------------------------
	rows, err := uc.repo.ListRules(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	rules := domain.ToRules(rows)

	if !domain.FitsSchedule(rules, start, end) {
		return nil, httperr.ErrBusiness("outside_availability")
	}

	day := timezone.StartOfDay(start)
	booked, err := uc.repo.ListOccupying(ctx, in.DoctorID, day, timezone.AddDays(day, 1))
	if err != nil {
		return nil, err
	}

	opts := availability.Options{
		SlotMinutes:          slotMinutes,
		SameDayBufferMinutes: pick(facility.SameDayBufferMinutes, uc.settings.SameDayBufferMinutes, availability.DefaultSameDayBufferMinutes),
		Now:                  now,
	}
	if !isOfferedSlot(availability.Generate(rules, domain.ToBookings(booked), day, day, opts), start) {
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	// --------------------------------------------------
	// Create (conflict checked atomically by the repository)
	// --------------------------------------------------
	ap := &models.Appointment{
		FacilityID:      facility.ID,
		DoctorID:        in.DoctorID,
		PatientID:       in.PatientID,
		ServiceID:       in.ServiceID,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: duration,
		Status:          string(domain.InitialStatus()),
		Mode:            mode,
		Reason:          in.Reason,
	}

	if err := uc.repo.CreateIfFree(ctx, ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Audit + notify doctor
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		OwnerID:  in.DoctorID,
		ActorID:  &in.PatientID,
		Action:   "appointment_requested",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	uc.notifier.Notify(ctx, in.DoctorID, notify.Notification{
		Type:    notify.EventAppointmentUpdated,
		Title:   "New appointment request",
		Body:    fmt.Sprintf("Requested for %s", start.Format("Mon Jan 2, 3:04 PM")),
		Data:    map[string]string{"appointment_id": fmt.Sprint(ap.ID)},
		Payload: ap,
	})

	return ap, nil
}

func isOfferedSlot(days []availability.Day, start time.Time) bool {
	for _, d := range days {
		for _, s := range d.Slots {
			if s.Start.Equal(start) {
				return true
			}
		}
	}
	return false
}
