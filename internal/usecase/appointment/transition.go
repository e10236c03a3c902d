package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/GHanamaAhmed/cancer-detection/internal/audit"
	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
	"github.com/GHanamaAhmed/cancer-detection/internal/notify"
)

// loadForDoctor returns the appointment only when doctorID owns it.
func loadForDoctor(
	ctx context.Context,
	repo domain.Repository,
	appointmentID uint,
	doctorID uint,
) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, appointmentID)
	if err != nil || ap.DoctorID != doctorID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return ap, nil
}

func loadForParticipant(
	ctx context.Context,
	repo domain.Repository,
	appointmentID uint,
	userID uint,
) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, appointmentID)
	if err != nil || !domain.IsParticipant(ap, userID) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return ap, nil
}

// counterpart is the participant who did not perform the action.
func counterpart(ap *models.Appointment, actorID uint) uint {
	if ap.DoctorID == actorID {
		return ap.PatientID
	}
	return ap.DoctorID
}

func announce(
	ctx context.Context,
	notifier Notifier,
	dispatcher *audit.Dispatcher,
	ap *models.Appointment,
	actorID uint,
	action string,
	title string,
) {
	dispatcher.Dispatch(audit.Event{
		OwnerID:  ap.DoctorID,
		ActorID:  &actorID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	notifier.Notify(ctx, counterpart(ap, actorID), notify.Notification{
		Type:    notify.EventAppointmentUpdated,
		Title:   title,
		Body:    ap.StartTime.Format("Mon Jan 2, 3:04 PM"),
		Data:    map[string]string{"appointment_id": fmt.Sprint(ap.ID), "status": ap.Status},
		Payload: ap,
	})
}

type nowFunc func() time.Time
