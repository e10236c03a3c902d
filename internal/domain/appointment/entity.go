package appointment

import (
	"time"

	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}
	if !ap.StartTime.After(now) {
		return httperr.ErrBusiness("appointment_in_past")
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	return nil
}

func Reject(ap *models.Appointment, now time.Time) error {
	if err := CanReject(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusRejected)
	ap.RejectedAt = &now
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}
	if now.Before(ap.StartTime) {
		return httperr.ErrBusiness("appointment_not_started")
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// IsParticipant reports whether userID is the doctor or the patient of ap.
func IsParticipant(ap *models.Appointment, userID uint) bool {
	return ap.DoctorID == userID || ap.PatientID == userID
}
