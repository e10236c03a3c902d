package appointment

import (
	"context"
	"time"

	"github.com/GHanamaAhmed/cancer-detection/internal/audit"
	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

type RejectAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier Notifier
	now      nowFunc
}

func NewRejectAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier Notifier,
) *RejectAppointment {
	return &RejectAppointment{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		now:      time.Now,
	}
}

func (uc *RejectAppointment) Execute(
	ctx context.Context,
	doctorID uint,
	appointmentID uint,
	note string,
) (*models.Appointment, error) {

	ap, err := loadForDoctor(ctx, uc.repo, appointmentID, doctorID)
	if err != nil {
		return nil, err
	}

	if err := domain.Reject(ap, uc.now()); err != nil {
		return nil, err
	}
	if note != "" {
		ap.Notes = note
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	announce(ctx, uc.notifier, uc.audit, ap, doctorID, "appointment_rejected", "Appointment request declined")

	return ap, nil
}
