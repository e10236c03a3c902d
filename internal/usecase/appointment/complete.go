package appointment

import (
	"context"
	"time"

	"github.com/GHanamaAhmed/cancer-detection/internal/audit"
	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

type CompleteAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier Notifier
	now      nowFunc
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier Notifier,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		now:      time.Now,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	doctorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := loadForDoctor(ctx, uc.repo, appointmentID, doctorID)
	if err != nil {
		return nil, err
	}

	if err := domain.Complete(ap, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	announce(ctx, uc.notifier, uc.audit, ap, doctorID, "appointment_completed", "Consultation completed")

	return ap, nil
}
