package appointment

import (
	"context"
	"time"

	"github.com/GHanamaAhmed/cancer-detection/internal/audit"
	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

// CancelAppointment can be performed by either participant.
type CancelAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier Notifier
	now      nowFunc
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier Notifier,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		now:      time.Now,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := loadForParticipant(ctx, uc.repo, appointmentID, userID)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	announce(ctx, uc.notifier, uc.audit, ap, userID, "appointment_cancelled", "Appointment cancelled")

	return ap, nil
}
