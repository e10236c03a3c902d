package appointment

import (
	"context"

	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

// Execute hides appointments the user does not take part in behind the same
// not-found error as missing ones.
func (uc *GetAppointment) Execute(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return loadForParticipant(ctx, uc.repo, appointmentID, userID)
}
