package appointment

import (
	"context"
	"time"

	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/dto"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
	"github.com/GHanamaAhmed/cancer-detection/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo     domain.Repository
	settings Settings
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
	settings Settings,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo:     repo,
		settings: settings,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	user *models.User,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	loc := userLocation(ctx, uc.repo, user, uc.settings.DefaultTimezone)

	start := timezone.DayStart(year, time.Month(month), 1, loc)
	end := timezone.DayStart(year, time.Month(month)+1, 1, loc)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		user.ID,
		user.Role,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	return dto.NewAppointmentList(appointments), nil
}
