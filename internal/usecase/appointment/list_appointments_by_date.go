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

type ListAppointmentsByDate struct {
	repo     domain.Repository
	settings Settings
	now      nowFunc
}

func NewListAppointmentsByDate(
	repo domain.Repository,
	settings Settings,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo:     repo,
		settings: settings,
		now:      time.Now,
	}
}

// Execute lists the user's appointments on one calendar date. An empty date
// means today.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	user *models.User,
	date string,
) ([]dto.AppointmentListDTO, error) {

	loc := userLocation(ctx, uc.repo, user, uc.settings.DefaultTimezone)

	start := timezone.StartOfDay(uc.now().In(loc))
	if date != "" {
		d, err := timezone.ParseDate(date, loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		start = d
	}
	end := timezone.AddDays(start, 1)

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

// userLocation is the doctor's facility timezone, or the default for
// patients and doctors without a facility.
func userLocation(
	ctx context.Context,
	repo domain.Repository,
	user *models.User,
	fallback string,
) *time.Location {
	if user.IsDoctor() {
		if f, err := repo.GetFacilityByDoctor(ctx, user.ID); err == nil {
			return facilityLocation(f, fallback)
		}
	}
	return timezone.Location(fallback)
}
