package appointment

import (
	"context"
	"time"

	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

type Repository interface {
	// -------- Doctor / facility --------
	GetDoctor(
		ctx context.Context,
		doctorID uint,
	) (*models.User, error)

	GetFacilityByDoctor(
		ctx context.Context,
		doctorID uint,
	) (*models.Facility, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		doctorID uint,
		serviceID uint,
	) (*models.ConsultationService, error)

	// -------- Appointment (create / conflict) --------

	// CreateIfFree inserts ap unless another occupying appointment of the same
	// doctor overlaps [ap.StartTime, ap.EndTime). Returns a time_conflict
	// business error on overlap.
	CreateIfFree(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Availability --------
	ListRules(
		ctx context.Context,
		doctorID uint,
	) ([]models.AvailabilityRule, error)

	// ListOccupying returns requested/confirmed appointments overlapping [start, end).
	ListOccupying(
		ctx context.Context,
		doctorID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		userID uint,
		role string,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
