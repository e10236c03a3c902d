package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Doctor / facility
// --------------------------------------------------

func (r *AppointmentGormRepository) GetDoctor(
	ctx context.Context,
	doctorID uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", doctorID, models.RoleDoctor).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AppointmentGormRepository) GetFacilityByDoctor(
	ctx context.Context,
	doctorID uint,
) (*models.Facility, error) {

	var f models.Facility
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	doctorID uint,
	serviceID uint,
) (*models.ConsultationService, error) {

	var svc models.ConsultationService
	if err := r.db.WithContext(ctx).
		Where("id = ? AND doctor_id = ?", serviceID, doctorID).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

// CreateIfFree locks the doctor row so concurrent requests for the same
// doctor run the overlap check one at a time.
func (r *AppointmentGormRepository) CreateIfFree(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doctor models.User
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&doctor, ap.DoctorID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.
			Model(&models.Appointment{}).
			Where(
				"doctor_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
				ap.DoctorID,
				domain.OccupyingStatuses,
				ap.EndTime,
				ap.StartTime,
			).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("time_conflict")
		}

		return tx.Create(ap).Error
	})

	if httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness("time_conflict")
	}
	return err
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Doctor").
		Preload("Patient").
		Preload("Service").
		First(&ap, appointmentID).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(ap).Error
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListRules(
	ctx context.Context,
	doctorID uint,
) ([]models.AvailabilityRule, error) {

	var rules []models.AvailabilityRule
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("weekday ASC, start_time ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *AppointmentGormRepository) ListOccupying(
	ctx context.Context,
	doctorID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time", "duration_minutes", "status").
		Where(
			"doctor_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			doctorID, domain.OccupyingStatuses, end, start,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// ListAppointmentsForPeriod returns the appointments starting in [start, end)
// where userID is the doctor or the patient, depending on role.
func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	userID uint,
	role string,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	column := "patient_id"
	if role == models.RoleDoctor {
		column = "doctor_id"
	}

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Doctor").
		Preload("Patient").
		Preload("Service").
		Where(
			column+" = ? AND start_time >= ? AND start_time < ?",
			userID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
