package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

// CareTeam answers "may these two users see each other's clinical data".
type CareTeam struct {
	db *gorm.DB
}

func NewCareTeam(db *gorm.DB) *CareTeam {
	return &CareTeam{db: db}
}

func (r *CareTeam) IsConnected(ctx context.Context, doctorID, patientID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("doctor_id = ? AND patient_id = ? AND status = ?", doctorID, patientID, models.ConnectionAccepted).
		Count(&count).Error
	return count > 0, err
}

// AreConnected checks the pair in either direction.
func (r *CareTeam) AreConnected(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where(
			"status = ? AND ((doctor_id = ? AND patient_id = ?) OR (doctor_id = ? AND patient_id = ?))",
			models.ConnectionAccepted, a, b, b, a,
		).
		Count(&count).Error
	return count > 0, err
}

func (r *CareTeam) ConnectedDoctors(ctx context.Context, patientID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("patient_id = ? AND status = ?", patientID, models.ConnectionAccepted).
		Pluck("doctor_id", &ids).Error
	return ids, err
}
