package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/lesion"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

type LesionGormRepository struct {
	*CareTeam
	db *gorm.DB
}

func NewLesionGormRepository(db *gorm.DB) *LesionGormRepository {
	return &LesionGormRepository{CareTeam: NewCareTeam(db), db: db}
}

func (r *LesionGormRepository) CreateImage(ctx context.Context, img *models.LesionImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *LesionGormRepository) GetImage(ctx context.Context, imageID uint) (*models.LesionImage, error) {
	var img models.LesionImage
	if err := r.db.WithContext(ctx).
		Preload("Analysis").
		First(&img, imageID).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *LesionGormRepository) ListImages(ctx context.Context, patientID uint) ([]models.LesionImage, error) {
	var images []models.LesionImage
	if err := r.db.WithContext(ctx).
		Preload("Analysis").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *LesionGormRepository) UpdateImage(ctx context.Context, img *models.LesionImage) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(img).Error
}

func (r *LesionGormRepository) SaveAnalysis(ctx context.Context, a *models.LesionAnalysis) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lesion_image_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"risk_level", "confidence", "findings", "recommendation", "model", "created_at"}),
		}).
		Create(a).Error
}

var _ domain.Repository = (*LesionGormRepository)(nil)
