package lesion

import (
	"context"

	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

type Repository interface {
	CreateImage(ctx context.Context, img *models.LesionImage) error

	// GetImage preloads the analysis.
	GetImage(ctx context.Context, imageID uint) (*models.LesionImage, error)

	ListImages(ctx context.Context, patientID uint) ([]models.LesionImage, error)

	UpdateImage(ctx context.Context, img *models.LesionImage) error

	// SaveAnalysis replaces any previous analysis of the same image.
	SaveAnalysis(ctx context.Context, a *models.LesionAnalysis) error

	// -------- Care team --------
	IsConnected(ctx context.Context, doctorID, patientID uint) (bool, error)
	ConnectedDoctors(ctx context.Context, patientID uint) ([]uint, error)
}
