package lesion

import (
	"context"

	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/lesion"
	"github.com/GHanamaAhmed/cancer-detection/internal/dto"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

type ViewLesions struct {
	repo  domain.Repository
	store ObjectStore
}

func NewViewLesions(repo domain.Repository, store ObjectStore) *ViewLesions {
	return &ViewLesions{repo: repo, store: store}
}

// List returns the patient's own images with thumbnail links.
func (uc *ViewLesions) List(ctx context.Context, patientID uint) ([]dto.LesionDTO, error) {
	images, err := uc.repo.ListImages(ctx, patientID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.LesionDTO, 0, len(images))
	for i := range images {
		thumb, err := uc.store.PresignGet(ctx, images[i].ThumbnailKey, URLTTL)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.NewLesion(&images[i], "", thumb))
	}
	return out, nil
}

// Get is allowed for the owner and for doctors with an accepted connection.
func (uc *ViewLesions) Get(ctx context.Context, user *models.User, imageID uint) (*dto.LesionDTO, error) {
	img, err := uc.repo.GetImage(ctx, imageID)
	if err != nil {
		return nil, httperr.ErrBusiness("lesion_not_found")
	}

	if img.PatientID != user.ID {
		if !user.IsDoctor() {
			return nil, httperr.ErrBusiness("lesion_not_found")
		}
		ok, err := uc.repo.IsConnected(ctx, user.ID, img.PatientID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, httperr.ErrBusiness("lesion_not_found")
		}
	}

	full, err := uc.store.PresignGet(ctx, img.ObjectKey, URLTTL)
	if err != nil {
		return nil, err
	}
	thumb, err := uc.store.PresignGet(ctx, img.ThumbnailKey, URLTTL)
	if err != nil {
		return nil, err
	}

	out := dto.NewLesion(img, full, thumb)
	return &out, nil
}
