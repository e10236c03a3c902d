package lesion

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/GHanamaAhmed/cancer-detection/internal/audit"
	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/lesion"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/infra/imaging"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

type UploadInput struct {
	PatientID uint
	Data      []byte
	BodySite  string
	Notes     string
}

type UploadLesion struct {
	repo  domain.Repository
	store ObjectStore
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewUploadLesion(
	repo domain.Repository,
	store ObjectStore,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *UploadLesion {
	return &UploadLesion{repo: repo, store: store, audit: audit, log: log}
}

func (uc *UploadLesion) Execute(ctx context.Context, in UploadInput) (*models.LesionImage, error) {
	if len(in.Data) == 0 {
		return nil, httperr.ErrBusiness("image_required")
	}
	if len(in.Data) > domain.MaxUploadBytes {
		return nil, httperr.ErrBusiness("image_too_large")
	}

	decoded, err := imaging.Decode(in.Data)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return nil, httperr.ErrBusiness("unsupported_image")
		}
		return nil, err
	}

	thumb, err := imaging.Thumbnail(decoded.Image, imaging.ThumbnailMaxSide)
	if err != nil {
		return nil, err
	}

	ext := decoded.Format
	if ext == "jpeg" {
		ext = "jpg"
	}
	originalKey, thumbKey := domain.ObjectKeys(in.PatientID, ext)
	contentType := imaging.ContentType(decoded.Format)

	// --------------------------------------------------
	// Objects first, then the row
	// --------------------------------------------------
	if err := uc.store.Put(ctx, originalKey, in.Data, contentType); err != nil {
		return nil, err
	}
	if err := uc.store.Put(ctx, thumbKey, thumb, "image/webp"); err != nil {
		uc.cleanup(ctx, originalKey)
		return nil, err
	}

	img := &models.LesionImage{
		PatientID:      in.PatientID,
		BodySite:       strings.TrimSpace(in.BodySite),
		Notes:          strings.TrimSpace(in.Notes),
		ObjectKey:      originalKey,
		ThumbnailKey:   thumbKey,
		ContentType:    contentType,
		SizeBytes:      int64(len(in.Data)),
		Width:          decoded.Width,
		Height:         decoded.Height,
		AnalysisStatus: models.AnalysisPending,
	}

	if err := uc.repo.CreateImage(ctx, img); err != nil {
		uc.cleanup(ctx, originalKey, thumbKey)
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OwnerID:  in.PatientID,
		ActorID:  &in.PatientID,
		Action:   "lesion_uploaded",
		Entity:   "lesion_image",
		EntityID: &img.ID,
	})

	return img, nil
}

func (uc *UploadLesion) cleanup(ctx context.Context, keys ...string) {
	for _, k := range keys {
		if err := uc.store.Delete(ctx, k); err != nil {
			uc.log.Warn("orphaned lesion object", zap.String("key", k), zap.Error(err))
		}
	}
}
