package lesion

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/GHanamaAhmed/cancer-detection/internal/audit"
	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/lesion"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
	"github.com/GHanamaAhmed/cancer-detection/internal/notify"
)

type AnalyzeLesion struct {
	repo     domain.Repository
	store    ObjectStore
	analyzer Analyzer
	notifier Notifier
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewAnalyzeLesion(
	repo domain.Repository,
	store ObjectStore,
	analyzer Analyzer,
	notifier Notifier,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *AnalyzeLesion {
	return &AnalyzeLesion{
		repo:     repo,
		store:    store,
		analyzer: analyzer,
		notifier: notifier,
		audit:    audit,
		log:      log,
	}
}

// Execute runs the model on a patient's own image. Re-analysing replaces the
// previous result.
func (uc *AnalyzeLesion) Execute(
	ctx context.Context,
	patientID uint,
	imageID uint,
) (*models.LesionImage, error) {

	if uc.analyzer == nil {
		return nil, httperr.ErrBusiness("analysis_unavailable")
	}

	img, err := uc.repo.GetImage(ctx, imageID)
	if err != nil || img.PatientID != patientID {
		return nil, httperr.ErrBusiness("lesion_not_found")
	}

	data, err := uc.store.Get(ctx, img.ObjectKey)
	if err != nil {
		return nil, err
	}

	format := strings.TrimPrefix(img.ContentType, "image/")
	result, err := uc.analyzer.Analyze(ctx, data, format, img.BodySite, img.Notes)
	if err != nil {
		uc.log.Warn("lesion analysis failed", zap.Uint("lesion_id", img.ID), zap.Error(err))
		img.AnalysisStatus = models.AnalysisFailed
		if uerr := uc.repo.UpdateImage(ctx, img); uerr != nil {
			uc.log.Error("mark analysis failed", zap.Uint("lesion_id", img.ID), zap.Error(uerr))
		}
		return nil, httperr.ErrBusiness("analysis_failed")
	}

	analysis := domain.ToModel(img.ID, result)
	if err := uc.repo.SaveAnalysis(ctx, &analysis); err != nil {
		return nil, err
	}

	img.Analysis = &analysis
	img.AnalysisStatus = models.AnalysisCompleted
	if err := uc.repo.UpdateImage(ctx, img); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OwnerID:  patientID,
		ActorID:  &patientID,
		Action:   "lesion_analyzed",
		Entity:   "lesion_image",
		EntityID: &img.ID,
		Metadata: map[string]any{"risk_level": analysis.RiskLevel, "confidence": analysis.Confidence},
	})

	uc.notifier.Notify(ctx, patientID, notify.Notification{
		Type:    notify.EventLesionAnalyzed,
		Payload: map[string]any{"lesion_id": img.ID, "risk_level": analysis.RiskLevel},
	})

	if analysis.RiskLevel == models.RiskHigh {
		uc.alertCareTeam(ctx, img)
	}

	return img, nil
}

func (uc *AnalyzeLesion) alertCareTeam(ctx context.Context, img *models.LesionImage) {
	doctors, err := uc.repo.ConnectedDoctors(ctx, img.PatientID)
	if err != nil {
		uc.log.Error("list care team", zap.Uint("patient_id", img.PatientID), zap.Error(err))
		return
	}

	for _, doctorID := range doctors {
		uc.notifier.Notify(ctx, doctorID, notify.Notification{
			Type:  notify.EventLesionAnalyzed,
			Title: "High-risk lesion flagged",
			Body:  "A patient's lesion was assessed as high risk. Please review it.",
			Data: map[string]string{
				"lesion_id":  fmt.Sprint(img.ID),
				"patient_id": fmt.Sprint(img.PatientID),
			},
			Payload: map[string]any{"lesion_id": img.ID, "patient_id": img.PatientID, "risk_level": models.RiskHigh},
		})
	}
}
