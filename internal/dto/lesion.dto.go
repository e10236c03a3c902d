package dto

import (
	"time"

	"github.com/GHanamaAhmed/cancer-detection/internal/domain/lesion"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

type LesionAnalysisDTO struct {
	RiskLevel      string    `json:"risk_level"`
	Confidence     float64   `json:"confidence"`
	Findings       []string  `json:"findings"`
	Recommendation string    `json:"recommendation"`
	Model          string    `json:"model"`
	CreatedAt      time.Time `json:"created_at"`
}

type LesionDTO struct {
	ID             uint               `json:"id"`
	PatientID      uint               `json:"patient_id"`
	BodySite       string             `json:"body_site"`
	Notes          string             `json:"notes"`
	ContentType    string             `json:"content_type"`
	Width          int                `json:"width"`
	Height         int                `json:"height"`
	AnalysisStatus string             `json:"analysis_status"`
	ImageURL       string             `json:"image_url,omitempty"`
	ThumbnailURL   string             `json:"thumbnail_url,omitempty"`
	Analysis       *LesionAnalysisDTO `json:"analysis,omitempty"`
	Disclaimer     string             `json:"disclaimer"`
	CreatedAt      time.Time          `json:"created_at"`
}

func NewLesion(img *models.LesionImage, imageURL, thumbnailURL string) LesionDTO {
	out := LesionDTO{
		ID:             img.ID,
		PatientID:      img.PatientID,
		BodySite:       img.BodySite,
		Notes:          img.Notes,
		ContentType:    img.ContentType,
		Width:          img.Width,
		Height:         img.Height,
		AnalysisStatus: img.AnalysisStatus,
		ImageURL:       imageURL,
		ThumbnailURL:   thumbnailURL,
		Disclaimer:     lesion.Disclaimer,
		CreatedAt:      img.CreatedAt,
	}

	if a := img.Analysis; a != nil {
		out.Analysis = &LesionAnalysisDTO{
			RiskLevel:      a.RiskLevel,
			Confidence:     a.Confidence,
			Findings:       lesion.SplitFindings(a.Findings),
			Recommendation: a.Recommendation,
			Model:          a.Model,
			CreatedAt:      a.CreatedAt,
		}
	}
	return out
}
