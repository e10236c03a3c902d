package models

import "time"

const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"

	AnalysisPending   = "pending"
	AnalysisCompleted = "completed"
	AnalysisFailed    = "failed"
)

type LesionImage struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	PatientID uint `gorm:"index" json:"patient_id"`

	BodySite string `gorm:"size:50" json:"body_site"`
	Notes    string `gorm:"size:500" json:"notes"`

	ObjectKey    string `gorm:"size:255;not null" json:"-"`
	ThumbnailKey string `gorm:"size:255" json:"-"`
	ContentType  string `gorm:"size:50" json:"content_type"`
	SizeBytes    int64  `json:"size_bytes"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`

	AnalysisStatus string          `gorm:"size:20;default:'pending'" json:"analysis_status"`
	Analysis       *LesionAnalysis `gorm:"constraint:OnDelete:CASCADE;" json:"analysis,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LesionAnalysis struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	LesionImageID uint `gorm:"uniqueIndex" json:"lesion_image_id"`

	RiskLevel      string  `gorm:"size:10" json:"risk_level"`
	Confidence     float64 `json:"confidence"`
	Findings       string  `gorm:"type:text" json:"findings"`
	Recommendation string  `gorm:"type:text" json:"recommendation"`
	Model          string  `gorm:"size:50" json:"model"`

	CreatedAt time.Time `json:"created_at"`
}
