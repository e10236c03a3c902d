package lesion

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

const MaxUploadBytes = 10 << 20

// Disclaimer accompanies every analysis returned to clients.
const Disclaimer = "This automated assessment is not a diagnosis. " +
	"Always consult a qualified dermatologist about any skin lesion."

// Analysis is the structured output of an image model.
type Analysis struct {
	RiskLevel      string
	Confidence     float64
	Findings       []string
	Recommendation string
	Model          string
}

func ValidRiskLevel(level string) bool {
	switch level {
	case models.RiskLow, models.RiskMedium, models.RiskHigh:
		return true
	}
	return false
}

// ObjectKeys returns the storage keys for a new upload and its thumbnail.
func ObjectKeys(patientID uint, ext string) (original string, thumbnail string) {
	id := uuid.NewString()
	base := fmt.Sprintf("lesions/%d/%s", patientID, id)
	return base + "." + strings.TrimPrefix(ext, "."), base + "_thumb.webp"
}

// ToModel converts an analysis into its persisted form. Findings are stored
// newline separated.
func ToModel(imageID uint, a *Analysis) models.LesionAnalysis {
	return models.LesionAnalysis{
		LesionImageID:  imageID,
		RiskLevel:      a.RiskLevel,
		Confidence:     a.Confidence,
		Findings:       strings.Join(a.Findings, "\n"),
		Recommendation: a.Recommendation,
		Model:          a.Model,
	}
}

func SplitFindings(stored string) []string {
	if stored == "" {
		return []string{}
	}
	return strings.Split(stored, "\n")
}
