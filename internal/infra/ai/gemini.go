package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/GHanamaAhmed/cancer-detection/internal/domain/lesion"
)

var ErrMalformedResponse = errors.New("model returned a malformed analysis")

const systemPrompt = `You are a dermatology triage assistant. You look at one photo of a skin lesion
and estimate how urgently a dermatologist should see it. You never give a diagnosis.
Reply with JSON only, using exactly this shape:
{"risk_level":"low|medium|high","confidence":0.0,"findings":["..."],"recommendation":"..."}
confidence is between 0 and 1. findings lists visible features (asymmetry, border, colour,
diameter, evolution cues). recommendation is one or two sentences for the patient.`

type GeminiAnalyzer struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

func NewGeminiAnalyzer(ctx context.Context, apiKey, modelName string) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	return &GeminiAnalyzer{client: client, model: model, modelName: modelName}, nil
}

func (g *GeminiAnalyzer) Close() error {
	return g.client.Close()
}

// Analyze sends the image with its context. format is the image subtype,
// e.g. "jpeg", "png" or "webp".
func (g *GeminiAnalyzer) Analyze(
	ctx context.Context,
	image []byte,
	format string,
	bodySite string,
	notes string,
) (*lesion.Analysis, error) {

	prompt := "Assess this skin lesion."
	if bodySite != "" {
		prompt += " Body site: " + bodySite + "."
	}
	if notes != "" {
		prompt += " Patient notes: " + notes
	}

	resp, err := g.model.GenerateContent(ctx, genai.ImageData(format, image), genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrMalformedResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	analysis, err := ParseAnalysis(sb.String())
	if err != nil {
		return nil, err
	}
	analysis.Model = g.modelName
	return analysis, nil
}

type rawAnalysis struct {
	RiskLevel      string   `json:"risk_level"`
	Confidence     float64  `json:"confidence"`
	Findings       []string `json:"findings"`
	Recommendation string   `json:"recommendation"`
}

// ParseAnalysis accepts the model's JSON, optionally wrapped in a markdown
// code fence.
func ParseAnalysis(text string) (*lesion.Analysis, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	level := strings.ToLower(strings.TrimSpace(raw.RiskLevel))
	if !lesion.ValidRiskLevel(level) {
		return nil, fmt.Errorf("%w: risk level %q", ErrMalformedResponse, raw.RiskLevel)
	}

	findings := make([]string, 0, len(raw.Findings))
	for _, f := range raw.Findings {
		if f = strings.TrimSpace(f); f != "" {
			findings = append(findings, f)
		}
	}

	return &lesion.Analysis{
		RiskLevel:      level,
		Confidence:     math.Max(0, math.Min(1, raw.Confidence)),
		Findings:       findings,
		Recommendation: strings.TrimSpace(raw.Recommendation),
	}, nil
}
