package ai

import (
	"errors"
	"testing"
)

func TestParseAnalysis(t *testing.T) {
	text := "```json\n" + `{"risk_level":"High","confidence":1.4,"findings":["irregular border"," ","two colours"],"recommendation":" See a dermatologist this week. "}` + "\n```"

	a, err := ParseAnalysis(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.RiskLevel != "high" {
		t.Fatalf("expected normalized risk level, got %q", a.RiskLevel)
	}
	if a.Confidence != 1 {
		t.Fatalf("expected confidence clamped to 1, got %v", a.Confidence)
	}
	if len(a.Findings) != 2 {
		t.Fatalf("expected blank findings dropped, got %v", a.Findings)
	}
	if a.Recommendation != "See a dermatologist this week." {
		t.Fatalf("unexpected recommendation %q", a.Recommendation)
	}
}

func TestParseAnalysis_Rejects(t *testing.T) {
	for _, text := range []string{
		"not json",
		`{"risk_level":"critical","confidence":0.5}`,
		`{"confidence":0.5}`,
	} {
		if _, err := ParseAnalysis(text); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("%q: expected ErrMalformedResponse, got %v", text, err)
		}
	}
}
