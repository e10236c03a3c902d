package appointment

import (
	"context"
	"fmt"
	"testing"
	"time"

	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
)

type stubTokens struct{}

func (stubTokens) APIKey() string { return "stream-key" }

func (stubTokens) Issue(userID uint, _, _ time.Time) (string, error) {
	return "token-for-user", nil
}

func TestIssueVideoToken(t *testing.T) {
	repo := seededRepo()
	start := monday.Add(10 * time.Hour)
	ap := repo.book(doctorID, start, 30, domain.StatusConfirmed)
	pending := repo.book(doctorID, start.Add(time.Hour), 30, domain.StatusRequested)

	uc := NewIssueVideoToken(repo, stubTokens{})
	ctx := context.Background()

	uc.now = fixedClock(start.Add(-10 * time.Minute))
	s, err := uc.Execute(ctx, patientID, ap.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.CallID != fmt.Sprintf("appointment-%d", ap.ID) || s.UserID != "2" || s.APIKey != "stream-key" {
		t.Fatalf("unexpected session %+v", s)
	}
	if !s.ExpiresAt.Equal(start.Add(30*time.Minute + 30*time.Minute)) {
		t.Fatalf("unexpected expiry %v", s.ExpiresAt)
	}

	uc.now = fixedClock(start.Add(-20 * time.Minute))
	_, err = uc.Execute(ctx, patientID, ap.ID)
	wantCode(t, err, "call_not_open")

	uc.now = fixedClock(start.Add(61 * time.Minute))
	_, err = uc.Execute(ctx, doctorID, ap.ID)
	wantCode(t, err, "call_not_open")

	uc.now = fixedClock(start)
	_, err = uc.Execute(ctx, 42, ap.ID)
	wantCode(t, err, "appointment_not_found")

	_, err = uc.Execute(ctx, patientID, pending.ID)
	wantCode(t, err, "appointment_not_confirmed")
}
