package appointment

import (
	"testing"
	"time"

	"github.com/GHanamaAhmed/cancer-detection/internal/domain/availability"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

func TestFitsSchedule(t *testing.T) {
	rules := []availability.Rule{
		{Weekday: 1, StartTime: "09:00", EndTime: "12:00", Enabled: true},
		{Weekday: 1, StartTime: "14:00", EndTime: "17:00", Enabled: true},
		{Weekday: 2, StartTime: "09:00", EndTime: "17:00", Enabled: false},
	}
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside morning", monday.Add(9 * time.Hour), monday.Add(9*time.Hour + 45*time.Minute), true},
		{"ends at window end", monday.Add(11*time.Hour + 30*time.Minute), monday.Add(12 * time.Hour), true},
		{"spans lunch gap", monday.Add(11*time.Hour + 30*time.Minute), monday.Add(14*time.Hour + 30*time.Minute), false},
		{"before open", monday.Add(8*time.Hour + 30*time.Minute), monday.Add(9*time.Hour + 30*time.Minute), false},
		{"disabled tuesday", monday.Add(33 * time.Hour), monday.Add(33*time.Hour + 30*time.Minute), false},
	}
	for _, tc := range cases {
		if got := FitsSchedule(rules, tc.start, tc.end); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestToBookings_SkipsNonOccupying(t *testing.T) {
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	aps := []models.Appointment{
		{Status: string(StatusRequested), StartTime: start, EndTime: start.Add(30 * time.Minute), DurationMinutes: 30},
		{Status: string(StatusConfirmed), StartTime: start.Add(time.Hour), EndTime: start.Add(105 * time.Minute)},
		{Status: string(StatusCancelled), StartTime: start.Add(2 * time.Hour), EndTime: start.Add(150 * time.Minute)},
	}

	got := ToBookings(aps)
	if len(got) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(got))
	}
	if got[1].DurationMinutes != 45 {
		t.Fatalf("expected duration derived from end time, got %d", got[1].DurationMinutes)
	}
}
