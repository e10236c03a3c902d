package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/GHanamaAhmed/cancer-detection/internal/domain/availability"
)

func TestNewAvailability_JSONShape(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, loc)
	start := time.Date(2026, 10, 19, 15, 30, 0, 0, loc)

	days := []availability.Day{{
		Date:  day,
		Slots: []availability.Slot{{Start: start, End: start.Add(30 * time.Minute)}},
	}}

	raw, err := json.Marshal(NewAvailability(days))
	if err != nil {
		t.Fatal(err)
	}

	want := `[{"date":"2026-10-19","dayOfWeek":"Mon","day":19,"month":"Oct",` +
		`"slots":[{"time":"3:30 PM","formattedDate":"2026-10-19T15:30:00+01:00"}]}]`
	if string(raw) != want {
		t.Fatalf("got  %s\nwant %s", raw, want)
	}
}

func TestNewAvailability_EmptyDayKeepsEmptySlice(t *testing.T) {
	days := []availability.Day{{Date: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), Slots: []availability.Slot{}}}

	raw, err := json.Marshal(NewAvailability(days))
	if err != nil {
		t.Fatal(err)
	}
	if want := `[{"date":"2026-10-20","dayOfWeek":"Tue","day":20,"month":"Oct","slots":[]}]`; string(raw) != want {
		t.Fatalf("got %s", raw)
	}

	raw, _ = json.Marshal(NewAvailability(nil))
	if string(raw) != "[]" {
		t.Fatalf("nil days should serialize as [], got %s", raw)
	}
}
