package appointment

import (
	"time"

	"github.com/GHanamaAhmed/cancer-detection/internal/domain/availability"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

func ToRules(rows []models.AvailabilityRule) []availability.Rule {
	out := make([]availability.Rule, 0, len(rows))
	for _, r := range rows {
		out = append(out, availability.Rule{
			DoctorID:  r.DoctorID,
			Weekday:   r.Weekday,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Enabled:   r.Enabled,
		})
	}
	return out
}

// ToBookings projects occupying appointments into booked intervals.
// Appointments in any other status are ignored.
func ToBookings(aps []models.Appointment) []availability.Booking {
	out := make([]availability.Booking, 0, len(aps))
	for _, ap := range aps {
		if !Status(ap.Status).Occupies() {
			continue
		}
		minutes := ap.DurationMinutes
		if minutes <= 0 {
			minutes = int(ap.EndTime.Sub(ap.StartTime) / time.Minute)
		}
		out = append(out, availability.Booking{
			Start:           ap.StartTime,
			DurationMinutes: minutes,
		})
	}
	return out
}

// FitsSchedule reports whether [start, end) lies inside one enabled rule
// window of start's weekday, in start's location.
func FitsSchedule(rules []availability.Rule, start, end time.Time) bool {
	for _, r := range rules {
		if !r.Enabled || r.Weekday != int(start.Weekday()) {
			continue
		}
		ws, we, ok := r.WindowOn(start)
		if !ok {
			continue
		}
		if !start.Before(ws) && !end.After(we) {
			return true
		}
	}
	return false
}
