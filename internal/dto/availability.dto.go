package dto

import (
	"time"

	"github.com/GHanamaAhmed/cancer-detection/internal/domain/availability"
)

type SlotDTO struct {
	Time          string `json:"time"`
	FormattedDate string `json:"formattedDate"`
}

type DayAvailabilityDTO struct {
	Date      string    `json:"date"`
	DayOfWeek string    `json:"dayOfWeek"`
	Day       int       `json:"day"`
	Month     string    `json:"month"`
	Slots     []SlotDTO `json:"slots"`
}

// NewAvailability serializes generated days. Slot instants keep the clinic
// offset so clients can show them without converting.
func NewAvailability(days []availability.Day) []DayAvailabilityDTO {
	out := make([]DayAvailabilityDTO, 0, len(days))
	for _, d := range days {
		item := DayAvailabilityDTO{
			Date:      d.Date.Format("2006-01-02"),
			DayOfWeek: d.WeekdayLabel(),
			Day:       d.DayOfMonth(),
			Month:     d.MonthLabel(),
			Slots:     make([]SlotDTO, 0, len(d.Slots)),
		}
		for _, s := range d.Slots {
			item.Slots = append(item.Slots, SlotDTO{
				Time:          s.Display(),
				FormattedDate: s.Start.Format(time.RFC3339),
			})
		}
		out = append(out, item)
	}
	return out
}
