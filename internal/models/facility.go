package models

import "time"

// Facility is the clinic a doctor practices from. All of the doctor's
// availability rules are interpreted in the facility's timezone.
type Facility struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	DoctorID uint `gorm:"uniqueIndex;not null" json:"doctor_id"`

	Name      string  `gorm:"size:100;not null" json:"name"`
	Slug      string  `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone     string  `gorm:"size:20" json:"phone"`
	Address   string  `gorm:"size:255" json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `gorm:"size:64" json:"timezone"`

	SlotMinutes          int `gorm:"default:30" json:"slot_minutes"`
	SameDayBufferMinutes int `gorm:"default:60" json:"same_day_buffer_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
