package models

import "time"

// AvailabilityRule is a recurring weekly window. Weekday follows time.Weekday (0=Sunday).
type AvailabilityRule struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	DoctorID uint `gorm:"index:idx_rule_doctor_weekday" json:"doctor_id"`

	Weekday int `gorm:"index:idx_rule_doctor_weekday" json:"weekday"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Enabled   bool   `gorm:"default:true" json:"enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
