package models

import "time"

const (
	ModeVideo    = "video"
	ModeInPerson = "in_person"
)

type ConsultationService struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	DoctorID uint `gorm:"index" json:"doctor_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
	Currency    string  `gorm:"size:3;default:'DZD'" json:"currency"`
	Mode        string  `gorm:"size:20;default:'video'" json:"mode"`
	Active      bool    `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
