package models

import "time"

const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionRejected = "rejected"
)

// Connection links a patient to a doctor. Chat, lesion sharing and video
// calls require an accepted connection.
type Connection struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID  uint `gorm:"uniqueIndex:idx_connection_pair;not null" json:"doctor_id"`
	Doctor    User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"doctor"`
	PatientID uint `gorm:"uniqueIndex:idx_connection_pair;not null" json:"patient_id"`
	Patient   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"patient"`

	Status      string     `gorm:"size:20;default:'pending'" json:"status"`
	Message     string     `gorm:"size:255" json:"message"`
	RespondedAt *time.Time `json:"responded_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
