package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FacilityID uint     `json:"facility_id"`
	Facility   Facility `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	DoctorID uint `gorm:"index:idx_appointment_doctor_start" json:"doctor_id"`
	Doctor   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"doctor"`

	PatientID uint `gorm:"index" json:"patient_id"`
	Patient   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient"`

	ServiceID *uint                `json:"service_id"`
	Service   *ConsultationService `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	StartTime       time.Time `gorm:"index:idx_appointment_doctor_start" json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`

	Status string `gorm:"size:20;default:'requested'" json:"status"`
	Mode   string `gorm:"size:20;default:'video'" json:"mode"`

	Reason string `gorm:"size:255" json:"reason"`
	Notes  string `gorm:"size:255" json:"notes"`

	PaymentPreferenceID string `gorm:"size:100" json:"payment_preference_id,omitempty"`
	PaymentURL          string `gorm:"size:500" json:"payment_url,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	RejectedAt  *time.Time `json:"rejected_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
