package dto

import (
	"time"

	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	Mode        string    `json:"mode"`
	DoctorID    uint      `json:"doctor_id"`
	DoctorName  string    `json:"doctor_name"`
	PatientID   uint      `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	ServiceName string    `json:"service_name,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	PaymentURL  string    `json:"payment_url,omitempty"`
}

func NewAppointmentList(appointments []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		item := AppointmentListDTO{
			ID:          ap.ID,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			Status:      ap.Status,
			Mode:        ap.Mode,
			DoctorID:    ap.DoctorID,
			DoctorName:  ap.Doctor.Name,
			PatientID:   ap.PatientID,
			PatientName: ap.Patient.Name,
			Reason:      ap.Reason,
			PaymentURL:  ap.PaymentURL,
		}
		if ap.Service != nil {
			item.ServiceName = ap.Service.Name
		}
		out = append(out, item)
	}
	return out
}
