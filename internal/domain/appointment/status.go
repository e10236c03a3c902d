package appointment

import "github.com/GHanamaAhmed/cancer-detection/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusRequested Status = "requested"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// OccupyingStatuses block the doctor's calendar.
var OccupyingStatuses = []string{
	string(StatusRequested),
	string(StatusConfirmed),
}

func (s Status) Occupies() bool {
	return s == StatusRequested || s == StatusConfirmed
}

// ===============================
// Validations
// ===============================

func CanConfirm(current Status) error {
	if current != StatusRequested {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanReject(current Status) error {
	if current != StatusRequested {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanCancel(current Status) error {
	if !current.Occupies() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusRequested
}
