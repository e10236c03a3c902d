package appointment

// AvailabilityInput asks for a doctor's bookable grid over [From, To].
// From and To are YYYY-MM-DD dates in the facility's location. An empty From
// means today, an empty To means "use the default window".
type AvailabilityInput struct {
	DoctorID uint
	From     string
	To       string

	// SelfService is the doctor looking at their own calendar: no same-day
	// lead time is applied.
	SelfService bool

	IncludeEmptyDays bool
}

type CreateRequestInput struct {
	DoctorID  uint
	PatientID uint
	ServiceID *uint

	Date   string // YYYY-MM-DD
	Time   string // HH:mm
	Reason string
}
