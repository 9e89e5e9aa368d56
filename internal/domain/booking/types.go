package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive reports whether the booking still occupies its interval.
// Cancelled and completed bookings free the slot.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}
