package models

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ParseStatus maps a raw string to a Status. Unknown values fall back to
// pending rather than failing; rows written by older versions stay readable.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return Status(raw)
	default:
		return StatusPending
	}
}

// IsActive reports whether a booking in this status still blocks a table.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal reports whether no further transitions are expected.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

func (s Status) String() string {
	return string(s)
}
