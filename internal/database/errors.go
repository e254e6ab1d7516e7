package database

import "errors"

// Expected business outcomes. Callers distinguish them from transport
// failures with errors.Is; anything else coming out of this package is a
// store fault.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrTableNotFound   = errors.New("table not found")
	ErrBookingNotFound = errors.New("booking not found")

	ErrDuplicatePhone       = errors.New("phone already registered")
	ErrDuplicateTableNumber = errors.New("table number already exists")

	// ErrSlotConflict means the requested interval overlaps an active
	// booking on the same table.
	ErrSlotConflict = errors.New("time slot conflicts with an existing booking")

	ErrCapacityExceeded  = errors.New("guests count exceeds table capacity")
	ErrTableInactive     = errors.New("table is not active for booking")
	ErrInvalidUser       = errors.New("invalid user data")
	ErrInvalidTable      = errors.New("invalid table data")
	ErrInvalidBooking    = errors.New("invalid booking data")
	ErrIllegalTransition = errors.New("illegal booking status transition")
)
