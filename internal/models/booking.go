package models

import (
	"time"
)

// DefaultDurationHours is assumed when a booking does not specify how long
// the table is held.
const DefaultDurationHours = 2.0

// DateLayout and TimeLayout are the wire formats for booking_date and
// booking_time. booking_time carries no timezone; it is a local time of day.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Booking reserves one table for one party over a time window on a single
// calendar day. It references its User and Table by id only.
type Booking struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	TableID         int64     `json:"table_id"`
	BookingDate     time.Time `json:"booking_date"`
	BookingTime     string    `json:"booking_time"`
	DurationHours   float64   `json:"duration_hours"`
	GuestsCount     int64     `json:"guests_count"`
	Status          Status    `json:"status"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (b *Booking) IsValid() bool {
	if b.UserID <= 0 || b.TableID <= 0 {
		return false
	}
	if b.BookingDate.IsZero() || b.BookingTime == "" {
		return false
	}
	if _, err := time.Parse(TimeLayout, b.BookingTime); err != nil {
		return false
	}
	return b.DurationHours > 0 && b.GuestsCount > 0
}

// IsActive reports whether the booking still blocks its table.
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// CanBeCancelled reports whether a transition to cancelled is legal.
func (b *Booking) CanBeCancelled() bool {
	return b.Status.IsActive()
}

// Start returns the booking start as a datetime on the booking's date.
func (b *Booking) Start() (time.Time, bool) {
	if b.BookingDate.IsZero() || b.BookingTime == "" {
		return time.Time{}, false
	}
	tod, err := time.Parse(TimeLayout, b.BookingTime)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := b.BookingDate.Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), 0, 0, time.UTC), true
}

// End returns the instant the table is released.
func (b *Booking) End() (time.Time, bool) {
	start, ok := b.Start()
	if !ok {
		return time.Time{}, false
	}
	duration := b.DurationHours
	if duration <= 0 {
		duration = DefaultDurationHours
	}
	return start.Add(time.Duration(duration * float64(time.Hour))), true
}

// ConflictsWith reports whether two bookings contend for the same table at
// the same time. Intervals are half-open [start, end): a booking starting
// exactly when another ends does not conflict. Inactive bookings never
// conflict with anything.
func (b *Booking) ConflictsWith(other *Booking) bool {
	if b.TableID != other.TableID || !b.IsActive() || !other.IsActive() {
		return false
	}
	if b.BookingDate.Format(DateLayout) != other.BookingDate.Format(DateLayout) {
		return false
	}

	aStart, ok := b.Start()
	if !ok {
		return false
	}
	aEnd, _ := b.End()
	bStart, ok := other.Start()
	if !ok {
		return false
	}
	bEnd, _ := other.End()

	return !(aEnd.Compare(bStart) <= 0 || bEnd.Compare(aStart) <= 0)
}

// ToRecord returns the canonical flat representation of the booking.
func (b *Booking) ToRecord() map[string]any {
	return map[string]any{
		"id":               b.ID,
		"user_id":          b.UserID,
		"table_id":         b.TableID,
		"booking_date":     b.BookingDate.Format(DateLayout),
		"booking_time":     b.BookingTime,
		"duration_hours":   b.DurationHours,
		"guests_count":     b.GuestsCount,
		"status":           string(b.Status),
		"special_requests": b.SpecialRequests,
		"created_at":       formatTimestamp(b.CreatedAt),
		"updated_at":       formatTimestamp(b.UpdatedAt),
	}
}

// BookingFromRecord builds a Booking from a flat record. Missing optionals
// take documented defaults: no status reads as pending, no duration as
// DefaultDurationHours.
func BookingFromRecord(rec map[string]any) *Booking {
	duration := recordFloat64(rec, "duration_hours")
	if duration == 0 {
		duration = DefaultDurationHours
	}
	return &Booking{
		ID:              recordInt64(rec, "id"),
		UserID:          recordInt64(rec, "user_id"),
		TableID:         recordInt64(rec, "table_id"),
		BookingDate:     recordDate(rec, "booking_date"),
		BookingTime:     recordString(rec, "booking_time"),
		DurationHours:   duration,
		GuestsCount:     recordInt64(rec, "guests_count"),
		Status:          ParseStatus(recordString(rec, "status")),
		SpecialRequests: recordString(rec, "special_requests"),
		CreatedAt:       recordTimestamp(rec, "created_at"),
		UpdatedAt:       recordTimestamp(rec, "updated_at"),
	}
}
