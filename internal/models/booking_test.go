package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBooking(tableID int64, date, timeOfDay string, duration float64, status Status) *Booking {
	d, _ := time.Parse(DateLayout, date)
	return &Booking{
		ID:            1,
		UserID:        1,
		TableID:       tableID,
		BookingDate:   d,
		BookingTime:   timeOfDay,
		DurationHours: duration,
		GuestsCount:   2,
		Status:        status,
	}
}

func TestBookingIsValid(t *testing.T) {
	valid := testBooking(1, "2024-06-01", "19:00", 2, StatusPending)
	assert.True(t, valid.IsValid())

	noUser := *valid
	noUser.UserID = 0
	assert.False(t, noUser.IsValid())

	badTime := *valid
	badTime.BookingTime = "25:99"
	assert.False(t, badTime.IsValid())

	zeroDuration := *valid
	zeroDuration.DurationHours = 0
	assert.False(t, zeroDuration.IsValid())

	noGuests := *valid
	noGuests.GuestsCount = 0
	assert.False(t, noGuests.IsValid())
}

func TestBookingStartEnd(t *testing.T) {
	b := testBooking(1, "2024-06-01", "19:00", 2.5, StatusPending)

	start, ok := b.Start()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC), start)

	end, ok := b.End()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 1, 21, 30, 0, 0, time.UTC), end)
}

func TestConflictsWithOverlap(t *testing.T) {
	base := testBooking(1, "2024-06-01", "19:00", 2, StatusConfirmed)

	tests := []struct {
		name     string
		other    *Booking
		conflict bool
	}{
		{"same slot", testBooking(1, "2024-06-01", "19:00", 2, StatusPending), true},
		{"starts inside", testBooking(1, "2024-06-01", "20:30", 1, StatusPending), true},
		{"ends inside", testBooking(1, "2024-06-01", "18:00", 1.5, StatusPending), true},
		{"covers whole window", testBooking(1, "2024-06-01", "18:00", 4, StatusPending), true},
		{"one minute before end", testBooking(1, "2024-06-01", "20:59", 1, StatusPending), true},
		{"starts exactly at end", testBooking(1, "2024-06-01", "21:00", 2, StatusPending), false},
		{"ends exactly at start", testBooking(1, "2024-06-01", "17:00", 2, StatusPending), false},
		{"different table", testBooking(2, "2024-06-01", "19:00", 2, StatusPending), false},
		{"different date", testBooking(1, "2024-06-02", "19:00", 2, StatusPending), false},
		{"cancelled does not block", testBooking(1, "2024-06-01", "19:00", 2, StatusCancelled), false},
		{"completed does not block", testBooking(1, "2024-06-01", "19:00", 2, StatusCompleted), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.conflict, base.ConflictsWith(tt.other))
			assert.Equal(t, tt.conflict, tt.other.ConflictsWith(base))
		})
	}
}

func TestConflictsWithInactiveSelf(t *testing.T) {
	cancelled := testBooking(1, "2024-06-01", "19:00", 2, StatusCancelled)
	other := testBooking(1, "2024-06-01", "19:00", 2, StatusConfirmed)
	assert.False(t, cancelled.ConflictsWith(other))
}

func TestBookingRecordRoundTrip(t *testing.T) {
	b := testBooking(3, "2024-06-01", "19:00", 1.5, StatusConfirmed)
	b.SpecialRequests = "window seat"

	got := BookingFromRecord(b.ToRecord())
	assert.Equal(t, b.TableID, got.TableID)
	assert.Equal(t, "19:00", got.BookingTime)
	assert.Equal(t, 1.5, got.DurationHours)
	assert.Equal(t, StatusConfirmed, got.Status)
	assert.Equal(t, "window seat", got.SpecialRequests)
	assert.Equal(t, "2024-06-01", got.BookingDate.Format(DateLayout))
}

func TestBookingFromRecordDefaults(t *testing.T) {
	rec := map[string]any{
		"user_id":      int64(1),
		"table_id":     int64(2),
		"booking_date": "2024-06-01",
		"booking_time": "12:00",
		"guests_count": int64(4),
	}
	b := BookingFromRecord(rec)
	assert.Equal(t, DefaultDurationHours, b.DurationHours)
	assert.Equal(t, StatusPending, b.Status)
}

func TestBookingFromRecordUnknownStatus(t *testing.T) {
	rec := map[string]any{"status": "no_show"}
	assert.Equal(t, StatusPending, BookingFromRecord(rec).Status)
}
