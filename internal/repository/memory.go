package repository

import (
	"context"
	"sync"
	"time"

	"stolik/internal/models"
)

type scheduleEntry struct {
	bookings  []*models.Booking
	expiresAt time.Time
}

// MemoryScheduleCache is the in-process fallback when redis is down or not
// configured.
type MemoryScheduleCache struct {
	entries sync.Map
	ttl     time.Duration
}

func NewMemoryScheduleCache(ttl time.Duration) *MemoryScheduleCache {
	return &MemoryScheduleCache{ttl: ttl}
}

func (c *MemoryScheduleCache) GetDaySchedule(ctx context.Context, tableID int64, date time.Time) ([]*models.Booking, bool, error) {
	val, ok := c.entries.Load(scheduleKey(tableID, date))
	if !ok {
		return nil, false, nil
	}
	entry := val.(*scheduleEntry)
	if c.ttl > 0 && time.Now().After(entry.expiresAt) {
		c.entries.Delete(scheduleKey(tableID, date))
		return nil, false, nil
	}
	return entry.bookings, true, nil
}

func (c *MemoryScheduleCache) SetDaySchedule(ctx context.Context, tableID int64, date time.Time, bookings []*models.Booking) error {
	c.entries.Store(scheduleKey(tableID, date), &scheduleEntry{
		bookings:  bookings,
		expiresAt: time.Now().Add(c.ttl),
	})
	return nil
}

func (c *MemoryScheduleCache) InvalidateDay(ctx context.Context, tableID int64, date time.Time) error {
	c.entries.Delete(scheduleKey(tableID, date))
	return nil
}
