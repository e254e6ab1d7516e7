package repository

import (
	"context"
	"sync/atomic"
	"time"

	"stolik/internal/domain"
	"stolik/internal/models"

	"github.com/rs/zerolog"
)

// FailoverScheduleCache serves from the primary cache and drops to the
// fallback when the primary errors. After a minute it probes the primary
// again.
type FailoverScheduleCache struct {
	primary   domain.ScheduleCache
	fallback  domain.ScheduleCache
	logger    zerolog.Logger
	isDown    atomic.Bool
	downSince atomic.Int64
}

func NewFailoverScheduleCache(primary, fallback domain.ScheduleCache, logger *zerolog.Logger) *FailoverScheduleCache {
	return &FailoverScheduleCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger.With().Str("component", "schedule_cache").Logger(),
	}
}

const recoveryProbeInterval = time.Minute

func (c *FailoverScheduleCache) primaryUsable() bool {
	if !c.isDown.Load() {
		return true
	}
	return time.Since(time.Unix(c.downSince.Load(), 0)) > recoveryProbeInterval
}

func (c *FailoverScheduleCache) markDown(err error) {
	c.logger.Error().Err(err).Msg("primary schedule cache failed, falling back to memory")
	c.isDown.Store(true)
	c.downSince.Store(time.Now().Unix())
}

func (c *FailoverScheduleCache) GetDaySchedule(ctx context.Context, tableID int64, date time.Time) ([]*models.Booking, bool, error) {
	if c.primaryUsable() {
		bookings, ok, err := c.primary.GetDaySchedule(ctx, tableID, date)
		if err == nil {
			c.isDown.Store(false)
			return bookings, ok, nil
		}
		c.markDown(err)
	}
	return c.fallback.GetDaySchedule(ctx, tableID, date)
}

func (c *FailoverScheduleCache) SetDaySchedule(ctx context.Context, tableID int64, date time.Time, bookings []*models.Booking) error {
	if c.primaryUsable() {
		err := c.primary.SetDaySchedule(ctx, tableID, date, bookings)
		if err == nil {
			c.isDown.Store(false)
			return nil
		}
		c.markDown(err)
	}
	return c.fallback.SetDaySchedule(ctx, tableID, date, bookings)
}

// InvalidateDay clears both layers: a stale entry hiding in the fallback
// would resurface on the next failover.
func (c *FailoverScheduleCache) InvalidateDay(ctx context.Context, tableID int64, date time.Time) error {
	_ = c.fallback.InvalidateDay(ctx, tableID, date)
	if c.primaryUsable() {
		if err := c.primary.InvalidateDay(ctx, tableID, date); err != nil {
			c.markDown(err)
			return err
		}
		c.isDown.Store(false)
	}
	return nil
}
