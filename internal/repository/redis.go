package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stolik/internal/config"
	"stolik/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisScheduleCache stores a table's active day schedule in redis with a
// TTL. Cached entries are a read optimization only; booking creation always
// re-reads the store inside its transaction.
type RedisScheduleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisScheduleCache(client *redis.Client, ttl time.Duration) *RedisScheduleCache {
	return &RedisScheduleCache{client: client, ttl: ttl}
}

func scheduleKey(tableID int64, date time.Time) string {
	return fmt.Sprintf("schedule:%d:%s", tableID, date.Format(models.DateLayout))
}

func (c *RedisScheduleCache) GetDaySchedule(ctx context.Context, tableID int64, date time.Time) ([]*models.Booking, bool, error) {
	if c.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}
	val, err := c.client.Get(ctx, scheduleKey(tableID, date)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get schedule from redis: %w", err)
	}

	var bookings []*models.Booking
	if err := json.Unmarshal([]byte(val), &bookings); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}
	return bookings, true, nil
}

func (c *RedisScheduleCache) SetDaySchedule(ctx context.Context, tableID int64, date time.Time, bookings []*models.Booking) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}
	if err := c.client.Set(ctx, scheduleKey(tableID, date), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set schedule in redis: %w", err)
	}
	return nil
}

func (c *RedisScheduleCache) InvalidateDay(ctx context.Context, tableID int64, date time.Time) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := c.client.Del(ctx, scheduleKey(tableID, date)).Err(); err != nil {
		return fmt.Errorf("failed to delete schedule from redis: %w", err)
	}
	return nil
}
