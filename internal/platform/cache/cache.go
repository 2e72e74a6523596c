// Package cache provides a Dragonfly/Redis client wrapper plus helpers
// for caching each user's latest generated timetable.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTimetableTTL bounds how long a cached timetable may be served
// before falling back to the store.
const DefaultTimetableTTL = 15 * time.Minute

// Cache wraps a Redis/Dragonfly client.
type Cache struct {
	Client *redis.Client
}

// ParseURL validates a Redis connection URL.
func ParseURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("cache URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}
	return opts, nil
}

// New creates a new cache client.
func New(ctx context.Context, url string) (*Cache, error) {
	opts, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging cache: %w", err)
	}

	return &Cache{Client: client}, nil
}

// Close shuts down the cache client.
func (c *Cache) Close() error {
	return c.Client.Close()
}

// HealthCheck verifies the cache connection is alive.
func (c *Cache) HealthCheck(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func timetableKey(userID string) string {
	return "timetable:latest:" + userID
}

// StoreTimetable caches a user's latest timetable as JSON.
func (c *Cache) StoreTimetable(ctx context.Context, userID string, timetable any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTimetableTTL
	}
	data, err := json.Marshal(timetable)
	if err != nil {
		return fmt.Errorf("marshal timetable: %w", err)
	}
	if err := c.Client.Set(ctx, timetableKey(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache timetable: %w", err)
	}
	return nil
}

// LatestTimetable loads a cached timetable into dst. The second return is
// false on a cache miss.
func (c *Cache) LatestTimetable(ctx context.Context, userID string, dst any) (bool, error) {
	data, err := c.Client.Get(ctx, timetableKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("read cached timetable: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("unmarshal cached timetable: %w", err)
	}
	return true, nil
}

// InvalidateTimetable drops a user's cached timetable, for use after a
// regeneration or a performance update.
func (c *Cache) InvalidateTimetable(ctx context.Context, userID string) error {
	return c.Client.Del(ctx, timetableKey(userID)).Err()
}
