// Package cache provides a small read-through Redis cache for lecturer
// statistics. The cache is optional; a nil *StatsCache disables it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rateme/internal/httpapi/repository"
)

// ErrCacheMiss is returned when no entry exists for the lecturer.
var ErrCacheMiss = errors.New("stats cache miss")

type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache connects to Redis at the given URL. Returns an error when
// the URL cannot be parsed; the caller decides whether to run without cache.
func NewStatsCache(redisURL, password string, ttl time.Duration) (*StatsCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	return &StatsCache{
		client: redis.NewClient(opts),
		ttl:    ttl,
	}, nil
}

func (c *StatsCache) key(lecturerID string) string {
	return "lecturer_stats:" + lecturerID
}

// Get returns the cached stats for a lecturer or ErrCacheMiss.
func (c *StatsCache) Get(ctx context.Context, lecturerID string) (*repository.LecturerStats, error) {
	raw, err := c.client.Get(ctx, c.key(lecturerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var stats repository.LecturerStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Set stores the stats under the configured TTL.
func (c *StatsCache) Set(ctx context.Context, lecturerID string, stats *repository.LecturerStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(lecturerID), raw, c.ttl).Err()
}

// Invalidate drops the cached entry, called after new feedback lands.
func (c *StatsCache) Invalidate(ctx context.Context, lecturerID string) error {
	return c.client.Del(ctx, c.key(lecturerID)).Err()
}
