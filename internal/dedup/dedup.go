// Package dedup suppresses repeat alert deliveries within a time window,
// backed by Redis so restarts do not re-fire every standing condition.
package dedup

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Window is how long an alert key suppresses identical alerts. A standing
// depeg re-alerts after the window expires rather than on every sweep.
const Window = 6 * time.Hour

type Deduplicator struct {
	rdb *redis.Client
}

// New creates a Deduplicator backed by Redis.
func New(redisURL, password string) (*Deduplicator, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if password != "" {
		opts.Password = password
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Deduplicator{rdb: rdb}, nil
}

// Close shuts down the Redis connection.
func (d *Deduplicator) Close() error {
	return d.rdb.Close()
}

// AlreadySent returns true if key was recorded within the window. Fails
// open: if Redis is unreachable the alert is delivered rather than lost.
func (d *Deduplicator) AlreadySent(ctx context.Context, key string) bool {
	if d == nil {
		return false
	}
	exists, err := d.rdb.Exists(ctx, key).Result()
	return err == nil && exists > 0
}

// Record marks key as sent for the suppression window.
func (d *Deduplicator) Record(ctx context.Context, key string) {
	if d == nil {
		return
	}
	d.rdb.Set(ctx, key, "1", Window)
}

// Clear removes a dedup key so the alert can fire again once the
// condition resets.
func (d *Deduplicator) Clear(ctx context.Context, key string) {
	if d == nil {
		return
	}
	d.rdb.Del(ctx, key) //nolint:errcheck
}
