package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix = "netguard:alert:"
	recentKey      = "netguard:alerts:recent"
	recentMax      = 100
)

// Cache keeps recent alerts in Redis for dashboards that poll faster than
// the database should be hit. Entries expire by TTL; a capped list index
// preserves recency order.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache wraps an existing Redis client. TTL <= 0 defaults to one hour.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{client: client, ttl: ttl}
}

// Put stores the alert under its ID and pushes it onto the recency index.
func (c *Cache) Put(ctx context.Context, alert *Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	key := cacheKeyPrefix + alert.ID
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, data, c.ttl)
	pipe.LPush(ctx, recentKey, alert.ID)
	pipe.LTrim(ctx, recentKey, 0, recentMax-1)
	pipe.Expire(ctx, recentKey, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache alert: %w", err)
	}
	return nil
}

// Get fetches one alert by ID. Expired or unknown IDs return (nil, nil).
func (c *Cache) Get(ctx context.Context, id string) (*Alert, error) {
	data, err := c.client.Get(ctx, cacheKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch alert: %w", err)
	}

	alert := &Alert{}
	if err := json.Unmarshal(data, alert); err != nil {
		return nil, fmt.Errorf("unmarshal alert: %w", err)
	}
	return alert, nil
}

// Recent returns up to limit cached alerts, newest first. Alerts whose TTL
// already expired are skipped.
func (c *Cache) Recent(ctx context.Context, limit int) ([]*Alert, error) {
	if limit <= 0 || limit > recentMax {
		limit = recentMax
	}
	ids, err := c.client.LRange(ctx, recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch recent index: %w", err)
	}

	out := make([]*Alert, 0, len(ids))
	for _, id := range ids {
		alert, err := c.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if alert != nil {
			out = append(out, alert)
		}
	}
	return out, nil
}
