package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/oticahub/lens-engine/internal/domain"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Fingerprint identifies a recommendation request independently of field
// order or formatting, so equal measurements share a cache entry.
func Fingerprint(m domain.FacialMeasurements, prefs domain.CustomerPreferences) string {
	payload, _ := json.Marshal(struct {
		M domain.FacialMeasurements  `json:"m"`
		P domain.CustomerPreferences `json:"p"`
	}{m, prefs})
	return fmt.Sprintf("%016x", xxhash.Sum64(payload))
}

func buildKey(storeID string, limit int, fingerprint string) string {
	return fmt.Sprintf("rec:store:%s:limit:%d:fp:%s", storeID, limit, fingerprint)
}

// Get recommendations from cache
func (c *Cache) Get(ctx context.Context, storeID string, limit int, fingerprint string) ([]domain.FrameRecommendation, bool, error) {
	key := buildKey(storeID, limit, fingerprint)
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to get recommendations from cache: %w", err)
	}

	var recs []domain.FrameRecommendation
	if err := json.Unmarshal([]byte(val), &recs); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal recommendations %s: %w", key, err)
	}

	return recs, true, nil
}

// Store recommendations in cache
func (c *Cache) Set(ctx context.Context, storeID string, limit int, fingerprint string, recs []domain.FrameRecommendation) error {
	key := buildKey(storeID, limit, fingerprint)
	val, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set recommendations in cache: %w", err)
	}

	return nil
}

// Clear store cache: used when the store catalog changes
func (c *Cache) ClearStoreCache(ctx context.Context, storeID string) (int, error) {
	pattern := fmt.Sprintf("rec:store:%s:*", storeID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	deleted := 0
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
		deleted++
	}
	return deleted, iter.Err()
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
