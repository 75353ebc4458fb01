package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter counts requests per client in fixed windows shared by every
// replica through redis.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

func (l *RateLimiter) Limit() int {
	return l.limit
}

// Allow records one request for the client and reports whether it is within
// the limit, together with the requests left in the current window.
func (l *RateLimiter) Allow(ctx context.Context, client string) (bool, int, error) {
	window := time.Now().UnixNano() / int64(l.window)
	key := fmt.Sprintf("ratelimit:%s:%d", client, window)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return true, l.limit, fmt.Errorf("rate limit counter %s: %w", key, err)
	}

	count := int(incr.Val())
	remaining := max(l.limit-count, 0)
	return count <= l.limit, remaining, nil
}
