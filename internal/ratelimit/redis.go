package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares window counters across server instances via
// INCR + EXPIRE. Used instead of MemoryLimiter when Redis is configured.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	period time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, period time.Duration) *RedisLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if period <= 0 {
		period = DefaultWindow
	}
	return &RedisLimiter{client: client, limit: limit, period: period}
}

func (l *RedisLimiter) Limit() int {
	return l.limit
}

func (l *RedisLimiter) Allow(ctx context.Context, actorID string) error {
	key := fmt.Sprintf("ratelimit:%s", actorID)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		// Redis down must not block writes; fall open.
		return nil
	}
	if count == 1 {
		l.client.Expire(ctx, key, l.period)
	}
	if count > int64(l.limit) {
		return ErrLimitExceeded
	}
	return nil
}
