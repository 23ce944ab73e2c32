// Package ratelimit counts login and verification attempts in fixed Redis
// windows.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophsignup/internal/common"
	"github.com/redis/go-redis/v9"
)

// Limiter allows at most limit attempts per key within window.
type Limiter struct {
	redis  redis.UniversalClient
	prefix string
	limit  int64
	window time.Duration
}

func New(client redis.UniversalClient, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{redis: client, prefix: prefix, limit: int64(limit), window: window}
}

// Allow records one attempt for key and returns common.ErrorRateLimited once
// the window budget is spent. The window starts at the first attempt.
func (l *Limiter) Allow(ctx context.Context, key string) error {
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)

	// SET NX EX and INCR run in one MULTI, so a counter never exists without a TTL
	var incr *redis.IntCmd
	_, err := l.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, redisKey, 0, l.window)
		incr = pipe.Incr(ctx, redisKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	count := incr.Val()

	if count > l.limit {
		return common.ErrorRateLimited
	}
	return nil
}

// Reset forgets all attempts for key, e.g. after a successful login.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.redis.Del(ctx, fmt.Sprintf("%s:%s", l.prefix, key)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
