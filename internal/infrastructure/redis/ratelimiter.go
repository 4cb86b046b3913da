package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimiter is a fixed-window counter per phone number, used to cap
// how often a single phone can request a new code. Redis being down
// must never block verification traffic, so errors fail open.
type RateLimiter struct {
	Client *redis.Client

	limit  int
	window time.Duration
	log    zerolog.Logger
}

func NewRateLimiter(addr, pass string, db, limit int, window time.Duration, log zerolog.Logger) *RateLimiter {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr, Password: pass, DB: db,
	})
	return &RateLimiter{
		Client: rdb,
		limit:  limit,
		window: window,
		log:    log.With().Str("component", "rate_limiter").Logger(),
	}
}

func (l *RateLimiter) Allow(ctx context.Context, phone string) (bool, error) {
	key := "otp:rl:" + phone
	count, err := l.Client.Incr(ctx, key).Result()
	if err != nil {
		l.log.Warn().Err(err).Msg("rate limit check failed, allowing request")
		return true, nil // fail open
	}
	if count == 1 {
		_ = l.Client.Expire(ctx, key, l.window).Err()
	}
	return count <= int64(l.limit), nil
}
