package httpapi

import (
	"context"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces a per-minute per-IP limit (redis_rate's GCRA
// limiter, which allows a burst of up to the per-minute budget) on /simulate and
// /simulate/daily, protecting the worker pool from being oversubscribed
// by bursty start requests (spec §4.7, §5).
type RateLimiter struct {
	limiter *redis_rate.Limiter
	perMin  int
	log     *charmlog.Logger
}

// NewRateLimiter connects to redisURL and wraps it with redis_rate. If
// redisURL is unreachable, the returned limiter's Allow calls fail open
// (log a warning, never block simulation) rather than erroring startup.
func NewRateLimiter(redisURL string, perMinute int, logger *charmlog.Logger) (*RateLimiter, error) {
	if logger == nil {
		logger = charmlog.Default()
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	return &RateLimiter{
		limiter: redis_rate.NewLimiter(client),
		perMin:  perMinute,
		log:     logger.With("component", "ratelimit"),
	}, nil
}

// Allow reports whether the request from key (typically client IP) is
// within the per-minute budget.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := rl.limiter.Allow(ctx, "simulate:"+key, redis_rate.PerMinute(rl.perMin))
	if err != nil {
		return true, err
	}
	return res.Allowed > 0, nil
}
