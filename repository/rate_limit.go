package repository

import (
	"context"
	"time"

	"mc-gate-service/cache"
)

// RateLimit keeps the end of each user's current window in process memory.
type RateLimit struct {
	cache  *cache.Cache
	window time.Duration
}

func NewRateLimit(window time.Duration, now func() time.Time) RateLimit {
	if now == nil {
		now = time.Now
	}
	return RateLimit{
		cache:  cache.New(cache.WithClock(now)),
		window: window,
	}
}

func (r RateLimit) Allow(_ context.Context, userId string) (bool, error) {
	return r.cache.SetIfAbsent(userId, r.window), nil
}

// Len reports how many users are tracked, expired entries included until the next sweep.
func (r RateLimit) Len() int {
	return r.cache.Len()
}

func (r RateLimit) Sweep() int {
	return r.cache.Sweep()
}
