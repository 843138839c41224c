package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"mc-gate-service/repository"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestRateLimitWindow(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	clock := &clock{now: time.Unix(1700000000, 0)}
	limiter := repository.NewRateLimit(5*time.Second, clock.Now)
	userId := newUserId()
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, userId)
	require.NoError(err)
	require.True(allowed)

	clock.Advance(4*time.Second + 999*time.Millisecond)
	allowed, err = limiter.Allow(ctx, userId)
	require.NoError(err)
	require.False(allowed)

	// the rejection above must not have moved the window
	clock.Advance(time.Millisecond)
	allowed, err = limiter.Allow(ctx, userId)
	require.NoError(err)
	require.True(allowed)

	clock.Advance(4*time.Second + 999*time.Millisecond)
	allowed, err = limiter.Allow(ctx, userId)
	require.NoError(err)
	require.False(allowed)
}

func TestRateLimitIsPerUser(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	clock := &clock{now: time.Unix(1700000000, 0)}
	limiter := repository.NewRateLimit(5*time.Second, clock.Now)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, newUserId())
	require.NoError(err)
	require.True(allowed)

	allowed, err = limiter.Allow(ctx, newUserId())
	require.NoError(err)
	require.True(allowed)
}

func TestRateLimitSweep(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	clock := &clock{now: time.Unix(1700000000, 0)}
	limiter := repository.NewRateLimit(5*time.Second, clock.Now)
	ctx := context.Background()
	stale := newUserId()

	_, err := limiter.Allow(ctx, stale)
	require.NoError(err)
	clock.Advance(3 * time.Second)
	fresh := newUserId()
	_, err = limiter.Allow(ctx, fresh)
	require.NoError(err)

	require.EqualValues(2, limiter.Len())

	clock.Advance(2 * time.Second)
	require.EqualValues(1, limiter.Sweep())
	require.EqualValues(1, limiter.Len())

	allowed, err := limiter.Allow(ctx, fresh)
	require.NoError(err)
	require.False(allowed)
}
