package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type Throttling struct {
	cli    redis.UniversalClient
	window time.Duration
}

func NewThrottling(cli redis.UniversalClient, window time.Duration) Throttling {
	return Throttling{
		cli:    cli,
		window: window,
	}
}

// Allow claims the window for userId. The key expires together with the window,
// so a rejected call never extends it.
func (r Throttling) Allow(ctx context.Context, userId string) (bool, error) {
	ok, err := r.cli.SetNX(ctx, r.key(userId), time.Now().UnixMilli(), r.window).Result()
	if err != nil {
		return false, errors.WithMessage(err, "set nx")
	}
	return ok, nil
}

func (r Throttling) key(userId string) string {
	return fmt.Sprintf("agreement_throttling:%s", userId)
}
