package service

import (
	"context"
	"time"

	"github.com/txix-open/isp-kit/log"
)

type Sweepable interface {
	Sweep() int
	Len() int
}

// Sweeper periodically evicts rate limit entries whose window has passed.
type Sweeper struct {
	state    Sweepable
	interval time.Duration
	logger   log.Logger
}

func NewSweeper(state Sweepable, interval time.Duration, logger log.Logger) Sweeper {
	return Sweeper{
		state:    state,
		interval: interval,
		logger:   logger,
	}
}

func (s Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed := s.state.Sweep()
			s.logger.Debug(ctx, "rate limit sweep",
				log.Int("removed", removed),
				log.Int("tracked", s.state.Len()),
			)
		}
	}
}
