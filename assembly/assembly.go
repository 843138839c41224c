package assembly

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/txix-open/isp-kit/app"
	"github.com/txix-open/isp-kit/http"
	"github.com/txix-open/isp-kit/http/httpcli"
	"github.com/txix-open/isp-kit/log"
	"mc-gate-service/conf"
	"mc-gate-service/service"
)

const (
	shutdownTimeout = 10 * time.Second
)

type Assembly struct {
	config   conf.Config
	server   *http.Server
	logger   log.Logger
	redisCli redis.UniversalClient
	sweeper  *service.Sweeper
}

func New(config conf.Config, logger log.Logger) (*Assembly, error) {
	var redisCli redis.UniversalClient
	if config.Redis.Enabled() {
		redisCli = redisClient(config.Redis)
	}

	locator := NewLocator(logger, httpcli.New(), redisCli)
	locatorConfig, err := locator.Config(config)
	if err != nil {
		if redisCli != nil {
			_ = redisCli.Close()
		}
		return nil, errors.WithMessage(err, "locator config")
	}

	server := http.NewServer(logger)
	server.Upgrade(locatorConfig.Handler)

	return &Assembly{
		config:   config,
		server:   server,
		logger:   logger,
		redisCli: redisCli,
		sweeper:  locatorConfig.Sweeper,
	}, nil
}

func (a *Assembly) Runners() []app.Runner {
	runners := []app.Runner{
		app.RunnerFunc(func(ctx context.Context) error {
			a.logger.Info(ctx, "http server started",
				log.String("address", a.config.ListenAddress),
				log.String("agreementMode", a.config.Agreement.Mode()),
			)
			err := a.server.ListenAndServe(a.config.ListenAddress)
			if err != nil {
				return errors.WithMessage(err, "start http server")
			}
			return nil
		}),
	}
	if a.sweeper != nil {
		runners = append(runners, a.sweeper)
	}
	return runners
}

// Closers stop the server first so in-flight requests finish before redis goes away.
func (a *Assembly) Closers() []app.Closer {
	return []app.Closer{
		app.CloserFunc(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return a.server.Shutdown(ctx)
		}),
		app.CloserFunc(func() error {
			if a.redisCli != nil {
				return a.redisCli.Close()
			}
			return nil
		}),
	}
}

func redisClient(config conf.Redis) redis.UniversalClient {
	return redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Username: config.Username,
		Password: config.Password,
	})
}
