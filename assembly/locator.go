package assembly

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/txix-open/isp-kit/http/httpcli"
	"github.com/txix-open/isp-kit/lb"
	"github.com/txix-open/isp-kit/log"
	"mc-gate-service/conf"
	"mc-gate-service/handler"
	"mc-gate-service/middleware"
	"mc-gate-service/repository"
	"mc-gate-service/service"
)

type Locator struct {
	logger   log.Logger
	httpCli  *httpcli.Client
	redisCli redis.UniversalClient
}

func NewLocator(logger log.Logger, httpCli *httpcli.Client, redisCli redis.UniversalClient) Locator {
	return Locator{
		logger:   logger,
		httpCli:  httpCli,
		redisCli: redisCli,
	}
}

type Config struct {
	Handler http.Handler
	// Sweeper is nil when rate limit state lives in redis.
	Sweeper *service.Sweeper
}

func (l Locator) Config(config conf.Config) (*Config, error) {
	var (
		rateLimiter service.RateLimiter
		sweeper     *service.Sweeper
	)
	if l.redisCli != nil {
		rateLimiter = repository.NewThrottling(l.redisCli, config.Agreement.RateWindow)
	} else {
		memory := repository.NewRateLimit(config.Agreement.RateWindow, nil)
		s := service.NewSweeper(memory, config.Agreement.RateLimitSweepInterval, l.logger)
		rateLimiter = memory
		sweeper = &s
	}

	var agreementRepo service.AgreementRepo
	switch config.Agreement.Mode() {
	case conf.LocalAgreementMode:
		agreementRepo = repository.NewAgreement(config.Agreement.File)
	case conf.RemoteAgreementMode:
		hostManager := lb.NewRoundRobin(config.Agreement.UpstreamHosts())
		agreementRepo = repository.NewRemoteAgreement(l.httpCli, hostManager)
	default:
		return nil, errors.Errorf("not supported agreement mode %s", config.Agreement.Mode())
	}
	agreementService := service.NewAgreement(rateLimiter, agreementRepo)
	agreementHandler := handler.NewAgreement(agreementService)

	statusRepo := repository.NewStatus(
		l.httpCli,
		config.Status.Timeout,
		config.Status.McapiUrl,
		config.Status.McsrvstatUrl,
		config.Status.UeStatusUrl,
	)
	minecraftRepo := repository.NewMinecraft(config.Status.Timeout)
	statusService := service.NewStatus(statusRepo, minecraftRepo, config.Status.MaxDelay)
	statusHandler := handler.NewStatus(statusService, l.logger)

	routes := []route{
		{path: "/ue/v1/agree/{userId}", handler: middleware.HandlerFunc(agreementHandler.Agree)},
		{path: "/ue/v1/check/{userId}", handler: middleware.HandlerFunc(agreementHandler.Check)},
		{path: "/ue/v1/status", handler: middleware.HandlerFunc(statusHandler.UeStatus)},
		{path: "/mcstatus/v1/{address:.+}", handler: middleware.HandlerFunc(statusHandler.Mcapi)},
		{path: "/mcstatus/v2/{address:.+}/{port}", handler: middleware.HandlerFunc(statusHandler.McapiDelayed)},
		{path: "/mcstatus/v2/{address:.+}", handler: middleware.HandlerFunc(statusHandler.McapiDelayed)},
		{path: "/mcstatus/v3/{address:.+}", handler: middleware.HandlerFunc(statusHandler.Mcsrvstat)},
		{path: "/mcstatus/v4/{address:.+}", handler: middleware.HandlerFunc(statusHandler.Mcapi)},
		{path: "/mcstatus/v5/{address:.+}", handler: middleware.HandlerFunc(statusHandler.Minecraft)},
		{path: "/xdpxi/v1/ping", handler: middleware.HandlerFunc(handler.Ping)},
	}

	router := mux.NewRouter()
	router.SkipClean(true)
	for _, route := range routes {
		h := middleware.Chain(
			route.handler,
			middleware.RequestId(config.Logging.ForwardClientRequestId),
			middleware.Logger(l.logger, config.Logging.RequestLogEnable),
			middleware.ErrorHandler(l.logger),
		)
		entrypoint := middleware.Entrypoint(
			config.Http.MaxRequestBodySizeInMb*1024*1024, //nolint:mnd
			h,
			l.logger,
			route.path,
		)
		router.Handle(route.path, entrypoint).Methods(http.MethodGet)
	}

	return &Config{
		Handler: router,
		Sweeper: sweeper,
	}, nil
}

type route struct {
	path    string
	handler middleware.Handler
}
