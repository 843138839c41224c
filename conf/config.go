package conf

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/log"
)

const (
	LocalAgreementMode  = "local"
	RemoteAgreementMode = "remote"

	remoteModeFlag = "1"
)

type Config struct {
	ListenAddress string    `mapstructure:"listen_address" validate:"required"`
	Http          Http      `mapstructure:",squash"`
	Logging       Logging   `mapstructure:",squash"`
	Agreement     Agreement `mapstructure:",squash"`
	Redis         Redis     `mapstructure:",squash"`
	Status        Status    `mapstructure:",squash"`
}

type Http struct {
	MaxRequestBodySizeInMb int64 `mapstructure:"max_request_body_size_in_mb" validate:"required,min=1"`
}

type Logging struct {
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info error fatal"`
	RequestLogEnable       bool   `mapstructure:"request_log_enable"`
	ForwardClientRequestId bool   `mapstructure:"forward_client_request_id"`
}

func (l Logging) Level() log.Level {
	switch l.LogLevel {
	case "debug":
		return log.DebugLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

type Agreement struct {
	Vercel                 string        `mapstructure:"vercel"`
	File                   string        `mapstructure:"agreement_file"`
	Upstream               string        `mapstructure:"agreement_upstream_hosts"`
	RateWindow             time.Duration `mapstructure:"agreement_rate_window" validate:"required"`
	RateLimitSweepInterval time.Duration `mapstructure:"rate_limit_sweep_interval" validate:"required"`
}

// Mode is remote only when VERCEL is exactly "1".
func (a Agreement) Mode() string {
	if strings.TrimSpace(a.Vercel) == remoteModeFlag {
		return RemoteAgreementMode
	}
	return LocalAgreementMode
}

func (a Agreement) UpstreamHosts() []string {
	hosts := make([]string, 0)
	for _, host := range strings.Split(a.Upstream, ",") {
		host = strings.TrimSpace(host)
		if host != "" {
			hosts = append(hosts, host)
		}
	}
	return hosts
}

type Redis struct {
	Address  string `mapstructure:"redis_address"`
	Username string `mapstructure:"redis_username"`
	Password string `mapstructure:"redis_password"`
}

func (r Redis) Enabled() bool {
	return r.Address != ""
}

type Status struct {
	Timeout      time.Duration `mapstructure:"status_timeout" validate:"required"`
	MaxDelay     time.Duration `mapstructure:"status_max_delay"`
	McapiUrl     string        `mapstructure:"mcapi_url" validate:"required,url"`
	McsrvstatUrl string        `mapstructure:"mcsrvstat_url" validate:"required,url"`
	UeStatusUrl  string        `mapstructure:"ue_status_url" validate:"required,url"`
}

func (c Config) Validate() error {
	switch c.Agreement.Mode() {
	case LocalAgreementMode:
		if c.Agreement.File == "" {
			return errors.New("agreement file is required in local mode")
		}
	case RemoteAgreementMode:
		if len(c.Agreement.UpstreamHosts()) == 0 {
			return errors.New("agreement upstream hosts are required in remote mode")
		}
	}
	if c.Agreement.RateWindow < 0 {
		return errors.New("agreement rate window must be positive")
	}
	if !c.Redis.Enabled() && c.Agreement.RateLimitSweepInterval < 0 {
		return errors.New("rate limit sweep interval must be positive")
	}
	if c.Status.Timeout < 0 || c.Status.MaxDelay < 0 {
		return errors.New("status timeouts must not be negative")
	}
	return nil
}
