package conf

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/config"
	"github.com/txix-open/isp-kit/validator"
)

const (
	DotEnvFile = ".env"
)

// Values is a static config source.
type Values map[string]string

func (v Values) Config() (map[string]string, error) {
	return v, nil
}

func DefaultValues() Values {
	return Values{
		"LISTEN_ADDRESS":              ":8080",
		"LOG_LEVEL":                   "info",
		"REQUEST_LOG_ENABLE":          "true",
		"FORWARD_CLIENT_REQUEST_ID":   "false",
		"MAX_REQUEST_BODY_SIZE_IN_MB": "1",
		"AGREEMENT_FILE":              "ue-agree.json",
		"AGREEMENT_UPSTREAM_HOSTS":    "api.xdpxi.net:40176",
		"AGREEMENT_RATE_WINDOW":       "5s",
		"RATE_LIMIT_SWEEP_INTERVAL":   "1m",
		"STATUS_TIMEOUT":              "3s",
		"STATUS_MAX_DELAY":            "10s",
		"MCAPI_URL":                   "https://mcapi.us",
		"MCSRVSTAT_URL":               "https://api.mcsrvstat.us",
		"UE_STATUS_URL":               "https://api.xdpxi.dev/mcstatus/v5/ue.xdpxi.net",
	}
}

// DotEnv reads KEY=VALUE pairs from a file; a missing file yields no values.
type DotEnv struct {
	file string
}

func NewDotEnv(file string) DotEnv {
	return DotEnv{file: file}
}

func (d DotEnv) Config() (map[string]string, error) {
	values, err := godotenv.Read(d.file)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "read %s", d.file)
	}
	return values, nil
}

// Options builds config sources in priority order: defaults, then the given sources, then the environment.
func Options(sources ...config.Source) []config.Option {
	opts := []config.Option{
		config.WithExtraSource(DefaultValues()),
		config.WithValidator(validator.Default),
	}
	for _, source := range sources {
		opts = append(opts, config.WithExtraSource(source))
	}
	return opts
}

func Read(cfg *config.Config) (*Config, error) {
	result := Config{}
	err := cfg.Read(&result)
	if err != nil {
		return nil, errors.WithMessage(err, "read config")
	}

	result.Status.McapiUrl = strings.TrimSuffix(result.Status.McapiUrl, "/")
	result.Status.McsrvstatUrl = strings.TrimSuffix(result.Status.McsrvstatUrl, "/")

	err = result.Validate()
	if err != nil {
		return nil, errors.WithMessage(err, "validate config")
	}
	return &result, nil
}

// Load reads configuration from defaults, the given sources and the environment.
func Load(sources ...config.Source) (*Config, error) {
	cfg, err := config.New(Options(sources...)...)
	if err != nil {
		return nil, errors.WithMessage(err, "new config")
	}
	return Read(cfg)
}
