package service

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/txix-open/isp-kit/json"
	"mc-gate-service/domain"
)

const (
	mcapiStatusSuccess = "success"
	mcapiStatusError   = "error"

	noStatusFieldMessage     = "No status field in response"
	unknownStatusCodeMessage = "Unknown status code"
)

var schemeRegexp = regexp.MustCompile(`^https?://`)

type StatusRepo interface {
	Mcapi(ctx context.Context, address string, port string) (map[string]any, error)
	Mcsrvstat(ctx context.Context, address string) (map[string]any, error)
	UeStatus(ctx context.Context) ([]byte, int, error)
}

type MinecraftRepo interface {
	Status(ctx context.Context, address string) (*domain.MinecraftStatus, error)
}

type Status struct {
	repo      StatusRepo
	minecraft MinecraftRepo
	maxDelay  time.Duration
}

func NewStatus(repo StatusRepo, minecraft MinecraftRepo, maxDelay time.Duration) Status {
	return Status{
		repo:      repo,
		minecraft: minecraft,
		maxDelay:  maxDelay,
	}
}

// SanitizeAddress drops the scheme and everything after the host part.
func SanitizeAddress(raw string) string {
	host := schemeRegexp.ReplaceAllString(raw, "")
	host, _, _ = strings.Cut(host, "/")
	return host
}

func (s Status) Mcapi(ctx context.Context, rawAddress string) domain.StatusReply {
	data, err := s.repo.Mcapi(ctx, SanitizeAddress(rawAddress), "")
	if err != nil {
		return errorReply(http.StatusInternalServerError, err.Error())
	}
	return mcapiReply(data)
}

// McapiDelayed answers like Mcapi after waiting the query duration reported by mcapi.us.
func (s Status) McapiDelayed(ctx context.Context, rawAddress string, port string) domain.StatusReply {
	data, err := s.repo.Mcapi(ctx, SanitizeAddress(rawAddress), port)
	if err != nil {
		return errorReply(http.StatusInternalServerError, err.Error())
	}

	s.wait(ctx, s.reportedDuration(data))

	return mcapiReply(data)
}

func (s Status) Mcsrvstat(ctx context.Context, rawAddress string) domain.StatusReply {
	data, err := s.repo.Mcsrvstat(ctx, SanitizeAddress(rawAddress))
	if err != nil {
		return errorReply(http.StatusInternalServerError, err.Error())
	}

	online, ok := data["online"]
	if !ok {
		return errorReply(http.StatusBadRequest, noStatusFieldMessage)
	}
	if !truthy(online) {
		return domain.StatusReply{StatusCode: http.StatusServiceUnavailable, Body: domain.OfflineStatus{Online: false}}
	}
	return domain.StatusReply{StatusCode: http.StatusOK, Body: data}
}

// Minecraft pings the server directly instead of going through a status API.
func (s Status) Minecraft(ctx context.Context, rawAddress string) domain.StatusReply {
	status, err := s.minecraft.Status(ctx, SanitizeAddress(rawAddress))
	if err != nil {
		return errorReply(http.StatusInternalServerError, err.Error())
	}
	return domain.StatusReply{StatusCode: http.StatusOK, Body: status}
}

// UeStatus returns the upstream JSON body when the game server status endpoint answers 200.
func (s Status) UeStatus(ctx context.Context) ([]byte, error) {
	body, statusCode, err := s.repo.UeStatus(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "ue status")
	}
	if statusCode != http.StatusOK {
		return nil, errors.Errorf("ue status: unexpected status code %d", statusCode)
	}

	var probe any
	err = json.Unmarshal(body, &probe)
	if err != nil {
		return nil, errors.WithMessage(err, "ue status: decode body")
	}
	return body, nil
}

func (s Status) reportedDuration(data map[string]any) time.Duration {
	nanos, err := cast.ToInt64E(data["duration"])
	if err != nil || nanos <= 0 {
		return 0
	}
	delay := time.Duration(nanos)
	if s.maxDelay > 0 && delay > s.maxDelay {
		return s.maxDelay
	}
	return delay
}

func (s Status) wait(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// truthy treats null, false, zero, and empty strings or collections as false.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func mcapiReply(data map[string]any) domain.StatusReply {
	status, ok := data["status"]
	if !ok {
		return errorReply(http.StatusInternalServerError, noStatusFieldMessage)
	}
	switch status {
	case mcapiStatusSuccess:
		return domain.StatusReply{StatusCode: http.StatusOK, Body: data}
	case mcapiStatusError:
		return errorReply(http.StatusInternalServerError, mcapiStatusError)
	default:
		return errorReply(http.StatusNotFound, unknownStatusCodeMessage)
	}
}

func errorReply(statusCode int, message string) domain.StatusReply {
	return domain.StatusReply{
		StatusCode: statusCode,
		Body:       domain.StatusError{Error: message},
	}
}
