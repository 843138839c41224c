package repository

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/http/httpcli"
	"github.com/txix-open/isp-kit/json"
)

type Status struct {
	cli          *httpcli.Client
	timeout      time.Duration
	mcapiUrl     string
	mcsrvstatUrl string
	ueStatusUrl  string
}

func NewStatus(cli *httpcli.Client, timeout time.Duration, mcapiUrl string, mcsrvstatUrl string, ueStatusUrl string) Status {
	return Status{
		cli:          cli,
		timeout:      timeout,
		mcapiUrl:     mcapiUrl,
		mcsrvstatUrl: mcsrvstatUrl,
		ueStatusUrl:  ueStatusUrl,
	}
}

// Mcapi queries mcapi.us; port is omitted from the query when empty.
func (r Status) Mcapi(ctx context.Context, address string, port string) (map[string]any, error) {
	query := url.Values{"ip": []string{address}}
	if port != "" {
		query.Set("port", port)
	}
	return r.fetchJson(ctx, r.mcapiUrl+"/server/status?"+query.Encode())
}

func (r Status) Mcsrvstat(ctx context.Context, address string) (map[string]any, error) {
	return r.fetchJson(ctx, r.mcsrvstatUrl+"/3/"+url.PathEscape(address))
}

// UeStatus returns the raw body and status code of the game server status endpoint.
func (r Status) UeStatus(ctx context.Context) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, statusCode, err := r.cli.Get(r.ueStatusUrl).DoAndReadBody(ctx)
	if err != nil {
		return nil, 0, errors.WithMessagef(err, "call %s", r.ueStatusUrl)
	}
	return body, statusCode, nil
}

func (r Status) fetchJson(ctx context.Context, target string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, _, err := r.cli.Get(target).DoAndReadBody(ctx)
	if err != nil {
		return nil, errors.WithMessagef(err, "call %s", target)
	}

	result := make(map[string]any)
	err = json.Unmarshal(body, &result)
	if err != nil {
		return nil, errors.WithMessage(err, "decode status response")
	}
	return result, nil
}
