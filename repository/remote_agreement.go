package repository

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/http/httpcli"
	"mc-gate-service/domain"
)

const (
	remoteAgreeEndpoint = "/ue/v1/agree/%s"
	remoteCheckEndpoint = "/ue/v1/check/%s"
)

type HostManager interface {
	Next() (string, error)
}

// RemoteAgreement forwards agreement operations to another gateway instance that owns the storage.
type RemoteAgreement struct {
	cli         *httpcli.Client
	hostManager HostManager
}

func NewRemoteAgreement(cli *httpcli.Client, hostManager HostManager) RemoteAgreement {
	return RemoteAgreement{
		cli:         cli,
		hostManager: hostManager,
	}
}

func (r RemoteAgreement) Record(ctx context.Context, userId string) error {
	resp := domain.AgreementRecorded{}
	err := r.invoke(ctx, remoteAgreeEndpoint, userId, &resp)
	if err != nil {
		return err
	}
	if resp.Status != domain.AgreementStatusSuccess {
		return errors.WithMessagef(domain.ErrUpstreamFailure, "unexpected upstream status '%s'", resp.Status)
	}
	return nil
}

func (r RemoteAgreement) Check(ctx context.Context, userId string) (bool, error) {
	resp := domain.AgreementStatus{}
	err := r.invoke(ctx, remoteCheckEndpoint, userId, &resp)
	if err != nil {
		return false, err
	}
	return resp.Agreed, nil
}

func (r RemoteAgreement) invoke(ctx context.Context, endpoint string, userId string, resp any) error {
	host, err := r.hostManager.Next()
	if err != nil {
		return errors.WithMessage(domain.ErrUpstreamFailure, err.Error())
	}

	target := fmt.Sprintf("http://%s%s", host, fmt.Sprintf(endpoint, url.PathEscape(userId)))
	err = r.cli.Get(target).
		JsonResponseBody(resp).
		StatusCodeToError().
		DoWithoutResponse(ctx)
	if err != nil {
		return errors.WithMessagef(domain.ErrUpstreamFailure, "call %s: %v", target, err)
	}
	return nil
}
