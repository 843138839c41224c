package handler

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"mc-gate-service/domain"
	"mc-gate-service/httperrors"
	"mc-gate-service/request"
)

const (
	UserIdParam = "userId"
)

type AgreementService interface {
	Record(ctx context.Context, userId string) (*domain.AgreementRecorded, error)
	Check(ctx context.Context, userId string) (*domain.AgreementStatus, error)
}

type Agreement struct {
	service AgreementService
}

func NewAgreement(service AgreementService) Agreement {
	return Agreement{
		service: service,
	}
}

func (h Agreement) Agree(ctx *request.Context) error {
	userId := ctx.PathParam(UserIdParam)
	result, err := h.service.Record(ctx.Context(), userId)
	if err != nil {
		return agreementError(err, userId)
	}
	return writeJson(ctx.ResponseWriter(), http.StatusOK, result)
}

func (h Agreement) Check(ctx *request.Context) error {
	userId := ctx.PathParam(UserIdParam)
	result, err := h.service.Check(ctx.Context(), userId)
	if err != nil {
		return agreementError(err, userId)
	}
	return writeJson(ctx.ResponseWriter(), http.StatusOK, result)
}

func agreementError(err error, userId string) error {
	err = errors.WithMessagef(err, "agreement for '%s'", userId)
	switch {
	case errors.Is(err, domain.ErrInvalidUserId):
		return httperrors.New(http.StatusBadRequest, domain.InvalidUserIdMessage, err)
	case errors.Is(err, domain.ErrTooManyRequests):
		return httperrors.New(http.StatusTooManyRequests, domain.TooManyRequestsMessage, err)
	case errors.Is(err, domain.ErrStorageFailure):
		return httperrors.New(http.StatusInternalServerError, domain.StorageFailureMessage, err)
	case errors.Is(err, domain.ErrUpstreamFailure):
		return httperrors.New(http.StatusInternalServerError, domain.UpstreamFailureMessage, err)
	default:
		return err
	}
}
