package service

import (
	"context"

	"github.com/pkg/errors"
	"mc-gate-service/domain"
)

type RateLimiter interface {
	Allow(ctx context.Context, userId string) (bool, error)
}

type AgreementRepo interface {
	Record(ctx context.Context, userId string) error
	Check(ctx context.Context, userId string) (bool, error)
}

type Agreement struct {
	rateLimiter RateLimiter
	repo        AgreementRepo
}

func NewAgreement(rateLimiter RateLimiter, repo AgreementRepo) Agreement {
	return Agreement{
		rateLimiter: rateLimiter,
		repo:        repo,
	}
}

func (s Agreement) Record(ctx context.Context, userId string) (*domain.AgreementRecorded, error) {
	err := s.admit(ctx, userId)
	if err != nil {
		return nil, err
	}

	err = s.repo.Record(ctx, userId)
	if err != nil {
		return nil, errors.WithMessage(err, "record agreement")
	}

	return &domain.AgreementRecorded{
		Status:  domain.AgreementStatusSuccess,
		UserId:  userId,
		Message: domain.AgreementRecordedMessage,
	}, nil
}

func (s Agreement) Check(ctx context.Context, userId string) (*domain.AgreementStatus, error) {
	err := s.admit(ctx, userId)
	if err != nil {
		return nil, err
	}

	agreed, err := s.repo.Check(ctx, userId)
	if err != nil {
		return nil, errors.WithMessage(err, "check agreement")
	}

	return &domain.AgreementStatus{
		UserId: userId,
		Agreed: agreed,
	}, nil
}

func (s Agreement) admit(ctx context.Context, userId string) error {
	if !domain.IsValidUserId(userId) {
		return domain.ErrInvalidUserId
	}

	allowed, err := s.rateLimiter.Allow(ctx, userId)
	if err != nil {
		return errors.WithMessage(err, "rate limiter allow")
	}
	if !allowed {
		return domain.ErrTooManyRequests
	}

	return nil
}
