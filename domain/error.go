package domain

import (
	"github.com/pkg/errors"
)

const (
	InvalidUserIdMessage   = "Invalid Clerk user ID"
	TooManyRequestsMessage = "Too many requests"
	StorageFailureMessage  = "agreement storage failure"
	UpstreamFailureMessage = "upstream is not available"
	InternalErrorMessage   = "internal service error"
)

var (
	ErrInvalidUserId   = errors.New("invalid user id")
	ErrTooManyRequests = errors.New("too many requests")
	ErrStorageFailure  = errors.New("agreement storage failure")
	ErrUpstreamFailure = errors.New("upstream failure")
)

// StorageError marks an I/O failure on the persisted agreement record.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) StorageError {
	return StorageError{Op: op, Err: err}
}

func (e StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e StorageError) Unwrap() error {
	return e.Err
}

func (e StorageError) Is(target error) bool {
	return target == ErrStorageFailure //nolint:errorlint
}
