package middleware

import (
	"net/http"

	"github.com/txix-open/isp-kit/log"
	"mc-gate-service/domain"
	"mc-gate-service/httperrors"
	"mc-gate-service/request"
)

type HttpError interface {
	WriteError(w http.ResponseWriter) error
	StatusCode() int
}

func ErrorHandler(logger log.Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx *request.Context) error {
			err := next.Handle(ctx)
			if err == nil {
				return nil
			}

			httpErr, ok := err.(HttpError)
			if !ok {
				logger.Error(ctx.Context(), err)
				return httperrors.
					New(http.StatusInternalServerError, domain.InternalErrorMessage, err).
					WriteError(ctx.ResponseWriter())
			}

			if httpErr.StatusCode() >= http.StatusInternalServerError {
				logger.Error(ctx.Context(), err)
			} else {
				logger.Debug(ctx.Context(), err)
			}
			return httpErr.WriteError(ctx.ResponseWriter())
		})
	}
}
