package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/json"
	"github.com/txix-open/isp-kit/test"
	"mc-gate-service/httperrors"
	"mc-gate-service/middleware"
	"mc-gate-service/request"
)

func serve(handler middleware.Handler) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
	err := handler.Handle(request.NewContext(req, recorder, "/endpoint"))
	if err != nil {
		panic(err)
	}
	return recorder
}

func TestErrorHandlerWritesHttpError(t *testing.T) {
	t.Parallel()
	test, require := test.New(t)

	handler := middleware.Chain(
		middleware.HandlerFunc(func(ctx *request.Context) error {
			return httperrors.New(http.StatusTooManyRequests, "Too many requests", errors.New("limited"))
		}),
		middleware.RequestId(false),
		middleware.Logger(test.Logger(), true),
		middleware.ErrorHandler(test.Logger()),
	)

	recorder := serve(handler)
	require.EqualValues(http.StatusTooManyRequests, recorder.Code)
	require.EqualValues("application/json", recorder.Header().Get("Content-Type"))
	require.NotEmpty(recorder.Header().Get("x-request-id"))

	body := map[string]any{}
	require.NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	require.EqualValues(map[string]any{"status": "error", "message": "Too many requests"}, body)
}

func TestErrorHandlerHidesInternalError(t *testing.T) {
	t.Parallel()
	test, require := test.New(t)

	handler := middleware.Chain(
		middleware.HandlerFunc(func(ctx *request.Context) error {
			return errors.New("disk is on fire")
		}),
		middleware.ErrorHandler(test.Logger()),
	)

	recorder := serve(handler)
	require.EqualValues(http.StatusInternalServerError, recorder.Code)
	require.NotContains(recorder.Body.String(), "disk is on fire")
	require.Contains(recorder.Body.String(), "internal service error")
}

func TestRequestIdForwarding(t *testing.T) {
	t.Parallel()
	_, require := test.New(t)

	handler := middleware.Chain(
		middleware.HandlerFunc(func(ctx *request.Context) error {
			ctx.ResponseWriter().WriteHeader(http.StatusNoContent)
			return nil
		}),
		middleware.RequestId(true),
	)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
	req.Header.Set("x-request-id", "client-id")
	require.NoError(handler.Handle(request.NewContext(req, recorder, "/endpoint")))
	require.EqualValues("client-id", recorder.Header().Get("x-request-id"))
}
