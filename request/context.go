package request

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

const (
	forwardedForHeader = "X-Forwarded-For"
)

type Context struct {
	request        *http.Request
	responseWriter http.ResponseWriter

	endpoint string
}

func NewContext(request *http.Request, response http.ResponseWriter, endpoint string) *Context {
	return &Context{
		request:        request,
		responseWriter: response,
		endpoint:       endpoint,
	}
}

func (c *Context) Request() *http.Request {
	return c.request
}

func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.responseWriter
}

func (c *Context) SetResponseWriter(writer http.ResponseWriter) {
	c.responseWriter = writer
}

// Endpoint is the route template the request matched.
func (c *Context) Endpoint() string {
	return c.endpoint
}

func (c *Context) Context() context.Context {
	return c.request.Context()
}

func (c *Context) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}

func (c *Context) PathParam(name string) string {
	return mux.Vars(c.request)[name]
}

// ClientIp prefers X-Forwarded-For and falls back to the peer address without port.
func (c *Context) ClientIp() string {
	forwarded := strings.TrimSpace(c.request.Header.Get(forwardedForHeader))
	if forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(c.request.RemoteAddr)
	if err != nil {
		return c.request.RemoteAddr
	}
	return host
}
