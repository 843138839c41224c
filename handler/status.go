package handler

import (
	"context"
	"net/http"

	"github.com/txix-open/isp-kit/log"
	"mc-gate-service/domain"
	"mc-gate-service/request"
)

const (
	AddressParam = "address"
	PortParam    = "port"

	ueStatusUnresponsive = "Server status unresponsive"
)

type StatusService interface {
	Mcapi(ctx context.Context, rawAddress string) domain.StatusReply
	McapiDelayed(ctx context.Context, rawAddress string, port string) domain.StatusReply
	Mcsrvstat(ctx context.Context, rawAddress string) domain.StatusReply
	Minecraft(ctx context.Context, rawAddress string) domain.StatusReply
	UeStatus(ctx context.Context) ([]byte, error)
}

type Status struct {
	service StatusService
	logger  log.Logger
}

func NewStatus(service StatusService, logger log.Logger) Status {
	return Status{
		service: service,
		logger:  logger,
	}
}

func (h Status) Mcapi(ctx *request.Context) error {
	reply := h.service.Mcapi(ctx.Context(), ctx.PathParam(AddressParam))
	return writeJson(ctx.ResponseWriter(), reply.StatusCode, reply.Body)
}

func (h Status) McapiDelayed(ctx *request.Context) error {
	reply := h.service.McapiDelayed(ctx.Context(), ctx.PathParam(AddressParam), ctx.PathParam(PortParam))
	return writeJson(ctx.ResponseWriter(), reply.StatusCode, reply.Body)
}

func (h Status) Mcsrvstat(ctx *request.Context) error {
	reply := h.service.Mcsrvstat(ctx.Context(), ctx.PathParam(AddressParam))
	return writeJson(ctx.ResponseWriter(), reply.StatusCode, reply.Body)
}

func (h Status) Minecraft(ctx *request.Context) error {
	reply := h.service.Minecraft(ctx.Context(), ctx.PathParam(AddressParam))
	return writeJson(ctx.ResponseWriter(), reply.StatusCode, reply.Body)
}

func (h Status) UeStatus(ctx *request.Context) error {
	body, err := h.service.UeStatus(ctx.Context())
	if err != nil {
		h.logger.Error(ctx.Context(), err)
		return writeText(ctx.ResponseWriter(), http.StatusInternalServerError, ueStatusUnresponsive)
	}

	w := ctx.ResponseWriter()
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(body)
	return err
}

func Ping(ctx *request.Context) error {
	ip := ctx.ClientIp()
	if ip == "" {
		ip = "Unknown"
	}
	return writeText(ctx.ResponseWriter(), http.StatusOK, "Pong! "+ip)
}
