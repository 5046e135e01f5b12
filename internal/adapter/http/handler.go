// Package httpadapter exposes the RP engine to the surrounding chat-bot
// layer. Business rejections travel inside 200 responses; only input and
// infrastructure errors map to error statuses.
package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"rpverse/internal/app/history"
	"rpverse/internal/app/ports"
	"rpverse/internal/app/resolve"
	"rpverse/internal/app/status"
	"rpverse/internal/domain/rp"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type kpiSnapshotProvider interface {
	Snapshot() any
}

type Handler struct {
	ResolveUC resolve.UseCase
	StatusUC  status.UseCase
	HistoryUC history.UseCase
	Registry  *rp.Registry
	KPI       kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	api := s.Group("/api/rp")
	api.POST("/action", h.action)
	api.POST("/status", h.status)
	api.GET("/actions", h.actions)
	api.GET("/history", h.history)

	s.GET("/ops/kpi", h.kpi)
}

func (h Handler) action(c context.Context, ctx *app.RequestContext) {
	var body resolve.Request
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.ResolveUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	var body status.Request
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.StatusUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) actions(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{"actions": h.Registry.ByCategory()})
}

func (h Handler) history(c context.Context, ctx *app.RequestContext) {
	userID, err := strconv.ParseInt(strings.TrimSpace(ctx.Query("user_id")), 10, 64)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "user_id must be an integer")
		return
	}
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	resp, err := h.HistoryUC.Execute(c, history.Request{UserID: userID, Limit: limit})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", "kpi recorder not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.Snapshot())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, resolve.ErrNoActionCommand):
		writeErrorBody(ctx, consts.StatusBadRequest, "not_an_action", err.Error())
	case errors.Is(err, resolve.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest),
		errors.Is(err, history.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		// Bounded CAS retries exhausted; the command is safe to retry.
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "store_contention", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "store_unavailable", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, statusCode int, code, message string) {
	ctx.JSON(statusCode, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
