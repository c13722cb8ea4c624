package httpadapter

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"creepwork/internal/app/memstate"
	"creepwork/internal/app/ports"
	"creepwork/internal/domain/colony"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const (
	defaultTickLimit = 20
	maxTickLimit     = 500
)

// Stepper runs one engine tick and advances the host.
type Stepper interface {
	Step(ctx context.Context) (ports.TickSummary, error)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type Handler struct {
	TxManager ports.TxManager
	Memory    ports.MemoryStore
	Codec     *memstate.Codec
	History   ports.TickHistory
	Stepper   Stepper
	KPI       kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	api := s.Group("/api")
	api.GET("/rooms/:room_id/memory", h.roomMemory)
	api.GET("/creeps/:name/memory", h.creepMemory)
	api.GET("/ticks", h.ticks)
	api.POST("/tick", h.tick)

	s.GET("/ops/kpi", h.kpi)
}

var ErrMissingParam = errors.New("missing path parameter")
var ErrInvalidLimit = errors.New("invalid limit")
var ErrNotConfigured = errors.New("not configured")

func (h Handler) roomMemory(c context.Context, ctx *app.RequestContext) {
	roomID := strings.TrimSpace(ctx.Param("room_id"))
	if roomID == "" {
		writeError(ctx, ErrMissingParam)
		return
	}
	var mem colony.RoomMemory
	err := h.TxManager.RunInTx(c, func(txCtx context.Context) error {
		raw, err := h.Memory.LoadRoomMemory(txCtx, roomID)
		if err != nil {
			return err
		}
		mem, err = h.Codec.DecodeRoom(raw)
		return err
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, toRoomResponse(mem))
}

func (h Handler) creepMemory(c context.Context, ctx *app.RequestContext) {
	name := strings.TrimSpace(ctx.Param("name"))
	if name == "" {
		writeError(ctx, ErrMissingParam)
		return
	}
	var ac colony.AgentContext
	err := h.TxManager.RunInTx(c, func(txCtx context.Context) error {
		raw, err := h.Memory.LoadCreepMemory(txCtx, name)
		if err != nil {
			return err
		}
		ac, err = h.Codec.DecodeCreep(raw)
		return err
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, toCreepResponse(ac))
}

func (h Handler) ticks(c context.Context, ctx *app.RequestContext) {
	if h.History == nil {
		writeError(ctx, ErrNotConfigured)
		return
	}
	limit := defaultTickLimit
	if q := string(ctx.Query("limit")); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 || n > maxTickLimit {
			writeError(ctx, ErrInvalidLimit)
			return
		}
		limit = n
	}
	var out []ports.TickSummary
	err := h.TxManager.RunInTx(c, func(txCtx context.Context) error {
		var err error
		out, err = h.History.ListRecent(txCtx, limit)
		return err
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"ticks": out})
}

func (h Handler) tick(c context.Context, ctx *app.RequestContext) {
	if h.Stepper == nil {
		writeError(ctx, ErrNotConfigured)
		return
	}
	summary, err := h.Stepper.Step(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, summary)
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingParam),
		errors.Is(err, ErrInvalidLimit):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ErrNotConfigured):
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, memstate.ErrMalformed):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "memory_malformed", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "cancelled", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
