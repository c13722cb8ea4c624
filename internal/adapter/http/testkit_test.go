package httpadapter

import (
	"context"
	"encoding/json"
	"testing"

	"creepwork/internal/adapter/repo/memory"
	"creepwork/internal/app/memstate"
	"creepwork/internal/app/ports"

	"github.com/cloudwego/hertz/pkg/app"
)

type stubStepper struct {
	summary ports.TickSummary
	err     error
	calls   int
}

func (s *stubStepper) Step(context.Context) (ports.TickSummary, error) {
	s.calls++
	return s.summary, s.err
}

type stubKPI struct{ snapshot map[string]int }

func (k stubKPI) SnapshotAny() any { return k.snapshot }

type handlerFixture struct {
	store *memory.Store
	codec *memstate.Codec
	ticks memory.TickRepo
	h     Handler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	codec, err := memstate.NewCodec()
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	store := memory.NewStore()
	ticks := memory.NewTickRepo(store, 0)
	return &handlerFixture{
		store: store,
		codec: codec,
		ticks: ticks,
		h: Handler{
			TxManager: memory.NewTxManager(store),
			Memory:    memory.NewMemoryRepo(store),
			Codec:     codec,
			History:   ticks,
		},
	}
}

func decodeBody(t *testing.T, ctx *app.RequestContext) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decode response: %v (%s)", err, ctx.Response.Body())
	}
	return body
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}
