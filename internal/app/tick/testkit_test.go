package tick

import (
	"context"
	"errors"
	"testing"

	"creepwork/internal/adapter/repo/memory"
	"creepwork/internal/adapter/world/sim"
	"creepwork/internal/app/memstate"
	"creepwork/internal/app/ports"
	"creepwork/internal/domain/colony"
)

type stubMetrics struct {
	ticks, runs, idle, errors, spawns, persistFailures int
	actions                                            map[colony.ActionStatus]int
}

func (m *stubMetrics) RecordTick() { m.ticks++ }
func (m *stubMetrics) RecordAgentRun(colony.Role) { m.runs++ }
func (m *stubMetrics) RecordIdle(colony.Role) { m.idle++ }
func (m *stubMetrics) RecordAgentError() { m.errors++ }
func (m *stubMetrics) RecordSpawn(colony.Role) { m.spawns++ }
func (m *stubMetrics) RecordPersistFailure() { m.persistFailures++ }
func (m *stubMetrics) RecordAction(a colony.ActionStatus) {
	if m.actions == nil {
		m.actions = map[colony.ActionStatus]int{}
	}
	m.actions[a]++
}

type stubRecorder struct {
	summaries []ports.TickSummary
}

func (r *stubRecorder) RecordTick(_ context.Context, s ports.TickSummary) error {
	r.summaries = append(r.summaries, s)
	return nil
}

// failingRoomStore fails room saves for one room.
type failingRoomStore struct {
	ports.MemoryStore
	room string
}

func (s failingRoomStore) SaveRoomMemory(ctx context.Context, roomID, raw string) error {
	if roomID == s.room {
		return errors.New("disk full")
	}
	return s.MemoryStore.SaveRoomMemory(ctx, roomID, raw)
}

type fixture struct {
	world    *sim.World
	store    *memory.Store
	tx       memory.TxManager
	repo     memory.MemoryRepo
	codec    *memstate.Codec
	metrics  *stubMetrics
	recorder *stubRecorder
	engine   UseCase
}

func newFixture(t *testing.T, rooms ...string) *fixture {
	t.Helper()
	gen := sim.DefaultGenerateConfig()
	if len(rooms) > 0 {
		gen.Rooms = rooms
	}
	w, err := sim.Generate(sim.DefaultConfig(), gen)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	codec, err := memstate.NewCodec()
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	store := memory.NewStore()
	f := &fixture{
		world:    w,
		store:    store,
		tx:       memory.NewTxManager(store),
		repo:     memory.NewMemoryRepo(store),
		codec:    codec,
		metrics:  &stubMetrics{},
		recorder: &stubRecorder{},
	}
	f.engine = UseCase{
		TxManager: f.tx,
		Memory:    f.repo,
		World:     w,
		Codec:     codec,
		Metrics:   f.metrics,
		Recorder:  f.recorder,
	}
	return f
}

func (f *fixture) loadCreep(t *testing.T, name string) (colony.AgentContext, error) {
	t.Helper()
	var (
		ac  colony.AgentContext
		err error
	)
	_ = f.tx.RunInTx(context.Background(), func(ctx context.Context) error {
		var raw string
		raw, err = f.repo.LoadCreepMemory(ctx, name)
		if err != nil {
			return nil
		}
		ac, err = f.codec.DecodeCreep(raw)
		return nil
	})
	return ac, err
}

func (f *fixture) loadRoom(t *testing.T, roomID string) (colony.RoomMemory, error) {
	t.Helper()
	var (
		mem colony.RoomMemory
		err error
	)
	_ = f.tx.RunInTx(context.Background(), func(ctx context.Context) error {
		var raw string
		raw, err = f.repo.LoadRoomMemory(ctx, roomID)
		if err != nil {
			return nil
		}
		mem, err = f.codec.DecodeRoom(raw)
		return nil
	})
	return mem, err
}
