package memory

import (
	"context"

	"creepwork/internal/app/ports"
)

// MemoryRepo expects to run inside TxManager.RunInTx.
type MemoryRepo struct {
	store *Store
}

func NewMemoryRepo(store *Store) MemoryRepo {
	return MemoryRepo{store: store}
}

func (r MemoryRepo) LoadCreepMemory(_ context.Context, name string) (string, error) {
	raw, ok := r.store.creep[name]
	if !ok {
		return "", ports.ErrNotFound
	}
	return raw, nil
}

func (r MemoryRepo) SaveCreepMemory(_ context.Context, name, raw string) error {
	r.store.creep[name] = raw
	return nil
}

func (r MemoryRepo) DeleteCreepMemory(_ context.Context, name string) error {
	delete(r.store.creep, name)
	return nil
}

func (r MemoryRepo) LoadRoomMemory(_ context.Context, roomID string) (string, error) {
	raw, ok := r.store.room[roomID]
	if !ok {
		return "", ports.ErrNotFound
	}
	return raw, nil
}

func (r MemoryRepo) SaveRoomMemory(_ context.Context, roomID, raw string) error {
	r.store.room[roomID] = raw
	return nil
}

// TickRepo expects to run inside TxManager.RunInTx.
type TickRepo struct {
	store *Store
	limit int
}

// NewTickRepo keeps the last limit summaries; limit <= 0 keeps all.
func NewTickRepo(store *Store, limit int) TickRepo {
	return TickRepo{store: store, limit: limit}
}

func (r TickRepo) RecordTick(_ context.Context, summary ports.TickSummary) error {
	r.store.ticks = append(r.store.ticks, summary)
	if r.limit > 0 && len(r.store.ticks) > r.limit {
		r.store.ticks = r.store.ticks[len(r.store.ticks)-r.limit:]
	}
	return nil
}

// ListRecent returns up to limit summaries, newest first; limit <= 0 returns all.
func (r TickRepo) ListRecent(_ context.Context, limit int) ([]ports.TickSummary, error) {
	n := len(r.store.ticks)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]ports.TickSummary, 0, n)
	for i := len(r.store.ticks) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.store.ticks[i])
	}
	return out, nil
}
