package sqliterepo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"creepwork/internal/app/ports"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "creepwork.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMemoryRepo_UpsertLoadDelete(t *testing.T) {
	db := openTestDB(t)
	tx := NewTxManager(db)
	repo := NewMemoryRepo(db)
	ctx := context.Background()

	err := tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := repo.LoadCreepMemory(ctx, "1-0"); !errors.Is(err, ports.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if err := repo.SaveCreepMemory(ctx, "1-0", `{"v":1}`); err != nil {
			return err
		}
		if err := repo.SaveCreepMemory(ctx, "1-0", `{"v":2}`); err != nil {
			return err
		}
		return repo.SaveRoomMemory(ctx, "W1N1", `{"room_id":"W1N1"}`)
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	raw, err := repo.LoadCreepMemory(ctx, "1-0")
	if err != nil || raw != `{"v":2}` {
		t.Fatalf("expected upserted payload, got %q %v", raw, err)
	}
	raw, err = repo.LoadRoomMemory(ctx, "W1N1")
	if err != nil || raw != `{"room_id":"W1N1"}` {
		t.Fatalf("expected room payload, got %q %v", raw, err)
	}
	if err := repo.DeleteCreepMemory(ctx, "1-0"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.LoadCreepMemory(ctx, "1-0"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected deleted slot gone, got %v", err)
	}
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	tx := NewTxManager(db)
	repo := NewMemoryRepo(db)
	boom := errors.New("boom")

	err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := repo.SaveRoomMemory(ctx, "W1N1", `{}`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := repo.LoadRoomMemory(context.Background(), "W1N1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected rolled back write, got %v", err)
	}
}

func TestTickRepo_ListRecentNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewTickRepo(db)
	ctx := context.Background()
	for i := int64(1); i <= 3; i++ {
		s := ports.TickSummary{Tick: i, Rooms: []ports.RoomTickSummary{{RoomID: "W1N1", Agents: int(i)}}}
		if err := repo.RecordTick(ctx, s); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	got, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Tick != 3 || got[1].Tick != 2 {
		t.Fatalf("expected ticks 3 and 2, got %+v", got)
	}
	if got[0].Rooms[0].Agents != 3 {
		t.Fatalf("expected summary body restored, got %+v", got[0])
	}
}
