package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"

	"creepwork/db"
	"creepwork/internal/app/ports"
)

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("CREEPWORK_DB_DSN")
	if dsn == "" {
		t.Skip("CREEPWORK_DB_DSN is required for integration test")
	}
	return dsn
}

func openMigrated(t *testing.T) *MemoryRepo {
	t.Helper()
	gdb, err := OpenPostgres(requireDSN(t))
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if _, err := ApplyMigrations(context.Background(), gdb, db.Migrations, "migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := NewMemoryRepo(gdb)
	return &repo
}

func TestMemoryRepo_UpsertAndDelete(t *testing.T) {
	repo := openMigrated(t)
	ctx := context.Background()
	name := "it-creep-memory"
	_ = repo.db.Exec("DELETE FROM creep_memories WHERE name = ?", name).Error

	if _, err := repo.LoadCreepMemory(ctx, name); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.SaveCreepMemory(ctx, name, `{"v":1}`); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveCreepMemory(ctx, name, `{"v":2}`); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := repo.LoadCreepMemory(ctx, name)
	if err != nil || got != `{"v":2}` {
		t.Fatalf("expected upserted payload, got %q %v", got, err)
	}
	if err := repo.DeleteCreepMemory(ctx, name); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.LoadCreepMemory(ctx, name); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected deleted, got %v", err)
	}
}

func TestTxManager_RollsBackRoomSave(t *testing.T) {
	repo := openMigrated(t)
	ctx := context.Background()
	roomID := "it-room-rollback"
	_ = repo.db.Exec("DELETE FROM room_memories WHERE room_id = ?", roomID).Error

	boom := errors.New("boom")
	err := NewTxManager(repo.db).RunInTx(ctx, func(txCtx context.Context) error {
		if err := repo.SaveRoomMemory(txCtx, roomID, `{"room_id":"x"}`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := repo.LoadRoomMemory(ctx, roomID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected rolled back room save, got %v", err)
	}
}

func TestTickRepo_RecordAndList(t *testing.T) {
	repo := openMigrated(t)
	ctx := context.Background()
	_ = repo.db.Exec("DELETE FROM tick_records WHERE tick >= ?", 900000).Error

	ticks := NewTickRepo(repo.db)
	summary := ports.TickSummary{Tick: 900001, Rooms: []ports.RoomTickSummary{{RoomID: "W1N1", Agents: 3, Errors: 1}}}
	if err := ticks.RecordTick(ctx, summary); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, err := ticks.ListRecent(ctx, 1)
	if err != nil || len(got) != 1 || got[0].Tick != 900001 {
		t.Fatalf("expected latest tick 900001, got %+v %v", got, err)
	}
}
