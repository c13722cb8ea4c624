package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"creepwork/internal/app/ports"
)

type MemoryRepo struct {
	db *DB
}

func NewMemoryRepo(db *DB) MemoryRepo {
	return MemoryRepo{db: db}
}

func (r MemoryRepo) LoadCreepMemory(ctx context.Context, name string) (string, error) {
	return r.load(ctx, `SELECT payload FROM creep_memories WHERE name = ?`, name)
}

func (r MemoryRepo) SaveCreepMemory(ctx context.Context, name, raw string) error {
	_, err := r.db.from(ctx).ExecContext(ctx, `INSERT INTO creep_memories (name, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		name, raw, time.Now().UnixMilli())
	return err
}

func (r MemoryRepo) DeleteCreepMemory(ctx context.Context, name string) error {
	_, err := r.db.from(ctx).ExecContext(ctx, `DELETE FROM creep_memories WHERE name = ?`, name)
	return err
}

func (r MemoryRepo) LoadRoomMemory(ctx context.Context, roomID string) (string, error) {
	return r.load(ctx, `SELECT payload FROM room_memories WHERE room_id = ?`, roomID)
}

func (r MemoryRepo) SaveRoomMemory(ctx context.Context, roomID, raw string) error {
	_, err := r.db.from(ctx).ExecContext(ctx, `INSERT INTO room_memories (room_id, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(room_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		roomID, raw, time.Now().UnixMilli())
	return err
}

func (r MemoryRepo) load(ctx context.Context, query, key string) (string, error) {
	var payload string
	if err := sqlx.GetContext(ctx, r.db.from(ctx), &payload, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ports.ErrNotFound
		}
		return "", err
	}
	return payload, nil
}

type tickRow struct {
	Tick    int64  `db:"tick"`
	Summary string `db:"summary"`
}

type TickRepo struct {
	db *DB
}

func NewTickRepo(db *DB) TickRepo {
	return TickRepo{db: db}
}

func (r TickRepo) RecordTick(ctx context.Context, summary ports.TickSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode tick summary: %w", err)
	}
	agents, errs := 0, 0
	for _, room := range summary.Rooms {
		agents += room.Agents
		errs += room.Errors
	}
	_, err = r.db.from(ctx).ExecContext(ctx, `INSERT OR REPLACE INTO tick_records
		(tick, rooms, agents, errors, summary, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		summary.Tick, len(summary.Rooms), agents, errs, string(payload), time.Now().UnixMilli())
	return err
}

// ListRecent returns up to limit summaries, newest first.
func (r TickRepo) ListRecent(ctx context.Context, limit int) ([]ports.TickSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []tickRow
	if err := sqlx.SelectContext(ctx, r.db.from(ctx), &rows,
		`SELECT tick, summary FROM tick_records ORDER BY tick DESC LIMIT ?`, limit); err != nil {
		return nil, err
	}
	out := make([]ports.TickSummary, 0, len(rows))
	for _, row := range rows {
		var s ports.TickSummary
		if err := json.Unmarshal([]byte(row.Summary), &s); err != nil {
			return nil, fmt.Errorf("decode tick %d: %w", row.Tick, err)
		}
		out = append(out, s)
	}
	return out, nil
}
