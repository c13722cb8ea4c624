package ports

import "context"

// MemoryStore holds the opaque per-agent and per-room memory slots.
// Loads of an empty slot return ErrNotFound.
type MemoryStore interface {
	LoadCreepMemory(ctx context.Context, name string) (string, error)
	SaveCreepMemory(ctx context.Context, name, raw string) error
	DeleteCreepMemory(ctx context.Context, name string) error
	LoadRoomMemory(ctx context.Context, roomID string) (string, error)
	SaveRoomMemory(ctx context.Context, roomID, raw string) error
}

type RoomTickSummary struct {
	RoomID       string         `json:"room_id"`
	Agents       int            `json:"agents"`
	Idle         int            `json:"idle"`
	Errors       int            `json:"errors"`
	Spawned      []string       `json:"spawned,omitempty"`
	Census       map[string]int `json:"census"`
	Bindings     map[string]int `json:"bindings"`
	PersistError string         `json:"persist_error,omitempty"`
}

type TickSummary struct {
	Tick  int64             `json:"tick"`
	Rooms []RoomTickSummary `json:"rooms"`
}

type TickRecorder interface {
	RecordTick(ctx context.Context, summary TickSummary) error
}

// TickHistory lists recorded summaries, newest first.
type TickHistory interface {
	ListRecent(ctx context.Context, limit int) ([]TickSummary, error)
}
