package zstdlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"creepwork/internal/app/ports"
)

func TestTickArchive_WritesReadableLines(t *testing.T) {
	dir := t.TempDir()
	a := NewTickArchive(dir)
	for i := int64(1); i <= 3; i++ {
		s := ports.TickSummary{Tick: i, Rooms: []ports.RoomTickSummary{{RoomID: "W1N1", Agents: int(i)}}}
		if err := a.RecordTick(context.Background(), s); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	files, err := Files(dir)
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one archive file, got %v %v", files, err)
	}
	got, err := ReadFile(files[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 3 || got[2].Tick != 3 || got[2].Rooms[0].Agents != 3 {
		t.Fatalf("expected three summaries, got %+v", got)
	}
}

func TestJSONLZstdWriter_RotatesHourly(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONLZstdWriter(dir, filePrefix)
	clock := time.Date(2026, 1, 2, 10, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return clock }

	if err := w.Write(ports.TickSummary{Tick: 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	clock = clock.Add(2 * time.Minute)
	if err := w.Write(ports.TickSummary{Tick: 2}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	files, err := Files(dir)
	if err != nil || len(files) != 2 {
		t.Fatalf("expected two hourly files, got %v %v", files, err)
	}
	if filepath.Base(files[0]) != "ticks-2026-01-02-10.jsonl.zst" {
		t.Fatalf("unexpected first file %s", files[0])
	}
	second, err := ReadFile(files[1])
	if err != nil || len(second) != 1 || second[0].Tick != 2 {
		t.Fatalf("expected tick 2 in second file, got %+v %v", second, err)
	}
}
