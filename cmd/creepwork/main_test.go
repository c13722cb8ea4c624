package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"creepwork/internal/app/ports"
	"creepwork/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.HTTP.Addr = ""
	return cfg
}

func TestStep_PrintsSummaryAndMetrics(t *testing.T) {
	app, err := build(testConfig(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer app.Close()

	var out bytes.Buffer
	if err := step(context.Background(), app, 5, &out); err != nil {
		t.Fatalf("step: %v", err)
	}
	dec := json.NewDecoder(&out)
	var summary ports.TickSummary
	if err := dec.Decode(&summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(summary.Rooms) != 1 || summary.Rooms[0].RoomID != "W1N1" {
		t.Fatalf("expected W1N1 summary, got %+v", summary)
	}
	var metrics map[string]any
	if err := dec.Decode(&metrics); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if metrics["ticks"] != float64(5) {
		t.Fatalf("expected five ticks recorded, got %v", metrics["ticks"])
	}
}

func TestStep_RejectsZeroTicks(t *testing.T) {
	app, err := build(testConfig(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer app.Close()
	if err := step(context.Background(), app, 0, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for zero ticks")
	}
}

func TestBuild_SQLiteWithArchive(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.Store.Driver = config.DriverSQLite
	cfg.Store.DSN = filepath.Join(dir, "creepwork.db")
	cfg.Archive.Dir = filepath.Join(dir, "archive")

	app, err := build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := step(context.Background(), app, 3, &bytes.Buffer{}); err != nil {
		t.Fatalf("step: %v", err)
	}
	recent, err := app.store.history.ListRecent(context.Background(), 10)
	if err != nil || len(recent) != 3 || recent[0].Tick != 3 {
		t.Fatalf("expected three sqlite tick records newest first, got %+v %v", recent, err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var out bytes.Buffer
	if err := printArchive(cfg.Archive.Dir, &out); err != nil {
		t.Fatalf("print archive: %v", err)
	}
	sc := bufio.NewScanner(strings.NewReader(out.String()))
	lines := 0
	for sc.Scan() {
		lines++
	}
	if lines != 3 {
		t.Fatalf("expected three archived lines, got %d", lines)
	}
}

func TestNewApp_Commands(t *testing.T) {
	app := newApp()
	want := map[string]bool{"run": false, "step": false, "migrate": false, "dumpconfig": false, "ticks": false}
	for _, c := range app.Commands {
		if _, ok := want[c.Name]; ok {
			want[c.Name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("expected command %q", name)
		}
	}
}
