package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"creepwork/internal/domain/world"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "creepwork.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Store.Driver != DriverMemory || cfg.Engine.CeilingFactor != 5 || cfg.Engine.WallRepairThreshold != 10000 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	body, err := cfg.Body()
	if err != nil || world.BodyCost(body) != 250 {
		t.Fatalf("expected default body costing 250, got %v %v", body, err)
	}
}

func TestLoad_FileOverridesAndNormalizes(t *testing.T) {
	path := writeConfig(t, `
store:
  driver: " SQLite "
  dsn: /tmp/creepwork.db
sim:
  rooms: [W1N1, " W2N1 ", W1N1, ""]
engine:
  spawn_body: [WORK, carry, move]
log:
  level: DEBUG
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != DriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.Store.Driver)
	}
	if len(cfg.Sim.Rooms) != 2 || cfg.Sim.Rooms[1] != "W2N1" {
		t.Fatalf("expected deduplicated rooms, got %v", cfg.Sim.Rooms)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
	if cfg.Engine.CeilingFactor != 5 {
		t.Fatalf("expected untouched default ceiling factor, got %d", cfg.Engine.CeilingFactor)
	}
	body, _ := cfg.Body()
	if len(body) != 3 || body[0] != world.PartWork {
		t.Fatalf("expected parsed body, got %v", body)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("CREEPWORK_HTTP_ADDR", ":9090")
	t.Setenv("CREEPWORK_MAX_TICKS", "42")
	t.Setenv("CREEPWORK_TICK_INTERVAL_MS", "not-a-number")
	path := writeConfig(t, "http:\n  addr: \":8081\"\nsim:\n  tick_interval_ms: 250\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" || cfg.Sim.MaxTicks != 42 {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
	if cfg.Sim.TickIntervalMS != 250 {
		t.Fatalf("expected invalid env ignored, got %d", cfg.Sim.TickIntervalMS)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
		want string
	}{
		{"unknown driver", func(c *Config) { c.Store.Driver = "redis" }, "store.driver"},
		{"sqlite without dsn", func(c *Config) { c.Store.Driver = DriverSQLite }, "store.dsn"},
		{"bad body part", func(c *Config) { c.Engine.SpawnBody = []string{"claim"} }, "spawn_body"},
		{"empty body", func(c *Config) { c.Engine.SpawnBody = nil }, "spawn_body"},
		{"no rooms", func(c *Config) { c.Sim.Rooms = nil }, "sim.rooms"},
		{"zero ceiling", func(c *Config) { c.Engine.CeilingFactor = 0 }, "ceiling_factor"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad threshold", func(c *Config) { c.Sim.WallThreshold = 2 }, "wall_threshold"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaults()
			tc.mut(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestMarshal_RoundTrips(t *testing.T) {
	cfg := defaults()
	b, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	cfg2, err := Load(writeConfig(t, string(b)))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg2.Engine.PathCacheSize != cfg.Engine.PathCacheSize || cfg2.HTTP.Addr != cfg.HTTP.Addr {
		t.Fatalf("expected dumped config to reload, got %+v", cfg2)
	}
}
