// Package config loads the creepwork YAML config with CREEPWORK_* environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"creepwork/internal/domain/world"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Store   StoreConfig   `yaml:"store"`
	Sim     SimConfig     `yaml:"sim"`
	HTTP    HTTPConfig    `yaml:"http"`
	Archive ArchiveConfig `yaml:"archive"`
	Log     LogConfig     `yaml:"log"`
}

type EngineConfig struct {
	WallRepairThreshold int      `yaml:"wall_repair_threshold"`
	CeilingFactor       int      `yaml:"ceiling_factor"`
	EarlyUpgradeLevel   int      `yaml:"early_upgrade_level"`
	PathCacheSize       int      `yaml:"path_cache_size"`
	SpawnBody           []string `yaml:"spawn_body"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	// DSN is a file path for sqlite and a connection string for postgres.
	DSN         string `yaml:"dsn"`
	TickHistory int    `yaml:"tick_history"`
}

type SimConfig struct {
	Seed           int64    `yaml:"seed"`
	Rooms          []string `yaml:"rooms"`
	StartEnergy    int      `yaml:"start_energy"`
	WallThreshold  float64  `yaml:"wall_threshold"`
	TickIntervalMS int      `yaml:"tick_interval_ms"`
	MaxTicks       int      `yaml:"max_ticks"`
}

type HTTPConfig struct {
	// Addr is empty to run without the ops server.
	Addr string `yaml:"addr"`
}

type ArchiveConfig struct {
	// Dir is empty to run without the tick archive.
	Dir string `yaml:"dir"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads path (empty for defaults only), then applies the environment.
func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Engine: EngineConfig{
			WallRepairThreshold: 10000,
			CeilingFactor:       5,
			EarlyUpgradeLevel:   2,
			PathCacheSize:       4096,
			SpawnBody:           []string{"move", "move", "carry", "work"},
		},
		Store: StoreConfig{
			Driver:      DriverMemory,
			TickHistory: 500,
		},
		Sim: SimConfig{
			Seed:           1,
			Rooms:          []string{"W1N1"},
			StartEnergy:    300,
			WallThreshold:  0.72,
			TickIntervalMS: 1000,
		},
		HTTP: HTTPConfig{Addr: ":8080"},
		Log:  LogConfig{Level: "info", Format: "text"},
	}
}

// ApplyEnv overrides file values with any CREEPWORK_* variables set.
func (c *Config) ApplyEnv() {
	c.Store.Driver = stringEnv("CREEPWORK_STORE_DRIVER", c.Store.Driver)
	c.Store.DSN = stringEnv("CREEPWORK_DB_DSN", c.Store.DSN)
	c.HTTP.Addr = stringEnv("CREEPWORK_HTTP_ADDR", c.HTTP.Addr)
	c.Archive.Dir = stringEnv("CREEPWORK_ARCHIVE_DIR", c.Archive.Dir)
	c.Log.Level = stringEnv("CREEPWORK_LOG_LEVEL", c.Log.Level)
	c.Sim.TickIntervalMS = intEnv("CREEPWORK_TICK_INTERVAL_MS", c.Sim.TickIntervalMS)
	c.Sim.MaxTicks = intEnv("CREEPWORK_MAX_TICKS", c.Sim.MaxTicks)
	c.Sim.Seed = int64(intEnv("CREEPWORK_SIM_SEED", int(c.Sim.Seed)))
}

func (c *Config) Normalize() {
	if c == nil {
		return
	}
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver == "" {
		c.Store.Driver = DriverMemory
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	rooms := c.Sim.Rooms[:0]
	seen := map[string]bool{}
	for _, r := range c.Sim.Rooms {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		rooms = append(rooms, r)
	}
	c.Sim.Rooms = rooms
	for i := range c.Engine.SpawnBody {
		c.Engine.SpawnBody[i] = strings.ToLower(strings.TrimSpace(c.Engine.SpawnBody[i]))
	}
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if strings.TrimSpace(c.Store.DSN) == "" {
			return fmt.Errorf("store.dsn is required for driver %s", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	if c.Engine.WallRepairThreshold <= 0 {
		return fmt.Errorf("engine.wall_repair_threshold must be > 0")
	}
	if c.Engine.CeilingFactor <= 0 {
		return fmt.Errorf("engine.ceiling_factor must be > 0")
	}
	if c.Engine.EarlyUpgradeLevel < 0 {
		return fmt.Errorf("engine.early_upgrade_level must be >= 0")
	}
	if c.Engine.PathCacheSize < 0 {
		return fmt.Errorf("engine.path_cache_size must be >= 0")
	}
	if _, err := c.Body(); err != nil {
		return err
	}
	if len(c.Sim.Rooms) == 0 {
		return fmt.Errorf("sim.rooms must not be empty")
	}
	if c.Sim.StartEnergy < 0 {
		return fmt.Errorf("sim.start_energy must be >= 0")
	}
	if c.Sim.WallThreshold <= 0 || c.Sim.WallThreshold > 1 {
		return fmt.Errorf("sim.wall_threshold must be in (0, 1]")
	}
	if c.Sim.TickIntervalMS <= 0 {
		return fmt.Errorf("sim.tick_interval_ms must be > 0")
	}
	if c.Sim.MaxTicks < 0 {
		return fmt.Errorf("sim.max_ticks must be >= 0")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}

// Body parses the configured spawn body.
func (c Config) Body() ([]world.BodyPart, error) {
	if len(c.Engine.SpawnBody) == 0 {
		return nil, fmt.Errorf("engine.spawn_body must not be empty")
	}
	body := make([]world.BodyPart, 0, len(c.Engine.SpawnBody))
	for _, s := range c.Engine.SpawnBody {
		p, err := world.ParseBodyPart(s)
		if err != nil {
			return nil, fmt.Errorf("engine.spawn_body: %w", err)
		}
		body = append(body, p)
	}
	return body, nil
}

func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Sim.TickIntervalMS) * time.Millisecond
}

// Marshal renders the effective config as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func stringEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
