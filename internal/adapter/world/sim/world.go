package sim

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"creepwork/internal/app/ports"
	"creepwork/internal/domain/world"
)

var (
	ErrNotEnoughResources = errors.New("not enough resources")
	ErrFull               = errors.New("target full")
	ErrNoPath             = errors.New("no path")
	ErrNameExists         = errors.New("name exists")
	ErrBusy               = errors.New("spawn busy")
	ErrInvalidTarget      = errors.New("invalid target")
	ErrNotOwner           = errors.New("not owner")
)

type Config struct {
	SourceEnergy      int
	SourceRegenTicks  int
	CreepLifetime     int
	CarryPerPart      int
	HarvestPerWork    int
	BuildPerWork      int
	RepairPerWork     int
	UpgradePerWork    int
	SpawnTicksPerPart int
	TowerDamage       int
	TowerEnergyCost   int
}

func DefaultConfig() Config {
	return Config{
		SourceEnergy:      3000,
		SourceRegenTicks:  300,
		CreepLifetime:     1500,
		CarryPerPart:      50,
		HarvestPerWork:    2,
		BuildPerWork:      5,
		RepairPerWork:     100,
		UpgradePerWork:    1,
		SpawnTicksPerPart: 3,
		TowerDamage:       600,
		TowerEnergyCost:   10,
	}
}

type roomState struct {
	name       string
	terrain    [world.RoomSize][world.RoomSize]world.Terrain
	controller *world.Controller
}

type spawnJob struct {
	creep     string
	spawnID   string
	remaining int
}

type moveOrder struct {
	to    world.Position
	style ports.PathStyle
}

// World is an in-memory host. All methods are safe for concurrent use so
// the ops HTTP server can read it while the tick loop runs.
type World struct {
	mu  sync.RWMutex
	cfg Config

	time int64

	rooms      map[string]*roomState
	creeps     map[string]*world.Creep
	creepOrder []string
	hostiles   map[string]*world.Creep
	sources    map[string]*world.Source
	structures map[string]*world.Structure
	sites      map[string]*world.ConstructionSite
	dropped    map[string]*world.DroppedResource
	tombstones map[string]*world.Tombstone

	spawning map[string]*spawnJob
	moves    map[string]moveOrder
	said     map[string]string
	actions  map[string]int
}

func New(cfg Config) *World {
	def := DefaultConfig()
	if cfg.SourceEnergy <= 0 {
		cfg.SourceEnergy = def.SourceEnergy
	}
	if cfg.SourceRegenTicks <= 0 {
		cfg.SourceRegenTicks = def.SourceRegenTicks
	}
	if cfg.CreepLifetime <= 0 {
		cfg.CreepLifetime = def.CreepLifetime
	}
	if cfg.CarryPerPart <= 0 {
		cfg.CarryPerPart = def.CarryPerPart
	}
	if cfg.HarvestPerWork <= 0 {
		cfg.HarvestPerWork = def.HarvestPerWork
	}
	if cfg.BuildPerWork <= 0 {
		cfg.BuildPerWork = def.BuildPerWork
	}
	if cfg.RepairPerWork <= 0 {
		cfg.RepairPerWork = def.RepairPerWork
	}
	if cfg.UpgradePerWork <= 0 {
		cfg.UpgradePerWork = def.UpgradePerWork
	}
	if cfg.SpawnTicksPerPart <= 0 {
		cfg.SpawnTicksPerPart = def.SpawnTicksPerPart
	}
	if cfg.TowerDamage <= 0 {
		cfg.TowerDamage = def.TowerDamage
	}
	if cfg.TowerEnergyCost <= 0 {
		cfg.TowerEnergyCost = def.TowerEnergyCost
	}
	return &World{
		cfg:        cfg,
		time:       1,
		rooms:      map[string]*roomState{},
		creeps:     map[string]*world.Creep{},
		hostiles:   map[string]*world.Creep{},
		sources:    map[string]*world.Source{},
		structures: map[string]*world.Structure{},
		sites:      map[string]*world.ConstructionSite{},
		dropped:    map[string]*world.DroppedResource{},
		tombstones: map[string]*world.Tombstone{},
		spawning:   map[string]*spawnJob{},
		moves:      map[string]moveOrder{},
		said:       map[string]string{},
		actions:    map[string]int{},
	}
}

func newID() string {
	return uuid.NewString()
}

func (w *World) Time() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.time
}

func (w *World) Rooms() []world.Room {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(w.rooms))
	for name := range w.rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]world.Room, 0, len(names))
	for _, name := range names {
		out = append(out, w.roomLocked(name))
	}
	return out
}

func (w *World) Room(name string) (world.Room, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if _, ok := w.rooms[name]; !ok {
		return world.Room{}, ports.ErrNotFound
	}
	return w.roomLocked(name), nil
}

func (w *World) roomLocked(name string) world.Room {
	r := w.rooms[name]
	out := world.Room{Name: name}
	if r.controller != nil {
		c := *r.controller
		out.Controller = &c
	}
	for _, s := range w.structures {
		if s.Pos.Room != name || !s.My {
			continue
		}
		if s.Type == world.StructureSpawn || s.Type == world.StructureExtension {
			out.EnergyAvailable += s.Store.Used
			out.EnergyCapacityAvailable += s.Store.Capacity
		}
	}
	return out
}

func (w *World) Creeps() []world.Creep {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]world.Creep, 0, len(w.creepOrder))
	for _, name := range w.creepOrder {
		out = append(out, copyCreep(w.creeps[name]))
	}
	return out
}

func (w *World) Creep(name string) (world.Creep, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.creeps[name]
	if !ok {
		return world.Creep{}, ports.ErrNotFound
	}
	return copyCreep(c), nil
}

func (w *World) HostileCreeps(room string) []world.Creep {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []world.Creep
	for _, id := range sortedKeys(w.hostiles) {
		if c := w.hostiles[id]; c.Pos.Room == room {
			out = append(out, copyCreep(c))
		}
	}
	return out
}

func (w *World) Sources(room string) []world.Source {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []world.Source
	for _, id := range sortedKeysBy(w.sources, func(s *world.Source) world.Position { return s.Pos }) {
		if s := w.sources[id]; s.Pos.Room == room {
			out = append(out, *s)
		}
	}
	return out
}

func (w *World) Source(id string) (world.Source, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.sources[id]
	if !ok {
		return world.Source{}, ports.ErrNotFound
	}
	return *s, nil
}

func (w *World) Structures(room string) []world.Structure {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []world.Structure
	for _, id := range sortedKeysBy(w.structures, func(s *world.Structure) world.Position { return s.Pos }) {
		if s := w.structures[id]; s.Pos.Room == room {
			out = append(out, *s)
		}
	}
	return out
}

func (w *World) Structure(id string) (world.Structure, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.structures[id]
	if !ok {
		return world.Structure{}, ports.ErrNotFound
	}
	return *s, nil
}

func (w *World) ConstructionSites(room string) []world.ConstructionSite {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []world.ConstructionSite
	for _, id := range sortedKeysBy(w.sites, func(s *world.ConstructionSite) world.Position { return s.Pos }) {
		if s := w.sites[id]; s.Pos.Room == room {
			out = append(out, *s)
		}
	}
	return out
}

func (w *World) DroppedResources(room string) []world.DroppedResource {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []world.DroppedResource
	for _, id := range sortedKeysBy(w.dropped, func(d *world.DroppedResource) world.Position { return d.Pos }) {
		if d := w.dropped[id]; d.Pos.Room == room {
			out = append(out, *d)
		}
	}
	return out
}

func (w *World) Tombstones(room string) []world.Tombstone {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []world.Tombstone
	for _, id := range sortedKeysBy(w.tombstones, func(t *world.Tombstone) world.Position { return t.Pos }) {
		if t := w.tombstones[id]; t.Pos.Room == room {
			out = append(out, *t)
		}
	}
	return out
}

func (w *World) Terrain(pos world.Position) world.Terrain {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.terrainLocked(pos)
}

func (w *World) terrainLocked(pos world.Position) world.Terrain {
	r, ok := w.rooms[pos.Room]
	if !ok || !pos.InBounds() {
		return world.TerrainWall
	}
	return r.terrain[pos.Y][pos.X]
}

func (w *World) PathLength(from, to world.Position) (int, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	path, ok := w.findPathLocked(from, to)
	if !ok {
		return 0, false
	}
	return len(path), true
}

func copyCreep(c *world.Creep) world.Creep {
	out := *c
	out.Body = append([]world.BodyPart(nil), c.Body...)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// sortedKeysBy orders objects by position so enumeration is stable across
// runs even though ids are random.
func sortedKeysBy[V any](m map[string]V, pos func(V) world.Position) []string {
	out := sortedKeys(m)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := pos(m[out[i]]), pos(m[out[j]])
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return out
}
