package sim

import (
	"creepwork/internal/app/ports"
	"creepwork/internal/domain/world"
)

type structureDefaults struct {
	hitsMax     int
	initialHits int
	capacity    int
}

var defaultsByType = map[world.StructureType]structureDefaults{
	world.StructureSpawn:     {hitsMax: 5000, capacity: 300},
	world.StructureExtension: {hitsMax: 1000, capacity: 50},
	world.StructureContainer: {hitsMax: 250000, capacity: 2000},
	world.StructureStorage:   {hitsMax: 10000, capacity: 1000000},
	world.StructureTower:     {hitsMax: 3000, capacity: 1000},
	world.StructureWall:      {hitsMax: 300000000, initialHits: 1},
	world.StructureRampart:   {hitsMax: 300000, initialHits: 1},
	world.StructureRoad:      {hitsMax: 5000},
}

// AddRoom registers a room with plain terrain. A positive controller level
// creates an owned controller at ctrlPos.
func (w *World) AddRoom(name string, controllerLevel int, ctrlPos world.Position) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r := &roomState{name: name}
	for y := range r.terrain {
		for x := range r.terrain[y] {
			r.terrain[y][x] = world.TerrainPlain
		}
	}
	if controllerLevel > 0 {
		ctrlPos.Room = name
		r.controller = &world.Controller{
			ID:            newID(),
			Pos:           ctrlPos,
			My:            true,
			Level:         controllerLevel,
			ProgressTotal: controllerProgress[min(controllerLevel, len(controllerProgress)-1)],
		}
	}
	w.rooms[name] = r
}

func (w *World) SetTerrain(pos world.Position, t world.Terrain) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.rooms[pos.Room]; ok && pos.InBounds() {
		r.terrain[pos.Y][pos.X] = t
	}
}

func (w *World) AddSource(pos world.Position, energy int) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := &world.Source{ID: newID(), Pos: pos, Energy: energy, EnergyCapacity: w.cfg.SourceEnergy}
	w.sources[s.ID] = s
	return s.ID
}

func (w *World) SetSourceEnergy(id string, energy int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.sources[id]; ok {
		s.Energy = energy
	}
}

// AddStructure places an owned structure with type defaults. energy is put
// into its store when it has one.
func (w *World) AddStructure(t world.StructureType, pos world.Position, energy int) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.placeStructureLocked(t, pos, true)
	if s.HasStore {
		s.Store.Used = min(energy, s.Store.Capacity)
	}
	return s.ID
}

func (w *World) SetHits(id string, hits int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.structures[id]; ok {
		s.Hits = min(hits, s.HitsMax)
	}
}

func (w *World) RemoveStructure(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.structures, id)
}

func (w *World) placeStructureLocked(t world.StructureType, pos world.Position, my bool) *world.Structure {
	d := defaultsByType[t]
	hits := d.hitsMax
	if d.initialHits > 0 {
		hits = d.initialHits
	}
	s := &world.Structure{
		ID:       newID(),
		Type:     t,
		Pos:      pos,
		My:       my,
		Hits:     hits,
		HitsMax:  d.hitsMax,
		HasStore: d.capacity > 0,
		Store:    world.Store{Capacity: d.capacity},
	}
	w.structures[s.ID] = s
	return s
}

// AddCreep places a ready, owned creep carrying energy.
func (w *World) AddCreep(name string, pos world.Position, body []world.BodyPart, energy int) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	c := &world.Creep{
		ID:          newID(),
		Name:        name,
		Pos:         pos,
		My:          true,
		TicksToLive: w.cfg.CreepLifetime,
		Hits:        100 * len(body),
		HitsMax:     100 * len(body),
		Body:        append([]world.BodyPart(nil), body...),
		Store:       world.Store{Capacity: w.cfg.CarryPerPart * countParts(body, world.PartCarry)},
	}
	c.Store.Used = min(energy, c.Store.Capacity)
	if _, exists := w.creeps[name]; !exists {
		w.creepOrder = append(w.creepOrder, name)
	}
	w.creeps[name] = c
	return c.ID
}

func (w *World) SetFatigue(name string, fatigue int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if c, ok := w.creeps[name]; ok {
		c.Fatigue = fatigue
	}
}

func (w *World) SetTicksToLive(name string, ttl int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if c, ok := w.creeps[name]; ok {
		c.TicksToLive = ttl
	}
}

func (w *World) SetSpawning(name string, spawning bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if c, ok := w.creeps[name]; ok {
		c.Spawning = spawning
	}
}

func (w *World) RemoveCreep(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.removeCreepLocked(name)
}

func (w *World) removeCreepLocked(name string) {
	delete(w.creeps, name)
	delete(w.spawning, name)
	delete(w.moves, name)
	for i, n := range w.creepOrder {
		if n == name {
			w.creepOrder = append(w.creepOrder[:i], w.creepOrder[i+1:]...)
			break
		}
	}
}

func (w *World) AddHostile(pos world.Position, hits int) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	c := &world.Creep{ID: newID(), Name: "invader", Pos: pos, Hits: hits, HitsMax: hits, TicksToLive: w.cfg.CreepLifetime}
	w.hostiles[c.ID] = c
	return c.ID
}

func (w *World) AddConstructionSite(t world.StructureType, pos world.Position, total int) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := &world.ConstructionSite{ID: newID(), Type: t, Pos: pos, ProgressTotal: total}
	w.sites[s.ID] = s
	return s.ID
}

func (w *World) AddDropped(pos world.Position, amount int) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	d := &world.DroppedResource{ID: newID(), Pos: pos, Amount: amount}
	w.dropped[d.ID] = d
	return d.ID
}

func (w *World) AddTombstone(pos world.Position, energy int) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	t := &world.Tombstone{ID: newID(), Pos: pos, Store: world.Store{Used: energy, Capacity: energy}}
	w.tombstones[t.ID] = t
	return t.ID
}

// MoveOrder returns the move issued for creep during the current tick.
func (w *World) MoveOrder(name string) (world.Position, ports.PathStyle, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, ok := w.moves[name]
	return m.to, m.style, ok
}

// Said returns the text creep said during the current tick.
func (w *World) Said(name string) string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.said[name]
}

// Actions counts the effecting calls creep made during the current tick.
func (w *World) Actions(name string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.actions[name]
}
