package sim

import "creepwork/internal/domain/world"

const (
	fatiguePlain = 2
	fatigueSwamp = 10
)

// Advance resolves the orders issued this tick and moves the clock on:
// creeps take one step, spawns progress, lifetimes tick down, and sources
// refill on their regeneration schedule.
func (w *World) Advance() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, name := range sortedKeys(w.moves) {
		c, ok := w.creeps[name]
		if !ok || c.Fatigue > 0 {
			continue
		}
		path, ok := w.findPathLocked(c.Pos, w.moves[name].to)
		if !ok || len(path) == 0 {
			continue
		}
		c.Pos = path[0]
		weight := len(c.Body) - c.Parts(world.PartMove)
		if w.terrainLocked(c.Pos) == world.TerrainSwamp {
			c.Fatigue += fatigueSwamp * weight
		} else {
			c.Fatigue += fatiguePlain * weight
		}
	}
	for _, c := range w.creeps {
		c.Fatigue = max(0, c.Fatigue-fatiguePlain*c.Parts(world.PartMove))
	}

	for _, name := range sortedKeys(w.spawning) {
		job := w.spawning[name]
		job.remaining--
		if job.remaining <= 0 {
			if c, ok := w.creeps[name]; ok {
				c.Spawning = false
			}
			delete(w.spawning, name)
		}
	}

	for _, name := range append([]string(nil), w.creepOrder...) {
		c := w.creeps[name]
		if c.Spawning {
			continue
		}
		c.TicksToLive--
		if c.TicksToLive <= 0 {
			if c.Store.Used > 0 {
				t := &world.Tombstone{ID: newID(), Pos: c.Pos, Store: world.Store{Used: c.Store.Used, Capacity: c.Store.Used}}
				w.tombstones[t.ID] = t
			}
			w.removeCreepLocked(name)
		}
	}

	if w.time%int64(w.cfg.SourceRegenTicks) == 0 {
		for _, s := range w.sources {
			s.Energy = s.EnergyCapacity
		}
	}

	w.time++
	w.moves = map[string]moveOrder{}
	w.said = map[string]string{}
	w.actions = map[string]int{}
}
