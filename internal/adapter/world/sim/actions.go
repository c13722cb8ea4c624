package sim

import (
	"fmt"

	"creepwork/internal/app/ports"
	"creepwork/internal/domain/world"
)

const (
	rangeAdjacent = 1
	rangeWork     = 3
)

// controllerProgress is the progress needed to leave each level.
var controllerProgress = []int{0, 200, 45000, 135000, 405000, 1215000, 3645000, 10935000}

func (w *World) ownCreepLocked(name string) (*world.Creep, error) {
	c, ok := w.creeps[name]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if !c.My {
		return nil, ErrNotOwner
	}
	return c, nil
}

func (w *World) Harvest(creep, sourceID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, err := w.ownCreepLocked(creep)
	if err != nil {
		return err
	}
	s, ok := w.sources[sourceID]
	if !ok {
		return ports.ErrNotFound
	}
	if !c.Pos.InRangeTo(s.Pos, rangeAdjacent) {
		return ports.ErrNotInRange
	}
	if s.Energy == 0 {
		return ErrNotEnoughResources
	}
	free := c.Store.Free()
	if free == 0 {
		return ErrFull
	}
	amount := min(c.Parts(world.PartWork)*w.cfg.HarvestPerWork, s.Energy, free)
	s.Energy -= amount
	c.Store.Used += amount
	w.actions[creep]++
	return nil
}

func (w *World) Pickup(creep, resourceID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, err := w.ownCreepLocked(creep)
	if err != nil {
		return err
	}
	d, ok := w.dropped[resourceID]
	if !ok {
		return ports.ErrNotFound
	}
	if !c.Pos.InRangeTo(d.Pos, rangeAdjacent) {
		return ports.ErrNotInRange
	}
	free := c.Store.Free()
	if free == 0 {
		return ErrFull
	}
	amount := min(free, d.Amount)
	d.Amount -= amount
	c.Store.Used += amount
	if d.Amount == 0 {
		delete(w.dropped, resourceID)
	}
	w.actions[creep]++
	return nil
}

func (w *World) Withdraw(creep, targetID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, err := w.ownCreepLocked(creep)
	if err != nil {
		return err
	}
	var (
		store *world.Store
		pos   world.Position
	)
	if s, ok := w.structures[targetID]; ok {
		if !s.HasStore {
			return ErrInvalidTarget
		}
		store, pos = &s.Store, s.Pos
	} else if t, ok := w.tombstones[targetID]; ok {
		store, pos = &t.Store, t.Pos
	} else {
		return ports.ErrNotFound
	}
	if !c.Pos.InRangeTo(pos, rangeAdjacent) {
		return ports.ErrNotInRange
	}
	if store.Used == 0 {
		return ErrNotEnoughResources
	}
	free := c.Store.Free()
	if free == 0 {
		return ErrFull
	}
	amount := min(free, store.Used)
	store.Used -= amount
	c.Store.Used += amount
	if t, ok := w.tombstones[targetID]; ok && t.Store.Used == 0 {
		delete(w.tombstones, targetID)
	}
	w.actions[creep]++
	return nil
}

func (w *World) Transfer(creep, targetID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, err := w.ownCreepLocked(creep)
	if err != nil {
		return err
	}
	s, ok := w.structures[targetID]
	if !ok {
		return ports.ErrNotFound
	}
	if !s.HasStore {
		return ErrInvalidTarget
	}
	if !c.Pos.InRangeTo(s.Pos, rangeAdjacent) {
		return ports.ErrNotInRange
	}
	if c.Store.Used == 0 {
		return ErrNotEnoughResources
	}
	free := s.Store.Free()
	if free == 0 {
		return ErrFull
	}
	amount := min(free, c.Store.Used)
	s.Store.Used += amount
	c.Store.Used -= amount
	w.actions[creep]++
	return nil
}

func (w *World) Build(creep, siteID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, err := w.ownCreepLocked(creep)
	if err != nil {
		return err
	}
	site, ok := w.sites[siteID]
	if !ok {
		return ports.ErrNotFound
	}
	if !c.Pos.InRangeTo(site.Pos, rangeWork) {
		return ports.ErrNotInRange
	}
	if c.Store.Used == 0 {
		return ErrNotEnoughResources
	}
	amount := min(c.Parts(world.PartWork)*w.cfg.BuildPerWork, c.Store.Used, site.ProgressTotal-site.Progress)
	site.Progress += amount
	c.Store.Used -= amount
	if site.Progress >= site.ProgressTotal {
		delete(w.sites, siteID)
		w.placeStructureLocked(site.Type, site.Pos, true)
	}
	w.actions[creep]++
	return nil
}

func (w *World) Repair(creep, structureID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, err := w.ownCreepLocked(creep)
	if err != nil {
		return err
	}
	s, ok := w.structures[structureID]
	if !ok {
		return ports.ErrNotFound
	}
	if !c.Pos.InRangeTo(s.Pos, rangeWork) {
		return ports.ErrNotInRange
	}
	if c.Store.Used == 0 {
		return ErrNotEnoughResources
	}
	if s.Hits >= s.HitsMax {
		return ErrInvalidTarget
	}
	energy := min(c.Parts(world.PartWork), c.Store.Used)
	s.Hits = min(s.HitsMax, s.Hits+energy*w.cfg.RepairPerWork)
	c.Store.Used -= energy
	w.actions[creep]++
	return nil
}

func (w *World) UpgradeController(creep, controllerID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, err := w.ownCreepLocked(creep)
	if err != nil {
		return err
	}
	var ctrl *world.Controller
	for _, r := range w.rooms {
		if r.controller != nil && r.controller.ID == controllerID {
			ctrl = r.controller
			break
		}
	}
	if ctrl == nil {
		return ports.ErrNotFound
	}
	if !ctrl.My {
		return ErrNotOwner
	}
	if !c.Pos.InRangeTo(ctrl.Pos, rangeWork) {
		return ports.ErrNotInRange
	}
	if c.Store.Used == 0 {
		return ErrNotEnoughResources
	}
	energy := min(c.Parts(world.PartWork)*w.cfg.UpgradePerWork, c.Store.Used)
	c.Store.Used -= energy
	ctrl.Progress += energy
	for ctrl.Level >= 1 && ctrl.Level < len(controllerProgress)-1 && ctrl.Progress >= controllerProgress[ctrl.Level] {
		ctrl.Progress -= controllerProgress[ctrl.Level]
		ctrl.Level++
	}
	if ctrl.Level < len(controllerProgress) {
		ctrl.ProgressTotal = controllerProgress[ctrl.Level]
	}
	w.actions[creep]++
	return nil
}

func (w *World) MoveTo(creep string, to world.Position, style ports.PathStyle) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, err := w.ownCreepLocked(creep)
	if err != nil {
		return err
	}
	if c.Fatigue > 0 {
		return ErrBusy
	}
	if _, ok := w.findPathLocked(c.Pos, to); !ok {
		return ErrNoPath
	}
	w.moves[creep] = moveOrder{to: to, style: style}
	return nil
}

func (w *World) Say(creep, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.ownCreepLocked(creep); err != nil {
		return err
	}
	w.said[creep] = text
	return nil
}

func (w *World) TowerAttack(towerID, targetID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.structures[towerID]
	if !ok || t.Type != world.StructureTower {
		return ports.ErrNotFound
	}
	if !t.My {
		return ErrNotOwner
	}
	h, ok := w.hostiles[targetID]
	if !ok || h.Pos.Room != t.Pos.Room {
		return ports.ErrNotFound
	}
	if t.Store.Used < w.cfg.TowerEnergyCost {
		return ErrNotEnoughResources
	}
	t.Store.Used -= w.cfg.TowerEnergyCost
	h.Hits -= w.cfg.TowerDamage
	if h.Hits <= 0 {
		delete(w.hostiles, targetID)
	}
	return nil
}

func (w *World) SpawnCreep(spawnID, name string, body []world.BodyPart) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	sp, ok := w.structures[spawnID]
	if !ok || sp.Type != world.StructureSpawn {
		return ports.ErrNotFound
	}
	if !sp.My {
		return ErrNotOwner
	}
	if _, exists := w.creeps[name]; exists {
		return ErrNameExists
	}
	for _, job := range w.spawning {
		if job.spawnID == spawnID {
			return ErrBusy
		}
	}
	cost := world.BodyCost(body)
	if w.roomLocked(sp.Pos.Room).EnergyAvailable < cost {
		return fmt.Errorf("%w: need %d", ErrNotEnoughResources, cost)
	}
	w.chargeEnergyLocked(sp, cost)

	pos := sp.Pos
	blocked := w.obstaclesLocked(sp.Pos.Room)
	for _, n := range sp.Pos.Neighbors() {
		if !blocked[n.Y][n.X] {
			pos = n
			break
		}
	}
	c := &world.Creep{
		ID:          newID(),
		Name:        name,
		Pos:         pos,
		My:          true,
		Spawning:    true,
		TicksToLive: w.cfg.CreepLifetime,
		Hits:        100 * len(body),
		HitsMax:     100 * len(body),
		Store:       world.Store{Capacity: w.cfg.CarryPerPart * countParts(body, world.PartCarry)},
		Body:        append([]world.BodyPart(nil), body...),
	}
	w.creeps[name] = c
	w.creepOrder = append(w.creepOrder, name)
	w.spawning[name] = &spawnJob{creep: name, spawnID: spawnID, remaining: w.cfg.SpawnTicksPerPart * len(body)}
	return nil
}

// chargeEnergyLocked takes energy from the spawn first, then extensions.
func (w *World) chargeEnergyLocked(sp *world.Structure, cost int) {
	take := func(s *world.Structure) {
		n := min(cost, s.Store.Used)
		s.Store.Used -= n
		cost -= n
	}
	take(sp)
	for _, id := range sortedKeys(w.structures) {
		if cost == 0 {
			return
		}
		s := w.structures[id]
		if s.Pos.Room == sp.Pos.Room && s.My && s.Type == world.StructureExtension {
			take(s)
		}
	}
}

func countParts(body []world.BodyPart, part world.BodyPart) int {
	n := 0
	for _, p := range body {
		if p == part {
			n++
		}
	}
	return n
}
