package creep

import (
	"errors"

	"creepwork/internal/app/pathing"
	"creepwork/internal/app/ports"
	"creepwork/internal/domain/colony"
	"creepwork/internal/domain/world"
)

var storesForWithdraw = [][]world.StructureType{{world.StructureStorage, world.StructureContainer}}

type harvestHandler struct{ BaseHandler }

func (harvestHandler) Execute(m *Machine, run *AgentRun, _ colony.Step) (bool, error) {
	b := run.bindings()
	// A stale binding gets one more lookup before the step is declined.
	for attempt := 0; attempt < 2; attempt++ {
		node, ok := m.Binder.FindAndBind(b, run.Creep, colony.NodeSource)
		if !ok {
			return false, nil
		}
		src, err := m.World.Source(node.ID)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				b.Remove(node.ID)
				continue
			}
			return false, &WorldCallError{Op: "source", Creep: run.Creep.Name, Target: node.ID, Err: err}
		}
		if src.Energy == 0 {
			node.SetWorkable(false)
			continue
		}
		return m.act(run, "harvest", src.ID, src.Pos, lineHarvest, func() error {
			return m.World.Harvest(run.Creep.Name, src.ID)
		})
	}
	return false, nil
}

// pickupHandler collects tombstone energy first, then dropped energy.
type pickupHandler struct{ BaseHandler }

func (pickupHandler) Execute(m *Machine, run *AgentRun, _ colony.Step) (bool, error) {
	room := run.Creep.Pos.Room
	var tombs []world.Tombstone
	for _, t := range m.World.Tombstones(room) {
		if t.Store.Used > 0 {
			tombs = append(tombs, t)
		}
	}
	if t, ok := pathing.Nearest(m.Ranker, run.Creep.Pos, tombs, func(t world.Tombstone) world.Position { return t.Pos }); ok {
		return m.act(run, "withdraw", t.ID, t.Pos, lineHarvest, func() error {
			return m.World.Withdraw(run.Creep.Name, t.ID)
		})
	}

	var dropped []world.DroppedResource
	for _, d := range m.World.DroppedResources(room) {
		if d.Amount > 0 {
			dropped = append(dropped, d)
		}
	}
	if d, ok := pathing.Nearest(m.Ranker, run.Creep.Pos, dropped, func(d world.DroppedResource) world.Position { return d.Pos }); ok {
		return m.act(run, "pickup", d.ID, d.Pos, lineHarvest, func() error {
			return m.World.Pickup(run.Creep.Name, d.ID)
		})
	}
	return false, nil
}

type carryUpHandler struct{ BaseHandler }

func (carryUpHandler) Execute(m *Machine, run *AgentRun, step colony.Step) (bool, error) {
	groups := step.Targets
	if len(groups) == 0 {
		groups = storesForWithdraw
	}
	s, ok := m.nearestStructure(run, groups, func(s world.Structure) bool {
		return s.HasStore && s.Store.Used > 0
	})
	if !ok {
		return false, nil
	}
	return m.act(run, "withdraw", s.ID, s.Pos, lineCarry, func() error {
		return m.World.Withdraw(run.Creep.Name, s.ID)
	})
}
