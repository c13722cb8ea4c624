package creep

import (
	"creepwork/internal/app/pathing"
	"creepwork/internal/domain/colony"
	"creepwork/internal/domain/world"
)

var storesForTransfer = [][]world.StructureType{{world.StructureSpawn, world.StructureExtension}}

type carryDownHandler struct{ BaseHandler }

func (carryDownHandler) Execute(m *Machine, run *AgentRun, step colony.Step) (bool, error) {
	groups := step.Targets
	if len(groups) == 0 {
		groups = storesForTransfer
	}
	s, ok := m.nearestStructure(run, groups, func(s world.Structure) bool {
		return s.HasStore && s.Store.Free() > 0
	})
	if !ok {
		return false, nil
	}
	return m.act(run, "transfer", s.ID, s.Pos, lineBuild, func() error {
		return m.World.Transfer(run.Creep.Name, s.ID)
	})
}

type buildHandler struct{ BaseHandler }

func (buildHandler) Execute(m *Machine, run *AgentRun, _ colony.Step) (bool, error) {
	sites := m.World.ConstructionSites(run.Creep.Pos.Room)
	site, ok := pathing.Nearest(m.Ranker, run.Creep.Pos, sites, func(s world.ConstructionSite) world.Position { return s.Pos })
	if !ok {
		return false, nil
	}
	return m.act(run, "build", site.ID, site.Pos, lineBuild, func() error {
		return m.World.Build(run.Creep.Name, site.ID)
	})
}

type upgradeHandler struct{ BaseHandler }

func (upgradeHandler) Execute(m *Machine, run *AgentRun, _ colony.Step) (bool, error) {
	room, err := m.World.Room(run.Creep.Pos.Room)
	if err != nil || room.Controller == nil || !room.Controller.My {
		return false, nil
	}
	ctrl := room.Controller
	return m.act(run, "upgrade_controller", ctrl.ID, ctrl.Pos, lineBuild, func() error {
		return m.World.UpgradeController(run.Creep.Name, ctrl.ID)
	})
}

// repairHandler walks the repair priority. Walls and ramparts go through
// defense node bindings so only one agent works each of them.
type repairHandler struct{ BaseHandler }

func (repairHandler) Execute(m *Machine, run *AgentRun, step colony.Step) (bool, error) {
	for _, group := range step.Targets {
		var (
			target world.Structure
			ok     bool
		)
		if defensiveGroup(group) {
			target, ok = m.boundDefense(run)
		} else {
			target, ok = m.nearestStructure(run, [][]world.StructureType{group}, world.Structure.Damaged)
		}
		if !ok {
			continue
		}
		return m.act(run, "repair", target.ID, target.Pos, lineBuild, func() error {
			return m.World.Repair(run.Creep.Name, target.ID)
		})
	}
	return false, nil
}

func defensiveGroup(group []world.StructureType) bool {
	for _, t := range group {
		if !t.Defensive() {
			return false
		}
	}
	return len(group) > 0
}

func (m *Machine) boundDefense(run *AgentRun) (world.Structure, bool) {
	node, ok := m.Binder.FindAndBind(run.bindings(), run.Creep, colony.NodeDefense)
	if !ok {
		return world.Structure{}, false
	}
	s, err := m.World.Structure(node.ID)
	if err != nil {
		run.bindings().Remove(node.ID)
		return world.Structure{}, false
	}
	return s, true
}
