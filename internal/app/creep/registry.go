package creep

import (
	"creepwork/internal/app/ports"
	"creepwork/internal/domain/colony"
	"creepwork/internal/domain/world"
)

// AgentRun is the per-tick working set of one agent.
type AgentRun struct {
	Creep   world.Creep
	Context *colony.AgentContext
	// Room is nil when the agent's room has no tracked memory.
	Room *colony.RoomMemory
}

func (r *AgentRun) bindings() *colony.RoomBindings {
	if r.Room == nil {
		return nil
	}
	return r.Room.Bindings
}

type ActionHandler interface {
	Precheck(m *Machine, run *AgentRun, step colony.Step) bool
	// Execute reports whether the agent took an effect this tick. A move
	// order counts as an effect.
	Execute(m *Machine, run *AgentRun, step colony.Step) (bool, error)
}

// BaseHandler gates a primitive on the agent's sub-state.
type BaseHandler struct {
	Action colony.ActionStatus
}

func (h BaseHandler) Precheck(_ *Machine, run *AgentRun, _ colony.Step) bool {
	return run.Context.Allows(h.Action)
}

func (BaseHandler) Execute(*Machine, *AgentRun, colony.Step) (bool, error) {
	return false, nil
}

var (
	lineHarvest = ports.PathStyle{Stroke: "#34c724", Opacity: 0.5}
	lineBuild   = ports.PathStyle{Stroke: "#fff258", Opacity: 0.5}
	lineCarry   = ports.PathStyle{Stroke: "#39a1e8", Opacity: 0.5}
)

func defaultHandlers() map[colony.ActionStatus]ActionHandler {
	return map[colony.ActionStatus]ActionHandler{
		colony.ActionHarvesting: harvestHandler{BaseHandler{Action: colony.ActionHarvesting}},
		colony.ActionPickUp:     pickupHandler{BaseHandler{Action: colony.ActionPickUp}},
		colony.ActionCarryUp:    carryUpHandler{BaseHandler{Action: colony.ActionCarryUp}},
		colony.ActionCarryDown:  carryDownHandler{BaseHandler{Action: colony.ActionCarryDown}},
		colony.ActionBuilding:   buildHandler{BaseHandler{Action: colony.ActionBuilding}},
		colony.ActionUpgrade:    upgradeHandler{BaseHandler{Action: colony.ActionUpgrade}},
		colony.ActionRepair:     repairHandler{BaseHandler{Action: colony.ActionRepair}},
	}
}
