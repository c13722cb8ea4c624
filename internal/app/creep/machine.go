package creep

import (
	"errors"
	"fmt"
	"log/slog"

	"creepwork/internal/app/binding"
	"creepwork/internal/app/pathing"
	"creepwork/internal/app/ports"
	"creepwork/internal/domain/colony"
	"creepwork/internal/domain/world"
)

const DefaultEarlyUpgradeLevel = 2

type Outcome struct {
	// Skipped agents are spawning or fatigued and did nothing this tick.
	Skipped bool
	Idle    bool
	Action  colony.ActionStatus
}

// Machine runs one agent's work line per tick.
type Machine struct {
	World  ports.World
	Ranker *pathing.Ranker
	Binder binding.Manager
	// EarlyUpgradeLevel is the controller level below which harvesters
	// upgrade before feeding the spawn.
	EarlyUpgradeLevel int

	handlers map[colony.ActionStatus]ActionHandler
}

func NewMachine(w ports.World, ranker *pathing.Ranker, binder binding.Manager, earlyUpgradeLevel int) *Machine {
	if earlyUpgradeLevel <= 0 {
		earlyUpgradeLevel = DefaultEarlyUpgradeLevel
	}
	return &Machine{
		World:             w,
		Ranker:            ranker,
		Binder:            binder,
		EarlyUpgradeLevel: earlyUpgradeLevel,
		handlers:          defaultHandlers(),
	}
}

func (m *Machine) Run(run *AgentRun) (Outcome, error) {
	c := run.Creep
	if c.Spawning || c.Fatigue > 0 {
		return Outcome{Skipped: true, Action: run.Context.Action}, nil
	}
	run.Context.DeriveStatus(colony.CargoStatusOf(c.Store.Used, c.Store.Free()))

	line, err := colony.WorkLineFor(run.Context.Role)
	if err != nil {
		return Outcome{Action: run.Context.Action}, err
	}
	took, err := m.workLine(run, line)
	if err != nil {
		m.Binder.Release(run.bindings(), c.Name)
		return Outcome{Action: run.Context.Action}, err
	}
	if !took {
		run.Context.MarkIdle()
		slog.Info("work line exhausted", "creep", c.Name, "role", run.Context.Role, "status", run.Context.Status, "cargo", run.Context.Cargo)
	}
	if err := m.World.Say(c.Name, run.Context.Action.Label()); err != nil {
		slog.Warn("say failed", "creep", c.Name, "err", err)
	}
	if !run.Context.Action.HoldsNode() {
		m.Binder.Release(run.bindings(), c.Name)
	}
	return Outcome{Idle: !took, Action: run.Context.Action}, nil
}

func (m *Machine) workLine(run *AgentRun, line colony.WorkLine) (bool, error) {
	for _, step := range line {
		if !m.guardHolds(run, step.Guard) {
			continue
		}
		h, ok := m.handlers[step.Action]
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrNoHandler, step.Action)
		}
		if !h.Precheck(m, run, step) {
			continue
		}
		took, err := h.Execute(m, run, step)
		if err != nil {
			return false, fmt.Errorf("%s: %w", step.Action, err)
		}
		if took {
			run.Context.ChangeAction(step.Action)
			return true, nil
		}
	}
	return false, nil
}

func (m *Machine) guardHolds(run *AgentRun, g colony.Guard) bool {
	switch g {
	case colony.GuardNone:
		return true
	case colony.GuardEarlyController:
		room, err := m.World.Room(run.Creep.Pos.Room)
		if err != nil || room.Controller == nil || !room.Controller.My {
			return false
		}
		return room.Controller.Level < m.EarlyUpgradeLevel
	case colony.GuardPopulationShort:
		if run.Room == nil || run.Room.Bindings == nil {
			return false
		}
		return run.Room.Census.Total() <= run.Room.Bindings.HarvestCapacity()
	}
	return false
}

// act performs a world call and turns "not in range" into a move order.
func (m *Machine) act(run *AgentRun, op, targetID string, pos world.Position, style ports.PathStyle, call func() error) (bool, error) {
	err := call()
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, ports.ErrNotInRange) {
		return false, &WorldCallError{Op: op, Creep: run.Creep.Name, Target: targetID, Err: err}
	}
	if err := m.World.MoveTo(run.Creep.Name, pos, style); err != nil {
		return false, &WorldCallError{Op: "move_to", Creep: run.Creep.Name, Target: targetID, Err: err}
	}
	return true, nil
}

// nearestStructure walks the priority groups and returns the nearest
// accepted structure of the first group that has one.
func (m *Machine) nearestStructure(run *AgentRun, groups [][]world.StructureType, accept func(world.Structure) bool) (world.Structure, bool) {
	all := m.World.Structures(run.Creep.Pos.Room)
	for _, group := range groups {
		var candidates []world.Structure
		for _, s := range all {
			if !typeIn(s.Type, group) || !usable(s) || !accept(s) {
				continue
			}
			candidates = append(candidates, s)
		}
		if best, ok := pathing.Nearest(m.Ranker, run.Creep.Pos, candidates, structurePos); ok {
			return best, true
		}
	}
	return world.Structure{}, false
}

// usable reports whether the structure belongs to us. Containers are
// neutral and usable by anyone.
func usable(s world.Structure) bool {
	return s.My || s.Type == world.StructureContainer
}

func typeIn(t world.StructureType, group []world.StructureType) bool {
	for _, g := range group {
		if g == t {
			return true
		}
	}
	return false
}

func structurePos(s world.Structure) world.Position { return s.Pos }
