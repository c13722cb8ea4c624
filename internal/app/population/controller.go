package population

import (
	"errors"
	"fmt"
	"log/slog"

	"creepwork/internal/app/ports"
	"creepwork/internal/domain/colony"
	"creepwork/internal/domain/world"
)

const DefaultRole = colony.RoleHarvester

// Controller tracks per-room population and decides what to spawn next.
type Controller struct {
	World         ports.World
	CeilingFactor int
}

// Alive is the liveness filter shared by census and bindings: the agent
// exists and has lifetime left. Agents still spawning count as alive.
func (c Controller) Alive(name string) bool {
	cr, err := c.World.Creep(name)
	if err != nil {
		return false
	}
	return cr.Spawning || cr.TicksToLive > 0
}

// Refresh recounts the census against the live world and returns the
// names that were dropped.
func (c Controller) Refresh(mem *colony.RoomMemory) []string {
	return mem.Census.Recount(c.Alive)
}

// DecideRole picks the role for the next agent of the room.
func (c Controller) DecideRole(mem *colony.RoomMemory) (colony.Role, error) {
	if mem == nil || mem.Bindings == nil {
		return "", ports.ErrRoomNotFound
	}
	return colony.DecideRole(mem.Census, mem.Bindings.HarvestCapacity()), nil
}

// AddAgent registers an agent without usable memory. An unknown room falls
// back to DefaultRole; such an agent is not counted anywhere.
func (c Controller) AddAgent(mem *colony.RoomMemory, name string) colony.Role {
	role, err := c.DecideRole(mem)
	if err != nil {
		if errors.Is(err, ports.ErrRoomNotFound) {
			slog.Warn("agent room not tracked, using default role", "creep", name, "role", DefaultRole)
		}
		return DefaultRole
	}
	mem.Census.Add(name, role)
	return role
}

// CanSpawn applies the spawn gate for the room.
func (c Controller) CanSpawn(mem *colony.RoomMemory) (bool, error) {
	if mem == nil || mem.Bindings == nil {
		return false, ports.ErrRoomNotFound
	}
	room, err := c.World.Room(mem.RoomID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, ports.ErrRoomNotFound
		}
		return false, fmt.Errorf("load room %s: %w", mem.RoomID, err)
	}
	gate := colony.SpawnGate{
		Capacity:      mem.Bindings.HarvestCapacity(),
		CeilingFactor: c.CeilingFactor,
	}
	if room.Controller != nil && room.Controller.My {
		gate.HasController = true
		gate.ControllerLevel = room.Controller.Level
	}
	for _, s := range c.World.Structures(mem.RoomID) {
		if s.Type == world.StructureContainer {
			gate.Containers++
		}
	}
	return colony.CanSpawn(mem.Census, gate), nil
}

// Counts flattens the census for reports.
func Counts(census colony.RoomCensus) map[string]int {
	out := make(map[string]int, len(colony.Roles()))
	for _, r := range colony.Roles() {
		out[string(r)] = census.Count(r)
	}
	return out
}
