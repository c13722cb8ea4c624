package colony

import "sort"

// RoomCensus counts live agents per role. CreepMap is the source of truth;
// the counters are derived from it by Recount.
type RoomCensus struct {
	RoomID    string
	Harvester int
	Upgrader  int
	Builder   int
	Porter    int
	Repairer  int
	CreepMap  map[string]Role
}

func NewRoomCensus(roomID string) RoomCensus {
	return RoomCensus{RoomID: roomID, CreepMap: map[string]Role{}}
}

func (c RoomCensus) Count(role Role) int {
	switch role {
	case RoleHarvester:
		return c.Harvester
	case RoleUpgrader:
		return c.Upgrader
	case RoleBuilder:
		return c.Builder
	case RolePorter:
		return c.Porter
	case RoleRepairer:
		return c.Repairer
	}
	return 0
}

func (c RoomCensus) Total() int {
	return c.Harvester + c.Upgrader + c.Builder + c.Porter + c.Repairer
}

func (c *RoomCensus) Add(name string, role Role) {
	if c.CreepMap == nil {
		c.CreepMap = map[string]Role{}
	}
	if prev, ok := c.CreepMap[name]; ok {
		c.adjust(prev, -1)
	}
	c.CreepMap[name] = role
	c.adjust(role, 1)
}

// Recount drops agents that are no longer alive and rebuilds the counters.
func (c *RoomCensus) Recount(alive func(name string) bool) []string {
	var dropped []string
	c.Harvester, c.Upgrader, c.Builder, c.Porter, c.Repairer = 0, 0, 0, 0, 0
	for _, name := range c.Names() {
		if !alive(name) {
			delete(c.CreepMap, name)
			dropped = append(dropped, name)
			continue
		}
		c.adjust(c.CreepMap[name], 1)
	}
	return dropped
}

func (c RoomCensus) Names() []string {
	out := make([]string, 0, len(c.CreepMap))
	for name := range c.CreepMap {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (c *RoomCensus) adjust(role Role, delta int) {
	switch role {
	case RoleHarvester:
		c.Harvester += delta
	case RoleUpgrader:
		c.Upgrader += delta
	case RoleBuilder:
		c.Builder += delta
	case RolePorter:
		c.Porter += delta
	case RoleRepairer:
		c.Repairer += delta
	}
}

// DecideRole walks the role ladder: saturate harvesting capacity, then make
// sure one of every support role exists, then balance.
func DecideRole(c RoomCensus, capacity int) Role {
	switch {
	case c.Harvester < capacity:
		return RoleHarvester
	case c.Porter == 0:
		return RolePorter
	case c.Upgrader == 0:
		return RoleUpgrader
	case c.Builder == 0:
		return RoleBuilder
	case c.Repairer == 0:
		return RoleRepairer
	case c.Porter < c.Harvester:
		return RolePorter
	case c.Builder < 2:
		return RoleBuilder
	case c.Upgrader < 2:
		return RoleUpgrader
	default:
		return RoleRepairer
	}
}

type SpawnGate struct {
	HasController   bool
	ControllerLevel int
	Containers      int
	Capacity        int
	CeilingFactor   int
}

// CanSpawn decides whether the room should commit energy to a new agent.
func CanSpawn(c RoomCensus, g SpawnGate) bool {
	factor := g.CeilingFactor
	if factor <= 0 {
		factor = 5
	}
	ceiling := g.Capacity * factor
	if g.HasController && g.ControllerLevel <= 2 {
		if c.Harvester < g.Capacity {
			return true
		}
		return g.Containers > 0 && c.Total() < ceiling
	}
	return c.Total() < ceiling
}
