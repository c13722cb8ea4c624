package binding

import (
	"errors"
	"log/slog"

	"creepwork/internal/app/pathing"
	"creepwork/internal/app/ports"
	"creepwork/internal/domain/colony"
	"creepwork/internal/domain/world"
)

const DefaultWallRepairThreshold = 10000

// Manager keeps a room's resource node registry in step with the world.
type Manager struct {
	World  ports.World
	Ranker *pathing.Ranker
	// WallRepairThreshold caps the hits a wall or rampart is repaired to.
	WallRepairThreshold int
}

func (m Manager) threshold() int {
	if m.WallRepairThreshold <= 0 {
		return DefaultWallRepairThreshold
	}
	return m.WallRepairThreshold
}

// InitRoom scans the room for energy sources and defensive structures.
func (m Manager) InitRoom(room string) *colony.RoomBindings {
	b := colony.NewRoomBindings(room)
	m.discover(b)
	return b
}

func (m Manager) discover(b *colony.RoomBindings) {
	for _, s := range m.World.Sources(b.RoomID) {
		if _, ok := b.Node(s.ID); ok {
			continue
		}
		b.Put(colony.NewResourceNode(s.ID, colony.NodeSource, colony.SourceCapacity(m.walkableAround(s.Pos)), s.Energy > 0))
	}
	for _, s := range m.World.Structures(b.RoomID) {
		if !s.Type.Defensive() || !s.My {
			continue
		}
		if _, ok := b.Node(s.ID); ok {
			continue
		}
		if m.needsRepair(s) {
			b.Put(colony.NewResourceNode(s.ID, colony.NodeDefense, colony.DefenseCapacity(), true))
		}
	}
}

func (m Manager) walkableAround(pos world.Position) int {
	n := 0
	for _, p := range pos.Neighbors() {
		if m.World.Terrain(p).Walkable() {
			n++
		}
	}
	return n
}

func (m Manager) needsRepair(s world.Structure) bool {
	if s.Type.Defensive() {
		return s.Hits < min(s.HitsMax, m.threshold())
	}
	return s.Damaged()
}

// Refresh drops dead agents, enforces capacity, recomputes workability and
// registers newly damaged defenses.
func (m Manager) Refresh(b *colony.RoomBindings, alive func(agent string) bool) {
	b.Refresh(alive, m.probe)
	m.discover(b)
}

func (m Manager) probe(n *colony.ResourceNode) colony.NodeState {
	switch n.Kind {
	case colony.NodeSource:
		s, err := m.World.Source(n.ID)
		if err != nil {
			return colony.NodeState{}
		}
		return colony.NodeState{Exists: true, Workable: s.Energy > 0}
	case colony.NodeDefense:
		s, err := m.World.Structure(n.ID)
		if err != nil {
			return colony.NodeState{}
		}
		return colony.NodeState{Exists: true, Workable: m.needsRepair(s)}
	}
	return colony.NodeState{}
}

// FindAndBind binds creep to the nearest node of kind it may work. The
// current binding is kept in the candidate set so a bound agent stays put
// unless something else is closer.
func (m Manager) FindAndBind(b *colony.RoomBindings, creep world.Creep, kind colony.NodeKind) (*colony.ResourceNode, bool) {
	if b == nil {
		return nil, false
	}
	type located struct {
		node *colony.ResourceNode
		pos  world.Position
	}
	var candidates []located
	for _, n := range b.Candidates(kind, creep.Name) {
		pos, ok := m.position(n)
		if !ok {
			continue
		}
		candidates = append(candidates, located{node: n, pos: pos})
	}
	best, ok := pathing.Nearest(m.Ranker, creep.Pos, candidates, func(l located) world.Position { return l.pos })
	if !ok {
		return nil, false
	}
	if err := b.Bind(best.node.ID, creep.Name); err != nil {
		slog.Warn("bind resource node failed", "room", b.RoomID, "node", best.node.ID, "creep", creep.Name, "err", err)
		return nil, false
	}
	return best.node, true
}

func (m Manager) position(n *colony.ResourceNode) (world.Position, bool) {
	switch n.Kind {
	case colony.NodeSource:
		s, err := m.World.Source(n.ID)
		if err == nil {
			return s.Pos, true
		}
		if !errors.Is(err, ports.ErrNotFound) {
			slog.Warn("source lookup failed", "node", n.ID, "err", err)
		}
	case colony.NodeDefense:
		s, err := m.World.Structure(n.ID)
		if err == nil {
			return s.Pos, true
		}
		if !errors.Is(err, ports.ErrNotFound) {
			slog.Warn("structure lookup failed", "node", n.ID, "err", err)
		}
	}
	return world.Position{}, false
}

// Release frees every binding creep holds in the room.
func (m Manager) Release(b *colony.RoomBindings, creep string) {
	if b != nil {
		b.Release(creep)
	}
}

// Summary counts bound agents per node for tick reports.
func Summary(b *colony.RoomBindings) map[string]int {
	out := map[string]int{}
	if b == nil {
		return out
	}
	for _, n := range b.Nodes() {
		out[n.ID] = n.Bound.Cardinality()
	}
	return out
}
