package colony

import (
	"errors"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

type NodeKind string

const (
	NodeSource  NodeKind = "source"
	NodeDefense NodeKind = "defense"
)

const (
	maxSourceWorkers  = 2
	defenseNodeWorker = 1
)

var (
	ErrNodeNotFound    = errors.New("resource node not found")
	ErrNodeUnavailable = errors.New("resource node unavailable")
)

// SourceCapacity caps the number of walkable tiles around a source.
func SourceCapacity(walkableNeighbors int) int {
	if walkableNeighbors > maxSourceWorkers {
		return maxSourceWorkers
	}
	if walkableNeighbors < 0 {
		return 0
	}
	return walkableNeighbors
}

func DefenseCapacity() int { return defenseNodeWorker }

type ResourceNode struct {
	ID            string
	Kind          NodeKind
	MaxConcurrent int
	Workable      bool
	Bound         mapset.Set[string]
}

func NewResourceNode(id string, kind NodeKind, maxConcurrent int, workable bool) *ResourceNode {
	return &ResourceNode{
		ID:            id,
		Kind:          kind,
		MaxConcurrent: maxConcurrent,
		Workable:      workable,
		Bound:         mapset.NewThreadUnsafeSet[string](),
	}
}

// CanWork reports whether agent may work the node: it must be workable and
// either have a free slot or already hold the agent.
func (n *ResourceNode) CanWork(agent string) bool {
	if !n.Workable {
		return false
	}
	if n.Bound.Contains(agent) {
		return true
	}
	return n.Bound.Cardinality() < n.MaxConcurrent
}

// BoundAgents returns the bound agent names in sorted order.
func (n *ResourceNode) BoundAgents() []string {
	out := n.Bound.ToSlice()
	sort.Strings(out)
	return out
}

// SetWorkable flips the node; an unworkable node loses every binding.
func (n *ResourceNode) SetWorkable(workable bool) {
	n.Workable = workable
	if !workable {
		n.Bound.Clear()
	}
}

// truncate drops agents past capacity, keeping the lowest names.
func (n *ResourceNode) truncate() []string {
	if n.Bound.Cardinality() <= n.MaxConcurrent {
		return nil
	}
	names := n.BoundAgents()
	keep := n.MaxConcurrent
	if keep < 0 {
		keep = 0
	}
	dropped := names[keep:]
	for _, name := range dropped {
		n.Bound.Remove(name)
	}
	return dropped
}

// RoomBindings is the per-room node registry. Nodes keep the order in which
// they were discovered.
type RoomBindings struct {
	RoomID string
	order  []string
	nodes  map[string]*ResourceNode
}

func NewRoomBindings(roomID string) *RoomBindings {
	return &RoomBindings{RoomID: roomID, nodes: map[string]*ResourceNode{}}
}

func (b *RoomBindings) Put(n *ResourceNode) {
	if _, ok := b.nodes[n.ID]; !ok {
		b.order = append(b.order, n.ID)
	}
	b.nodes[n.ID] = n
}

func (b *RoomBindings) Node(id string) (*ResourceNode, bool) {
	n, ok := b.nodes[id]
	return n, ok
}

func (b *RoomBindings) Remove(id string) {
	if _, ok := b.nodes[id]; !ok {
		return
	}
	delete(b.nodes, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Nodes returns every node in discovery order.
func (b *RoomBindings) Nodes() []*ResourceNode {
	out := make([]*ResourceNode, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.nodes[id])
	}
	return out
}

func (b *RoomBindings) NodesOf(kind NodeKind) []*ResourceNode {
	var out []*ResourceNode
	for _, id := range b.order {
		if n := b.nodes[id]; n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Candidates lists the nodes of kind that agent could bind to.
func (b *RoomBindings) Candidates(kind NodeKind, agent string) []*ResourceNode {
	var out []*ResourceNode
	for _, n := range b.NodesOf(kind) {
		if n.CanWork(agent) {
			out = append(out, n)
		}
	}
	return out
}

// Bind puts agent on the node and takes it off every other node.
func (b *RoomBindings) Bind(nodeID, agent string) error {
	n, ok := b.nodes[nodeID]
	if !ok {
		return ErrNodeNotFound
	}
	if !n.CanWork(agent) {
		return ErrNodeUnavailable
	}
	for _, other := range b.nodes {
		if other.ID != nodeID {
			other.Bound.Remove(agent)
		}
	}
	n.Bound.Add(agent)
	return nil
}

func (b *RoomBindings) Release(agent string) {
	for _, n := range b.nodes {
		n.Bound.Remove(agent)
	}
}

// BoundNode returns the node agent is bound to, if any.
func (b *RoomBindings) BoundNode(agent string) (*ResourceNode, bool) {
	for _, id := range b.order {
		if n := b.nodes[id]; n.Bound.Contains(agent) {
			return n, true
		}
	}
	return nil, false
}

// HarvestCapacity is the total worker capacity of the room's energy sources.
func (b *RoomBindings) HarvestCapacity() int {
	total := 0
	for _, n := range b.NodesOf(NodeSource) {
		total += n.MaxConcurrent
	}
	return total
}

// NodeState is the live view of a node used by Refresh.
type NodeState struct {
	Exists   bool
	Workable bool
}

// Refresh drops dead agents, recomputes workability and enforces capacity.
// Nodes that no longer exist are removed. An agent listed under several
// nodes keeps only the first one in discovery order.
func (b *RoomBindings) Refresh(alive func(agent string) bool, probe func(n *ResourceNode) NodeState) {
	seen := map[string]struct{}{}
	for _, n := range b.Nodes() {
		st := probe(n)
		if !st.Exists {
			b.Remove(n.ID)
			continue
		}
		n.SetWorkable(st.Workable)
		for _, agent := range n.BoundAgents() {
			if _, dup := seen[agent]; dup || !alive(agent) {
				n.Bound.Remove(agent)
			}
		}
		n.truncate()
		for _, agent := range n.BoundAgents() {
			seen[agent] = struct{}{}
		}
	}
}
