package inmemory

import (
	"sync"

	"creepwork/internal/domain/colony"
)

type Snapshot struct {
	Ticks           uint64            `json:"ticks"`
	AgentRuns       uint64            `json:"agent_runs"`
	IdleRuns        uint64            `json:"idle_runs"`
	AgentErrors     uint64            `json:"agent_errors"`
	PersistFailures uint64            `json:"persist_failures"`
	Spawns          uint64            `json:"spawns"`
	ByAction        map[string]uint64 `json:"by_action"`
	RunsByRole      map[string]uint64 `json:"runs_by_role"`
	IdleByRole      map[string]uint64 `json:"idle_by_role"`
	SpawnsByRole    map[string]uint64 `json:"spawns_by_role"`
}

type Recorder struct {
	mu              sync.Mutex
	ticks           uint64
	agentErrors     uint64
	persistFailures uint64
	byAction        map[string]uint64
	runsByRole      map[string]uint64
	idleByRole      map[string]uint64
	spawnsByRole    map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byAction:     map[string]uint64{},
		runsByRole:   map[string]uint64{},
		idleByRole:   map[string]uint64{},
		spawnsByRole: map[string]uint64{},
	}
}

func (r *Recorder) RecordTick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
}

func (r *Recorder) RecordAgentRun(role colony.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runsByRole[string(role)]++
}

func (r *Recorder) RecordAction(action colony.ActionStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byAction[string(action)]++
}

func (r *Recorder) RecordIdle(role colony.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.idleByRole[string(role)]++
}

func (r *Recorder) RecordAgentError() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agentErrors++
}

func (r *Recorder) RecordSpawn(role colony.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spawnsByRole[string(role)]++
}

func (r *Recorder) RecordPersistFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persistFailures++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		Ticks:           r.ticks,
		AgentErrors:     r.agentErrors,
		PersistFailures: r.persistFailures,
		ByAction:        copyCounts(r.byAction),
		RunsByRole:      copyCounts(r.runsByRole),
		IdleByRole:      copyCounts(r.idleByRole),
		SpawnsByRole:    copyCounts(r.spawnsByRole),
	}
	for _, v := range r.runsByRole {
		out.AgentRuns += v
	}
	for _, v := range r.idleByRole {
		out.IdleRuns += v
	}
	for _, v := range r.spawnsByRole {
		out.Spawns += v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
