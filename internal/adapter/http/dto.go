package httpadapter

import (
	"creepwork/internal/app/binding"
	"creepwork/internal/app/population"
	"creepwork/internal/domain/colony"
)

type creepMemoryResponse struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
	Action string `json:"action"`
	Cargo  string `json:"cargo"`
}

type nodeView struct {
	ID            string   `json:"id"`
	Kind          string   `json:"kind"`
	MaxConcurrent int      `json:"max_concurrent"`
	Workable      bool     `json:"workable"`
	BoundAgents   []string `json:"bound_agents"`
}

type roomMemoryResponse struct {
	RoomID          string            `json:"room_id"`
	Census          map[string]int    `json:"census"`
	Creeps          map[string]string `json:"creeps"`
	HarvestCapacity int               `json:"harvest_capacity"`
	Bindings        map[string]int    `json:"bindings"`
	Nodes           []nodeView        `json:"nodes"`
}

func toCreepResponse(ac colony.AgentContext) creepMemoryResponse {
	return creepMemoryResponse{
		Name:   ac.Name,
		Role:   string(ac.Role),
		Status: string(ac.Status),
		Action: string(ac.Action),
		Cargo:  string(ac.Cargo),
	}
}

func toRoomResponse(mem colony.RoomMemory) roomMemoryResponse {
	resp := roomMemoryResponse{
		RoomID:   mem.RoomID,
		Census:   population.Counts(mem.Census),
		Creeps:   make(map[string]string, len(mem.Census.CreepMap)),
		Bindings: binding.Summary(mem.Bindings),
		Nodes:    []nodeView{},
	}
	for name, role := range mem.Census.CreepMap {
		resp.Creeps[name] = string(role)
	}
	if mem.Bindings == nil {
		return resp
	}
	resp.HarvestCapacity = mem.Bindings.HarvestCapacity()
	for _, n := range mem.Bindings.Nodes() {
		resp.Nodes = append(resp.Nodes, nodeView{
			ID:            n.ID,
			Kind:          string(n.Kind),
			MaxConcurrent: n.MaxConcurrent,
			Workable:      n.Workable,
			BoundAgents:   n.BoundAgents(),
		})
	}
	return resp
}
