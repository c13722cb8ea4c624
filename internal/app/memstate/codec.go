package memstate

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"creepwork/internal/domain/colony"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var ErrMalformed = errors.New("malformed memory")

const (
	creepSchema = "creep.schema.json"
	roomSchema  = "room.schema.json"
)

// Codec encodes agent and room memory as JSON. Decoding validates the slot
// against its schema first so a corrupted slot is rejected as a whole.
type Codec struct {
	creep *jsonschema.Schema
	room  *jsonschema.Schema
}

func NewCodec() (*Codec, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7
	for _, name := range []string{creepSchema, roomSchema} {
		raw, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		if err := c.AddResource(name, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}
	creep, err := c.Compile(creepSchema)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", creepSchema, err)
	}
	room, err := c.Compile(roomSchema)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", roomSchema, err)
	}
	return &Codec{creep: creep, room: room}, nil
}

type creepRecord struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
	Action string `json:"action"`
	Cargo  string `json:"cargo"`
}

type censusRecord struct {
	RoomID    string            `json:"room_id"`
	Harvester int               `json:"harvester"`
	Upgrader  int               `json:"upgrader"`
	Builder   int               `json:"builder"`
	Porter    int               `json:"porter"`
	Repairer  int               `json:"repairer"`
	CreepMap  map[string]string `json:"creep_map"`
}

type nodeRecord struct {
	ID            string   `json:"id"`
	Kind          string   `json:"kind"`
	MaxConcurrent int      `json:"max_concurrent"`
	BoundAgents   []string `json:"bound_agents"`
	Workable      bool     `json:"workable"`
}

type bindingsRecord struct {
	RoomID string       `json:"room_id"`
	Nodes  []nodeRecord `json:"nodes"`
}

type roomRecord struct {
	RoomID   string         `json:"room_id"`
	Census   censusRecord   `json:"census"`
	Bindings bindingsRecord `json:"bindings"`
}

func (c *Codec) EncodeCreep(ac colony.AgentContext) (string, error) {
	raw, err := json.Marshal(creepRecord{
		Name:   ac.Name,
		Role:   string(ac.Role),
		Status: string(ac.Status),
		Action: string(ac.Action),
		Cargo:  string(ac.Cargo),
	})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (c *Codec) DecodeCreep(raw string) (colony.AgentContext, error) {
	var rec creepRecord
	if err := c.decode(c.creep, raw, &rec); err != nil {
		return colony.AgentContext{}, err
	}
	role, err := colony.ParseRole(rec.Role)
	if err != nil {
		return colony.AgentContext{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return colony.AgentContext{
		Name:   rec.Name,
		Role:   role,
		Status: colony.WorkStatus(rec.Status),
		Action: colony.ActionStatus(rec.Action),
		Cargo:  colony.CargoStatus(rec.Cargo),
	}, nil
}

func (c *Codec) EncodeRoom(m colony.RoomMemory) (string, error) {
	rec := roomRecord{
		RoomID: m.RoomID,
		Census: censusRecord{
			RoomID:    m.Census.RoomID,
			Harvester: m.Census.Harvester,
			Upgrader:  m.Census.Upgrader,
			Builder:   m.Census.Builder,
			Porter:    m.Census.Porter,
			Repairer:  m.Census.Repairer,
			CreepMap:  map[string]string{},
		},
		Bindings: bindingsRecord{RoomID: m.RoomID, Nodes: []nodeRecord{}},
	}
	for name, role := range m.Census.CreepMap {
		rec.Census.CreepMap[name] = string(role)
	}
	if m.Bindings != nil {
		rec.Bindings.RoomID = m.Bindings.RoomID
		for _, n := range m.Bindings.Nodes() {
			rec.Bindings.Nodes = append(rec.Bindings.Nodes, nodeRecord{
				ID:            n.ID,
				Kind:          string(n.Kind),
				MaxConcurrent: n.MaxConcurrent,
				BoundAgents:   n.BoundAgents(),
				Workable:      n.Workable,
			})
		}
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (c *Codec) DecodeRoom(raw string) (colony.RoomMemory, error) {
	var rec roomRecord
	if err := c.decode(c.room, raw, &rec); err != nil {
		return colony.RoomMemory{}, err
	}
	census := colony.RoomCensus{
		RoomID:    rec.Census.RoomID,
		Harvester: rec.Census.Harvester,
		Upgrader:  rec.Census.Upgrader,
		Builder:   rec.Census.Builder,
		Porter:    rec.Census.Porter,
		Repairer:  rec.Census.Repairer,
		CreepMap:  make(map[string]colony.Role, len(rec.Census.CreepMap)),
	}
	for name, role := range rec.Census.CreepMap {
		census.CreepMap[name] = colony.Role(role)
	}
	bindings := colony.NewRoomBindings(rec.Bindings.RoomID)
	for _, nr := range rec.Bindings.Nodes {
		n := colony.NewResourceNode(nr.ID, colony.NodeKind(nr.Kind), nr.MaxConcurrent, nr.Workable)
		for _, agent := range nr.BoundAgents {
			n.Bound.Add(agent)
		}
		n.SetWorkable(nr.Workable)
		bindings.Put(n)
	}
	return colony.RoomMemory{RoomID: rec.RoomID, Census: census, Bindings: bindings}, nil
}

func (c *Codec) decode(schema *jsonschema.Schema, raw string, out any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
