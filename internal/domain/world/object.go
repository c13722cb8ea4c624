package world

import (
	"errors"
	"fmt"
)

type StructureType string

const (
	StructureSpawn      StructureType = "spawn"
	StructureExtension  StructureType = "extension"
	StructureContainer  StructureType = "container"
	StructureStorage    StructureType = "storage"
	StructureTower      StructureType = "tower"
	StructureWall       StructureType = "constructedWall"
	StructureRampart    StructureType = "rampart"
	StructureRoad       StructureType = "road"
	StructureController StructureType = "controller"
)

// Defensive structures are repaired one agent at a time.
func (t StructureType) Defensive() bool {
	return t == StructureWall || t == StructureRampart
}

type BodyPart string

const (
	PartMove  BodyPart = "move"
	PartWork  BodyPart = "work"
	PartCarry BodyPart = "carry"
)

var partCost = map[BodyPart]int{
	PartMove:  50,
	PartWork:  100,
	PartCarry: 50,
}

var ErrUnknownBodyPart = errors.New("unknown body part")

func ParseBodyPart(s string) (BodyPart, error) {
	p := BodyPart(s)
	if _, ok := partCost[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownBodyPart, s)
	}
	return p, nil
}

func BodyCost(body []BodyPart) int {
	total := 0
	for _, p := range body {
		total += partCost[p]
	}
	return total
}

type Store struct {
	Used     int `json:"used"`
	Capacity int `json:"capacity"`
}

func (s Store) Free() int {
	if s.Capacity <= s.Used {
		return 0
	}
	return s.Capacity - s.Used
}

type Creep struct {
	ID          string
	Name        string
	Pos         Position
	My          bool
	Spawning    bool
	Fatigue     int
	TicksToLive int
	Hits        int
	HitsMax     int
	Store       Store
	Body        []BodyPart
}

// Parts counts the body parts of the given type.
func (c Creep) Parts(part BodyPart) int {
	n := 0
	for _, p := range c.Body {
		if p == part {
			n++
		}
	}
	return n
}

type Source struct {
	ID             string
	Pos            Position
	Energy         int
	EnergyCapacity int
}

type Structure struct {
	ID      string
	Type    StructureType
	Pos     Position
	My      bool
	Hits    int
	HitsMax int
	// HasStore is false for walls, ramparts and roads.
	HasStore bool
	Store    Store
}

func (s Structure) Damaged() bool {
	return s.Hits < s.HitsMax
}

type Controller struct {
	ID            string
	Pos           Position
	My            bool
	Level         int
	Progress      int
	ProgressTotal int
}

type ConstructionSite struct {
	ID            string
	Type          StructureType
	Pos           Position
	Progress      int
	ProgressTotal int
}

type DroppedResource struct {
	ID     string
	Pos    Position
	Amount int
}

type Tombstone struct {
	ID    string
	Pos   Position
	Store Store
}

type Room struct {
	Name                    string
	Controller              *Controller
	EnergyAvailable         int
	EnergyCapacityAvailable int
}

var ErrInvalidObject = errors.New("invalid world object")

func (s Structure) Validate() error {
	if s.ID == "" || s.Type == "" || s.Hits < 0 || s.HitsMax < 0 {
		return ErrInvalidObject
	}
	return nil
}
