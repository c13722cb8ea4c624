package ports

import "creepwork/internal/domain/world"

type PathStyle struct {
	Stroke  string
	Opacity float64
}

// World is the host game API. Queries never fail; lookups by id return
// ErrNotFound. Mutations return nil on success, ErrNotInRange when the
// target is too far away, and any other error on failure.
type World interface {
	Time() int64
	Rooms() []world.Room
	Room(name string) (world.Room, error)
	Creeps() []world.Creep
	Creep(name string) (world.Creep, error)
	HostileCreeps(room string) []world.Creep
	Sources(room string) []world.Source
	Source(id string) (world.Source, error)
	Structures(room string) []world.Structure
	Structure(id string) (world.Structure, error)
	ConstructionSites(room string) []world.ConstructionSite
	DroppedResources(room string) []world.DroppedResource
	Tombstones(room string) []world.Tombstone
	Terrain(pos world.Position) world.Terrain
	// PathLength reports false when no route exists.
	PathLength(from, to world.Position) (int, bool)

	Harvest(creep, sourceID string) error
	Pickup(creep, resourceID string) error
	Withdraw(creep, targetID string) error
	Transfer(creep, targetID string) error
	Build(creep, siteID string) error
	Repair(creep, structureID string) error
	UpgradeController(creep, controllerID string) error
	MoveTo(creep string, to world.Position, style PathStyle) error
	Say(creep, text string) error
	TowerAttack(towerID, targetID string) error
	SpawnCreep(spawnID, name string, body []world.BodyPart) error
}
