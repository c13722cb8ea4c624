package colony

import (
	"fmt"

	"creepwork/internal/domain/world"
)

// Guard is an extra condition a work-line step needs before it is tried.
type Guard string

const (
	GuardNone Guard = ""
	// GuardEarlyController holds while the room controller is below the
	// early-upgrade level.
	GuardEarlyController Guard = "early_controller"
	// GuardPopulationShort holds while the room population is at most the
	// harvesting capacity.
	GuardPopulationShort Guard = "population_short"
)

// Step is one entry of a work line. Targets lists structure types in
// priority groups; within a group the nearest candidate wins.
type Step struct {
	Action  ActionStatus
	Targets [][]world.StructureType
	Guard   Guard
}

type WorkLine []Step

var (
	containersOnly = [][]world.StructureType{{world.StructureContainer}}
	anyStore       = [][]world.StructureType{{world.StructureStorage, world.StructureContainer}}
	feedSpawn      = [][]world.StructureType{{world.StructureSpawn, world.StructureExtension}}
	deliver        = [][]world.StructureType{
		{world.StructureSpawn, world.StructureExtension},
		{world.StructureTower},
		{world.StructureStorage},
	}
	storageOnly    = [][]world.StructureType{{world.StructureStorage}}
	repairPriority = [][]world.StructureType{
		{world.StructureTower},
		{world.StructureStorage},
		{world.StructureContainer},
		{world.StructureExtension},
		{world.StructureWall, world.StructureRampart},
		{world.StructureRoad},
	}
)

func capabilityRegistry() map[Role]WorkLine {
	return map[Role]WorkLine{
		RoleHarvester: {
			{Action: ActionHarvesting},
			{Action: ActionCarryUp, Targets: containersOnly},
			{Action: ActionUpgrade, Guard: GuardEarlyController},
			{Action: ActionCarryDown, Targets: feedSpawn, Guard: GuardPopulationShort},
			{Action: ActionCarryDown, Targets: containersOnly},
			{Action: ActionBuilding},
			{Action: ActionUpgrade},
		},
		RolePorter: {
			{Action: ActionPickUp},
			{Action: ActionCarryUp, Targets: containersOnly},
			{Action: ActionHarvesting},
			{Action: ActionCarryDown, Targets: deliver},
			{Action: ActionBuilding},
			{Action: ActionUpgrade},
		},
		RoleBuilder: {
			{Action: ActionCarryUp, Targets: anyStore},
			{Action: ActionBuilding},
			{Action: ActionCarryDown, Targets: storageOnly},
			{Action: ActionUpgrade},
		},
		RoleUpgrader: {
			{Action: ActionCarryUp, Targets: anyStore},
			{Action: ActionHarvesting},
			{Action: ActionUpgrade},
			{Action: ActionBuilding},
		},
		RoleRepairer: {
			{Action: ActionCarryUp, Targets: anyStore},
			{Action: ActionRepair, Targets: repairPriority},
			{Action: ActionBuilding},
			{Action: ActionUpgrade},
		},
	}
}

func WorkLineFor(role Role) (WorkLine, error) {
	line, ok := capabilityRegistry()[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return line, nil
}

// Has reports whether the action appears in the work line.
func (l WorkLine) Has(action ActionStatus) bool {
	for _, s := range l {
		if s.Action == action {
			return true
		}
	}
	return false
}
