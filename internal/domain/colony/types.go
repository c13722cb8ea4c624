package colony

import (
	"errors"
	"fmt"
)

type Role string

const (
	RoleHarvester Role = "harvester"
	RoleUpgrader  Role = "upgrader"
	RoleBuilder   Role = "builder"
	RolePorter    Role = "porter"
	RoleRepairer  Role = "repairer"
)

var ErrUnknownRole = errors.New("unknown role")

func Roles() []Role {
	return []Role{RoleHarvester, RoleUpgrader, RoleBuilder, RolePorter, RoleRepairer}
}

func ParseRole(s string) (Role, error) {
	for _, r := range Roles() {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// WorkStatus is the coarse gather/spend phase of an agent.
type WorkStatus string

const (
	StatusUnset          WorkStatus = ""
	StatusFindEnergy     WorkStatus = "find_energy"
	StatusUseEnergy      WorkStatus = "use_energy"
	StatusSourceNotFound WorkStatus = "source_not_found"
)

func (s WorkStatus) Known() bool {
	return s == StatusFindEnergy || s == StatusUseEnergy || s == StatusSourceNotFound
}

// ActionStatus records the primitive that produced an effect this tick.
type ActionStatus string

const (
	ActionNoWork     ActionStatus = "no_work"
	ActionHarvesting ActionStatus = "harvesting"
	ActionBuilding   ActionStatus = "building"
	ActionPickUp     ActionStatus = "pick_up"
	ActionCarryUp    ActionStatus = "carry_up"
	ActionCarryDown  ActionStatus = "carry_down"
	ActionUpgrade    ActionStatus = "upgrade"
	ActionRepair     ActionStatus = "repair"
)

var actionLabels = map[ActionStatus]string{
	ActionNoWork:     "💤idle",
	ActionHarvesting: "🔄harvest",
	ActionBuilding:   "🚧build",
	ActionPickUp:     "🧲pickup",
	ActionCarryUp:    "♋carryUp",
	ActionCarryDown:  "♒carryDown",
	ActionUpgrade:    "⚡upgrade",
	ActionRepair:     "🔧repair",
}

// Label is the short text an agent says for the action.
func (a ActionStatus) Label() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}

// Gathers reports whether the action fills cargo.
func (a ActionStatus) Gathers() bool {
	return a == ActionHarvesting || a == ActionPickUp || a == ActionCarryUp
}

// Spends reports whether the action empties cargo.
func (a ActionStatus) Spends() bool {
	return a == ActionBuilding || a == ActionCarryDown || a == ActionUpgrade || a == ActionRepair
}

// HoldsNode reports whether the action keeps a resource node binding alive.
func (a ActionStatus) HoldsNode() bool {
	return a == ActionHarvesting || a == ActionRepair
}

type CargoStatus string

const (
	CargoEmpty     CargoStatus = "empty"
	CargoUnderFill CargoStatus = "under_fill"
	CargoFull      CargoStatus = "full"
)

func CargoStatusOf(used, free int) CargoStatus {
	if free == 0 {
		return CargoFull
	}
	if used > 0 {
		return CargoUnderFill
	}
	return CargoEmpty
}
