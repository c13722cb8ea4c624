package structure

import (
	"creepwork/internal/app/ports"
	"creepwork/internal/domain/world"
)

type TowerResult struct {
	TowerID  string
	TargetID string
	Err      error
}

// Towers drives owned towers: each attacks the hostile closest by range.
type Towers struct {
	World ports.World
}

// Run returns one result per tower that had a target. A room without
// hostiles yields no results.
func (t Towers) Run(room string) []TowerResult {
	hostiles := t.World.HostileCreeps(room)
	if len(hostiles) == 0 {
		return nil
	}
	var out []TowerResult
	for _, s := range t.World.Structures(room) {
		if s.Type != world.StructureTower || !s.My {
			continue
		}
		target, ok := closestByRange(s.Pos, hostiles)
		if !ok {
			continue
		}
		out = append(out, TowerResult{
			TowerID:  s.ID,
			TargetID: target.ID,
			Err:      t.World.TowerAttack(s.ID, target.ID),
		})
	}
	return out
}

func closestByRange(from world.Position, creeps []world.Creep) (world.Creep, bool) {
	var (
		best  world.Creep
		bestR int
		found bool
	)
	for _, c := range creeps {
		r := from.RangeTo(c.Pos)
		if !found || r < bestR {
			best, bestR, found = c, r, true
		}
	}
	return best, found
}
