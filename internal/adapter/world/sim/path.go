package sim

import "creepwork/internal/domain/world"

// findPathLocked runs a breadth-first search from origin until it reaches
// a tile within range 1 of target. The returned path excludes origin.
func (w *World) findPathLocked(from, to world.Position) ([]world.Position, bool) {
	if from.Room != to.Room {
		return nil, false
	}
	if _, ok := w.rooms[from.Room]; !ok {
		return nil, false
	}
	if from.InRangeTo(to, 1) {
		return nil, true
	}
	blocked := w.obstaclesLocked(from.Room)

	type cell struct{ x, y int }
	start := cell{from.X, from.Y}
	prev := map[cell]cell{start: start}
	queue := []cell{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		pos := world.Position{Room: from.Room, X: cur.x, Y: cur.y}
		if pos.InRangeTo(to, 1) {
			var path []world.Position
			for c := cur; c != start; c = prev[c] {
				path = append(path, world.Position{Room: from.Room, X: c.x, Y: c.y})
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, true
		}
		for _, n := range pos.Neighbors() {
			c := cell{n.X, n.Y}
			if _, seen := prev[c]; seen {
				continue
			}
			if blocked[c.y][c.x] {
				continue
			}
			prev[c] = cur
			queue = append(queue, c)
		}
	}
	return nil, false
}

func (w *World) obstaclesLocked(room string) *[world.RoomSize][world.RoomSize]bool {
	var blocked [world.RoomSize][world.RoomSize]bool
	r := w.rooms[room]
	for y := 0; y < world.RoomSize; y++ {
		for x := 0; x < world.RoomSize; x++ {
			blocked[y][x] = !r.terrain[y][x].Walkable()
		}
	}
	for _, s := range w.sources {
		if s.Pos.Room == room {
			blocked[s.Pos.Y][s.Pos.X] = true
		}
	}
	for _, s := range w.structures {
		if s.Pos.Room != room {
			continue
		}
		switch s.Type {
		case world.StructureRoad, world.StructureContainer, world.StructureRampart:
		default:
			blocked[s.Pos.Y][s.Pos.X] = true
		}
	}
	if r.controller != nil {
		blocked[r.controller.Pos.Y][r.controller.Pos.X] = true
	}
	return &blocked
}
