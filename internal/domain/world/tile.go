package world

type Terrain string

const (
	TerrainPlain Terrain = "plain"
	TerrainSwamp Terrain = "swamp"
	TerrainWall  Terrain = "wall"
)

func (t Terrain) Walkable() bool {
	return t != TerrainWall
}

// Room edges are exclusive: valid coordinates are 0..RoomSize-1.
const RoomSize = 50

type Position struct {
	Room string `json:"room"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (p Position) InBounds() bool {
	return p.X >= 0 && p.Y >= 0 && p.X < RoomSize && p.Y < RoomSize
}

// RangeTo is the chessboard distance within one room. Positions in different
// rooms are treated as unreachable by range.
func (p Position) RangeTo(o Position) int {
	if p.Room != o.Room {
		return RoomSize * 2
	}
	dx := abs(p.X - o.X)
	dy := abs(p.Y - o.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func (p Position) InRangeTo(o Position, r int) bool {
	return p.RangeTo(o) <= r
}

func (p Position) Neighbors() []Position {
	out := make([]Position, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := Position{Room: p.Room, X: p.X + dx, Y: p.Y + dy}
			if n.InBounds() {
				out = append(out, n)
			}
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
