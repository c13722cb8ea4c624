package sim

import (
	"fmt"

	opensimplex "github.com/ojrac/opensimplex-go"

	"creepwork/internal/domain/world"
)

type GenerateConfig struct {
	Seed        int64
	Rooms       []string
	StartEnergy int
	// WallThreshold is the normalized noise value above which a tile is a
	// wall. Lower values give denser rooms.
	WallThreshold float64
}

func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Seed:          1,
		Rooms:         []string{"W1N1"},
		StartEnergy:   300,
		WallThreshold: 0.72,
	}
}

// Generate builds a world with one starter base per room: a spawn, a
// level-1 controller and two sources on noise-generated terrain.
func Generate(cfg Config, gen GenerateConfig) (*World, error) {
	if len(gen.Rooms) == 0 {
		return nil, fmt.Errorf("generate: no rooms")
	}
	if gen.WallThreshold <= 0 || gen.WallThreshold >= 1 {
		gen.WallThreshold = DefaultGenerateConfig().WallThreshold
	}
	w := New(cfg)
	noise := opensimplex.NewNormalized(gen.Seed)
	for i, name := range gen.Rooms {
		spawn := world.Position{Room: name, X: 25, Y: 25}
		ctrl := world.Position{Room: name, X: 25, Y: 8}
		sources := []world.Position{
			{Room: name, X: 10, Y: 12},
			{Room: name, X: 40, Y: 38},
		}

		w.AddRoom(name, 1, ctrl)
		offset := float64(i) * 100
		for y := 0; y < world.RoomSize; y++ {
			for x := 0; x < world.RoomSize; x++ {
				pos := world.Position{Room: name, X: x, Y: y}
				w.SetTerrain(pos, terrainAt(noise, offset, x, y, gen.WallThreshold))
			}
		}
		for _, p := range append([]world.Position{ctrl}, sources...) {
			w.carve(p, spawn)
		}

		w.AddStructure(world.StructureSpawn, spawn, gen.StartEnergy)
		for _, p := range sources {
			w.AddSource(p, w.cfg.SourceEnergy)
		}
	}
	return w, nil
}

func terrainAt(noise opensimplex.Noise, offset float64, x, y int, threshold float64) world.Terrain {
	if x == 0 || y == 0 || x == world.RoomSize-1 || y == world.RoomSize-1 {
		return world.TerrainWall
	}
	v := octaveNoise(noise, offset+float64(x), float64(y), 3, 0.08, 0.5)
	switch {
	case v > threshold:
		return world.TerrainWall
	case v > threshold-0.08:
		return world.TerrainSwamp
	default:
		return world.TerrainPlain
	}
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

// carve clears the area around an object and an L-shaped corridor from it
// to the spawn so every base object is reachable.
func (w *World) carve(from, to world.Position) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r := w.rooms[from.Room]
	openTile := func(x, y int) {
		if x > 0 && y > 0 && x < world.RoomSize-1 && y < world.RoomSize-1 {
			r.terrain[y][x] = world.TerrainPlain
		}
	}
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			openTile(from.X+dx, from.Y+dy)
			openTile(to.X+dx, to.Y+dy)
		}
	}
	for x := min(from.X, to.X); x <= max(from.X, to.X); x++ {
		openTile(x, from.Y)
	}
	for y := min(from.Y, to.Y); y <= max(from.Y, to.Y); y++ {
		openTile(to.X, y)
	}
}
