package pathing

import (
	"testing"

	"creepwork/internal/adapter/world/sim"
	"creepwork/internal/domain/world"
)

type countingWorld struct {
	*sim.World
	calls int
}

func (w *countingWorld) PathLength(from, to world.Position) (int, bool) {
	w.calls++
	return w.World.PathLength(from, to)
}

func at(x, y int) world.Position { return world.Position{Room: "W1N1", X: x, Y: y} }

func newWorld() *countingWorld {
	w := sim.New(sim.DefaultConfig())
	w.AddRoom("W1N1", 1, at(25, 5))
	return &countingWorld{World: w}
}

func TestRanker_CachesWithinTick(t *testing.T) {
	w := newWorld()
	r, err := NewRanker(w, 0)
	if err != nil {
		t.Fatalf("ranker: %v", err)
	}
	first, ok := r.Length(at(10, 10), at(14, 10))
	if !ok || first != 3 {
		t.Fatalf("expected length 3, got %d %v", first, ok)
	}
	r.Length(at(10, 10), at(14, 10))
	if w.calls != 1 {
		t.Fatalf("expected cached second lookup, got %d calls", w.calls)
	}
	w.Advance()
	r.Length(at(10, 10), at(14, 10))
	if w.calls != 2 {
		t.Fatalf("expected a fresh lookup after the tick moved, got %d calls", w.calls)
	}
}

func TestNearest_UsesPathNotRange(t *testing.T) {
	w := newWorld()
	// Wall column between origin and the close target forces a detour.
	for y := 0; y < world.RoomSize-1; y++ {
		w.SetTerrain(at(12, y), world.TerrainWall)
	}
	r, _ := NewRanker(w, 0)
	candidates := []world.Position{at(14, 10), at(10, 16)}

	got, ok := Nearest(r, at(10, 10), candidates, func(p world.Position) world.Position { return p })
	if !ok || got != at(10, 16) {
		t.Fatalf("expected the reachable-shorter target, got %+v %v", got, ok)
	}
}

func TestNearest_SkipsUnreachable(t *testing.T) {
	w := newWorld()
	for _, n := range at(30, 30).Neighbors() {
		w.SetTerrain(n, world.TerrainWall)
	}
	r, _ := NewRanker(w, 0)
	if _, ok := Nearest(r, at(10, 10), []world.Position{at(30, 30)}, func(p world.Position) world.Position { return p }); ok {
		t.Fatalf("expected no reachable candidate")
	}
}
