package creep

import (
	"testing"

	"creepwork/internal/adapter/world/sim"
	"creepwork/internal/app/binding"
	"creepwork/internal/app/pathing"
	"creepwork/internal/app/ports"
	"creepwork/internal/domain/colony"
	"creepwork/internal/domain/world"
)

const testRoom = "W1N1"

var workerBody = []world.BodyPart{world.PartMove, world.PartMove, world.PartCarry, world.PartWork}

func at(x, y int) world.Position {
	return world.Position{Room: testRoom, X: x, Y: y}
}

func newTestWorld(controllerLevel int) *sim.World {
	w := sim.New(sim.DefaultConfig())
	w.AddRoom(testRoom, controllerLevel, at(25, 5))
	return w
}

type harness struct {
	world   ports.World
	machine *Machine
	room    *colony.RoomMemory
}

func newHarness(t *testing.T, w ports.World) *harness {
	t.Helper()
	ranker, err := pathing.NewRanker(w, 0)
	if err != nil {
		t.Fatalf("ranker: %v", err)
	}
	binder := binding.Manager{World: w, Ranker: ranker}
	mem := colony.NewRoomMemory(testRoom)
	mem.Bindings = binder.InitRoom(testRoom)
	return &harness{
		world:   w,
		machine: NewMachine(w, ranker, binder, 0),
		room:    &mem,
	}
}

func (h *harness) run(t *testing.T, ac *colony.AgentContext) (Outcome, error) {
	t.Helper()
	c, err := h.world.Creep(ac.Name)
	if err != nil {
		t.Fatalf("creep %s: %v", ac.Name, err)
	}
	return h.machine.Run(&AgentRun{Creep: c, Context: ac, Room: h.room})
}

func newContext(name string, role colony.Role) *colony.AgentContext {
	ac := colony.NewAgentContext(name, role, colony.CargoEmpty)
	return &ac
}

// failingWorld fails every harvest with a fixed error.
type failingWorld struct {
	*sim.World
	err error
}

func (w failingWorld) Harvest(string, string) error {
	return w.err
}
