package population

import (
	"errors"
	"testing"

	"creepwork/internal/adapter/world/sim"
	"creepwork/internal/app/ports"
	"creepwork/internal/domain/colony"
	"creepwork/internal/domain/world"
)

var body = []world.BodyPart{world.PartMove, world.PartMove, world.PartCarry, world.PartWork}

func at(x, y int) world.Position {
	return world.Position{Room: "W1N1", X: x, Y: y}
}

func roomWithCapacity(capacity int) *colony.RoomMemory {
	m := colony.NewRoomMemory("W1N1")
	m.Bindings.Put(colony.NewResourceNode("s", colony.NodeSource, capacity, true))
	return &m
}

func TestAddAgent_FollowsLadder(t *testing.T) {
	c := Controller{World: sim.New(sim.DefaultConfig())}
	mem := roomWithCapacity(2)
	want := []colony.Role{
		colony.RoleHarvester, colony.RoleHarvester,
		colony.RolePorter, colony.RoleUpgrader, colony.RoleBuilder, colony.RoleRepairer,
		colony.RolePorter, colony.RoleBuilder, colony.RoleUpgrader, colony.RoleRepairer,
	}
	for i, role := range want {
		got := c.AddAgent(mem, string(rune('a'+i)))
		if got != role {
			t.Fatalf("agent %d: expected %s, got %s", i, role, got)
		}
	}
	if mem.Census.Total() != len(want) {
		t.Fatalf("expected %d counted agents, got %d", len(want), mem.Census.Total())
	}
}

func TestAddAgent_UnknownRoomFallsBack(t *testing.T) {
	c := Controller{World: sim.New(sim.DefaultConfig())}
	if got := c.AddAgent(nil, "x"); got != DefaultRole {
		t.Fatalf("expected default role, got %s", got)
	}
	if _, err := c.DecideRole(nil); !errors.Is(err, ports.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestRefresh_DropsDeadAgents(t *testing.T) {
	w := sim.New(sim.DefaultConfig())
	w.AddRoom("W1N1", 1, at(25, 5))
	w.AddCreep("alive", at(10, 10), body, 0)
	w.AddCreep("old", at(11, 10), body, 0)
	w.SetTicksToLive("old", 0)

	c := Controller{World: w}
	mem := roomWithCapacity(2)
	mem.Census.Add("alive", colony.RoleHarvester)
	mem.Census.Add("old", colony.RoleHarvester)
	mem.Census.Add("gone", colony.RolePorter)

	dropped := c.Refresh(mem)
	if len(dropped) != 2 {
		t.Fatalf("expected 2 dropped agents, got %v", dropped)
	}
	if mem.Census.Harvester != 1 || mem.Census.Porter != 0 {
		t.Fatalf("expected 1 harvester and no porter, got %+v", mem.Census)
	}
}

func TestCanSpawn_UsesRoomState(t *testing.T) {
	w := sim.New(sim.DefaultConfig())
	w.AddRoom("W1N1", 1, at(25, 5))
	c := Controller{World: w}
	mem := roomWithCapacity(1)

	ok, err := c.CanSpawn(mem)
	if err != nil || !ok {
		t.Fatalf("expected spawn allowed below capacity, got %v %v", ok, err)
	}

	mem.Census.Add("h", colony.RoleHarvester)
	ok, _ = c.CanSpawn(mem)
	if ok {
		t.Fatalf("expected early room without container to hold")
	}

	w.AddStructure(world.StructureContainer, at(12, 12), 0)
	ok, _ = c.CanSpawn(mem)
	if !ok {
		t.Fatalf("expected container to unlock support spawns")
	}
}

func TestCanSpawn_MissingRoom(t *testing.T) {
	c := Controller{World: sim.New(sim.DefaultConfig())}
	mem := roomWithCapacity(1)
	if _, err := c.CanSpawn(mem); !errors.Is(err, ports.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestCounts_AllRoles(t *testing.T) {
	census := colony.NewRoomCensus("W1N1")
	census.Add("a", colony.RoleBuilder)
	got := Counts(census)
	if len(got) != 5 || got["builder"] != 1 || got["harvester"] != 0 {
		t.Fatalf("unexpected counts %v", got)
	}
}
