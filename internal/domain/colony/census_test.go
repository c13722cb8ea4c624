package colony

import "testing"

func censusOf(h, p, u, b, r int) RoomCensus {
	return RoomCensus{Harvester: h, Porter: p, Upgrader: u, Builder: b, Repairer: r}
}

func TestDecideRole_Ladder(t *testing.T) {
	cases := []struct {
		name   string
		census RoomCensus
		want   Role
	}{
		{name: "empty room", census: censusOf(0, 0, 0, 0, 0), want: RoleHarvester},
		{name: "harvesting saturated", census: censusOf(2, 0, 0, 0, 0), want: RolePorter},
		{name: "needs upgrader", census: censusOf(2, 1, 0, 0, 0), want: RoleUpgrader},
		{name: "needs builder", census: censusOf(2, 1, 1, 0, 0), want: RoleBuilder},
		{name: "needs repairer", census: censusOf(2, 1, 1, 1, 0), want: RoleRepairer},
		{name: "balance porters", census: censusOf(2, 1, 1, 1, 1), want: RolePorter},
		{name: "second builder", census: censusOf(2, 2, 1, 1, 1), want: RoleBuilder},
		{name: "second upgrader", census: censusOf(2, 2, 1, 2, 1), want: RoleUpgrader},
		{name: "fallback repairer", census: censusOf(2, 2, 2, 2, 1), want: RoleRepairer},
	}
	for _, tc := range cases {
		if got := DecideRole(tc.census, 2); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestCanSpawn(t *testing.T) {
	cases := []struct {
		name   string
		census RoomCensus
		gate   SpawnGate
		want   bool
	}{
		{
			name:   "low level under harvest capacity",
			census: censusOf(1, 0, 0, 0, 0),
			gate:   SpawnGate{HasController: true, ControllerLevel: 1, Capacity: 2},
			want:   true,
		},
		{
			name:   "low level saturated without containers",
			census: censusOf(2, 0, 0, 0, 0),
			gate:   SpawnGate{HasController: true, ControllerLevel: 2, Capacity: 2},
			want:   false,
		},
		{
			name:   "low level saturated with container",
			census: censusOf(2, 0, 0, 0, 0),
			gate:   SpawnGate{HasController: true, ControllerLevel: 2, Capacity: 2, Containers: 1},
			want:   true,
		},
		{
			name:   "low level at ceiling",
			census: censusOf(2, 2, 2, 2, 2),
			gate:   SpawnGate{HasController: true, ControllerLevel: 2, Capacity: 2, Containers: 1},
			want:   false,
		},
		{
			name:   "high level below ceiling",
			census: censusOf(2, 2, 2, 2, 1),
			gate:   SpawnGate{HasController: true, ControllerLevel: 4, Capacity: 2},
			want:   true,
		},
		{
			name:   "no controller at ceiling",
			census: censusOf(4, 2, 2, 1, 1),
			gate:   SpawnGate{Capacity: 2},
			want:   false,
		},
	}
	for _, tc := range cases {
		if got := CanSpawn(tc.census, tc.gate); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestRoomCensus_AddAndRecount(t *testing.T) {
	c := NewRoomCensus("W1N1")
	c.Add("a", RoleHarvester)
	c.Add("b", RolePorter)
	c.Add("c", RoleHarvester)
	c.Add("c", RoleHarvester)
	if c.Harvester != 2 || c.Porter != 1 {
		t.Fatalf("expected 2 harvesters and 1 porter, got %d/%d", c.Harvester, c.Porter)
	}

	dropped := c.Recount(func(name string) bool { return name != "a" })
	if len(dropped) != 1 || dropped[0] != "a" {
		t.Fatalf("expected [a] dropped, got %v", dropped)
	}
	if c.Harvester != 1 || c.Total() != 2 {
		t.Fatalf("expected 1 harvester and total 2, got %d/%d", c.Harvester, c.Total())
	}
	if _, ok := c.CreepMap["a"]; ok {
		t.Fatalf("expected a removed from creep map")
	}
}
