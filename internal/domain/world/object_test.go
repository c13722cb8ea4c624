package world

import (
	"errors"
	"testing"
)

func TestStructureValidity(t *testing.T) {
	s := Structure{ID: "st-1", Type: StructureContainer, Pos: Position{Room: "W1N1", X: 1, Y: 2}, Hits: 10, HitsMax: 250000}
	if err := s.Validate(); err != nil {
		t.Fatalf("expected valid structure, got %v", err)
	}

	bad := Structure{ID: "", Type: StructureWall, Hits: -1}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected invalid structure")
	}
}

func TestBodyCost(t *testing.T) {
	body := []BodyPart{PartMove, PartMove, PartCarry, PartWork}
	if got := BodyCost(body); got != 250 {
		t.Fatalf("expected cost 250, got %d", got)
	}
}

func TestStoreFree(t *testing.T) {
	if got := (Store{Used: 30, Capacity: 50}).Free(); got != 20 {
		t.Fatalf("expected free 20, got %d", got)
	}
	if got := (Store{Used: 60, Capacity: 50}).Free(); got != 0 {
		t.Fatalf("expected free 0 on overfilled store, got %d", got)
	}
}

func TestPositionRange(t *testing.T) {
	a := Position{Room: "W1N1", X: 10, Y: 10}
	b := Position{Room: "W1N1", X: 13, Y: 11}
	if got := a.RangeTo(b); got != 3 {
		t.Fatalf("expected range 3, got %d", got)
	}
	if !a.InRangeTo(b, 3) {
		t.Fatalf("expected in range 3")
	}
	other := Position{Room: "W2N1", X: 10, Y: 10}
	if a.InRangeTo(other, 10) {
		t.Fatalf("expected positions in different rooms to be out of range")
	}
}

func TestPositionNeighborsAtCorner(t *testing.T) {
	corner := Position{Room: "W1N1", X: 0, Y: 0}
	if got := len(corner.Neighbors()); got != 3 {
		t.Fatalf("expected 3 neighbors at corner, got %d", got)
	}
	mid := Position{Room: "W1N1", X: 5, Y: 5}
	if got := len(mid.Neighbors()); got != 8 {
		t.Fatalf("expected 8 neighbors, got %d", got)
	}
}

func TestParseBodyPart(t *testing.T) {
	if p, err := ParseBodyPart("carry"); err != nil || p != PartCarry {
		t.Fatalf("expected carry, got %q %v", p, err)
	}
	if _, err := ParseBodyPart("claim"); !errors.Is(err, ErrUnknownBodyPart) {
		t.Fatalf("expected ErrUnknownBodyPart, got %v", err)
	}
}
