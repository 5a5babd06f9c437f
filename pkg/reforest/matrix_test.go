package reforest

import (
	"testing"
)

func TestDemandMatrix_SetGetDecrement(t *testing.T) {
	m := NewDemandMatrix()

	if err := m.Set(1, 2, 100); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := m.Set(1, 3, -5); err == nil {
		t.Error("expected error for negative demand")
	}
	if got := m.Get(1, 2); got != 100 {
		t.Errorf("Get(1,2) = %d, want 100", got)
	}
	if got := m.Get(9, 9); got != 0 {
		t.Errorf("missing cell should read 0, got %d", got)
	}

	if err := m.Decrement(1, 2, 40); err != nil {
		t.Fatalf("Decrement failed: %v", err)
	}
	if got := m.Get(1, 2); got != 60 {
		t.Errorf("expected 60 after decrement, got %d", got)
	}
	if err := m.Decrement(1, 2, 61); err == nil {
		t.Error("expected error decrementing below zero")
	}
	if err := m.Decrement(1, 2, 0); err == nil {
		t.Error("expected error for non-positive decrement")
	}
}

func TestDemandMatrix_Totals(t *testing.T) {
	m := NewDemandMatrix()
	cells := []struct {
		p   PolygonID
		s   SpeciesID
		qty Quantity
	}{
		{1, 1, 100}, {1, 2, 50}, {2, 1, 30}, {3, 2, 20},
	}
	for _, c := range cells {
		if err := m.Set(c.p, c.s, c.qty); err != nil {
			t.Fatalf("Set(%d,%d) failed: %v", c.p, c.s, err)
		}
	}

	if got := m.PolygonTotal(1); got != 150 {
		t.Errorf("PolygonTotal(1) = %d, want 150", got)
	}
	if got := m.SpeciesTotal(2); got != 70 {
		t.Errorf("SpeciesTotal(2) = %d, want 70", got)
	}
	if got := m.Total(); got != 200 {
		t.Errorf("Total() = %d, want 200", got)
	}
	polygons := m.Polygons()
	if len(polygons) != 3 || polygons[0] != 1 || polygons[1] != 2 || polygons[2] != 3 {
		t.Errorf("Polygons() = %v, want [1 2 3]", polygons)
	}
}

func TestDemandMatrix_CloneIsIndependent(t *testing.T) {
	m := NewDemandMatrix()
	if err := m.Set(1, 1, 100); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	clone := m.Clone()
	if err := m.Decrement(1, 1, 100); err != nil {
		t.Fatalf("Decrement failed: %v", err)
	}
	if got := clone.Get(1, 1); got != 100 {
		t.Errorf("clone changed with original: got %d, want 100", got)
	}
}

func TestTravelTimeMatrix(t *testing.T) {
	m := NewTravelTimeMatrix()
	if err := m.Set(18, 1, 0.75); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := m.Set(18, 2, -1); err == nil {
		t.Error("expected error for negative travel time")
	}

	h, ok := m.Hours(18, 1)
	if !ok || h != 0.75 {
		t.Errorf("Hours(18,1) = %v, %v; want 0.75, true", h, ok)
	}
	if _, ok := m.Hours(18, 5); ok {
		t.Error("expected no entry for an unset leg")
	}
	if !m.Reachable(18, 1) {
		t.Error("expected leg 18->1 reachable")
	}
	if m.Reachable(18, 5) {
		t.Error("unset leg must not be reachable")
	}

	m.MarkUnreachable(18, 18)
	if m.Reachable(18, 18) {
		t.Error("marked leg must not be reachable")
	}
	if _, ok := m.Hours(18, 18); !ok {
		t.Error("marked leg still has an entry")
	}
}
