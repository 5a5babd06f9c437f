package reforest

import (
	"testing"
)

func newTestStrategy(t *testing.T, s *SupplyChainState, times *TravelTimeMatrix) *PolygonStrategy {
	t.Helper()
	strategy, err := NewPolygonStrategy(s, times)
	if err != nil {
		t.Fatalf("NewPolygonStrategy failed: %v", err)
	}
	return strategy
}

func TestStrategy_NextPolygon_PrefersMatchedSpecies(t *testing.T) {
	cfg := DefaultConfig()
	demand := buildDemand(map[PolygonID]map[SpeciesID]Quantity{
		1: {1: 5000},
		2: {2: 100},
	})
	s := newTestState(cfg, demand)
	strategy := newTestStrategy(t, s, buildTimes(cfg.BasePolygon, map[PolygonID]float64{1: 0.5, 2: 0.5}))

	// Only species 2 is available: polygon 2 matches, polygon 1 does not,
	// even though polygon 1 has far more demand.
	seedAvailable(s, 2, 50)

	p, ok := strategy.NextPolygon()
	if !ok {
		t.Fatal("expected a polygon")
	}
	if p != 2 {
		t.Errorf("expected polygon 2 (matched species), got %d", p)
	}
}

func TestStrategy_NextPolygon_FallbackLargestDemand(t *testing.T) {
	cfg := DefaultConfig()
	demand := buildDemand(map[PolygonID]map[SpeciesID]Quantity{
		1: {1: 100},
		2: {2: 900},
	})
	s := newTestState(cfg, demand)
	strategy := newTestStrategy(t, s, buildTimes(cfg.BasePolygon, map[PolygonID]float64{1: 0.5, 2: 0.5}))

	// Empty warehouse: fall back to the largest total demand.
	p, ok := strategy.NextPolygon()
	if !ok {
		t.Fatal("expected a polygon")
	}
	if p != 2 {
		t.Errorf("expected polygon 2 (largest demand), got %d", p)
	}
}

func TestStrategy_NextPolygon_SkipsUnreachable(t *testing.T) {
	cfg := DefaultConfig()
	demand := buildDemand(map[PolygonID]map[SpeciesID]Quantity{
		1: {1: 100},
		2: {1: 900},
	})
	s := newTestState(cfg, demand)
	// Polygon 2 has no travel-time entry.
	strategy := newTestStrategy(t, s, buildTimes(cfg.BasePolygon, map[PolygonID]float64{1: 0.5}))

	p, ok := strategy.NextPolygon()
	if !ok {
		t.Fatal("expected a polygon")
	}
	if p != 1 {
		t.Errorf("expected polygon 1, got %d", p)
	}
}

func TestStrategy_NextPolygon_DeterministicTieBreak(t *testing.T) {
	cfg := DefaultConfig()
	demand := buildDemand(map[PolygonID]map[SpeciesID]Quantity{
		3: {1: 100},
		7: {1: 100},
	})
	s := newTestState(cfg, demand)
	strategy := newTestStrategy(t, s, buildTimes(cfg.BasePolygon, map[PolygonID]float64{3: 0.5, 7: 0.5}))
	seedAvailable(s, 1, 50)

	for i := 0; i < 5; i++ {
		p, ok := strategy.NextPolygon()
		if !ok || p != 3 {
			t.Fatalf("expected polygon 3 on every call, got %d (ok=%v)", p, ok)
		}
	}
}

func TestStrategy_OrderStep_PlacesOrderForNeededSpecies(t *testing.T) {
	cfg := DefaultConfig()
	demand := buildDemand(map[PolygonID]map[SpeciesID]Quantity{
		1: {1: 5000, 2: 5000},
	})
	s := newTestState(cfg, demand)
	strategy := newTestStrategy(t, s, buildTimes(cfg.BasePolygon, map[PolygonID]float64{1: 0.5}))

	ordered, err := strategy.OrderStep()
	if err != nil {
		t.Fatalf("OrderStep failed: %v", err)
	}
	if !ordered {
		t.Fatal("expected an order to be placed")
	}

	orders := s.Orders()
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	o := orders[0]
	// Day 0 primary is the first provider in rotation, which supplies
	// species 1 and 2.
	if o.Provider != "laguna_seca" {
		t.Errorf("expected laguna_seca (day 0 primary), got %q", o.Provider)
	}
	if o.ArrivalDay != 1 {
		t.Errorf("expected arrival day 1, got %d", o.ArrivalDay)
	}
	if o.TotalPlants == 0 || o.TotalPlants > cfg.MaxOrderPerDay {
		t.Errorf("order size %d outside (0, %d]", o.TotalPlants, cfg.MaxOrderPerDay)
	}
	if !o.Cost.IsPositive() {
		t.Errorf("expected positive order cost, got %s", o.Cost)
	}
	for _, line := range o.Lines {
		if line.Species != 1 && line.Species != 2 {
			t.Errorf("unexpected species %d in order", line.Species)
		}
	}
	if got := s.PendingArrivals(); got != o.TotalPlants {
		t.Errorf("pending arrivals %d, expected %d", got, o.TotalPlants)
	}
}

func TestStrategy_OrderStep_ProviderFallback(t *testing.T) {
	cfg := DefaultConfig()
	// Only species 9 and 10 are needed; of the three nurseries only
	// moctezuma supplies them, and it is last in rotation on day 0.
	demand := buildDemand(map[PolygonID]map[SpeciesID]Quantity{
		1: {9: 3000, 10: 3000},
	})
	s := newTestState(cfg, demand)
	strategy := newTestStrategy(t, s, buildTimes(cfg.BasePolygon, map[PolygonID]float64{1: 0.5}))

	ordered, err := strategy.OrderStep()
	if err != nil {
		t.Fatalf("OrderStep failed: %v", err)
	}
	if !ordered {
		t.Fatal("expected fallback to a provider that can supply")
	}
	orders := s.Orders()
	if len(orders) != 1 || orders[0].Provider != "moctezuma" {
		t.Fatalf("expected a moctezuma order, got %+v", orders)
	}
}

func TestStrategy_OrderStep_SkipsWithoutSpace(t *testing.T) {
	cfg := DefaultConfig()
	demand := buildDemand(map[PolygonID]map[SpeciesID]Quantity{1: {1: 5000}})
	s := newTestState(cfg, demand)
	strategy := newTestStrategy(t, s, buildTimes(cfg.BasePolygon, map[PolygonID]float64{1: 0.5}))

	// Fill the warehouse to under one van load of free space.
	seedAvailable(s, 1, cfg.WarehouseCapacity-cfg.VanCapacity+1)

	ordered, err := strategy.OrderStep()
	if err != nil {
		t.Fatalf("OrderStep failed: %v", err)
	}
	if ordered {
		t.Error("expected no order without a van load of space")
	}
}

func TestStrategy_OrderStep_FinalPhaseOrdersExactNeed(t *testing.T) {
	cfg := DefaultConfig()
	// Total demand below 3 van loads puts the strategy in final phase.
	demand := buildDemand(map[PolygonID]map[SpeciesID]Quantity{
		1: {1: 300},
	})
	s := newTestState(cfg, demand)
	strategy := newTestStrategy(t, s, buildTimes(cfg.BasePolygon, map[PolygonID]float64{1: 0.5}))
	seedAvailable(s, 1, 120)

	ordered, err := strategy.OrderStep()
	if err != nil {
		t.Fatalf("OrderStep failed: %v", err)
	}
	if !ordered {
		t.Fatal("expected a final-phase order")
	}
	o := s.Orders()[0]
	if len(o.Lines) != 1 || o.Lines[0].Species != 1 {
		t.Fatalf("unexpected order lines: %+v", o.Lines)
	}
	// Exactly the missing quantity: 300 demanded minus 120 on hand.
	if o.Lines[0].Quantity != 180 {
		t.Errorf("expected exact-need order of 180, got %d", o.Lines[0].Quantity)
	}
}

func TestStrategy_OrderStep_RespectsDailyCap(t *testing.T) {
	cfg := DefaultConfig()
	demand := buildDemand(map[PolygonID]map[SpeciesID]Quantity{
		1: {1: 20000, 2: 20000, 3: 20000, 6: 20000, 7: 20000},
	})
	s := newTestState(cfg, demand)
	strategy := newTestStrategy(t, s, buildTimes(cfg.BasePolygon, map[PolygonID]float64{1: 0.5}))

	ordered, err := strategy.OrderStep()
	if err != nil {
		t.Fatalf("OrderStep failed: %v", err)
	}
	if !ordered {
		t.Fatal("expected an order")
	}
	if got := s.Orders()[0].TotalPlants; got > cfg.MaxOrderPerDay {
		t.Errorf("order of %d exceeds daily cap %d", got, cfg.MaxOrderPerDay)
	}
}

func TestStrategy_PlantStep_WithoutInventory(t *testing.T) {
	cfg := DefaultConfig()
	demand := buildDemand(map[PolygonID]map[SpeciesID]Quantity{1: {1: 5000}})
	s := newTestState(cfg, demand)
	strategy := newTestStrategy(t, s, buildTimes(cfg.BasePolygon, map[PolygonID]float64{1: 0.5}))

	planted, err := strategy.PlantStep()
	if err != nil {
		t.Fatalf("PlantStep failed: %v", err)
	}
	if planted {
		t.Error("expected nothing planted from an empty warehouse")
	}
	if got := s.RemainingLaborHours(); got != cfg.DailyLaborHours {
		t.Errorf("labor hours consumed without planting: %v", got)
	}
}

func TestStrategy_PlantStep_MultipleTripsUntilBudgetExhausted(t *testing.T) {
	cfg := DefaultConfig()
	demand := buildDemand(map[PolygonID]map[SpeciesID]Quantity{
		1: {1: 5000},
	})
	s := newTestState(cfg, demand)
	strategy := newTestStrategy(t, s, buildTimes(cfg.BasePolygon, map[PolygonID]float64{1: 0.5}))
	seedAvailable(s, 1, 5000)

	planted, err := strategy.PlantStep()
	if err != nil {
		t.Fatalf("PlantStep failed: %v", err)
	}
	if !planted {
		t.Fatal("expected planting to happen")
	}

	// Each trip takes 0.5+0.5 travel + 1h load/unload + 1h treatment = 3h,
	// so the 6h budget fits exactly two van loads.
	activities := s.PlantingActivities()
	if len(activities) != 2 {
		t.Fatalf("expected 2 trips, got %d", len(activities))
	}
	var total Quantity
	tripNumbers := make(map[int]bool)
	for _, act := range activities {
		if act.Quantity != cfg.VanCapacity {
			t.Errorf("expected full van loads, got %d", act.Quantity)
		}
		total += act.Quantity
		tripNumbers[act.TripNumber] = true
	}
	if total != 2*cfg.VanCapacity {
		t.Errorf("expected %d planted, got %d", 2*cfg.VanCapacity, total)
	}
	if len(tripNumbers) != 2 {
		t.Errorf("expected 2 distinct trip numbers, got %v", tripNumbers)
	}
}

func TestStrategy_PlantStep_MarksFailedPolygonAndMovesOn(t *testing.T) {
	cfg := DefaultConfig()
	// Polygon 1 matches available inventory better but is too far to ever
	// visit; polygon 2 is close and plantable.
	demand := buildDemand(map[PolygonID]map[SpeciesID]Quantity{
		1: {1: 500, 2: 500},
		2: {1: 400},
	})
	s := newTestState(cfg, demand)
	times := buildTimes(cfg.BasePolygon, map[PolygonID]float64{1: 10, 2: 0.5})
	strategy := newTestStrategy(t, s, times)
	seedAvailable(s, 1, 450)
	seedAvailable(s, 2, 450)

	planted, err := strategy.PlantStep()
	if err != nil {
		t.Fatalf("PlantStep failed: %v", err)
	}
	if !planted {
		t.Fatal("expected planting at the reachable polygon")
	}
	for _, act := range s.PlantingActivities() {
		if act.Polygon != 2 {
			t.Errorf("expected all plantings at polygon 2, got polygon %d", act.Polygon)
		}
	}
}
