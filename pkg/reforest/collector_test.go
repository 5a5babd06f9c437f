package reforest

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDailyRecord_OrderAccounting(t *testing.T) {
	s := newTestState(DefaultConfig(), buildDemand(map[PolygonID]map[SpeciesID]Quantity{
		1: {1: 5000},
	}))

	if err := placeTestOrder(s, "laguna_seca", 1, 100); err != nil {
		t.Fatalf("placeTestOrder failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := s.AdvanceDay(); err != nil {
			t.Fatalf("AdvanceDay failed: %v", err)
		}
	}

	recs := s.DailyRecords()
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}

	// Order day: the order is logged as placed but nothing has arrived.
	day0 := recs[0]
	if len(day0.OrdersPlaced) != 1 || len(day0.OrdersArrived) != 0 {
		t.Errorf("day 0: placed %d arrived %d, want 1 and 0",
			len(day0.OrdersPlaced), len(day0.OrdersArrived))
	}
	// 100 * (26 + 0.5625) from the laguna_seca catalog.
	wantCost := decimal.NewFromFloat(2656.25)
	if !day0.OrderCost.Equal(wantCost) {
		t.Errorf("day 0 order cost %s, want %s", day0.OrderCost, wantCost)
	}
	if !day0.DailyCost.Equal(wantCost) {
		t.Errorf("day 0 daily cost %s, want %s", day0.DailyCost, wantCost)
	}
	if day0.InventoryTotal != 0 {
		t.Errorf("day 0 inventory %d, want 0", day0.InventoryTotal)
	}

	// Arrival day: the same order shows up as arrived and sits in stage 0.
	day1 := recs[1]
	if len(day1.OrdersPlaced) != 0 || len(day1.OrdersArrived) != 1 {
		t.Errorf("day 1: placed %d arrived %d, want 0 and 1",
			len(day1.OrdersPlaced), len(day1.OrdersArrived))
	}
	if !day1.OrderCost.IsZero() {
		t.Errorf("day 1 order cost %s, want 0", day1.OrderCost)
	}
	if day1.InventoryTotal != 100 {
		t.Errorf("day 1 inventory %d, want 100", day1.InventoryTotal)
	}
	if got := day1.Inventory.Stages[0][1]; got != 100 {
		t.Errorf("day 1 stage 0 holds %d, want 100", got)
	}
}

func TestDailyRecord_PlantingAccounting(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestState(cfg, buildDemand(map[PolygonID]map[SpeciesID]Quantity{
		1: {1: 50},
	}))
	seedAvailable(s, 1, 80)

	if err := s.ConsumeLaborHours(3); err != nil {
		t.Fatalf("ConsumeLaborHours failed: %v", err)
	}
	if err := s.RecordPlanting(1, 1, 50, 0.5, 1); err != nil {
		t.Fatalf("RecordPlanting failed: %v", err)
	}
	if err := s.AdvanceDay(); err != nil {
		t.Fatalf("AdvanceDay failed: %v", err)
	}

	rec := s.DailyRecords()[0]
	if len(rec.Plantings) != 1 || len(rec.Transports) != 1 {
		t.Fatalf("expected 1 planting and 1 transport, got %d and %d",
			len(rec.Plantings), len(rec.Transports))
	}
	if want := decimal.NewFromInt(1000); !rec.PlantingCost.Equal(want) {
		t.Errorf("planting cost %s, want %s", rec.PlantingCost, want)
	}
	if want := decimal.NewFromFloat(28.125); !rec.TransportCost.Equal(want) {
		t.Errorf("transport cost %s, want %s", rec.TransportCost, want)
	}
	if !rec.DailyCost.Equal(rec.PlantingCost) {
		t.Errorf("daily cost %s, want %s", rec.DailyCost, rec.PlantingCost)
	}

	if len(rec.PolygonsCompleted) != 1 || rec.PolygonsCompleted[0] != 1 {
		t.Errorf("expected polygon 1 completed, got %v", rec.PolygonsCompleted)
	}
	if rec.RemainingDemandTotal != 0 {
		t.Errorf("remaining demand %d, want 0", rec.RemainingDemandTotal)
	}
	if _, ok := rec.RemainingByPolygon[1]; ok {
		t.Error("completed polygon should be absent from the remaining map")
	}

	if rec.LaborHoursUsed != 3 {
		t.Errorf("labor used %v, want 3", rec.LaborHoursUsed)
	}
	if rec.RemainingLaborHours != 3 {
		t.Errorf("labor remaining %v, want 3", rec.RemainingLaborHours)
	}
}

func TestInventorySnapshot_Total(t *testing.T) {
	snap := InventorySnapshot{
		Stages: []map[SpeciesID]Quantity{
			{1: 10, 2: 20},
			{},
			{1: 5},
		},
		Available: map[SpeciesID]Quantity{2: 7},
	}
	if got := snap.Total(); got != 42 {
		t.Errorf("Total() = %d, want 42", got)
	}
}
