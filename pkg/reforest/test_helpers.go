package reforest

import (
	"time"
)

// testStartDate is a Monday, so day 0 of a test run is a weekday.
var testStartDate = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

// buildDemand creates a demand matrix from a literal cell map.
func buildDemand(cells map[PolygonID]map[SpeciesID]Quantity) *DemandMatrix {
	m := NewDemandMatrix()
	for p, row := range cells {
		for sp, qty := range row {
			if err := m.Set(p, sp, qty); err != nil {
				panic(err)
			}
		}
	}
	return m
}

// buildTimes creates a symmetric travel-time matrix with the given leg
// times between the base and each polygon.
func buildTimes(base PolygonID, legs map[PolygonID]float64) *TravelTimeMatrix {
	m := NewTravelTimeMatrix()
	for p, h := range legs {
		if err := m.Set(base, p, h); err != nil {
			panic(err)
		}
		if err := m.Set(p, base, h); err != nil {
			panic(err)
		}
	}
	m.MarkUnreachable(base, base)
	return m
}

// newTestState builds a state over the default config with the given demand.
func newTestState(cfg Config, demand *DemandMatrix) *SupplyChainState {
	s, err := NewSupplyChainState(cfg, testStartDate, demand)
	if err != nil {
		panic(err)
	}
	return s
}

// seedAvailable injects fully acclimated inventory directly, bypassing the
// order pipeline, as if the plants had arrived and aged out long ago. The
// cumulative-arrived counter is kept consistent so conservation checks
// still hold.
func seedAvailable(s *SupplyChainState, sp SpeciesID, qty Quantity) {
	s.available[sp] += qty
	s.arrived[sp] += qty
}

// placeTestOrder places a single-species order at the current day through
// the normal validation path.
func placeTestOrder(s *SupplyChainState, provider Provider, sp SpeciesID, qty Quantity) error {
	costs := NewCostModel(s.Config())
	lines := []OrderLine{{Species: sp, Quantity: qty}}
	cost, err := costs.OrderCost(provider, lines)
	if err != nil {
		return err
	}
	return s.PlaceOrder(&Order{
		OrderDay:    s.CurrentDay(),
		ArrivalDay:  s.CurrentDay() + s.Config().OrderDeliveryLag,
		Provider:    provider,
		Lines:       lines,
		TotalPlants: qty,
		Cost:        cost,
	})
}
