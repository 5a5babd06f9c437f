package reforest

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CostModel provides the pure cost and time functions of the supply chain.
// It holds no mutable state.
type CostModel struct {
	cfg Config
}

// NewCostModel creates a cost model from the given configuration.
func NewCostModel(cfg Config) *CostModel {
	return &CostModel{cfg: cfg}
}

// UnitPrice returns the per-plant price a provider charges for a species.
// The second return value is false when the provider does not supply the
// species; callers branch on it instead of inventing fallback pricing.
func (m *CostModel) UnitPrice(p Provider, s SpeciesID) (decimal.Decimal, bool) {
	catalog, ok := m.cfg.Providers[p]
	if !ok {
		return decimal.Zero, false
	}
	price, ok := catalog[s]
	return price, ok
}

// Supplies reports whether a provider can price a species at all.
func (m *CostModel) Supplies(p Provider, s SpeciesID) bool {
	_, ok := m.UnitPrice(p, s)
	return ok
}

// OrderCost computes the total cost of an order: for every line, quantity
// times the provider's unit price plus the per-plant transport surcharge.
// Fails if the provider cannot price any line.
func (m *CostModel) OrderCost(p Provider, lines []OrderLine) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range lines {
		price, ok := m.UnitPrice(p, line.Species)
		if !ok {
			return decimal.Zero, fmt.Errorf("provider %q does not supply species %d", p, line.Species)
		}
		qty := decimal.NewFromInt(int64(line.Quantity))
		total = total.Add(qty.Mul(price.Add(m.cfg.TransportSurcharge)))
	}
	return total, nil
}

// PlantingCost is the labor cost of putting qty plants in the ground.
func (m *CostModel) PlantingCost(qty Quantity) decimal.Decimal {
	return decimal.NewFromInt(int64(qty)).Mul(m.cfg.PlantingCostPerPlant)
}

// TransportCost is the surcharge for moving qty plants from a nursery.
func (m *CostModel) TransportCost(qty Quantity) decimal.Decimal {
	return decimal.NewFromInt(int64(qty)).Mul(m.cfg.TransportSurcharge)
}

// TreatmentHours returns the submersion time for a treatment class. All
// plants of the class are treated simultaneously, so the charge does not
// depend on quantity.
func (m *CostModel) TreatmentHours(class TreatmentClass) float64 {
	if class == TreatmentOpuntia {
		return m.cfg.OpuntiaTreatmentHours
	}
	return m.cfg.NormalTreatmentHours
}

// SpeciesTreatmentHours returns the treatment time for a single species.
func (m *CostModel) SpeciesTreatmentHours(s SpeciesID) float64 {
	return m.TreatmentHours(m.cfg.TreatmentClassOf(s))
}

// TripHours computes the total labor time of one van trip: round-trip
// travel, the fixed load/unload overhead, and one treatment charge per
// distinct treatment class on board.
func (m *CostModel) TripHours(travelTo, travelBack float64, classes ...TreatmentClass) float64 {
	total := travelTo + travelBack + m.cfg.TripOverheadHours()
	seen := make(map[TreatmentClass]bool, len(classes))
	for _, class := range classes {
		if seen[class] {
			continue
		}
		seen[class] = true
		total += m.TreatmentHours(class)
	}
	return total
}
