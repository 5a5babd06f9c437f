package reforest

// TripLine is one species/quantity load within a van trip.
type TripLine struct {
	Species  SpeciesID
	Quantity Quantity
}

// TripPlan is a proposed van trip to the currently selected polygon. A plan
// never exceeds one van load; treatment time is charged once per distinct
// treatment class among its lines.
type TripPlan struct {
	Policy string
	Lines  []TripLine
}

// Total returns the number of plants on the trip.
func (t TripPlan) Total() Quantity {
	var total Quantity
	for _, line := range t.Lines {
		total += line.Quantity
	}
	return total
}

// classes returns the distinct treatment classes used by the plan.
func (t TripPlan) classes(cfg Config) []TreatmentClass {
	seen := make(map[TreatmentClass]bool, 2)
	var out []TreatmentClass
	for _, line := range t.Lines {
		class := cfg.TreatmentClassOf(line.Species)
		if !seen[class] {
			seen[class] = true
			out = append(out, class)
		}
	}
	return out
}

// TripPolicy proposes zero or more trip plans for a polygon given the
// current state. Policies are tried in priority order; the first one whose
// plans can be executed wins the attempt.
type TripPolicy interface {
	Name() string
	Propose(s *SupplyChainState, polygon PolygonID) []TripPlan
}

// DefaultTripPolicies returns the production priority ladder: a full-van
// Opuntia mixture, a full-van mixture of the remaining species, whatever is
// actually plantable split by treatment class, and finally the single best
// species.
func DefaultTripPolicies() []TripPolicy {
	return []TripPolicy{
		scaledMixPolicy{name: "scaled-opuntia", opuntia: true},
		scaledMixPolicy{name: "scaled-non-opuntia", opuntia: false},
		mixedTripPolicy{},
		singleSpeciesPolicy{},
	}
}

// scaledMixPolicy proposes a full van load mixing one treatment class in
// its fixed per-hectare ratio. It only fires when both inventory and the
// polygon's demand cover every scaled quantity, so it never plants a
// partial mixture.
type scaledMixPolicy struct {
	name    string
	opuntia bool
}

func (p scaledMixPolicy) Name() string { return p.name }

func (p scaledMixPolicy) Propose(s *SupplyChainState, polygon PolygonID) []TripPlan {
	cfg := s.Config()
	species := cfg.NonOpuntiaSpecies()
	if p.opuntia {
		species = cfg.OpuntiaSpecies
	}

	var ratioTotal Quantity
	for _, sp := range species {
		ratioTotal += cfg.SpeciesProportions[sp]
	}
	if ratioTotal == 0 {
		return nil
	}

	demand := s.RemainingDemand()
	var lines []TripLine
	for _, sp := range species {
		required := cfg.SpeciesProportions[sp] * cfg.VanCapacity / ratioTotal
		if required == 0 {
			continue
		}
		if s.AvailableInventory(sp) < required || demand.Get(polygon, sp) < required {
			return nil
		}
		lines = append(lines, TripLine{Species: sp, Quantity: required})
	}
	if len(lines) == 0 {
		return nil
	}
	return []TripPlan{{Policy: p.name, Lines: lines}}
}

// mixedTripPolicy takes whatever is actually plantable per species and
// splits it into an Opuntia sub-trip and a normal sub-trip. Each sub-trip
// is proportionally scaled down to one van load if oversized.
type mixedTripPolicy struct{}

func (mixedTripPolicy) Name() string { return "efficient-mixed" }

func (mixedTripPolicy) Propose(s *SupplyChainState, polygon PolygonID) []TripPlan {
	cfg := s.Config()
	demand := s.RemainingDemand()

	var opuntia, normal []TripLine
	for _, sp := range cfg.Species {
		plantable := minQty(s.AvailableInventory(sp), demand.Get(polygon, sp))
		if plantable <= 0 {
			continue
		}
		line := TripLine{Species: sp, Quantity: plantable}
		if cfg.IsOpuntia(sp) {
			opuntia = append(opuntia, line)
		} else {
			normal = append(normal, line)
		}
	}

	var plans []TripPlan
	if lines := capToVan(opuntia, cfg.VanCapacity); len(lines) > 0 {
		plans = append(plans, TripPlan{Policy: "efficient-mixed", Lines: lines})
	}
	if lines := capToVan(normal, cfg.VanCapacity); len(lines) > 0 {
		plans = append(plans, TripPlan{Policy: "efficient-mixed", Lines: lines})
	}
	return plans
}

// singleSpeciesPolicy plants the one species with the most plantable
// quantity, capped at one van load.
type singleSpeciesPolicy struct{}

func (singleSpeciesPolicy) Name() string { return "single-species" }

func (singleSpeciesPolicy) Propose(s *SupplyChainState, polygon PolygonID) []TripPlan {
	cfg := s.Config()
	demand := s.RemainingDemand()

	var best SpeciesID
	var bestQty Quantity
	for _, sp := range cfg.Species {
		plantable := minQty(s.AvailableInventory(sp), demand.Get(polygon, sp))
		if plantable > bestQty {
			best = sp
			bestQty = plantable
		}
	}
	if bestQty <= 0 {
		return nil
	}
	if bestQty > cfg.VanCapacity {
		bestQty = cfg.VanCapacity
	}
	return []TripPlan{{
		Policy: "single-species",
		Lines:  []TripLine{{Species: best, Quantity: bestQty}},
	}}
}

// capToVan proportionally scales a set of lines down so their sum does not
// exceed one van load. Lines that round to zero are dropped.
func capToVan(lines []TripLine, van Quantity) []TripLine {
	var total Quantity
	for _, line := range lines {
		total += line.Quantity
	}
	if total == 0 {
		return nil
	}
	if total <= van {
		return lines
	}
	var scaled []TripLine
	for _, line := range lines {
		qty := line.Quantity * van / total
		if qty > 0 {
			scaled = append(scaled, TripLine{Species: line.Species, Quantity: qty})
		}
	}
	return scaled
}

func minQty(a, b Quantity) Quantity {
	if a < b {
		return a
	}
	return b
}
