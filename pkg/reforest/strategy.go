package reforest

import (
	"fmt"
	"sort"
)

// PolygonStrategy decides, for each simulated day, what to order from which
// nursery and what to plant where. It is the only writer of the supply
// chain state besides the state's own day-advance.
type PolygonStrategy struct {
	cfg      Config
	costs    *CostModel
	state    *SupplyChainState
	times    *TravelTimeMatrix
	policies []TripPolicy

	// Per-day scratch, reset when the state's day counter moves on.
	scratchDay int
	failed     map[PolygonID]bool
	tripCount  int
}

// NewPolygonStrategy creates the strategy over a state and a travel-time
// matrix. An empty policy list selects the default trip-priority ladder.
func NewPolygonStrategy(state *SupplyChainState, times *TravelTimeMatrix, policies ...TripPolicy) (*PolygonStrategy, error) {
	if state == nil {
		return nil, fmt.Errorf("state is required")
	}
	if times == nil {
		return nil, fmt.Errorf("travel time matrix is required")
	}
	cfg := state.Config()
	// The warehouse must never be a planting target.
	times.MarkUnreachable(cfg.BasePolygon, cfg.BasePolygon)
	if len(policies) == 0 {
		policies = DefaultTripPolicies()
	}
	return &PolygonStrategy{
		cfg:        cfg,
		costs:      NewCostModel(cfg),
		state:      state,
		times:      times,
		policies:   policies,
		scratchDay: -1,
		failed:     make(map[PolygonID]bool),
	}, nil
}

func (ps *PolygonStrategy) resetScratch() {
	if ps.scratchDay == ps.state.CurrentDay() {
		return
	}
	ps.scratchDay = ps.state.CurrentDay()
	ps.failed = make(map[PolygonID]bool)
	ps.tripCount = 0
}

// NextPolygon selects the planting target whose unmet demand best matches
// the species currently available, falling back to the polygon with the
// largest total demand when nothing is available yet. Ties break to the
// lowest polygon id.
func (ps *PolygonStrategy) NextPolygon() (PolygonID, bool) {
	return ps.nextPolygon(false)
}

type polygonScore struct {
	polygon     PolygonID
	matchCount  int
	matchQty    Quantity
	totalDemand Quantity
}

func (ps *PolygonStrategy) nextPolygon(excludeFailed bool) (PolygonID, bool) {
	demand := ps.state.RemainingDemand()

	var scores []polygonScore
	for _, p := range demand.Polygons() {
		if p == ps.cfg.BasePolygon {
			continue
		}
		if excludeFailed && ps.failed[p] {
			continue
		}
		total := demand.PolygonTotal(p)
		if total == 0 {
			continue
		}
		if !ps.times.Reachable(ps.cfg.BasePolygon, p) {
			continue
		}
		score := polygonScore{polygon: p, totalDemand: total}
		for _, sp := range ps.cfg.Species {
			need := demand.Get(p, sp)
			avail := ps.state.AvailableInventory(sp)
			if need > 0 && avail > 0 {
				score.matchCount++
				score.matchQty += minQty(need, avail)
			}
		}
		scores = append(scores, score)
	}
	if len(scores) == 0 {
		return 0, false
	}

	best := scores[0]
	anyMatch := best.matchCount > 0
	for _, sc := range scores[1:] {
		if sc.matchCount > 0 {
			anyMatch = true
		}
		if betterMatch(sc, best) {
			best = sc
		}
	}
	if anyMatch {
		return best.polygon, true
	}

	// Nothing plantable anywhere yet: aim ordering at the largest demand.
	largest := scores[0]
	for _, sc := range scores[1:] {
		if sc.totalDemand > largest.totalDemand {
			largest = sc
		}
	}
	return largest.polygon, true
}

func betterMatch(a, b polygonScore) bool {
	if a.matchCount != b.matchCount {
		return a.matchCount > b.matchCount
	}
	if a.matchQty != b.matchQty {
		return a.matchQty > b.matchQty
	}
	if a.totalDemand != b.totalDemand {
		return a.totalDemand > b.totalDemand
	}
	return false
}

// dailyCeiling bounds the plants a polygon can receive in one day: the
// number of round trips fitting in a full labor day times van capacity.
// Treatment time is deliberately excluded; the real gate is the running
// labor budget.
func (ps *PolygonStrategy) dailyCeiling(travelTo, travelBack float64) Quantity {
	tripTime := travelTo + travelBack + ps.cfg.TripOverheadHours()
	if tripTime <= 0 {
		return 0
	}
	maxTrips := int(ps.cfg.DailyLaborHours / tripTime)
	return Quantity(maxTrips) * ps.cfg.VanCapacity
}

// PlantStep runs the multi-trip planting loop for the current day. It
// returns whether any plants went in the ground.
func (ps *PolygonStrategy) PlantStep() (bool, error) {
	ps.resetScratch()
	planted := false

	for ps.state.RemainingLaborHours() > ps.cfg.MinTripHours {
		polygon, ok := ps.nextPolygon(true)
		if !ok {
			break
		}
		travelTo, okTo := ps.times.Hours(ps.cfg.BasePolygon, polygon)
		travelBack, okBack := ps.times.Hours(polygon, ps.cfg.BasePolygon)
		if !okTo || !okBack {
			// Missing travel data makes the polygon unavailable today.
			ps.failed[polygon] = true
			continue
		}
		ceiling := ps.dailyCeiling(travelTo, travelBack)

		executed, err := ps.attemptTrips(polygon, travelTo, travelBack, ceiling)
		if err != nil {
			return planted, err
		}
		if executed {
			planted = true
			continue
		}
		ps.failed[polygon] = true
	}
	return planted, nil
}

// attemptTrips tries the trip policies in priority order against one
// polygon. The first policy that executes at least one trip wins.
func (ps *PolygonStrategy) attemptTrips(polygon PolygonID, travelTo, travelBack float64, ceiling Quantity) (bool, error) {
	for _, policy := range ps.policies {
		plans := policy.Propose(ps.state, polygon)
		executedAny := false
		for _, plan := range plans {
			total := plan.Total()
			if total == 0 || total > ceiling {
				continue
			}
			hours := ps.costs.TripHours(travelTo, travelBack, plan.classes(ps.cfg)...)
			if hours > ps.state.RemainingLaborHours()+laborEpsilon {
				continue
			}
			if err := ps.executeTrip(polygon, plan, travelTo, hours); err != nil {
				return executedAny, fmt.Errorf("executing %s trip to polygon %d: %w", policy.Name(), polygon, err)
			}
			executedAny = true
		}
		if executedAny {
			return true, nil
		}
	}
	return false, nil
}

func (ps *PolygonStrategy) executeTrip(polygon PolygonID, plan TripPlan, travelTo float64, hours float64) error {
	if err := ps.state.ConsumeLaborHours(hours); err != nil {
		return err
	}
	ps.tripCount++
	for _, line := range plan.Lines {
		if err := ps.state.RecordPlanting(polygon, line.Species, line.Quantity, travelTo, ps.tripCount); err != nil {
			return err
		}
	}
	return nil
}

// orderCandidate is a species a provider could supply today, ranked by how
// urgently the next polygon needs it.
type orderCandidate struct {
	species     SpeciesID
	polygonNeed Quantity
	totalDemand Quantity
}

// OrderStep attempts to place one order for the current day. Providers are
// tried in rotation starting from the day's primary; the first provider
// yielding a non-empty order wins. Returns whether an order was placed.
func (ps *PolygonStrategy) OrderStep() (bool, error) {
	ps.resetScratch()

	effective := ps.state.EffectiveWarehouseSpace()
	if effective < ps.cfg.VanCapacity {
		return false, nil
	}

	target, ok := ps.nextPolygon(false)
	if !ok {
		return false, nil
	}

	rotation := ps.cfg.ProviderRotation
	if len(rotation) == 0 {
		return false, nil
	}
	primary := rotation[ps.state.CurrentDay()%len(rotation)]
	providers := []Provider{primary}
	for _, p := range rotation {
		if p != primary {
			providers = append(providers, p)
		}
	}

	for _, provider := range providers {
		lines := ps.buildOrderLines(provider, target, effective)
		if len(lines) == 0 {
			continue
		}
		lines = capTotal(lines, ps.cfg.MaxOrderPerDay)

		cost, err := ps.costs.OrderCost(provider, lines)
		if err != nil {
			// Provider cannot price a prioritized species: skip it, no
			// fallback pricing is invented.
			continue
		}

		order := &Order{
			OrderDay:    ps.state.CurrentDay(),
			ArrivalDay:  ps.state.CurrentDay() + ps.cfg.OrderDeliveryLag,
			Provider:    provider,
			Lines:       lines,
			TotalPlants: sumLines(lines),
			Cost:        cost,
		}
		if err := ps.state.PlaceOrder(order); err != nil {
			return false, fmt.Errorf("placing order with %q: %w", provider, err)
		}
		return true, nil
	}
	return false, nil
}

// buildOrderLines assembles the prioritized order for one provider,
// consuming effective warehouse space as it goes.
func (ps *PolygonStrategy) buildOrderLines(provider Provider, target PolygonID, space Quantity) []OrderLine {
	catalog, ok := ps.cfg.Providers[provider]
	if !ok {
		return nil
	}
	supplied := make([]SpeciesID, 0, len(catalog))
	for sp := range catalog {
		supplied = append(supplied, sp)
	}
	sort.Slice(supplied, func(i, j int) bool { return supplied[i] < supplied[j] })

	demand := ps.state.RemainingDemand()
	var candidates []orderCandidate
	seen := make(map[SpeciesID]bool)

	// Species the next polygon needs come first.
	for _, sp := range supplied {
		need := demand.Get(target, sp)
		total := demand.SpeciesTotal(sp)
		if need > 0 && total > 0 {
			candidates = append(candidates, orderCandidate{species: sp, polygonNeed: need, totalDemand: total})
			seen[sp] = true
		}
	}
	// Then whatever else the provider supplies that inventory is low on.
	for _, sp := range supplied {
		if seen[sp] {
			continue
		}
		total := demand.SpeciesTotal(sp)
		if total > 0 && ps.state.AvailableInventory(sp) < 2*ps.cfg.VanCapacity {
			candidates = append(candidates, orderCandidate{species: sp, totalDemand: total})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].polygonNeed != candidates[j].polygonNeed {
			return candidates[i].polygonNeed > candidates[j].polygonNeed
		}
		if candidates[i].totalDemand != candidates[j].totalDemand {
			return candidates[i].totalDemand > candidates[j].totalDemand
		}
		return candidates[i].species < candidates[j].species
	})

	finalPhase := ps.state.TotalRemainingDemand() < 3*ps.cfg.VanCapacity

	var lines []OrderLine
	for _, cand := range candidates {
		if space < ps.cfg.SmallOrderMinimum {
			break
		}
		qty, minSize := ps.orderQuantity(cand, space, finalPhase)
		if qty >= minSize && qty > 0 {
			lines = append(lines, OrderLine{Species: cand.species, Quantity: qty})
			space -= qty
		}
	}
	return lines
}

// orderQuantity applies the phase-dependent sizing policy for one species.
func (ps *PolygonStrategy) orderQuantity(cand orderCandidate, space Quantity, finalPhase bool) (Quantity, Quantity) {
	available := ps.state.AvailableInventory(cand.species)
	van := ps.cfg.VanCapacity

	switch {
	case finalPhase:
		// Order exactly what is still missing, any size accepted.
		needed := cand.totalDemand - available
		if needed <= 0 {
			return 0, 1
		}
		return minQty(needed, space), 1
	case cand.totalDemand < 2*van:
		// Small residual demand: order all of it at once.
		return minQty(cand.totalDemand, space), ps.cfg.SmallOrderMinimum
	default:
		// Normal phase: up to two van loads per species.
		qty := minQty(2*van, minQty(cand.totalDemand, space))
		return qty, van / 2
	}
}

// capTotal trims order lines from the back until their sum fits the
// provider's daily cap.
func capTotal(lines []OrderLine, limit Quantity) []OrderLine {
	over := sumLines(lines) - limit
	for i := len(lines) - 1; i >= 0 && over > 0; i-- {
		cut := minQty(lines[i].Quantity, over)
		lines[i].Quantity -= cut
		over -= cut
	}
	trimmed := lines[:0]
	for _, line := range lines {
		if line.Quantity > 0 {
			trimmed = append(trimmed, line)
		}
	}
	return trimmed
}

func sumLines(lines []OrderLine) Quantity {
	var total Quantity
	for _, line := range lines {
		total += line.Quantity
	}
	return total
}
