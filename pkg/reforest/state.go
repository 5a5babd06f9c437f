package reforest

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// laborEpsilon absorbs float rounding when comparing labor-hour budgets.
const laborEpsilon = 1e-9

// SupplyChainState owns all mutable simulation state: remaining demand, the
// acclimation pipeline, the daily labor budget, the cost ledger and the
// append-only activity logs. It is a single-writer arena: only the strategy
// and the state's own AdvanceDay mutate it, and every mutator validates its
// invariants and fails loudly instead of permitting silent drift.
type SupplyChainState struct {
	cfg       Config
	costs     *CostModel
	startDate time.Time

	currentDay          int
	remainingLaborHours float64
	totalCost           decimal.Decimal

	// stages[0] holds plants that arrived today, stages[i] plants i days
	// into acclimation. available holds plants past the full period.
	stages    []map[SpeciesID]Quantity
	available map[SpeciesID]Quantity

	remainingDemand *DemandMatrix
	initialDemand   *DemandMatrix

	orders        []*Order
	pendingOrders []*Order // placed but not yet arrived
	plantings     []PlantingActivity
	transports    []TransportationActivity

	// Cumulative flow counters backing the conservation property.
	arrived map[SpeciesID]Quantity
	planted map[SpeciesID]Quantity

	records []DailyRecord
}

// NewSupplyChainState constructs the state with initial demand and an empty
// warehouse. The demand matrix is owned by the state from this point on.
func NewSupplyChainState(cfg Config, startDate time.Time, demand *DemandMatrix) (*SupplyChainState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if demand == nil {
		return nil, fmt.Errorf("demand matrix is required")
	}
	if _, ok := demand.cells[cfg.BasePolygon]; ok {
		return nil, fmt.Errorf("demand matrix contains the warehouse polygon %d", cfg.BasePolygon)
	}

	s := &SupplyChainState{
		cfg:                 cfg,
		costs:               NewCostModel(cfg),
		startDate:           startDate,
		remainingLaborHours: cfg.DailyLaborHours,
		totalCost:           decimal.Zero,
		stages:              make([]map[SpeciesID]Quantity, cfg.AcclimationDays),
		available:           make(map[SpeciesID]Quantity),
		remainingDemand:     demand,
		initialDemand:       demand.Clone(),
		arrived:             make(map[SpeciesID]Quantity),
		planted:             make(map[SpeciesID]Quantity),
	}
	for i := range s.stages {
		s.stages[i] = make(map[SpeciesID]Quantity)
	}
	return s, nil
}

// Config returns the immutable configuration the state was built with.
func (s *SupplyChainState) Config() Config { return s.cfg }

// CurrentDay returns the simulated day index, starting at 0.
func (s *SupplyChainState) CurrentDay() int { return s.currentDay }

// CurrentDate returns the calendar date of the current simulated day.
func (s *SupplyChainState) CurrentDate() time.Time {
	return s.startDate.AddDate(0, 0, s.currentDay)
}

// DateOf returns the calendar date of an arbitrary simulated day.
func (s *SupplyChainState) DateOf(day int) time.Time {
	return s.startDate.AddDate(0, 0, day)
}

// IsWeekend reports whether a simulated day falls on a Saturday or Sunday.
func (s *SupplyChainState) IsWeekend(day int) bool {
	wd := s.DateOf(day).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// RemainingLaborHours returns the labor budget left for the current day.
func (s *SupplyChainState) RemainingLaborHours() float64 { return s.remainingLaborHours }

// TotalCost returns the running cost ledger total.
func (s *SupplyChainState) TotalCost() decimal.Decimal { return s.totalCost }

// AvailableInventory returns the plantable (fully acclimated) quantity of a species.
func (s *SupplyChainState) AvailableInventory(sp SpeciesID) Quantity { return s.available[sp] }

// StageInventory returns the quantity of a species at a given acclimation
// stage (0 = arrived today).
func (s *SupplyChainState) StageInventory(stage int, sp SpeciesID) Quantity {
	if stage < 0 || stage >= len(s.stages) {
		return 0
	}
	return s.stages[stage][sp]
}

// SpeciesInWarehouse returns a species' total across all pipeline stages.
func (s *SupplyChainState) SpeciesInWarehouse(sp SpeciesID) Quantity {
	total := s.available[sp]
	for _, stage := range s.stages {
		total += stage[sp]
	}
	return total
}

// TotalWarehouseInventory sums every pipeline stage over every species.
func (s *SupplyChainState) TotalWarehouseInventory() Quantity {
	var total Quantity
	for _, sp := range s.cfg.Species {
		total += s.SpeciesInWarehouse(sp)
	}
	return total
}

// AvailableWarehouseSpace is the raw free capacity, ignoring orders still
// in transit. Ordering decisions must use EffectiveWarehouseSpace.
func (s *SupplyChainState) AvailableWarehouseSpace() Quantity {
	return s.cfg.WarehouseCapacity - s.TotalWarehouseInventory()
}

// PendingArrivals sums the quantities of all placed orders that have not
// arrived yet.
func (s *SupplyChainState) PendingArrivals() Quantity {
	var total Quantity
	for _, o := range s.pendingOrders {
		total += o.TotalPlants
	}
	return total
}

// EffectiveWarehouseSpace is the free capacity after reserving room for
// every order still in transit. New orders are gated on this value so the
// warehouse can never be over-committed.
func (s *SupplyChainState) EffectiveWarehouseSpace() Quantity {
	return s.AvailableWarehouseSpace() - s.PendingArrivals()
}

// RemainingDemand exposes the live demand matrix for read-side scoring.
// Mutation goes through RecordPlanting only.
func (s *SupplyChainState) RemainingDemand() *DemandMatrix { return s.remainingDemand }

// InitialDemand returns the demand the state was constructed with.
func (s *SupplyChainState) InitialDemand() *DemandMatrix { return s.initialDemand }

// TotalRemainingDemand returns the overall unmet demand.
func (s *SupplyChainState) TotalRemainingDemand() Quantity { return s.remainingDemand.Total() }

// Orders returns the append-only order log.
func (s *SupplyChainState) Orders() []*Order { return s.orders }

// PlantingActivities returns the append-only planting log.
func (s *SupplyChainState) PlantingActivities() []PlantingActivity { return s.plantings }

// TransportationActivities returns the append-only transport log.
func (s *SupplyChainState) TransportationActivities() []TransportationActivity {
	return s.transports
}

// DailyRecords returns the audit snapshots taken at each day close.
func (s *SupplyChainState) DailyRecords() []DailyRecord { return s.records }

// CumulativeArrived returns the total quantity of a species that has ever
// materialized into the warehouse.
func (s *SupplyChainState) CumulativeArrived(sp SpeciesID) Quantity { return s.arrived[sp] }

// CumulativePlanted returns the total quantity of a species ever planted.
func (s *SupplyChainState) CumulativePlanted(sp SpeciesID) Quantity { return s.planted[sp] }

// PlaceOrder validates and records an order. The order's plants are held in
// the pending set and credited to stage 0 during the AdvanceDay that opens
// its arrival day, so acclimation is always counted from physical arrival.
func (s *SupplyChainState) PlaceOrder(o *Order) error {
	if o == nil || len(o.Lines) == 0 {
		return fmt.Errorf("order must contain at least one line")
	}
	if o.OrderDay != s.currentDay {
		return fmt.Errorf("order day %d does not match current day %d", o.OrderDay, s.currentDay)
	}
	if o.ArrivalDay != s.currentDay+s.cfg.OrderDeliveryLag {
		return fmt.Errorf("arrival day %d does not match delivery lag %d", o.ArrivalDay, s.cfg.OrderDeliveryLag)
	}
	var total Quantity
	for _, line := range o.Lines {
		if line.Quantity <= 0 {
			return fmt.Errorf("order line for species %d has non-positive quantity %d", line.Species, line.Quantity)
		}
		if !containsSpecies(s.cfg.Species, line.Species) {
			return fmt.Errorf("order line references unknown species %d", line.Species)
		}
		total += line.Quantity
	}
	if total != o.TotalPlants {
		return fmt.Errorf("order total %d does not match line sum %d", o.TotalPlants, total)
	}
	if total > s.cfg.MaxOrderPerDay {
		return fmt.Errorf("order of %d plants exceeds provider daily cap %d", total, s.cfg.MaxOrderPerDay)
	}
	for _, existing := range s.orders {
		if existing.OrderDay == s.currentDay && existing.Provider == o.Provider {
			return fmt.Errorf("provider %q already has an order on day %d", o.Provider, s.currentDay)
		}
	}
	if total > s.EffectiveWarehouseSpace() {
		return fmt.Errorf("order of %d plants exceeds effective warehouse space %d",
			total, s.EffectiveWarehouseSpace())
	}

	s.orders = append(s.orders, o)
	s.pendingOrders = append(s.pendingOrders, o)
	s.totalCost = s.totalCost.Add(o.Cost)
	return nil
}

// ConsumeLaborHours charges trip time against the daily budget. The budget
// can never go negative.
func (s *SupplyChainState) ConsumeLaborHours(h float64) error {
	if h <= 0 {
		return fmt.Errorf("labor charge must be positive, got %v", h)
	}
	if h > s.remainingLaborHours+laborEpsilon {
		return fmt.Errorf("labor charge %.2fh exceeds remaining budget %.2fh", h, s.remainingLaborHours)
	}
	s.remainingLaborHours -= h
	if s.remainingLaborHours < 0 {
		s.remainingLaborHours = 0
	}
	return nil
}

// RecordPlanting atomically decrements available inventory and polygon
// demand and appends the paired planting and transportation activities.
// Labor hours are charged separately, once per trip, via ConsumeLaborHours.
func (s *SupplyChainState) RecordPlanting(p PolygonID, sp SpeciesID, qty Quantity, travelTime float64, tripNumber int) error {
	if qty <= 0 {
		return fmt.Errorf("planting quantity must be positive, got %d", qty)
	}
	if p == s.cfg.BasePolygon {
		return fmt.Errorf("cannot plant at the warehouse polygon %d", p)
	}
	if qty > s.available[sp] {
		return fmt.Errorf("species %d has %d available, cannot plant %d", sp, s.available[sp], qty)
	}
	if err := s.remainingDemand.Decrement(p, sp, qty); err != nil {
		return err
	}

	s.available[sp] -= qty
	s.planted[sp] += qty

	cost := s.costs.PlantingCost(qty)
	s.totalCost = s.totalCost.Add(cost)

	loadHours := float64(qty) * s.cfg.LoadTimePerPlant
	unloadHours := float64(qty) * s.cfg.UnloadTimePerPlant
	s.transports = append(s.transports, TransportationActivity{
		Day:        s.currentDay,
		From:       s.cfg.BasePolygon,
		To:         p,
		Species:    sp,
		Quantity:   qty,
		TravelTime: travelTime,
		LoadTime:   loadHours,
		UnloadTime: unloadHours,
		TripNumber: tripNumber,
	})
	s.plantings = append(s.plantings, PlantingActivity{
		Day:            s.currentDay,
		Polygon:        p,
		Species:        sp,
		Quantity:       qty,
		TreatmentHours: s.costs.SpeciesTreatmentHours(sp),
		PlantingCost:   cost,
		TripNumber:     tripNumber,
	})
	return nil
}

// AdvanceDay closes the current day: it snapshots the audit record, shifts
// the acclimation pipeline by one stage, opens the next day, materializes
// orders arriving that day into stage 0, and resets the labor budget. It
// must be called exactly once per simulated day.
func (s *SupplyChainState) AdvanceDay() error {
	s.recordDailyState()

	// Shift the pipeline: the oldest stage graduates to available.
	if n := len(s.stages); n > 0 {
		oldest := s.stages[n-1]
		for sp, qty := range oldest {
			s.available[sp] += qty
		}
		for i := n - 1; i > 0; i-- {
			s.stages[i] = s.stages[i-1]
		}
		s.stages[0] = make(map[SpeciesID]Quantity)
	}

	s.currentDay++
	s.remainingLaborHours = s.cfg.DailyLaborHours

	// Materialize arrivals strictly on their arrival day.
	var stillPending []*Order
	for _, o := range s.pendingOrders {
		if o.ArrivalDay > s.currentDay {
			stillPending = append(stillPending, o)
			continue
		}
		if o.ArrivalDay < s.currentDay {
			return fmt.Errorf("order from %q missed its arrival day %d (now day %d)",
				o.Provider, o.ArrivalDay, s.currentDay)
		}
		for _, line := range o.Lines {
			s.creditArrival(line.Species, line.Quantity)
		}
	}
	s.pendingOrders = stillPending

	if s.TotalWarehouseInventory() > s.cfg.WarehouseCapacity {
		return fmt.Errorf("warehouse holds %d plants, over capacity %d",
			s.TotalWarehouseInventory(), s.cfg.WarehouseCapacity)
	}
	return nil
}

func (s *SupplyChainState) creditArrival(sp SpeciesID, qty Quantity) {
	if len(s.stages) == 0 {
		// No acclimation configured: arrivals are immediately plantable.
		s.available[sp] += qty
	} else {
		s.stages[0][sp] += qty
	}
	s.arrived[sp] += qty
}

// recordDailyState appends the immutable audit snapshot for the day being
// closed. Side effect only; it never feeds back into scheduling.
func (s *SupplyChainState) recordDailyState() {
	s.records = append(s.records, buildDailyRecord(s))
}
