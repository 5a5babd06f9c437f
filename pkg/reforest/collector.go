package reforest

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// InventorySnapshot captures the acclimation pipeline at a point in time.
// Stages[0] holds plants that arrived that day; Available holds plants past
// the full acclimation period.
type InventorySnapshot struct {
	Stages    []map[SpeciesID]Quantity `json:"stages"`
	Available map[SpeciesID]Quantity   `json:"available"`
}

// Total sums the snapshot across all stages and species.
func (snap InventorySnapshot) Total() Quantity {
	var total Quantity
	for _, stage := range snap.Stages {
		for _, qty := range stage {
			total += qty
		}
	}
	for _, qty := range snap.Available {
		total += qty
	}
	return total
}

// DailyRecord is the immutable audit snapshot of one simulated day,
// appended when the day closes. It is consumed by report writers and has
// no behavioral impact on the schedule.
type DailyRecord struct {
	Day       int       `json:"day"`
	Date      time.Time `json:"date"`
	Weekday   string    `json:"weekday"`
	IsWeekend bool      `json:"is_weekend"`

	RemainingDemandTotal Quantity               `json:"remaining_demand_total"`
	RemainingByPolygon   map[PolygonID]Quantity `json:"remaining_demand_by_polygon"`
	Inventory            InventorySnapshot      `json:"warehouse_inventory"`
	InventoryTotal       Quantity               `json:"warehouse_inventory_total"`

	OrdersPlaced  []*Order                 `json:"orders_placed"`
	OrdersArrived []*Order                 `json:"orders_arrived"`
	Plantings     []PlantingActivity       `json:"planting_activities"`
	Transports    []TransportationActivity `json:"transportation_activities"`

	PolygonsCompleted []PolygonID `json:"polygons_completed"`

	OrderCost     decimal.Decimal `json:"order_cost"`
	PlantingCost  decimal.Decimal `json:"planting_cost"`
	TransportCost decimal.Decimal `json:"transport_cost"`
	DailyCost     decimal.Decimal `json:"daily_cost"`
	TotalCost     decimal.Decimal `json:"total_cost_to_date"`

	LaborHoursUsed      float64 `json:"labor_hours_used"`
	RemainingLaborHours float64 `json:"remaining_labor_hours"`
}

// buildDailyRecord snapshots the state for the day currently being closed.
func buildDailyRecord(s *SupplyChainState) DailyRecord {
	day := s.currentDay

	rec := DailyRecord{
		Day:       day,
		Date:      s.DateOf(day),
		Weekday:   s.DateOf(day).Weekday().String(),
		IsWeekend: s.IsWeekend(day),

		RemainingDemandTotal: s.remainingDemand.Total(),
		RemainingByPolygon:   make(map[PolygonID]Quantity),
		Inventory:            snapshotInventory(s),

		OrderCost:     decimal.Zero,
		PlantingCost:  decimal.Zero,
		TransportCost: decimal.Zero,
		TotalCost:     s.totalCost,

		LaborHoursUsed:      s.cfg.DailyLaborHours - s.remainingLaborHours,
		RemainingLaborHours: s.remainingLaborHours,
	}
	rec.InventoryTotal = rec.Inventory.Total()

	for _, p := range s.remainingDemand.Polygons() {
		if total := s.remainingDemand.PolygonTotal(p); total > 0 {
			rec.RemainingByPolygon[p] = total
		}
	}

	for _, o := range s.orders {
		if o.OrderDay == day {
			rec.OrdersPlaced = append(rec.OrdersPlaced, o)
			rec.OrderCost = rec.OrderCost.Add(o.Cost)
		}
		if o.ArrivalDay == day {
			rec.OrdersArrived = append(rec.OrdersArrived, o)
		}
	}

	completed := make(map[PolygonID]bool)
	for _, act := range s.plantings {
		if act.Day != day {
			continue
		}
		rec.Plantings = append(rec.Plantings, act)
		rec.PlantingCost = rec.PlantingCost.Add(act.PlantingCost)
		if s.remainingDemand.PolygonTotal(act.Polygon) == 0 {
			completed[act.Polygon] = true
		}
	}
	for p := range completed {
		rec.PolygonsCompleted = append(rec.PolygonsCompleted, p)
	}
	sortPolygons(rec.PolygonsCompleted)

	for _, act := range s.transports {
		if act.Day != day {
			continue
		}
		rec.Transports = append(rec.Transports, act)
		rec.TransportCost = rec.TransportCost.Add(s.costs.TransportCost(act.Quantity))
	}

	rec.DailyCost = rec.OrderCost.Add(rec.PlantingCost)
	return rec
}

func snapshotInventory(s *SupplyChainState) InventorySnapshot {
	snap := InventorySnapshot{
		Stages:    make([]map[SpeciesID]Quantity, len(s.stages)),
		Available: make(map[SpeciesID]Quantity, len(s.cfg.Species)),
	}
	for i, stage := range s.stages {
		snap.Stages[i] = make(map[SpeciesID]Quantity, len(s.cfg.Species))
		for _, sp := range s.cfg.Species {
			if qty := stage[sp]; qty > 0 {
				snap.Stages[i][sp] = qty
			}
		}
	}
	for _, sp := range s.cfg.Species {
		if qty := s.available[sp]; qty > 0 {
			snap.Available[sp] = qty
		}
	}
	return snap
}

func sortPolygons(list []PolygonID) {
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
}
