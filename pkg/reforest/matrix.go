package reforest

import (
	"fmt"
	"math"
	"sort"
)

// DemandMatrix holds the remaining per-polygon, per-species demand. Cells
// are non-negative and only ever decrease once the simulation starts.
type DemandMatrix struct {
	cells map[PolygonID]map[SpeciesID]Quantity
}

// NewDemandMatrix creates an empty demand matrix.
func NewDemandMatrix() *DemandMatrix {
	return &DemandMatrix{cells: make(map[PolygonID]map[SpeciesID]Quantity)}
}

// Set assigns the demand for a polygon/species cell.
func (m *DemandMatrix) Set(p PolygonID, s SpeciesID, qty Quantity) error {
	if qty < 0 {
		return fmt.Errorf("demand for polygon %d species %d cannot be negative, got %d", p, s, qty)
	}
	row, ok := m.cells[p]
	if !ok {
		row = make(map[SpeciesID]Quantity)
		m.cells[p] = row
	}
	row[s] = qty
	return nil
}

// Get returns the remaining demand for a polygon/species cell.
func (m *DemandMatrix) Get(p PolygonID, s SpeciesID) Quantity {
	return m.cells[p][s]
}

// Decrement reduces a cell by qty. The cell must hold at least qty.
func (m *DemandMatrix) Decrement(p PolygonID, s SpeciesID, qty Quantity) error {
	if qty <= 0 {
		return fmt.Errorf("decrement quantity must be positive, got %d", qty)
	}
	current := m.Get(p, s)
	if qty > current {
		return fmt.Errorf("demand for polygon %d species %d is %d, cannot plant %d", p, s, current, qty)
	}
	m.cells[p][s] = current - qty
	return nil
}

// PolygonTotal returns the remaining demand summed over species for one polygon.
func (m *DemandMatrix) PolygonTotal(p PolygonID) Quantity {
	var total Quantity
	for _, qty := range m.cells[p] {
		total += qty
	}
	return total
}

// SpeciesTotal returns the remaining demand summed over polygons for one species.
func (m *DemandMatrix) SpeciesTotal(s SpeciesID) Quantity {
	var total Quantity
	for _, row := range m.cells {
		total += row[s]
	}
	return total
}

// Total returns the overall remaining demand.
func (m *DemandMatrix) Total() Quantity {
	var total Quantity
	for p := range m.cells {
		total += m.PolygonTotal(p)
	}
	return total
}

// Polygons returns all polygon ids in the matrix in ascending order.
func (m *DemandMatrix) Polygons() []PolygonID {
	out := make([]PolygonID, 0, len(m.cells))
	for p := range m.cells {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns a deep copy, used for initial-demand bookkeeping.
func (m *DemandMatrix) Clone() *DemandMatrix {
	clone := NewDemandMatrix()
	for p, row := range m.cells {
		cloneRow := make(map[SpeciesID]Quantity, len(row))
		for s, qty := range row {
			cloneRow[s] = qty
		}
		clone.cells[p] = cloneRow
	}
	return clone
}

// TravelTimeMatrix holds round-trip leg times in hours between polygons.
type TravelTimeMatrix struct {
	hours map[PolygonID]map[PolygonID]float64
}

// NewTravelTimeMatrix creates an empty travel-time matrix.
func NewTravelTimeMatrix() *TravelTimeMatrix {
	return &TravelTimeMatrix{hours: make(map[PolygonID]map[PolygonID]float64)}
}

// Set assigns the travel time between two polygons.
func (m *TravelTimeMatrix) Set(from, to PolygonID, h float64) error {
	if h < 0 {
		return fmt.Errorf("travel time %d->%d cannot be negative, got %v", from, to, h)
	}
	row, ok := m.hours[from]
	if !ok {
		row = make(map[PolygonID]float64)
		m.hours[from] = row
	}
	row[to] = h
	return nil
}

// MarkUnreachable sets a leg to infinity so it is never selected.
func (m *TravelTimeMatrix) MarkUnreachable(from, to PolygonID) {
	row, ok := m.hours[from]
	if !ok {
		row = make(map[PolygonID]float64)
		m.hours[from] = row
	}
	row[to] = math.Inf(1)
}

// Hours returns the travel time of a leg. The second return value is false
// when no entry exists for the pair.
func (m *TravelTimeMatrix) Hours(from, to PolygonID) (float64, bool) {
	row, ok := m.hours[from]
	if !ok {
		return 0, false
	}
	h, ok := row[to]
	return h, ok
}

// Reachable reports whether a leg exists and is finite.
func (m *TravelTimeMatrix) Reachable(from, to PolygonID) bool {
	h, ok := m.Hours(from, to)
	return ok && !math.IsInf(h, 1)
}
