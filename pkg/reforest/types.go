package reforest

import (
	"github.com/shopspring/decimal"
)

// SpeciesID identifies one of the plant species in the reforestation mix.
type SpeciesID int

// PolygonID identifies a planting site. The warehouse is itself a polygon
// and is excluded from planting targets.
type PolygonID int

// Quantity represents an integer count of plants.
type Quantity int64

// Provider identifies a nursery that supplies plants.
type Provider string

// TreatmentClass groups species by their pre-planting treatment. All plants
// of a class on a trip are submerged together, so treatment time is charged
// once per class used, independent of quantity.
type TreatmentClass int

const (
	TreatmentNormal TreatmentClass = iota
	TreatmentOpuntia
)

func (c TreatmentClass) String() string {
	switch c {
	case TreatmentNormal:
		return "Normal"
	case TreatmentOpuntia:
		return "Opuntia"
	default:
		return "Unknown"
	}
}

// OrderLine is a single species/quantity entry within an order.
type OrderLine struct {
	Species  SpeciesID
	Quantity Quantity
}

// Order represents a purchase from a provider. Orders are immutable once
// placed; the ordered plants materialize into acclimation stage 0 on
// ArrivalDay.
type Order struct {
	OrderDay    int
	ArrivalDay  int
	Provider    Provider
	Lines       []OrderLine
	TotalPlants Quantity
	Cost        decimal.Decimal
}

// PlantingActivity records plants of one species put in the ground at a
// polygon. TripNumber groups the activities of a single van trip.
type PlantingActivity struct {
	Day            int
	Polygon        PolygonID
	Species        SpeciesID
	Quantity       Quantity
	TreatmentHours float64
	PlantingCost   decimal.Decimal
	TripNumber     int
}

// TransportationActivity records the transport leg paired with a planting.
// Every trip originates at the warehouse and returns to it.
type TransportationActivity struct {
	Day        int
	From       PolygonID
	To         PolygonID
	Species    SpeciesID
	Quantity   Quantity
	TravelTime float64
	LoadTime   float64
	UnloadTime float64
	TripNumber int
}
