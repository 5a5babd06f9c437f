package reforest

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Config packs every operational constant of the supply chain. It is passed
// explicitly into the state, cost model and strategy constructors so tests
// can run with alternate parameters.
type Config struct {
	// Species and sites
	Species        []SpeciesID
	OpuntiaSpecies []SpeciesID
	BasePolygon    PolygonID

	// Warehouse and vehicle
	VanCapacity       Quantity
	WarehouseCapacity Quantity

	// Ordering
	Providers          map[Provider]map[SpeciesID]decimal.Decimal
	ProviderRotation   []Provider
	MaxOrderPerDay     Quantity
	OrderDeliveryLag   int
	SmallOrderMinimum  Quantity
	OrderOnWeekends    bool
	TransportSurcharge decimal.Decimal

	// Time accounting (hours)
	DailyLaborHours       float64
	LoadTimePerPlant      float64
	UnloadTimePerPlant    float64
	NormalTreatmentHours  float64
	OpuntiaTreatmentHours float64
	MinTripHours          float64

	// Acclimation pipeline depth: days a plant spends in staging before it
	// becomes available for planting.
	AcclimationDays int

	// Planting
	PlantingCostPerPlant decimal.Decimal
	SpeciesProportions   map[SpeciesID]Quantity

	// Driver halt thresholds
	MaxDays                int
	MaxDaysWithoutProgress int
}

// DefaultConfig returns the production parameters of the reforestation
// project: 10 species, 3 nurseries, a 524-plant van and a 10000-plant
// warehouse at polygon 18.
func DefaultConfig() Config {
	return Config{
		Species:        []SpeciesID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		OpuntiaSpecies: []SpeciesID{5, 6, 7, 8},
		BasePolygon:    18,

		VanCapacity:       524,
		WarehouseCapacity: 10000,

		Providers: map[Provider]map[SpeciesID]decimal.Decimal{
			"moctezuma": {
				3:  decimal.NewFromInt(26),
				4:  decimal.NewFromInt(26),
				5:  decimal.NewFromInt(17),
				7:  decimal.NewFromInt(17),
				9:  decimal.NewFromFloat(26.5),
				10: decimal.NewFromInt(26),
			},
			"venado": {
				4: decimal.NewFromInt(25),
				5: decimal.NewFromInt(18),
				6: decimal.NewFromInt(18),
				7: decimal.NewFromInt(18),
				8: decimal.NewFromInt(18),
			},
			"laguna_seca": {
				1: decimal.NewFromInt(26),
				2: decimal.NewFromInt(26),
				3: decimal.NewFromInt(26),
				6: decimal.NewFromInt(21),
				7: decimal.NewFromInt(18),
			},
		},
		ProviderRotation:   []Provider{"laguna_seca", "venado", "moctezuma"},
		MaxOrderPerDay:     8000,
		OrderDeliveryLag:   1,
		SmallOrderMinimum:  50,
		OrderOnWeekends:    true,
		TransportSurcharge: decimal.NewFromFloat(0.5625),

		DailyLaborHours:       6,
		LoadTimePerPlant:      0.5 / 524,
		UnloadTimePerPlant:    0.5 / 524,
		NormalTreatmentHours:  1,
		OpuntiaTreatmentHours: 1.0 / 3.0,
		MinTripHours:          1.5,

		AcclimationDays: 3,

		PlantingCostPerPlant: decimal.NewFromInt(20),
		SpeciesProportions: map[SpeciesID]Quantity{
			1: 33, 2: 157, 3: 33, 4: 33, 5: 39,
			6: 30, 7: 58, 8: 51, 9: 69, 10: 21,
		},

		MaxDays:                1000,
		MaxDaysWithoutProgress: 20,
	}
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if len(c.Species) == 0 {
		return fmt.Errorf("config must declare at least one species")
	}
	if c.VanCapacity <= 0 {
		return fmt.Errorf("van capacity must be positive, got %d", c.VanCapacity)
	}
	if c.WarehouseCapacity < c.VanCapacity {
		return fmt.Errorf("warehouse capacity %d smaller than one van load %d",
			c.WarehouseCapacity, c.VanCapacity)
	}
	if c.AcclimationDays < 0 {
		return fmt.Errorf("acclimation days cannot be negative, got %d", c.AcclimationDays)
	}
	if c.DailyLaborHours <= 0 {
		return fmt.Errorf("daily labor hours must be positive, got %v", c.DailyLaborHours)
	}
	if c.MaxDays <= 0 {
		return fmt.Errorf("max days must be positive, got %d", c.MaxDays)
	}
	if c.MaxDaysWithoutProgress <= 0 {
		return fmt.Errorf("max days without progress must be positive, got %d",
			c.MaxDaysWithoutProgress)
	}
	for _, p := range c.ProviderRotation {
		if _, ok := c.Providers[p]; !ok {
			return fmt.Errorf("rotation provider %q has no price catalog", p)
		}
	}
	for _, s := range c.OpuntiaSpecies {
		if !containsSpecies(c.Species, s) {
			return fmt.Errorf("opuntia species %d is not a declared species", s)
		}
	}
	return nil
}

// IsOpuntia reports whether the species belongs to the Opuntia treatment class.
func (c Config) IsOpuntia(s SpeciesID) bool {
	return containsSpecies(c.OpuntiaSpecies, s)
}

// TreatmentClassOf returns the treatment class for a species.
func (c Config) TreatmentClassOf(s SpeciesID) TreatmentClass {
	if c.IsOpuntia(s) {
		return TreatmentOpuntia
	}
	return TreatmentNormal
}

// NonOpuntiaSpecies returns the declared species outside the Opuntia class,
// in ascending id order.
func (c Config) NonOpuntiaSpecies() []SpeciesID {
	var out []SpeciesID
	for _, s := range c.Species {
		if !c.IsOpuntia(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TripOverheadHours is the fixed load plus unload time for a full van trip.
func (c Config) TripOverheadHours() float64 {
	return float64(c.VanCapacity) * (c.LoadTimePerPlant + c.UnloadTimePerPlant)
}

func containsSpecies(list []SpeciesID, s SpeciesID) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
