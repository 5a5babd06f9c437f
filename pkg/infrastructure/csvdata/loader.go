// Package csvdata loads the demand and travel-time matrices from the CSV
// layout produced by the field survey tooling: an index column of polygon
// ids and one column per species (demand) or per polygon (travel times).
package csvdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ecodelta/reforest/pkg/reforest"
)

// Loader handles loading simulation inputs from CSV files.
type Loader struct{}

// NewLoader creates a new CSV loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDemand loads the polygon-by-species demand matrix. The header row
// holds species ids; each data row starts with a polygon id followed by
// non-negative integer demand cells.
func (l *Loader) LoadDemand(filename string) (*reforest.DemandMatrix, error) {
	records, err := readCSV(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read demand CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("demand CSV must have header and at least one data row")
	}

	species, err := parseIDHeader(records[0])
	if err != nil {
		return nil, fmt.Errorf("demand CSV header: %w", err)
	}

	matrix := reforest.NewDemandMatrix()
	for i, record := range records[1:] {
		row := i + 2
		if len(record) != len(species)+1 {
			return nil, fmt.Errorf("demand CSV row %d: expected %d columns, got %d", row, len(species)+1, len(record))
		}
		polygon, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("demand CSV row %d: invalid polygon id %q", row, record[0])
		}
		for j, cell := range record[1:] {
			qty, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("demand CSV row %d: invalid quantity %q", row, cell)
			}
			if err := matrix.Set(reforest.PolygonID(polygon), reforest.SpeciesID(species[j]), reforest.Quantity(qty)); err != nil {
				return nil, fmt.Errorf("demand CSV row %d: %w", row, err)
			}
		}
	}
	return matrix, nil
}

// LoadTravelTimes loads the square travel-time matrix in hours. The
// warehouse polygon's self-distance is forced to unreachable so it can
// never be selected as a planting target.
func (l *Loader) LoadTravelTimes(filename string, base reforest.PolygonID) (*reforest.TravelTimeMatrix, error) {
	records, err := readCSV(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read travel time CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("travel time CSV must have header and at least one data row")
	}

	columns, err := parseIDHeader(records[0])
	if err != nil {
		return nil, fmt.Errorf("travel time CSV header: %w", err)
	}
	if len(records)-1 != len(columns) {
		return nil, fmt.Errorf("travel time CSV must be square: %d rows, %d columns", len(records)-1, len(columns))
	}

	matrix := reforest.NewTravelTimeMatrix()
	for i, record := range records[1:] {
		row := i + 2
		if len(record) != len(columns)+1 {
			return nil, fmt.Errorf("travel time CSV row %d: expected %d columns, got %d", row, len(columns)+1, len(record))
		}
		from, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("travel time CSV row %d: invalid polygon id %q", row, record[0])
		}
		for j, cell := range record[1:] {
			hours, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("travel time CSV row %d: invalid travel time %q", row, cell)
			}
			if err := matrix.Set(reforest.PolygonID(from), reforest.PolygonID(columns[j]), hours); err != nil {
				return nil, fmt.Errorf("travel time CSV row %d: %w", row, err)
			}
		}
	}
	matrix.MarkUnreachable(base, base)
	return matrix, nil
}

func readCSV(filename string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	return csv.NewReader(file).ReadAll()
}

// parseIDHeader parses a header row of the form ["", id, id, ...]. The
// first cell is the index label and is ignored.
func parseIDHeader(header []string) ([]int, error) {
	if len(header) < 2 {
		return nil, fmt.Errorf("expected an index column and at least one id column")
	}
	ids := make([]int, 0, len(header)-1)
	for _, cell := range header[1:] {
		id, err := strconv.Atoi(strings.TrimSpace(cell))
		if err != nil {
			return nil, fmt.Errorf("invalid id column %q", cell)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
