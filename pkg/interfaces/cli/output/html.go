package output

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/ecodelta/reforest/pkg/reforest"
)

//go:embed templates/*.html
var templateFS embed.FS

// HTMLReport renders the run as a self-contained HTML page with the summary
// and a day-by-day table.
type HTMLReport struct{}

// reportDay is one row of the daily table, preformatted for the template.
type reportDay struct {
	Day             int
	Date            string
	Weekday         string
	IsWeekend       bool
	OrdersPlaced    int
	OrderedPlants   reforest.Quantity
	Trips           int
	PlantedPlants   reforest.Quantity
	RemainingDemand reforest.Quantity
	Inventory       reforest.Quantity
	DailyCost       string
	Completed       []reforest.PolygonID
}

// reportData is the full template payload.
type reportData struct {
	GeneratedAt     string
	Halt            string
	Days            int
	TotalCost       string
	RemainingDemand reforest.Quantity
	FinalInventory  reforest.Quantity
	OrderCount      int
	TripCount       int
	DailyRows       []reportDay
}

// NewHTMLReport creates an HTML report generator.
func NewHTMLReport() *HTMLReport {
	return &HTMLReport{}
}

// GenerateHTML renders the report page for a finished run.
func (r *HTMLReport) GenerateHTML(result *reforest.RunResult, state *reforest.SupplyChainState) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/daily_report.html")
	if err != nil {
		return "", fmt.Errorf("failed to parse report template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.buildReportData(result, state)); err != nil {
		return "", fmt.Errorf("failed to render report template: %w", err)
	}
	return buf.String(), nil
}

func (r *HTMLReport) buildReportData(result *reforest.RunResult, state *reforest.SupplyChainState) *reportData {
	data := &reportData{
		GeneratedAt:     time.Now().Format("2006-01-02 15:04:05"),
		Halt:            result.Halt.String(),
		Days:            result.Days,
		TotalCost:       result.TotalCost.StringFixed(2),
		RemainingDemand: result.RemainingDemand,
		FinalInventory:  result.FinalInventory,
		OrderCount:      len(state.Orders()),
	}

	for _, rec := range state.DailyRecords() {
		row := reportDay{
			Day:             rec.Day,
			Date:            rec.Date.Format("2006-01-02"),
			Weekday:         rec.Weekday,
			IsWeekend:       rec.IsWeekend,
			OrdersPlaced:    len(rec.OrdersPlaced),
			RemainingDemand: rec.RemainingDemandTotal,
			Inventory:       rec.InventoryTotal,
			DailyCost:       rec.DailyCost.StringFixed(2),
			Completed:       rec.PolygonsCompleted,
		}
		for _, o := range rec.OrdersPlaced {
			row.OrderedPlants += o.TotalPlants
		}
		trips := make(map[int]bool)
		for _, act := range rec.Plantings {
			row.PlantedPlants += act.Quantity
			trips[act.TripNumber] = true
		}
		row.Trips = len(trips)
		data.TripCount += row.Trips
		data.DailyRows = append(data.DailyRows, row)
	}
	return data
}
