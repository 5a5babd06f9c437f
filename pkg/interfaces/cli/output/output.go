// Package output renders simulation results as a text summary, a
// day-by-day JSON report, an SVG schedule chart or an HTML report page.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ecodelta/reforest/pkg/reforest"
)

// Config holds configuration for output generation.
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	RunTime   time.Duration
}

// Generate writes output in the configured format.
func Generate(result *reforest.RunResult, state *reforest.SupplyChainState, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(os.Stdout, result, state, config)
	case "json":
		return generateJSONOutput(result, state, config)
	case "svg":
		if err := generateTextOutput(os.Stdout, result, state, config); err != nil {
			return err
		}
		return writeScheduleSVG(result, state, config)
	case "html":
		if err := generateTextOutput(os.Stdout, result, state, config); err != nil {
			return err
		}
		return writeHTMLReport(result, state, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput writes the human-readable run summary.
func generateTextOutput(w io.Writer, result *reforest.RunResult, state *reforest.SupplyChainState, config Config) error {
	fmt.Fprintf(w, "Reforestation Plan Summary\n")
	fmt.Fprintf(w, "==========================\n\n")

	fmt.Fprintf(w, "Halt state:        %s\n", result.Halt)
	fmt.Fprintf(w, "Days simulated:    %d\n", result.Days)
	fmt.Fprintf(w, "Total cost:        $%s\n", result.TotalCost.StringFixed(2))
	fmt.Fprintf(w, "Remaining demand:  %d plants\n", result.RemainingDemand)
	fmt.Fprintf(w, "Final inventory:   %d plants\n", result.FinalInventory)
	fmt.Fprintf(w, "Orders placed:     %d\n", len(state.Orders()))
	fmt.Fprintf(w, "Planting records:  %d\n", len(state.PlantingActivities()))
	if config.RunTime > 0 {
		fmt.Fprintf(w, "Run time:          %v\n", config.RunTime)
	}
	fmt.Fprintln(w)

	if result.RemainingDemand > 0 {
		fmt.Fprintf(w, "Remaining demand by species:\n")
		for _, sp := range state.Config().Species {
			demand := state.RemainingDemand().SpeciesTotal(sp)
			if demand == 0 {
				continue
			}
			fmt.Fprintf(w, "  species %-2d: %6d needed, %6d available\n",
				sp, demand, state.AvailableInventory(sp))
		}
		fmt.Fprintln(w)
	}

	if config.OutputDir != "" {
		return writeDailyReport(result, state, config)
	}
	return nil
}

// generateJSONOutput writes the summary as JSON to stdout and, when an
// output directory is configured, the daily report alongside it.
func generateJSONOutput(result *reforest.RunResult, state *reforest.SupplyChainState, config Config) error {
	summary := map[string]interface{}{
		"halt_state":       result.Halt.String(),
		"days":             result.Days,
		"total_cost":       result.TotalCost,
		"remaining_demand": result.RemainingDemand,
		"final_inventory":  result.FinalInventory,
		"orders":           len(state.Orders()),
		"plantings":        len(state.PlantingActivities()),
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	if config.OutputDir != "" {
		return writeDailyReport(result, state, config)
	}
	return nil
}

// writeDailyReport dumps the per-day audit records to daily_report.json.
func writeDailyReport(result *reforest.RunResult, state *reforest.SupplyChainState, config Config) error {
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	report := struct {
		Halt    string                 `json:"halt_state"`
		Days    int                    `json:"days"`
		Records []reforest.DailyRecord `json:"daily_records"`
	}{
		Halt:    result.Halt.String(),
		Days:    result.Days,
		Records: state.DailyRecords(),
	}

	filename := filepath.Join(config.OutputDir, "daily_report.json")
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode daily report: %w", err)
	}

	if config.Verbose {
		fmt.Printf("Daily report saved to: %s\n", filename)
	}
	return nil
}

// writeScheduleSVG renders the planting schedule chart to schedule.svg.
func writeScheduleSVG(result *reforest.RunResult, state *reforest.SupplyChainState, config Config) error {
	dir := config.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	chart := NewScheduleChart(state, result.Days)
	filename := filepath.Join(dir, "schedule.svg")
	if err := os.WriteFile(filename, []byte(chart.GenerateSVG(state)), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if config.Verbose {
		fmt.Printf("Schedule chart saved to: %s\n", filename)
	}
	return nil
}

// writeHTMLReport renders the HTML report page to report.html.
func writeHTMLReport(result *reforest.RunResult, state *reforest.SupplyChainState, config Config) error {
	dir := config.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	html, err := NewHTMLReport().GenerateHTML(result, state)
	if err != nil {
		return err
	}
	filename := filepath.Join(dir, "report.html")
	if err := os.WriteFile(filename, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if config.Verbose {
		fmt.Printf("HTML report saved to: %s\n", filename)
	}
	return nil
}
