// Package commands implements the CLI entry points of the planner.
package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ecodelta/reforest/pkg/infrastructure/csvdata"
	"github.com/ecodelta/reforest/pkg/interfaces/cli/output"
	"github.com/ecodelta/reforest/pkg/reforest"
)

// Config holds configuration for the run command.
type Config struct {
	DemandFile string
	TimesFile  string
	StartDate  string
	OutputDir  string
	Format     string
	Verbose    bool
	MaxDays    int
	Help       bool
}

// RunCommand loads the input matrices, runs the simulation and renders the
// results.
type RunCommand struct {
	config Config
}

// NewRunCommand creates a run command with the given configuration.
func NewRunCommand(config Config) *RunCommand {
	return &RunCommand{config: config}
}

// Execute runs the command.
func (c *RunCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}
	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	startDate, err := time.Parse("2006-01-02", c.config.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q (want YYYY-MM-DD): %w", c.config.StartDate, err)
	}

	cfg := reforest.DefaultConfig()
	if c.config.MaxDays > 0 {
		cfg.MaxDays = c.config.MaxDays
	}

	if c.config.Verbose {
		fmt.Println("Loading demand and travel-time matrices...")
	}

	loader := csvdata.NewLoader()
	demand, err := loader.LoadDemand(c.config.DemandFile)
	if err != nil {
		return fmt.Errorf("error loading demand: %w", err)
	}
	times, err := loader.LoadTravelTimes(c.config.TimesFile, cfg.BasePolygon)
	if err != nil {
		return fmt.Errorf("error loading travel times: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("Loaded %d polygons, %d plants of total demand\n",
			len(demand.Polygons()), demand.Total())
	}

	state, err := reforest.NewSupplyChainState(cfg, startDate, demand)
	if err != nil {
		return fmt.Errorf("failed to initialize state: %w", err)
	}
	strategy, err := reforest.NewPolygonStrategy(state, times)
	if err != nil {
		return fmt.Errorf("failed to initialize strategy: %w", err)
	}

	driver := reforest.NewDriver(state, strategy)
	if c.config.Verbose {
		driver.SetProgressWriter(os.Stdout)
	}

	started := time.Now()
	result, err := driver.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	return output.Generate(result, state, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		RunTime:   time.Since(started),
	})
}

func (c *RunCommand) validateInputs() error {
	if c.config.DemandFile == "" {
		return fmt.Errorf("demand file is required (-demand)")
	}
	if c.config.TimesFile == "" {
		return fmt.Errorf("travel times file is required (-times)")
	}
	if c.config.StartDate == "" {
		return fmt.Errorf("start date is required (-start)")
	}
	switch c.config.Format {
	case "text", "json", "svg", "html":
	default:
		return fmt.Errorf("unsupported format %q (want text, json, svg or html)", c.config.Format)
	}
	return nil
}

func (c *RunCommand) showHelp() {
	fmt.Println(`reforest - reforestation supply chain planner

Usage:
  reforest -demand demand.csv -times times.csv -start 2025-09-01 [options]

Options:
  -demand string   Path to the polygon-by-species demand CSV
  -times string    Path to the square travel-time CSV (hours)
  -start string    Simulation start date (YYYY-MM-DD)
  -output string   Directory for report artifacts (optional)
  -format string   Output format: text, json, svg, html (default "text")
  -max-days int    Override the day limit (default 1000)
  -verbose         Print progress while simulating
  -help            Show this message`)
}
