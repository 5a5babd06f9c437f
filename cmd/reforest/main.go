package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ecodelta/reforest/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		demandFile = flag.String("demand", "", "Path to demand CSV file (polygon rows, species columns)")
		timesFile  = flag.String("times", "", "Path to travel-time CSV file (square, hours)")
		startDate  = flag.String("start", "", "Simulation start date (YYYY-MM-DD)")
		outputDir  = flag.String("output", "", "Output directory for the daily report (optional)")
		format     = flag.String("format", "text", "Output format: text, json, svg, html")
		maxDays    = flag.Int("max-days", 0, "Override the simulation day limit")
		verbose    = flag.Bool("verbose", false, "Enable verbose output")
		help       = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	config := commands.Config{
		DemandFile: *demandFile,
		TimesFile:  *timesFile,
		StartDate:  *startDate,
		OutputDir:  *outputDir,
		Format:     *format,
		MaxDays:    *maxDays,
		Verbose:    *verbose,
		Help:       *help,
	}

	cmd := commands.NewRunCommand(config)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
