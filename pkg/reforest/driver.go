package reforest

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// HaltReason is the terminal state of a simulation run.
type HaltReason int

const (
	Running HaltReason = iota
	HaltedComplete
	HaltedDayLimit
	HaltedNoProgress
)

func (h HaltReason) String() string {
	switch h {
	case Running:
		return "Running"
	case HaltedComplete:
		return "Complete"
	case HaltedDayLimit:
		return "DayLimit"
	case HaltedNoProgress:
		return "NoProgress"
	default:
		return "Unknown"
	}
}

// RunResult summarizes a finished simulation. Partial completion is a
// valid, reportable outcome, not an error.
type RunResult struct {
	Halt            HaltReason
	Days            int
	TotalCost       decimal.Decimal
	RemainingDemand Quantity
	FinalInventory  Quantity
}

// Driver runs the day-by-day loop: planting, then ordering, then the day
// advance, until demand is exhausted or a halt threshold trips.
type Driver struct {
	cfg      Config
	state    *SupplyChainState
	strategy *PolygonStrategy
	progress io.Writer // nil = silent
}

// NewDriver wires a driver over a state and its strategy.
func NewDriver(state *SupplyChainState, strategy *PolygonStrategy) *Driver {
	return &Driver{cfg: state.Config(), state: state, strategy: strategy}
}

// SetProgressWriter enables per-day progress output, written every 10 days.
func (d *Driver) SetProgressWriter(w io.Writer) { d.progress = w }

// Run executes the simulation until a terminal halt state. The context is
// checked once per simulated day and is the only external cancellation.
func (d *Driver) Run(ctx context.Context) (*RunResult, error) {
	lastDemand := d.state.TotalRemainingDemand()
	daysWithoutProgress := 0
	halt := Running

	for halt == Running {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := d.state.TotalRemainingDemand()
		switch {
		case current == 0:
			halt = HaltedComplete
			continue
		case d.state.CurrentDay() >= d.cfg.MaxDays:
			halt = HaltedDayLimit
			continue
		}

		if current < lastDemand {
			daysWithoutProgress = 0
			lastDemand = current
		} else {
			daysWithoutProgress++
			if daysWithoutProgress >= d.cfg.MaxDaysWithoutProgress {
				halt = HaltedNoProgress
				continue
			}
		}

		if d.state.IsWeekend(d.state.CurrentDay()) {
			if d.cfg.OrderOnWeekends {
				if _, err := d.strategy.OrderStep(); err != nil {
					return nil, err
				}
			}
		} else {
			planted, err := d.strategy.PlantStep()
			if err != nil {
				return nil, err
			}
			// Planting consumes today's inventory; ordering provisions
			// tomorrow's.
			if !planted || d.state.RemainingLaborHours() > 0 {
				if _, err := d.strategy.OrderStep(); err != nil {
					return nil, err
				}
			}
		}

		if err := d.state.AdvanceDay(); err != nil {
			return nil, err
		}
		d.reportProgress()
	}

	return &RunResult{
		Halt:            halt,
		Days:            d.state.CurrentDay(),
		TotalCost:       d.state.TotalCost(),
		RemainingDemand: d.state.TotalRemainingDemand(),
		FinalInventory:  d.state.TotalWarehouseInventory(),
	}, nil
}

func (d *Driver) reportProgress() {
	if d.progress == nil || d.state.CurrentDay()%10 != 0 {
		return
	}
	fmt.Fprintf(d.progress, "Day %d (%s): %d plants remaining, %d in warehouse, cost %s\n",
		d.state.CurrentDay(),
		d.state.CurrentDate().Format("2006-01-02"),
		d.state.TotalRemainingDemand(),
		d.state.TotalWarehouseInventory(),
		d.state.TotalCost().StringFixed(2))
}
