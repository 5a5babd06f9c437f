package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ecodelta/reforest/pkg/reforest"
)

// ScheduleChart renders the planting schedule as an SVG timeline: one row
// per polygon, one bar per van trip, positioned by simulated day.
type ScheduleChart struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	RowHeight    int
	Days         int
}

// tripBar is one van trip aggregated over its planting lines.
type tripBar struct {
	Polygon  reforest.PolygonID
	Day      int
	Trip     int
	Quantity reforest.Quantity
	Opuntia  bool
}

// NewScheduleChart sizes a chart for the given run.
func NewScheduleChart(state *reforest.SupplyChainState, days int) *ScheduleChart {
	rowHeight := 30
	rows := len(state.InitialDemand().Polygons())
	if rows == 0 {
		rows = 1
	}
	if days < 1 {
		days = 1
	}
	return &ScheduleChart{
		Width:        1200,
		Height:       rows*rowHeight + 140,
		MarginLeft:   120,
		MarginTop:    60,
		MarginRight:  60,
		MarginBottom: 80,
		RowHeight:    rowHeight,
		Days:         days,
	}
}

// GenerateSVG renders the chart for a finished run.
func (sc *ScheduleChart) GenerateSVG(state *reforest.SupplyChainState) string {
	bars := collectTripBars(state)

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, sc.Width, sc.Height))
	svg.WriteString(`<defs><style>`)
	svg.WriteString(`.row-label { font-family: Arial, sans-serif; font-size: 12px; fill: #333; }`)
	svg.WriteString(`.day-label { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; }`)
	svg.WriteString(`.trip-bar { stroke: #333; stroke-width: 1; }`)
	svg.WriteString(`</style></defs>`)
	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, sc.Width, sc.Height))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="30" class="title" text-anchor="middle">Planting Schedule</text>`, sc.Width/2))

	if len(bars) == 0 {
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="row-label" text-anchor="middle">No planting trips recorded</text>`,
			sc.Width/2, sc.Height/2))
		svg.WriteString(`</svg>`)
		return svg.String()
	}

	polygons := state.InitialDemand().Polygons()
	rowIndex := make(map[reforest.PolygonID]int, len(polygons))
	for i, p := range polygons {
		rowIndex[p] = i
	}

	sc.drawDayAxis(&svg, len(polygons))
	for i, p := range polygons {
		y := sc.MarginTop + i*sc.RowHeight
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="row-label" text-anchor="end">polygon %d</text>`,
			sc.MarginLeft-10, y+sc.RowHeight/2+4, p))
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			sc.MarginLeft, y+sc.RowHeight, sc.Width-sc.MarginRight, y+sc.RowHeight))
	}
	for _, bar := range bars {
		sc.drawBar(&svg, bar, rowIndex[bar.Polygon])
	}
	sc.drawLegend(&svg)

	svg.WriteString(`</svg>`)
	return svg.String()
}

// collectTripBars aggregates planting activities by polygon, day and trip.
func collectTripBars(state *reforest.SupplyChainState) []tripBar {
	type key struct {
		p    reforest.PolygonID
		day  int
		trip int
	}
	cfg := state.Config()
	agg := make(map[key]*tripBar)
	for _, act := range state.PlantingActivities() {
		k := key{act.Polygon, act.Day, act.TripNumber}
		bar, ok := agg[k]
		if !ok {
			bar = &tripBar{Polygon: act.Polygon, Day: act.Day, Trip: act.TripNumber}
			agg[k] = bar
		}
		bar.Quantity += act.Quantity
		if cfg.IsOpuntia(act.Species) {
			bar.Opuntia = true
		}
	}

	bars := make([]tripBar, 0, len(agg))
	for _, bar := range agg {
		bars = append(bars, *bar)
	}
	sort.Slice(bars, func(i, j int) bool {
		if bars[i].Day != bars[j].Day {
			return bars[i].Day < bars[j].Day
		}
		return bars[i].Trip < bars[j].Trip
	})
	return bars
}

func (sc *ScheduleChart) dayX(day int) int {
	chartWidth := sc.Width - sc.MarginLeft - sc.MarginRight
	return sc.MarginLeft + day*chartWidth/sc.Days
}

// drawDayAxis draws the bottom axis with day ticks, thinned when the run
// spans too many days to label each one.
func (sc *ScheduleChart) drawDayAxis(svg *strings.Builder, rows int) {
	axisY := sc.MarginTop + rows*sc.RowHeight
	step := 1
	if sc.Days > 30 {
		step = sc.Days / 30
	}
	for day := 0; day <= sc.Days; day += step {
		x := sc.dayX(day)
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			x, sc.MarginTop, x, axisY))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="day-label" text-anchor="middle">%d</text>`,
			x, axisY+15, day))
	}
	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
		sc.MarginLeft, axisY, sc.Width-sc.MarginRight, axisY))
}

func (sc *ScheduleChart) drawBar(svg *strings.Builder, bar tripBar, row int) {
	x := sc.dayX(bar.Day)
	width := sc.dayX(bar.Day+1) - x - 2
	if width < 2 {
		width = 2
	}
	y := sc.MarginTop + row*sc.RowHeight + 2
	height := sc.RowHeight - 4

	color := "#4CAF50"
	if bar.Opuntia {
		color = "#FF9800"
	}
	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="trip-bar">`,
		x+1, y, width, height, color))
	svg.WriteString(fmt.Sprintf(`<title>Day %d, trip %d: %d plants to polygon %d</title>`,
		bar.Day, bar.Trip, bar.Quantity, bar.Polygon))
	svg.WriteString(`</rect>`)
}

func (sc *ScheduleChart) drawLegend(svg *strings.Builder) {
	legendX := sc.Width - sc.MarginRight - 180
	legendY := 36

	items := []struct {
		color string
		label string
	}{
		{"#4CAF50", "Trip without opuntia"},
		{"#FF9800", "Trip carrying opuntia"},
	}
	for i, item := range items {
		itemY := legendY + i*14
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="12" height="8" fill="%s"/>`,
			legendX, itemY, item.color))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="day-label">%s</text>`,
			legendX+18, itemY+7, item.label))
	}
}
