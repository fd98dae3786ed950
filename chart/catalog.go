package chart

import (
	"fmt"
	"sort"
	"time"

	"github.com/zalepa/roadpenalties/penalty"
)

// Transition durations.
const (
	BarDuration  = 700 * time.Millisecond
	LineDuration = 700 * time.Millisecond
	MapDuration  = 600 * time.Millisecond
	HistDuration = 600 * time.Millisecond
	ExitDuration = 500 * time.Millisecond
)

// Catalog holds the dashboard's chart instances keyed by mount id.
var Catalog = map[string]Spec{
	"map": {
		ID: "map", Title: "Penalties by jurisdiction", Kind: KindMap, Data: Penalties,
		Width: 900, Height: 450,
		Margin: Margin{Top: 40, Right: 40, Bottom: 40, Left: 40},
		Duration: MapDuration, ExitDuration: ExitDuration,
		Measure: penalty.Absolute,
	},
	"line-1": {
		ID: "line-1", Title: "Penalties over time", Kind: KindLine, Data: Penalties,
		Width: 900, Height: 600,
		Margin: Margin{Top: 40, Right: 40, Bottom: 50, Left: 60},
		XLabel: "Year", YLabel: "Penalties", Fill: "#4682b4",
		Duration: LineDuration, ExitDuration: ExitDuration,
		Measure: penalty.Absolute, DropZero: true,
	},
	"line-2": {
		ID: "line-2", Title: "Penalties over time by jurisdiction", Kind: KindMultiLine, Data: Penalties,
		Width: 900, Height: 600,
		Margin: Margin{Top: 40, Right: 40, Bottom: 50, Left: 100},
		XLabel: "Year", YLabel: "Penalties",
		Duration: LineDuration, ExitDuration: ExitDuration,
		Measure: penalty.Absolute,
	},
	"bar-1": {
		ID: "bar-1", Title: "Penalties per 10,000 licences", Kind: KindBar, Data: Licences,
		Width: 600, Height: 400,
		Margin: Margin{Top: 40, Right: 40, Bottom: 50, Left: 100},
		XLabel: "Jurisdiction", YLabel: "Per 10,000 licences", Fill: "#4682b4",
		Duration: BarDuration, ExitDuration: ExitDuration,
		Measure: penalty.PerTenThousand,
	},
	"bar-2": {
		ID: "bar-2", Title: "Total penalties", Kind: KindBar, Data: Penalties,
		Width: 600, Height: 400,
		Margin: Margin{Top: 40, Right: 40, Bottom: 50, Left: 100},
		XLabel: "Jurisdiction", YLabel: "Penalties", Fill: "#ffa500",
		Duration: BarDuration, ExitDuration: ExitDuration,
		Measure: penalty.Absolute,
	},
	"histogram": {
		ID: "histogram", Title: "Distribution of penalties per record", Kind: KindHistogram, Data: Penalties,
		Width: 900, Height: 400,
		Margin: Margin{Top: 40, Right: 30, Bottom: 50, Left: 60},
		XLabel: "Penalties per record", YLabel: "Records", Fill: "#4682b4",
		Duration: HistDuration, ExitDuration: ExitDuration,
		Measure: penalty.Absolute,
	},
}

// HighlightFill is the fill of the hovered histogram bin.
const HighlightFill = "#ffd700"

// Lookup returns the chart mounted at id.
func Lookup(id string) (Spec, error) {
	s, ok := Catalog[id]
	if !ok {
		return Spec{}, fmt.Errorf("unknown chart %q", id)
	}
	return s, nil
}

// IDs lists the catalog's mount ids, sorted.
func IDs() []string {
	out := make([]string, 0, len(Catalog))
	for id := range Catalog {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
