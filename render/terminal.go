package render

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/zalepa/roadpenalties/chart"
)

const (
	chartHeight = 15
	barWidth    = 50
)

// Terminal writes a text rendering of f: a point chart for single-series
// trends, a sparkline table for multi-series trends and a bar table for
// everything else.
func Terminal(w io.Writer, f chart.Frame) {
	title := f.Title
	if f.Penalty != "" && f.Kind != chart.KindHistogram {
		title += " - " + f.Penalty
	}
	switch f.Kind {
	case chart.KindLine:
		var pts []chart.Point
		if len(f.Data) > 0 {
			pts = f.Data[0].Points
		}
		lineChart(w, title, pts)
	case chart.KindMultiLine:
		sparkTable(w, title, f.Data)
	default:
		var pts []chart.Point
		if len(f.Data) > 0 {
			pts = f.Data[0].Points
		}
		barTable(w, title, pts)
	}
}

// barTable prints one labelled horizontal bar per point.
func barTable(w io.Writer, title string, pts []chart.Point) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w)
	if len(pts) == 0 {
		fmt.Fprintln(w, "(no data)")
		return
	}

	maxLabel, maxVal := 10, 0.0
	for _, p := range pts {
		maxLabel = max(maxLabel, len(p.Label))
		maxVal = math.Max(maxVal, p.Y)
	}
	rowFmt := fmt.Sprintf("%%-%ds  %%12s   %%s\n", maxLabel)
	for _, p := range pts {
		n := 0
		if maxVal > 0 {
			n = int(math.Round(p.Y / maxVal * barWidth))
		}
		fmt.Fprintf(w, rowFmt, p.Label, Number(p.Y), strings.Repeat("█", n))
	}
}

// sparkTable prints one row per series with its latest value and a trend
// sparkline over the union of x positions.
func sparkTable(w io.Writer, title string, series []chart.Series) {
	labels := make(map[float64]string)
	for _, s := range series {
		for _, p := range s.Points {
			labels[p.X] = p.Label
		}
	}
	xs := make([]float64, 0, len(labels))
	for x := range labels {
		xs = append(xs, x)
	}
	sort.Float64s(xs)

	nameWidth := 12
	for _, s := range series {
		nameWidth = max(nameWidth, len(s.Name))
	}

	fmt.Fprintln(w, title)
	if len(xs) > 0 {
		fmt.Fprintf(w, "Trend: %s to %s (%d periods)\n", labels[xs[0]], labels[xs[len(xs)-1]], len(xs))
	}
	fmt.Fprintln(w)

	rowFmt := fmt.Sprintf("%%-%ds  %%12s   %%s\n", nameWidth)
	fmt.Fprintf(w, rowFmt, "Jurisdiction", "Latest", "Trend")
	fmt.Fprintln(w, strings.Repeat("─", nameWidth+2+12+3+len(xs)))
	for _, s := range series {
		cells := trendCells(s.Points, xs)
		fmt.Fprintf(w, rowFmt, s.Name, Number(latest(cells)), sparkline(cells))
	}
}

// trendCells spreads a series over xs. Periods the series lacks are NaN.
func trendCells(pts []chart.Point, xs []float64) []float64 {
	cells := make([]float64, len(xs))
	for i := range cells {
		cells[i] = math.NaN()
	}
	for _, p := range pts {
		if i := sort.SearchFloat64s(xs, p.X); i < len(xs) && xs[i] == p.X {
			cells[i] = p.Y
		}
	}
	return cells
}

// latest is the last present cell, or NaN.
func latest(cells []float64) float64 {
	for i := len(cells) - 1; i >= 0; i-- {
		if !math.IsNaN(cells[i]) {
			return cells[i]
		}
	}
	return math.NaN()
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// sparkline draws one block per cell, scaled between the smallest and
// largest present cell. Missing cells are blank.
func sparkline(cells []float64) string {
	var present []float64
	for _, v := range cells {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return strings.Repeat(" ", len(cells))
	}
	level := chart.Linear{
		Domain: [2]float64{floats.Min(present), floats.Max(present)},
		Range:  [2]float64{0, float64(len(sparkBlocks) - 1)},
	}
	var sb strings.Builder
	for _, v := range cells {
		if math.IsNaN(v) {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(sparkBlocks[int(math.Round(level.Map(v)))])
	}
	return sb.String()
}

// lineChart plots points on a character grid using the same scales as the
// browser chart: a band per label across, and a zero-anchored niced value
// axis up. Neighbouring points are joined with dots.
func lineChart(w io.Writer, title string, points []chart.Point) {
	fmt.Fprintln(w, title)
	if len(points) == 0 {
		fmt.Fprintln(w, "(no data)")
		return
	}
	fmt.Fprintln(w)

	width := min(max(len(points)*6, 24), 90)
	labels := make([]string, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		labels[i], values[i] = p.Label, p.Y
	}
	x := chart.NewBand(labels, float64(width))
	y := chart.Linear{Domain: chart.ValueDomain(values), Range: [2]float64{0, chartHeight - 1}}

	cols := make([]int, len(points))
	rows := make([]int, len(points))
	for i, p := range points {
		px, _ := x.Map(p.Label)
		cols[i] = min(int(px+x.Bandwidth()/2), width-1)
		rows[i] = min(max(int(math.Round(y.Map(p.Y))), 0), chartHeight-1)
	}

	grid := make([][]rune, chartHeight)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	for i := 1; i < len(points); i++ {
		c0, c1 := cols[i-1], cols[i]
		for c := c0 + 1; c < c1; c++ {
			t := float64(c-c0) / float64(c1-c0)
			grid[int(math.Round(float64(rows[i-1])+t*float64(rows[i]-rows[i-1])))][c] = '·'
		}
	}
	for i := range points {
		grid[rows[i]][cols[i]] = '●'
	}

	tickLabels := make(map[int]string)
	for _, t := range y.Ticks(4) {
		tickLabels[int(math.Round(y.Map(t)))] = chart.SI(t)
	}
	for r := chartHeight - 1; r >= 0; r-- {
		fmt.Fprintf(w, "%8s │%s\n", tickLabels[r], string(grid[r]))
	}
	fmt.Fprintf(w, "%8s └%s\n", "", strings.Repeat("─", width))

	axis := []rune(strings.Repeat(" ", width))
	next := 0
	for i, label := range labels {
		pos := max(cols[i]-len(label)/2, next)
		if pos+len(label) > width {
			break
		}
		copy(axis[pos:], []rune(label))
		next = pos + len(label) + 1
	}
	fmt.Fprintf(w, "%8s  %s\n", "", string(axis))
}
