package chart

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/zalepa/roadpenalties/penalty"
)

// ErrNoGeography is returned when a map chart is updated without outlines.
var ErrNoGeography = errors.New("map chart needs geography")

const (
	pointRadius = 4
	tickCount   = 10
)

func (s Spec) penaltyType(in Input) penalty.PenaltyType {
	if in.Filters.Penalty == "" {
		return penalty.AllPenalties
	}
	return in.Filters.Penalty
}

// valueAxis builds the y axis of a value scale.
func (s Spec) valueAxis(y Linear) *Axis {
	ax := &Axis{Label: s.YLabel, Extent: y.Domain[:]}
	for _, v := range y.Ticks(tickCount) {
		ax.Ticks = append(ax.Ticks, Tick{Pos: y.Map(v), Label: Count(v)})
	}
	return ax
}

// yearAxis builds an x axis over years, keeping only whole-year ticks.
func (s Spec) yearAxis(x Linear) *Axis {
	ax := &Axis{Label: s.XLabel, Extent: x.Domain[:]}
	for _, v := range x.Ticks(tickCount) {
		if v != math.Trunc(v) {
			continue
		}
		ax.Ticks = append(ax.Ticks, Tick{Pos: x.Map(v), Label: Year(v)})
	}
	return ax
}

func (s Spec) yScale(values []float64) Linear {
	return Linear{Domain: ValueDomain(values), Range: [2]float64{s.InnerHeight(), 0}}
}

// buildBar draws one rectangle per jurisdiction present. Names outside the
// eight canonical jurisdictions have no band and are not drawn.
func (s Spec) buildBar(in Input) target {
	p := s.penaltyType(in)
	buckets := penalty.ByJurisdiction(in.Records, s.measure())

	present := make(map[string]bool, len(buckets))
	var values []float64
	for _, b := range buckets {
		present[b.Key] = true
		values = append(values, p.Of(b.Totals))
	}
	band := NewBand(penalty.CanonicalOrder(present), s.InnerWidth())
	y := s.yScale(values)

	t := target{state: State{Band: band, Y: y}, y: s.valueAxis(y)}
	t.x = &Axis{Label: s.XLabel, Domain: band.Domain}
	for _, name := range band.Domain {
		x, _ := band.Map(name)
		t.x.Ticks = append(t.x.Ticks, Tick{Pos: x + band.Bandwidth()/2, Label: penalty.ShortCode(name)})
	}

	h := s.InnerHeight()
	series := Series{Name: p.Label(), Color: s.Fill}
	for _, b := range buckets {
		x, ok := band.Map(b.Key)
		if !ok {
			continue
		}
		series.Points = append(series.Points, Point{
			Label: penalty.ShortCode(b.Key), X: float64(len(series.Points)), Y: p.Of(b.Totals),
		})
		top := y.Map(p.Of(b.Totals))
		t.elements = append(t.elements, Element{
			Key:  b.Key,
			Mark: MarkRect,
			Attrs: Attrs{
				X: x, Y: top, Width: band.Bandwidth(), Height: h - top,
				Fill: s.Fill, Opacity: 1,
			},
			Tooltip: []TooltipLine{
				{Label: "State", Value: b.Key},
				{Label: "Fines", Value: Count(b.Totals.Fines)},
				{Label: "Charges", Value: Count(b.Totals.Charges)},
				{Label: "Arrests", Value: Count(b.Totals.Arrests)},
				{Label: "Total", Value: Count(b.Totals.Total)},
			},
		})
	}
	t.data = []Series{series}
	return t
}

// buildLine draws the yearly trend of the selected penalty type as one path
// plus a point per year.
func (s Spec) buildLine(in Input) target {
	p := s.penaltyType(in)
	buckets := penalty.ByYear(in.Records, s.measure())
	if s.DropZero {
		kept := buckets[:0:0]
		for _, b := range buckets {
			if p.Of(b.Totals) > 0 {
				kept = append(kept, b)
			}
		}
		buckets = kept
	}

	years := make([]float64, len(buckets))
	values := make([]float64, len(buckets))
	for i, b := range buckets {
		years[i] = float64(b.Key)
		values[i] = p.Of(b.Totals)
	}
	x := Linear{Domain: ExtentDomain(years), Range: [2]float64{0, s.InnerWidth()}}
	y := s.yScale(values)

	t := target{state: State{X: x, Y: y}, x: s.yearAxis(x), y: s.valueAxis(y)}
	series := Series{Name: p.Label(), Color: s.Fill}
	for i, b := range buckets {
		series.Points = append(series.Points, Point{Label: strconv.Itoa(b.Key), X: years[i], Y: values[i]})
	}
	t.data = []Series{series}
	if len(buckets) == 0 {
		return t
	}

	pts := make([]orb.Point, len(buckets))
	for i := range buckets {
		pts[i] = orb.Point{x.Map(years[i]), y.Map(values[i])}
	}
	t.elements = append(t.elements, Element{
		Key:   "line",
		Mark:  MarkPath,
		Attrs: Attrs{D: polyline(pts), Stroke: s.Fill, Opacity: 1},
	})
	for i, b := range buckets {
		t.elements = append(t.elements, Element{
			Key:   "year-" + strconv.Itoa(b.Key),
			Mark:  MarkCircle,
			Attrs: Attrs{X: pts[i][0], Y: pts[i][1], R: pointRadius, Fill: s.Fill, Opacity: 1},
			Tooltip: []TooltipLine{
				{Label: "Year", Value: strconv.Itoa(b.Key)},
				{Label: p.Label(), Value: Count(values[i])},
			},
		})
	}
	return t
}

// buildMultiLine draws one yearly series per jurisdiction, colored by a
// fixed qualitative palette over the canonical order.
func (s Spec) buildMultiLine(in Input) target {
	p := s.penaltyType(in)
	series := penalty.ByJurisdictionYear(in.Records, s.measure())

	var years, values []float64
	for _, sr := range series {
		for _, b := range sr.Values {
			years = append(years, float64(b.Key))
			values = append(values, p.Of(b.Totals))
		}
	}
	x := Linear{Domain: ExtentDomain(years), Range: [2]float64{0, s.InnerWidth()}}
	y := s.yScale(values)

	names := make([]string, len(penalty.Jurisdictions))
	for i, j := range penalty.Jurisdictions {
		names[i] = j.Name
	}
	colors := NewOrdinal(names)

	t := target{state: State{X: x, Y: y}, x: s.yearAxis(x), y: s.valueAxis(y), legend: &Legend{}}
	for _, sr := range series {
		color := Hex(colors.Color(sr.Jurisdiction))
		t.legend.Items = append(t.legend.Items, LegendItem{Label: sr.Jurisdiction, Color: color})

		pts := make([]orb.Point, len(sr.Values))
		tips := make([]TooltipLine, len(sr.Values))
		data := Series{Name: sr.Jurisdiction, Color: color}
		for i, b := range sr.Values {
			v := p.Of(b.Totals)
			pts[i] = orb.Point{x.Map(float64(b.Key)), y.Map(v)}
			tips[i] = TooltipLine{Label: strconv.Itoa(b.Key), Value: Count(v)}
			data.Points = append(data.Points, Point{Label: strconv.Itoa(b.Key), X: float64(b.Key), Y: v})
		}
		t.data = append(t.data, data)
		t.elements = append(t.elements, Element{
			Key:     sr.Jurisdiction,
			Mark:    MarkPath,
			Attrs:   Attrs{D: polyline(pts), Stroke: color, Opacity: 1},
			Tooltip: tips,
		})
	}
	return t
}

// buildHistogram bins the per-row totals into HistogramBins bins over the
// niced extent of the values.
func (s Spec) buildHistogram(in Input) target {
	values := penalty.RowTotals(in.Records, s.measure())
	domain := ExtentDomain(values)
	bins := BinValues(values, domain, HistogramBins)

	counts := make([]float64, len(bins))
	for i, b := range bins {
		counts[i] = float64(b.Count)
	}
	x := Linear{Domain: domain, Range: [2]float64{0, s.InnerWidth()}}
	y := s.yScale(counts)

	xAxis := &Axis{Label: s.XLabel, Extent: x.Domain[:]}
	for _, v := range x.Ticks(tickCount) {
		xAxis.Ticks = append(xAxis.Ticks, Tick{Pos: x.Map(v), Label: Count(v)})
	}
	t := target{state: State{X: x, Y: y, Bins: bins}, x: xAxis, y: s.valueAxis(y)}

	h := s.InnerHeight()
	series := Series{Name: "Records", Color: s.Fill}
	for i, b := range bins {
		series.Points = append(series.Points, Point{
			Label: fmt.Sprintf("%s-%s", Count(b.X0), Count(b.X1)), X: b.X0, Y: float64(b.Count),
		})
		x0, x1 := x.Map(b.X0), x.Map(b.X1)
		top := y.Map(float64(b.Count))
		t.elements = append(t.elements, Element{
			Key:  "bin-" + strconv.Itoa(i),
			Mark: MarkRect,
			Attrs: Attrs{
				X: x0, Y: top, Width: math.Max(0, x1-x0-1), Height: h - top,
				Fill: s.Fill, Stroke: "#000000", Opacity: 1,
			},
			Tooltip: []TooltipLine{
				{Label: "Range", Value: fmt.Sprintf("%.0f - %.0f", math.Round(b.X0), math.Round(b.X1))},
				{Label: "Count", Value: strconv.Itoa(b.Count)},
			},
		})
	}
	t.data = []Series{series}
	return t
}

// Map projection: web mercator centred on Australia, scaled to the frame
// width.
const (
	earthRadius  = 6378137.0
	mapCenterLon = 134.0
	mapCenterLat = -28.0
	mapScale     = 0.65
	maxZoom      = 8
	resetZoomMs  = 650
)

// buildMap colors every region by its selected total on a sequential scale.
// Regions without data are drawn with zero totals.
func (s Spec) buildMap(in Input) (target, error) {
	if in.Geo == nil {
		return target{}, ErrNoGeography
	}
	p := s.penaltyType(in)
	joined := in.Geo.Join(penalty.ByJurisdiction(in.Records, s.measure()))

	hi := 0.0
	for _, r := range joined {
		hi = math.Max(hi, p.Of(r.Totals))
	}
	colors := NewBlues([2]float64{0, hi})
	project := s.mercator()

	t := target{
		legend: &Legend{Title: "Range values", Gradient: colors.Stops(), Min: "0", Max: SI(hi)},
		zoom: &Zoom{
			MinScale: 1, MaxScale: maxZoom,
			TranslateX: s.Margin.Left, TranslateY: s.Margin.Top,
			ResetMs: resetZoomMs,
		},
	}
	series := Series{Name: p.Label()}
	for _, r := range joined {
		v := p.Of(r.Totals)
		fill := Hex(colors.Color(v))
		series.Points = append(series.Points, Point{Label: r.Name, X: float64(len(series.Points)), Y: v, Color: fill})
		t.elements = append(t.elements, Element{
			Key:  r.Name,
			Mark: MarkPath,
			Attrs: Attrs{
				D:    regionPath(r.Polygons, project),
				Fill: fill, Stroke: "#333333", Opacity: 1,
			},
			Tooltip: []TooltipLine{
				{Label: "State", Value: r.Name},
				{Label: p.Label(), Value: Count(v)},
			},
		})
	}
	t.data = []Series{series}
	return t, nil
}

// mercator returns a function from web mercator metres to frame pixels.
func (s Spec) mercator() func(orb.Point) orb.Point {
	k := s.Width * mapScale / earthRadius
	cx := earthRadius * mapCenterLon * math.Pi / 180
	cy := earthRadius * math.Log(math.Tan(math.Pi/4+mapCenterLat*math.Pi/360))
	ox, oy := s.InnerWidth()/2, s.InnerHeight()/2
	return func(pt orb.Point) orb.Point {
		return orb.Point{ox + (pt[0]-cx)*k, oy - (pt[1]-cy)*k}
	}
}

func regionPath(polys []orb.Polygon, project func(orb.Point) orb.Point) string {
	var b strings.Builder
	for _, poly := range polys {
		for _, ring := range poly {
			for i, pt := range ring {
				q := project(pt)
				if i == 0 {
					b.WriteByte('M')
				} else {
					b.WriteByte('L')
				}
				b.WriteString(coord(q[0]))
				b.WriteByte(',')
				b.WriteString(coord(q[1]))
			}
			if len(ring) > 0 {
				b.WriteByte('Z')
			}
		}
	}
	return b.String()
}

// polyline renders pts as a straight-segment SVG path.
func polyline(pts []orb.Point) string {
	var b strings.Builder
	for i, pt := range pts {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(coord(pt[0]))
		b.WriteByte(',')
		b.WriteString(coord(pt[1]))
	}
	return b.String()
}

func coord(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
