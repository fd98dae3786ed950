package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/zalepa/roadpenalties/chart"
	"github.com/zalepa/roadpenalties/penalty"
)

const (
	pageWidth  = 8.5 * vg.Inch
	pageHeight = 11 * vg.Inch
	pdfMargin  = 0.75 * vg.Inch
)

var defaultColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}

// Plot builds a static gonum plot of f. Map frames need geo for their
// outlines.
func Plot(f chart.Frame, geo *penalty.Geography) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = plain(f.Title)
	if f.Penalty != "" && f.Kind != chart.KindHistogram {
		p.Title.Text += " - " + f.Penalty
	}
	p.Title.TextStyle.Font.Size = vg.Points(12)
	p.BackgroundColor = color.White
	if f.X != nil {
		p.X.Label.Text = f.X.Label
	}
	if f.Y != nil {
		p.Y.Label.Text = f.Y.Label
	}

	var err error
	switch f.Kind {
	case chart.KindBar, chart.KindHistogram:
		err = addBars(p, f)
	case chart.KindLine, chart.KindMultiLine:
		err = addLines(p, f)
	case chart.KindMap:
		err = addRegions(p, f, geo)
	default:
		err = fmt.Errorf("cannot plot %q charts", f.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("plotting %s: %w", f.Chart, err)
	}
	return p, nil
}

func seriesColor(s chart.Series) color.Color {
	if s.Color == "" {
		return defaultColor
	}
	return chart.ParseHex(s.Color)
}

func addBars(p *plot.Plot, f chart.Frame) error {
	if len(f.Data) == 0 || len(f.Data[0].Points) == 0 {
		return nil
	}
	s := f.Data[0]
	vals := make(plotter.Values, len(s.Points))
	labels := make([]string, len(s.Points))
	for i, pt := range s.Points {
		vals[i] = pt.Y
		labels[i] = pt.Label
	}
	width := vg.Points(math.Max(4, 360/float64(len(vals))))
	bars, err := plotter.NewBarChart(vals, width)
	if err != nil {
		return err
	}
	bars.Color = seriesColor(s)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars, plotter.NewGrid())
	p.NominalX(labels...)
	if f.Kind == chart.KindHistogram {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	p.Y.Min = 0
	p.Y.Tick.Marker = numTicks{}
	return nil
}

func addLines(p *plot.Plot, f chart.Frame) error {
	p.Add(plotter.NewGrid())
	for _, s := range f.Data {
		if len(s.Points) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s.Points))
		for i, pt := range s.Points {
			pts[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = seriesColor(s)
		line.Width = vg.Points(2)
		p.Add(line)

		if f.Kind == chart.KindLine {
			scatter, err := plotter.NewScatter(pts)
			if err != nil {
				return err
			}
			scatter.Color = seriesColor(s)
			scatter.Radius = vg.Points(3)
			scatter.Shape = draw.CircleGlyph{}
			p.Add(scatter)
		} else {
			p.Legend.Add(penalty.ShortCode(s.Name), line)
		}
	}
	p.Legend.Top = true
	p.X.Tick.Marker = yearTicks{}
	p.Y.Min = 0
	p.Y.Tick.Marker = numTicks{}
	return nil
}

// addRegions fills every outline with the color its data point was given.
func addRegions(p *plot.Plot, f chart.Frame, geo *penalty.Geography) error {
	if geo == nil {
		return chart.ErrNoGeography
	}
	fills := make(map[string]color.Color)
	if len(f.Data) > 0 {
		for _, pt := range f.Data[0].Points {
			fills[pt.Label] = chart.ParseHex(pt.Color)
		}
	}
	for _, r := range geo.Regions {
		fill, ok := fills[r.Name]
		if !ok {
			fill = color.Gray{Y: 230}
		}
		for _, poly := range r.Polygons {
			rings := make([]plotter.XYer, 0, len(poly))
			for _, ring := range poly {
				xys := make(plotter.XYs, len(ring))
				for i, pt := range ring {
					xys[i] = plotter.XY{X: pt[0], Y: pt[1]}
				}
				rings = append(rings, xys)
			}
			shape, err := plotter.NewPolygon(rings...)
			if err != nil {
				return fmt.Errorf("region %s: %w", r.Name, err)
			}
			shape.Color = fill
			shape.LineStyle.Color = color.Gray{Y: 51}
			shape.LineStyle.Width = vg.Points(0.5)
			p.Add(shape)
		}
	}
	p.HideAxes()
	p.X.Min, p.X.Max = geo.Bound.Min[0], geo.Bound.Max[0]
	p.Y.Min, p.Y.Max = geo.Bound.Min[1], geo.Bound.Max[1]
	if f.Legend != nil {
		p.Title.Text += fmt.Sprintf(" (0 to %s)", f.Legend.Max)
	}
	return nil
}

// WritePDF writes one letter page per frame. Multi-series frames get a
// summary page of sparklines first.
func WritePDF(w io.Writer, frames []chart.Frame, geo *penalty.Geography) error {
	c := vgpdf.New(pageWidth, pageHeight)
	for i, f := range frames {
		if i > 0 {
			c.NextPage()
		}
		if f.Kind == chart.KindMultiLine && len(f.Data) > 1 {
			drawSummaryPage(c, f)
			c.NextPage()
		}
		p, err := Plot(f, geo)
		if err != nil {
			return err
		}
		dc := draw.New(c)
		p.Draw(draw.Crop(dc, pdfMargin, -pdfMargin, pdfMargin, -pdfMargin))
	}
	_, err := c.WriteTo(w)
	return err
}

// WriteSVG writes f at its frame size.
func WriteSVG(w io.Writer, f chart.Frame, geo *penalty.Geography) error {
	p, err := Plot(f, geo)
	if err != nil {
		return err
	}
	width, height := vg.Points(f.Width), vg.Points(f.Height)
	if width <= 0 || height <= 0 {
		width, height = 6*vg.Inch, 4*vg.Inch
	}
	c := vgsvg.New(width, height)
	p.Draw(draw.New(c))
	_, err = c.WriteTo(w)
	return err
}

const (
	summaryRowHeight = 0.30 * vg.Inch
	nameColWidth     = 2.4 * vg.Inch
	valueColWidth    = 1.0 * vg.Inch
)

// drawSummaryPage lists every series with its latest value and a sparkline.
func drawSummaryPage(c *vgpdf.Canvas, f chart.Frame) {
	dc := draw.New(c)
	area := draw.Crop(dc, pdfMargin, -pdfMargin, pdfMargin, -pdfMargin)
	usableW := pageWidth - 2*pdfMargin
	sparkColWidth := usableW - nameColWidth - valueColWidth

	keys := unionX(f.Data)
	yTop := area.Max.Y
	fillText(area, plain(f.Title)+" - "+f.Penalty, vg.Points(14), area.Min.X, yTop-vg.Points(14), color.Black)
	if len(keys) > 0 {
		span := fmt.Sprintf("%.0f to %.0f (%d periods)", keys[0], keys[len(keys)-1], len(keys))
		fillText(area, span, vg.Points(10), area.Min.X, yTop-0.35*vg.Inch, color.Gray{Y: 100})
	}

	headerY := yTop - 0.6*vg.Inch
	fillText(area, "Jurisdiction", vg.Points(10), area.Min.X, headerY, color.Gray{Y: 80})
	fillText(area, "Latest", vg.Points(10), area.Min.X+nameColWidth, headerY, color.Gray{Y: 80})
	fillText(area, "Trend", vg.Points(10), area.Min.X+nameColWidth+valueColWidth, headerY, color.Gray{Y: 80})
	sepY := headerY - vg.Points(6)
	strokeHLine(area, area.Min.X, area.Min.X+usableW, sepY, color.Gray{Y: 180})
	yTop = sepY - vg.Points(4)

	for i, s := range f.Data {
		y := yTop - vg.Length(i)*summaryRowHeight - summaryRowHeight*0.65
		fillText(area, s.Name, vg.Points(9), area.Min.X, y, color.Black)
		vals := trendCells(s.Points, keys)
		fillText(area, Number(latest(vals)), vg.Points(9), area.Min.X+nameColWidth, y, color.Black)

		sparkX := area.Min.X + nameColWidth + valueColWidth
		sparkY := yTop - vg.Length(i+1)*summaryRowHeight + vg.Points(2)
		drawSparkline(draw.Canvas{
			Canvas: area.Canvas,
			Rectangle: vg.Rectangle{
				Min: vg.Point{X: sparkX, Y: sparkY},
				Max: vg.Point{X: sparkX + sparkColWidth, Y: sparkY + summaryRowHeight - vg.Points(3)},
			},
		}, vals, seriesColor(s))
	}
}

func unionX(series []chart.Series) []float64 {
	seen := make(map[float64]bool)
	var keys []float64
	for _, s := range series {
		for _, p := range s.Points {
			if !seen[p.X] {
				seen[p.X] = true
				keys = append(keys, p.X)
			}
		}
	}
	sort.Float64s(keys)
	return keys
}

func drawSparkline(c draw.Canvas, vals []float64, clr color.Color) {
	var pts plotter.XYs
	for i, v := range vals {
		if !math.IsNaN(v) {
			pts = append(pts, plotter.XY{X: float64(i), Y: v})
		}
	}
	if len(pts) < 2 {
		return
	}

	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = color.Transparent

	line, err := plotter.NewLine(pts)
	if err != nil {
		return
	}
	line.Color = clr
	line.Width = vg.Points(1.5)
	p.Add(line)

	p.X.Min = 0
	p.X.Max = float64(len(vals) - 1)
	minY, maxY := pts[0].Y, pts[0].Y
	for _, pt := range pts {
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}
	pad := (maxY - minY) * 0.1
	if pad == 0 {
		pad = 1
	}
	p.Y.Min = minY - pad
	p.Y.Max = maxY + pad

	p.Draw(c)
}

// yearTicks labels whole years only.
type yearTicks struct{}

func (yearTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	step := math.Max(1, math.Ceil((max-min)/12))
	for y := math.Ceil(min); y <= max; y += step {
		ticks = append(ticks, plot.Tick{Value: y, Label: fmt.Sprintf("%.0f", y)})
	}
	return ticks
}

type numTicks struct{}

func (numTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = chart.SI(ticks[i].Value)
		}
	}
	return ticks
}

func fillText(c draw.Canvas, txt string, size vg.Length, x, y vg.Length, clr color.Color) {
	sty := draw.TextStyle{
		Color:   clr,
		Font:    plot.DefaultFont,
		Handler: plot.DefaultTextHandler,
	}
	sty.Font.Size = size
	c.FillText(sty, vg.Point{X: x, Y: y}, txt)
}

func strokeHLine(c draw.Canvas, x0, x1, y vg.Length, clr color.Color) {
	c.StrokeLine2(draw.LineStyle{
		Color: clr,
		Width: vg.Points(0.5),
	}, x0, y, x1, y)
}
