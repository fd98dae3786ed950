// Package chart turns filtered penalty records into chart frames: it derives
// scales, builds keyed visual elements and reconciles them against the
// previous frame.
//
// Every chart is an instance of one parameterized Spec. Update is a pure
// function of the previous State and the new input; the caller owns the State
// and passes it back on the next call.
package chart

import (
	"fmt"
	"time"

	"github.com/zalepa/roadpenalties/penalty"
)

// Kind selects how a chart groups and draws its data.
type Kind string

const (
	KindMap       Kind = "map"
	KindLine      Kind = "line"
	KindMultiLine Kind = "multiline"
	KindBar       Kind = "bar"
	KindHistogram Kind = "histogram"
)

// Mark is the visual primitive an element is drawn with.
type Mark string

const (
	MarkRect   Mark = "rect"
	MarkCircle Mark = "circle"
	MarkPath   Mark = "path"
)

// Dataset names one of the two tabular inputs.
type Dataset string

const (
	Penalties Dataset = "penalties"
	Licences  Dataset = "licences"
)

// Margin is the space around a chart's inner drawing area.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Spec configures one chart instance.
type Spec struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Kind   Kind    `json:"kind"`
	Data   Dataset `json:"dataset"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
	XLabel string  `json:"xLabel"`
	YLabel string  `json:"yLabel"`
	Fill   string  `json:"fill"`

	Duration     time.Duration `json:"-"`
	ExitDuration time.Duration `json:"-"`

	// Measure picks absolute counts or per-licence rates.
	Measure penalty.Measure `json:"-"`
	// DropZero removes points whose selected value is zero.
	DropZero bool `json:"-"`
}

// InnerWidth is the width inside the margins.
func (s Spec) InnerWidth() float64 { return s.Width - s.Margin.Left - s.Margin.Right }

// InnerHeight is the height inside the margins.
func (s Spec) InnerHeight() float64 { return s.Height - s.Margin.Top - s.Margin.Bottom }

func (s Spec) measure() penalty.Measure {
	if s.Measure == nil {
		return penalty.Absolute
	}
	return s.Measure
}

// Attrs are the drawable attributes of an element.
type Attrs struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	R       float64 `json:"r,omitempty"`
	D       string  `json:"d,omitempty"`
	Fill    string  `json:"fill,omitempty"`
	Stroke  string  `json:"stroke,omitempty"`
	Opacity float64 `json:"opacity"`
}

// Element is one keyed visual primitive with its tooltip content.
type Element struct {
	Key     string        `json:"key"`
	Mark    Mark          `json:"mark"`
	Attrs   Attrs         `json:"attrs"`
	Tooltip []TooltipLine `json:"tooltip,omitempty"`
}

// TooltipLine is one "label: value" row of a hover tooltip.
type TooltipLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Phase says which reconciliation set a transition came from.
type Phase string

const (
	PhaseEnter  Phase = "enter"
	PhaseUpdate Phase = "update"
	PhaseExit   Phase = "exit"
)

// Transition animates one element between two attribute sets. Exiting
// elements are removed once the transition ends.
type Transition struct {
	Key      string        `json:"key"`
	Mark     Mark          `json:"mark"`
	Phase    Phase         `json:"phase"`
	From     Attrs         `json:"from"`
	To       Attrs         `json:"to"`
	Duration int64         `json:"durationMs"`
	Remove   bool          `json:"remove,omitempty"`
	Tooltip  []TooltipLine `json:"tooltip,omitempty"`
}

// Tick is one labelled axis position, in pixels.
type Tick struct {
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// Axis describes one rendered axis.
type Axis struct {
	Label  string    `json:"label"`
	Domain []string  `json:"domain,omitempty"`
	Extent []float64 `json:"extent,omitempty"`
	Ticks  []Tick    `json:"ticks"`
}

// LegendItem is one swatch of a categorical legend.
type LegendItem struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Legend is a gradient (choropleth) or categorical (multi-line) legend.
type Legend struct {
	Title    string         `json:"title,omitempty"`
	Gradient []GradientStop `json:"gradient,omitempty"`
	Min      string         `json:"min,omitempty"`
	Max      string         `json:"max,omitempty"`
	Items    []LegendItem   `json:"items,omitempty"`
}

// Zoom is the map's pan/zoom configuration and its reset transform.
type Zoom struct {
	MinScale   float64 `json:"minScale"`
	MaxScale   float64 `json:"maxScale"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	ResetMs    int64   `json:"resetMs"`
}

// Point is one aggregated value in data units, for renderers that do not
// animate.
type Point struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color,omitempty"`
}

// Series is a named run of points.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

// Frame is everything a renderer needs to move a chart from its previous
// state to the new one.
type Frame struct {
	Chart       string       `json:"chart"`
	Title       string       `json:"title"`
	Kind        Kind         `json:"kind"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	Margin      Margin       `json:"margin"`
	Penalty     string       `json:"penalty"`
	X           *Axis        `json:"x,omitempty"`
	Y           *Axis        `json:"y,omitempty"`
	AxisMs      int64        `json:"axisMs"`
	Legend      *Legend      `json:"legend,omitempty"`
	Zoom        *Zoom        `json:"zoom,omitempty"`
	Transitions []Transition `json:"transitions"`
	Data        []Series     `json:"data"`
	Empty       bool         `json:"empty"`
}

// State is a chart's retained scales and elements between updates.
type State struct {
	Chart    string    `json:"chart"`
	Version  int       `json:"version"`
	X        Linear    `json:"x"`
	Band     Band      `json:"band"`
	Y        Linear    `json:"y"`
	Bins     []Bin     `json:"bins,omitempty"`
	Elements []Element `json:"elements"`
}

// Input is the data an update is computed from. Records must already be
// filtered; Filters is consulted only for the penalty projection.
type Input struct {
	Records []penalty.Record
	Filters penalty.FilterSet
	Geo     *penalty.Geography
}

// target is what a kind-specific builder produces before reconciliation.
type target struct {
	state    State
	x, y     *Axis
	legend   *Legend
	zoom     *Zoom
	elements []Element
	data     []Series
}

// Update derives new scales and elements from in and reconciles them with
// prev. It does not modify prev.
func (s Spec) Update(prev State, in Input) (State, Frame, error) {
	var (
		t   target
		err error
	)
	switch s.Kind {
	case KindMap:
		t, err = s.buildMap(in)
	case KindLine:
		t = s.buildLine(in)
	case KindMultiLine:
		t = s.buildMultiLine(in)
	case KindBar:
		t = s.buildBar(in)
	case KindHistogram:
		t = s.buildHistogram(in)
	default:
		return prev, Frame{}, fmt.Errorf("chart %s: unknown kind %q", s.ID, s.Kind)
	}
	if err != nil {
		return prev, Frame{}, fmt.Errorf("chart %s: %w", s.ID, err)
	}

	penaltyType := in.Filters.Penalty
	if penaltyType == "" {
		penaltyType = penalty.AllPenalties
	}

	next := t.state
	next.Chart = s.ID
	next.Version = prev.Version + 1
	next.Elements = t.elements

	frame := Frame{
		Chart:       s.ID,
		Title:       s.Title,
		Kind:        s.Kind,
		Width:       s.Width,
		Height:      s.Height,
		Margin:      s.Margin,
		Penalty:     string(penaltyType),
		X:           t.x,
		Y:           t.y,
		AxisMs:      s.Duration.Milliseconds(),
		Legend:      t.legend,
		Zoom:        t.zoom,
		Transitions: s.reconcile(prev.Elements, t.elements),
		Data:        t.data,
		Empty:       len(in.Records) == 0,
	}
	return next, frame, nil
}

// reconcile diffs the previous and new elements and attaches enter, update
// and exit animations.
func (s Spec) reconcile(prev, next []Element) []Transition {
	toKeyed := func(els []Element) []Keyed[string, Element] {
		out := make([]Keyed[string, Element], len(els))
		for i, e := range els {
			out[i] = Keyed[string, Element]{Key: e.Key, Value: e}
		}
		return out
	}
	d := Diff(toKeyed(prev), toKeyed(next))

	enterMs := s.Duration.Milliseconds()
	exitMs := s.ExitDuration.Milliseconds()
	if exitMs == 0 {
		exitMs = enterMs
	}

	out := make([]Transition, 0, len(d.Entering)+len(d.Persisting)+len(d.Exiting))
	for _, e := range d.Entering {
		el := e.Value
		out = append(out, Transition{
			Key: el.Key, Mark: el.Mark, Phase: PhaseEnter,
			From: s.baseline(el), To: el.Attrs,
			Duration: enterMs, Tooltip: el.Tooltip,
		})
	}
	for _, p := range d.Persisting {
		out = append(out, Transition{
			Key: p.Key, Mark: p.New.Mark, Phase: PhaseUpdate,
			From: p.Old.Attrs, To: p.New.Attrs,
			Duration: enterMs, Tooltip: p.New.Tooltip,
		})
	}
	for _, e := range d.Exiting {
		el := e.Value
		out = append(out, Transition{
			Key: el.Key, Mark: el.Mark, Phase: PhaseExit,
			From: el.Attrs, To: s.baseline(el),
			Duration: exitMs, Remove: true,
		})
	}
	return out
}

// baseline is the collapsed form an element grows from or shrinks to: zero
// height on the x axis for rectangles, zero radius for points, and zero
// opacity for paths.
func (s Spec) baseline(el Element) Attrs {
	a := el.Attrs
	switch el.Mark {
	case MarkRect:
		a.Y = s.InnerHeight()
		a.Height = 0
	case MarkCircle:
		a.R = 0
		a.Opacity = 0
	default:
		a.Opacity = 0
	}
	return a
}
