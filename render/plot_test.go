package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/zalepa/roadpenalties/chart"
)

func barFrame() chart.Frame {
	return chart.Frame{
		Chart: "bar-1", Title: "Totals", Kind: chart.KindBar,
		Width: 600, Height: 400,
		Data: []chart.Series{{Color: "#08306b", Points: []chart.Point{
			{Label: "NSW", Y: 16},
			{Label: "VIC", Y: 5},
		}}},
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, barFrame(), nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Errorf("output is not SVG: %.80q", buf.String())
	}
}

func TestWritePDF(t *testing.T) {
	line := chart.Frame{
		Chart: "line-2", Title: "Trends", Kind: chart.KindMultiLine,
		Data: []chart.Series{
			{Name: "New South Wales", Color: "#1b9e77", Points: []chart.Point{{X: 2020, Y: 10}, {X: 2021, Y: 4}}},
			{Name: "Victoria", Color: "#d95f02", Points: []chart.Point{{X: 2020, Y: 3}}},
		},
	}
	var buf bytes.Buffer
	if err := WritePDF(&buf, []chart.Frame{barFrame(), line}, nil); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output is not a PDF")
	}
}

func TestPlotMapNeedsGeography(t *testing.T) {
	_, err := Plot(chart.Frame{Chart: "map", Kind: chart.KindMap}, nil)
	if !errors.Is(err, chart.ErrNoGeography) {
		t.Errorf("got %v, want ErrNoGeography", err)
	}
}

func TestPlotUnknownKind(t *testing.T) {
	if _, err := Plot(chart.Frame{Kind: "pie"}, nil); err == nil {
		t.Error("expected error for unknown kind")
	}
}
