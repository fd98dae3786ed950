package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/palette/brewer"
)

// Sequential maps [Domain[0], Domain[1]] onto a multi-hue brewer ramp.
type Sequential struct {
	Domain [2]float64
	colors []color.Color
}

// NewBlues builds the light-to-dark blue ramp used by the choropleth.
func NewBlues(domain [2]float64) Sequential {
	return Sequential{Domain: domain, colors: brewerColors(brewer.TypeSequential, "Blues", 9)}
}

// At returns the ramp color at t in [0, 1].
func (s Sequential) At(t float64) color.Color {
	if len(s.colors) == 0 {
		return color.Gray{Y: 200}
	}
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	pos := t * float64(len(s.colors)-1)
	i := int(math.Floor(pos))
	if i >= len(s.colors)-1 {
		return s.colors[len(s.colors)-1]
	}
	return lerp(s.colors[i], s.colors[i+1], pos-float64(i))
}

// Color maps v through the domain onto the ramp.
func (s Sequential) Color(v float64) color.Color {
	d0, d1 := s.Domain[0], s.Domain[1]
	if d1 == d0 {
		return s.At(0)
	}
	return s.At((v - d0) / (d1 - d0))
}

// Stops returns the colors at 0, 25, 50, 75 and 100 percent, for the legend
// gradient.
func (s Sequential) Stops() []GradientStop {
	var out []GradientStop
	for _, t := range []float64{0, 0.25, 0.5, 0.75, 1} {
		out = append(out, GradientStop{Offset: t, Color: Hex(s.At(t))})
	}
	return out
}

// GradientStop is one legend gradient stop.
type GradientStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// Ordinal assigns a fixed qualitative color to each category in domain order.
type Ordinal struct {
	Domain []string
	colors []color.Color
}

// NewOrdinal builds an ordinal scale over the brewer Dark2 palette.
func NewOrdinal(domain []string) Ordinal {
	return Ordinal{Domain: domain, colors: brewerColors(brewer.TypeQualitative, "Dark2", 8)}
}

// Color returns the color of category c. Unknown categories are gray.
func (o Ordinal) Color(c string) color.Color {
	if len(o.colors) == 0 {
		return color.Gray{Y: 120}
	}
	for i, d := range o.Domain {
		if d == c {
			return o.colors[i%len(o.colors)]
		}
	}
	return color.Gray{Y: 120}
}

func brewerColors(typ brewer.PaletteType, name string, n int) []color.Color {
	p, err := brewer.GetPalette(typ, name, n)
	if err != nil {
		return nil
	}
	return p.Colors()
}

func lerp(a, b color.Color, t float64) color.Color {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	mix := func(x, y uint32) uint8 {
		return uint8((float64(x>>8)*(1-t) + float64(y>>8)*t) + 0.5)
	}
	return color.RGBA{R: mix(ar, br), G: mix(ag, bg), B: mix(ab, bb), A: 255}
}

// Hex formats c as #rrggbb.
func Hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// ParseHex parses #rrggbb, falling back to black.
func ParseHex(s string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.Black
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
