package chart

import (
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNice(t *testing.T) {
	tests := []struct {
		lo, hi float64
		want   [2]float64
	}{
		{0, 16, [2]float64{0, 16}},
		{3, 97, [2]float64{0, 100}},
		{0.13, 0.87, [2]float64{0.1, 0.9}},
		{2019, 2021, [2]float64{2019, 2021}},
		{5, 5, [2]float64{5, 5}},
	}
	for _, tt := range tests {
		got := Nice(tt.lo, tt.hi, 10)
		if math.Abs(got[0]-tt.want[0]) > 1e-9 || math.Abs(got[1]-tt.want[1]) > 1e-9 {
			t.Errorf("Nice(%v, %v) = %v, want %v", tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestExtentDomainWidensDegenerate(t *testing.T) {
	assert.Equal(t, [2]float64{2019, 2021}, ExtentDomain([]float64{2020, 2020}))
	assert.Equal(t, [2]float64{2019, 2021}, ExtentDomain([]float64{2020}))
	assert.Equal(t, [2]float64{0, 1}, ExtentDomain(nil))
}

func TestValueDomain(t *testing.T) {
	tests := []struct {
		in   []float64
		want [2]float64
	}{
		{[]float64{16, 5}, [2]float64{0, 16}},
		{nil, [2]float64{0, 1}},
		{[]float64{0, 0}, [2]float64{0, 1}},
		{[]float64{21}, [2]float64{0, 22}},
	}
	for _, tt := range tests {
		if got := ValueDomain(tt.in); got != tt.want {
			t.Errorf("ValueDomain(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLinearMapFinite(t *testing.T) {
	for _, d := range [][2]float64{{0, 16}, {2019, 2021}, {5, 5}} {
		s := Linear{Domain: d, Range: [2]float64{300, 0}}
		for _, v := range []float64{d[0], d[1], (d[0] + d[1]) / 2} {
			px := s.Map(v)
			if math.IsNaN(px) || math.IsInf(px, 0) {
				t.Errorf("Map(%v) over %v = %v", v, d, px)
			}
		}
	}
	s := Linear{Domain: [2]float64{0, 16}, Range: [2]float64{300, 0}}
	assert.Equal(t, 300.0, s.Map(0))
	assert.Equal(t, 0.0, s.Map(16))
	assert.InDelta(t, 8.0, s.Invert(150), 1e-9)
}

func TestLinearTicks(t *testing.T) {
	s := Linear{Domain: [2]float64{0, 16}}
	want := []float64{0, 2, 4, 6, 8, 10, 12, 14, 16}
	if got := s.Ticks(10); !reflect.DeepEqual(got, want) {
		t.Errorf("Ticks = %v, want %v", got, want)
	}
	years := Linear{Domain: [2]float64{2019, 2021}}.Ticks(10)
	assert.Equal(t, 2019.0, years[0])
	assert.Equal(t, 2021.0, years[len(years)-1])
}

func TestBand(t *testing.T) {
	b := NewBand([]string{"New South Wales", "Victoria"}, 110)
	step := 110 / 2.2
	assert.InDelta(t, step*0.8, b.Bandwidth(), 1e-9)

	x, ok := b.Map("New South Wales")
	assert.True(t, ok)
	assert.InDelta(t, step*0.2, x, 1e-9)
	x, ok = b.Map("Victoria")
	assert.True(t, ok)
	assert.InDelta(t, step*1.2, x, 1e-9)

	_, ok = b.Map("Tasmania")
	assert.False(t, ok)
	assert.Zero(t, NewBand(nil, 100).Bandwidth())
}
