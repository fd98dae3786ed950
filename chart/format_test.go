package chart

import (
	"image/color"
	"math"
	"testing"
)

func TestCount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{16, "16"},
		{1234.5, "1,234.5"},
		{1234567, "1,234,567"},
		{math.NaN(), "0"},
	}
	for _, tt := range tests {
		if got := Count(tt.in); got != tt.want {
			t.Errorf("Count(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSI(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{16, "16"},
		{150, "150"},
		{1500, "1.5k"},
		{12345, "12k"},
		{2000000, "2M"},
		{999.6, "1k"},
		{9996, "10k"},
		{94.96, "95"},
		{0.5, "500m"},
		{-1500, "-1.5k"},
	}
	for _, tt := range tests {
		if got := SI(tt.in); got != tt.want {
			t.Errorf("SI(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestYear(t *testing.T) {
	if got := Year(2020.0000001); got != "2020" {
		t.Errorf("Year = %q", got)
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, s := range []string{"#4682b4", "#ffa500", "#000000"} {
		if got := Hex(ParseHex(s)); got != s {
			t.Errorf("Hex(ParseHex(%q)) = %q", s, got)
		}
	}
	if ParseHex("steelblue") != color.Black {
		t.Errorf("invalid input should fall back to black")
	}
}

func TestBluesEnds(t *testing.T) {
	s := NewBlues([2]float64{0, 10})
	if got := Hex(s.Color(0)); got != "#f7fbff" {
		t.Errorf("low end = %s", got)
	}
	if got := Hex(s.Color(10)); got != "#08306b" {
		t.Errorf("high end = %s", got)
	}
	if got := Hex(s.Color(-5)); got != "#f7fbff" {
		t.Errorf("below domain = %s", got)
	}
	if len(s.Stops()) != 5 {
		t.Errorf("want 5 gradient stops")
	}
}
