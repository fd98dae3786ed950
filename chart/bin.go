package chart

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// HistogramBins is the fixed bin count of the histogram.
const HistogramBins = 10

// Bin is one histogram interval [X0, X1). The last bin also holds X1.
type Bin struct {
	X0    float64 `json:"x0"`
	X1    float64 `json:"x1"`
	Count int     `json:"count"`
}

// Contains reports whether v falls in b. last marks the final bin, which is
// closed at the top.
func (b Bin) Contains(v float64, last bool) bool {
	if last {
		return v >= b.X0 && v <= b.X1
	}
	return v >= b.X0 && v < b.X1
}

// BinValues partitions domain into n equal-width half-open bins and counts
// the values in each. Values exactly at the domain maximum belong to the last
// bin; values outside the domain are not counted.
func BinValues(values []float64, domain [2]float64, n int) []Bin {
	if n <= 0 {
		return nil
	}
	lo, hi := domain[0], domain[1]
	if hi < lo {
		lo, hi = hi, lo
	}
	lo, hi = widen(lo, hi)

	dividers := floats.Span(make([]float64, n+1), lo, hi)
	dividers[0] = lo
	dividers[n] = hi

	in := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= lo && v <= hi {
			in = append(in, v)
		}
	}
	sort.Float64s(in)

	// stat.Histogram treats the upper divider as exclusive, so nudge it past hi
	// to keep hi inside the final bin.
	upper := make([]float64, len(dividers))
	copy(upper, dividers)
	upper[n] = math.Nextafter(hi, math.Inf(1))

	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{X0: dividers[i], X1: dividers[i+1]}
	}
	if len(in) == 0 {
		return bins
	}
	counts := stat.Histogram(nil, upper, in, nil)
	for i := range bins {
		bins[i].Count = int(counts[i])
	}
	return bins
}

// FindBin returns the index of the bin containing v, or -1.
func FindBin(bins []Bin, v float64) int {
	for i, b := range bins {
		if b.Contains(v, i == len(bins)-1) {
			return i
		}
	}
	return -1
}
