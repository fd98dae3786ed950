package chart

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Epsilon is how far a degenerate (zero-width) domain is widened on each side.
const Epsilon = 1.0

// Linear maps a numeric domain onto a pixel range.
type Linear struct {
	Domain [2]float64 `json:"domain"`
	Range  [2]float64 `json:"range"`
}

// Map returns the pixel position of v. The domain never has zero width, so
// the result is always finite for finite v.
func (s Linear) Map(v float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	if d1 == d0 {
		return (s.Range[0] + s.Range[1]) / 2
	}
	t := (v - d0) / (d1 - d0)
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// Invert maps a pixel position back into the domain.
func (s Linear) Invert(px float64) float64 {
	r0, r1 := s.Range[0], s.Range[1]
	if r1 == r0 {
		return s.Domain[0]
	}
	t := (px - r0) / (r1 - r0)
	return s.Domain[0] + t*(s.Domain[1]-s.Domain[0])
}

// ValueDomain returns [0, max(values)] extended to nice round numbers. Empty
// input yields [0, 1]; an all-zero input is widened and stays anchored at 0.
func ValueDomain(values []float64) [2]float64 {
	max, err := stats.Max(values)
	if err != nil || math.IsNaN(max) || math.IsInf(max, 0) {
		return [2]float64{0, 1}
	}
	lo, hi := 0.0, max
	if hi < 0 {
		lo, hi = hi, 0
	}
	lo, hi = widen(lo, hi)
	if lo < 0 && max >= 0 {
		lo = 0
	}
	return Nice(lo, hi, 10)
}

// ExtentDomain returns [min, max] of values extended to nice round numbers.
// A single value or identical values widen symmetrically by Epsilon.
func ExtentDomain(values []float64) [2]float64 {
	min, errMin := stats.Min(values)
	max, errMax := stats.Max(values)
	if errMin != nil || errMax != nil {
		return [2]float64{0, 1}
	}
	min, max = widen(min, max)
	return Nice(min, max, 10)
}

func widen(lo, hi float64) (float64, float64) {
	if lo == hi {
		return lo - Epsilon, hi + Epsilon
	}
	return lo, hi
}

// Nice extends [lo, hi] outward to multiples of a round tick step chosen for
// roughly count ticks, the way d3's linear.nice does.
func Nice(lo, hi float64, count int) [2]float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	if lo == hi || count <= 0 {
		return [2]float64{lo, hi}
	}
	prev := 0.0
	for i := 0; i < 10; i++ {
		step := tickIncrement(lo, hi, count)
		if step == prev {
			break
		}
		switch {
		case step > 0:
			lo = math.Floor(lo/step) * step
			hi = math.Ceil(hi/step) * step
		case step < 0:
			lo = math.Ceil(lo*step) / step
			hi = math.Floor(hi*step) / step
		default:
			return [2]float64{lo, hi}
		}
		prev = step
	}
	return [2]float64{lo, hi}
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickIncrement returns a positive step for steps >= 1 and the negated
// inverse step for fractional steps, so that both can be applied without
// floating point drift.
func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

// Ticks returns round values spanning the domain, for axis labels.
func (s Linear) Ticks(count int) []float64 {
	lo, hi := s.Domain[0], s.Domain[1]
	if hi < lo {
		lo, hi = hi, lo
	}
	if lo == hi || count <= 0 {
		return []float64{lo}
	}
	step := tickIncrement(lo, hi, count)
	var out []float64
	if step > 0 {
		for i := math.Ceil(lo / step); i*step <= hi; i++ {
			out = append(out, i*step)
		}
	} else if step < 0 {
		inv := -step
		for i := math.Ceil(lo * inv); i/inv <= hi; i++ {
			out = append(out, i/inv)
		}
	}
	return out
}

// Band maps categories onto equal-width bands of a pixel range.
type Band struct {
	Domain  []string   `json:"domain"`
	Range   [2]float64 `json:"range"`
	Padding float64    `json:"padding"`
}

// NewBand builds a band scale with the default 0.2 padding.
func NewBand(domain []string, width float64) Band {
	return Band{Domain: domain, Range: [2]float64{0, width}, Padding: 0.2}
}

func (b Band) step() float64 {
	n := float64(len(b.Domain))
	if n == 0 {
		return 0
	}
	// d3 band: step = width / (n - paddingInner + 2*paddingOuter)
	return (b.Range[1] - b.Range[0]) / (n - b.Padding + 2*b.Padding)
}

// Bandwidth is the width of one band.
func (b Band) Bandwidth() float64 {
	return b.step() * (1 - b.Padding)
}

// Map returns the left edge of the band for category c, and false if c is not
// in the domain.
func (b Band) Map(c string) (float64, bool) {
	for i, d := range b.Domain {
		if d == c {
			return b.Range[0] + b.step()*(b.Padding+float64(i)), true
		}
	}
	return 0, false
}
