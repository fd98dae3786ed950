package chart

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// Count formats an axis or tooltip value with thousands separators and at
// most two decimals.
func Count(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return humanize.CommafWithDigits(v, 2)
}

// SI formats v with an SI prefix and two significant digits: 12345 -> "12k",
// 999.6 -> "1k". v is rounded before the prefix is picked.
func SI(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	step := math.Pow(10, math.Floor(math.Log10(math.Abs(v)))-1)
	value, prefix := humanize.ComputeSI(math.Round(v/step) * step)
	return humanize.FtoaWithDigits(value, 1) + prefix
}

// Year formats a year tick, without grouping.
func Year(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}
