package penalty

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Bucket is one grouped-and-summed output row.
type Bucket[K comparable] struct {
	Key    K      `json:"key"`
	Totals Totals `json:"totals"`
}

// StateYear is the composite key for jurisdiction x year grouping.
type StateYear struct {
	Jurisdiction string `json:"jurisdiction"`
	Year         int    `json:"year"`
}

// Aggregate groups records by key and sums the measured counts. Buckets are
// returned in first-occurrence order; callers sort them for display. Total is
// derived from the three summed components, never summed separately.
//
// Each component is summed in ascending order of its contributions, so the
// sums do not depend on the order of records.
func Aggregate[K comparable](records []Record, key func(Record) K, measure Measure) []Bucket[K] {
	index := make(map[K]int)
	var out []Bucket[K]
	var parts [][3][]float64
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Bucket[K]{Key: k})
			parts = append(parts, [3][]float64{})
		}
		c := measure(r)
		p := &parts[i]
		p[0] = append(p[0], c.Fines)
		p[1] = append(p[1], c.Charges)
		p[2] = append(p[2], c.Arrests)
	}
	for i := range out {
		t := &out[i].Totals
		t.Fines = sortedSum(parts[i][0])
		t.Charges = sortedSum(parts[i][1])
		t.Arrests = sortedSum(parts[i][2])
		t.Total = t.Fines + t.Charges + t.Arrests
	}
	return out
}

func sortedSum(vals []float64) float64 {
	sort.Float64s(vals)
	return floats.Sum(vals)
}

// ByJurisdiction groups by full jurisdiction name, in canonical order.
func ByJurisdiction(records []Record, measure Measure) []Bucket[string] {
	b := Aggregate(records, func(r Record) string { return r.JurisdictionFull }, measure)
	SortByJurisdiction(b)
	return b
}

// ByYear groups by year, ascending.
func ByYear(records []Record, measure Measure) []Bucket[int] {
	b := Aggregate(records, func(r Record) int { return r.Year }, measure)
	SortByYear(b)
	return b
}

// Series is one jurisdiction's yearly buckets.
type Series struct {
	Jurisdiction string        `json:"jurisdiction"`
	Values       []Bucket[int] `json:"values"`
}

// ByJurisdictionYear groups by jurisdiction then year. Series are in
// canonical jurisdiction order and each series is sorted by year.
func ByJurisdictionYear(records []Record, measure Measure) []Series {
	flat := Aggregate(records, func(r Record) StateYear {
		return StateYear{Jurisdiction: r.JurisdictionFull, Year: r.Year}
	}, measure)

	index := make(map[string]int)
	var out []Series
	for _, b := range flat {
		i, ok := index[b.Key.Jurisdiction]
		if !ok {
			i = len(out)
			index[b.Key.Jurisdiction] = i
			out = append(out, Series{Jurisdiction: b.Key.Jurisdiction})
		}
		out[i].Values = append(out[i].Values, Bucket[int]{Key: b.Key.Year, Totals: b.Totals})
	}
	for i := range out {
		SortByYear(out[i].Values)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return jurisdictionLess(out[i].Jurisdiction, out[j].Jurisdiction)
	})
	return out
}

// SortByJurisdiction orders buckets by the canonical jurisdiction order.
// Names outside the eight sort after them alphabetically.
func SortByJurisdiction(b []Bucket[string]) {
	sort.SliceStable(b, func(i, j int) bool { return jurisdictionLess(b[i].Key, b[j].Key) })
}

// SortByYear orders buckets by ascending year.
func SortByYear(b []Bucket[int]) {
	sort.SliceStable(b, func(i, j int) bool { return b[i].Key < b[j].Key })
}

func jurisdictionLess(a, b string) bool {
	ra, rb := CanonicalRank(a), CanonicalRank(b)
	switch {
	case ra >= 0 && rb >= 0:
		return ra < rb
	case ra >= 0:
		return true
	case rb >= 0:
		return false
	}
	return a < b
}

// RowTotals returns fines+charges+arrests for each record, in order. The
// histogram bins these per-row values.
func RowTotals(records []Record, measure Measure) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		c := measure(r)
		out[i] = c.Fines + c.Charges + c.Arrests
	}
	return out
}
