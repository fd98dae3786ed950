package penalty

import (
	"fmt"
	"strconv"
	"strings"
)

// All is the sentinel filter value meaning "no constraint".
const All = "All"

// Dimension names a row-filtering dropdown.
type Dimension string

const (
	DimYear         Dimension = "year"
	DimMetric       Dimension = "metric"
	DimMethod       Dimension = "method"
	DimAge          Dimension = "age"
	DimJurisdiction Dimension = "jurisdiction"
)

// Dimensions lists the row-filtering dimensions in dropdown order.
var Dimensions = []Dimension{DimYear, DimMetric, DimMethod, DimAge, DimJurisdiction}

// ParseDimension maps a dimension name to a Dimension.
func ParseDimension(s string) (Dimension, error) {
	for _, d := range Dimensions {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown filter dimension %q", s)
}

// PenaltyType selects which summed field a chart displays. It is a
// projection of the aggregated totals, not a row filter.
type PenaltyType string

const (
	AllPenalties PenaltyType = "All Penalties"
	Fines        PenaltyType = "Fines"
	Charges      PenaltyType = "Charges"
	Arrests      PenaltyType = "Arrests"
)

// PenaltyTypes lists the dropdown choices in display order.
var PenaltyTypes = []PenaltyType{AllPenalties, Fines, Charges, Arrests}

// ParsePenaltyType accepts the dropdown label or the field name
// ("total", "fines", ...). Empty input selects AllPenalties.
func ParsePenaltyType(s string) (PenaltyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all penalties", "total", "all":
		return AllPenalties, nil
	case "fines":
		return Fines, nil
	case "charges":
		return Charges, nil
	case "arrests":
		return Arrests, nil
	}
	return "", fmt.Errorf("unknown penalty type %q", s)
}

// Key is the name of the projected field.
func (p PenaltyType) Key() string {
	switch p {
	case Fines:
		return "fines"
	case Charges:
		return "charges"
	case Arrests:
		return "arrests"
	}
	return "total"
}

// Label is the human readable name used in tooltips and legends.
func (p PenaltyType) Label() string {
	if p == AllPenalties || p == "" {
		return "Total Penalties"
	}
	return string(p)
}

// Of projects t onto the selected field.
func (p PenaltyType) Of(t Totals) float64 {
	switch p {
	case Fines:
		return t.Fines
	case Charges:
		return t.Charges
	case Arrests:
		return t.Arrests
	}
	return t.Total
}

// FilterSet holds the current dropdown selections. A missing dimension is
// equivalent to All. The zero value selects everything.
type FilterSet struct {
	values  map[Dimension]string
	Penalty PenaltyType
}

// NewFilterSet returns a FilterSet with every dimension set to All.
func NewFilterSet() FilterSet {
	return FilterSet{values: make(map[Dimension]string), Penalty: AllPenalties}
}

// Set records a selection in place. Setting All clears the dimension.
func (f *FilterSet) Set(d Dimension, v string) {
	if f.values == nil {
		f.values = make(map[Dimension]string)
	}
	v = strings.TrimSpace(v)
	if v == "" || v == All {
		delete(f.values, d)
		return
	}
	f.values[d] = v
}

// Get returns the selection for d, or All.
func (f FilterSet) Get(d Dimension) string {
	if v, ok := f.values[d]; ok {
		return v
	}
	return All
}

// Values returns a copy of the non-All selections.
func (f FilterSet) Values() map[Dimension]string {
	out := make(map[Dimension]string, len(f.values))
	for d, v := range f.values {
		out[d] = v
	}
	return out
}

// Restrict returns a copy of f that keeps only the given dimensions. A filter
// panel uses it to ignore selections it does not offer.
func (f FilterSet) Restrict(dims []Dimension) FilterSet {
	out := FilterSet{values: make(map[Dimension]string), Penalty: f.Penalty}
	for _, d := range dims {
		if v, ok := f.values[d]; ok {
			out.values[d] = v
		}
	}
	return out
}

// Predicate builds the conjunction of equality tests for every non-All
// dimension. With every dimension at All it accepts all records.
func (f FilterSet) Predicate() func(Record) bool {
	var tests []func(Record) bool
	for _, d := range Dimensions {
		v, ok := f.values[d]
		if !ok {
			continue
		}
		tests = append(tests, equality(d, v))
	}
	return func(r Record) bool {
		for _, t := range tests {
			if !t(r) {
				return false
			}
		}
		return true
	}
}

func equality(d Dimension, v string) func(Record) bool {
	switch d {
	case DimYear:
		year, err := strconv.Atoi(v)
		if err != nil {
			return func(Record) bool { return false }
		}
		return func(r Record) bool { return r.Year == year }
	case DimMetric:
		return func(r Record) bool { return r.Metric == v }
	case DimMethod:
		return func(r Record) bool { return r.DetectionMethod == v }
	case DimAge:
		return func(r Record) bool { return r.AgeGroup == v }
	case DimJurisdiction:
		full := FullName(v)
		return func(r Record) bool { return r.JurisdictionFull == full }
	}
	return func(Record) bool { return true }
}

// Filter returns the records accepted by pred, preserving order.
func Filter(records []Record, pred func(Record) bool) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
