package penalty

import (
	"sort"
	"strconv"
	"strings"
)

// Options are the dropdown choices derived from a dataset. Every list
// starts with All except Penalty.
type Options struct {
	Years         []string `json:"years"`
	Metrics       []string `json:"metrics"`
	Methods       []string `json:"methods"`
	AgeGroups     []string `json:"ageGroups"`
	Jurisdictions []string `json:"jurisdictions"`
	Penalty       []string `json:"penalty"`
}

// OptionStyle tweaks option derivation for a particular filter panel.
type OptionStyle struct {
	// YearsAscending lists years oldest first instead of newest first.
	YearsAscending bool
	// ExcludeYears drops years missing from a companion dataset.
	ExcludeYears []int
}

// DeriveOptions extracts the distinct dropdown values from records. The
// "Other" detection method and the "All ages" group are omitted; age groups
// sort numerically by their leading number where possible.
func DeriveOptions(records []Record, style OptionStyle) Options {
	years := make(map[int]bool)
	metrics := make(map[string]bool)
	methods := make(map[string]bool)
	ages := make(map[string]bool)
	states := make(map[string]bool)

	excluded := make(map[int]bool, len(style.ExcludeYears))
	for _, y := range style.ExcludeYears {
		excluded[y] = true
	}

	for _, r := range records {
		if !excluded[r.Year] {
			years[r.Year] = true
		}
		if r.Metric != "" {
			metrics[r.Metric] = true
		}
		if r.DetectionMethod != "" && r.DetectionMethod != "Other" {
			methods[r.DetectionMethod] = true
		}
		if r.AgeGroup != "" && !strings.EqualFold(r.AgeGroup, "all ages") {
			ages[r.AgeGroup] = true
		}
		if r.JurisdictionFull != "" {
			states[r.JurisdictionFull] = true
		}
	}

	yearList := make([]int, 0, len(years))
	for y := range years {
		yearList = append(yearList, y)
	}
	sort.Ints(yearList)
	if !style.YearsAscending {
		sort.Sort(sort.Reverse(sort.IntSlice(yearList)))
	}
	yearStrs := make([]string, len(yearList))
	for i, y := range yearList {
		yearStrs[i] = strconv.Itoa(y)
	}

	ageList := keys(ages)
	sort.SliceStable(ageList, func(i, j int) bool { return ageLess(ageList[i], ageList[j]) })

	stateList := CanonicalOrder(states)
	var extra []string
	for s := range states {
		if !Known(s) {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	stateList = append(stateList, extra...)

	penalty := make([]string, len(PenaltyTypes))
	for i, p := range PenaltyTypes {
		penalty[i] = string(p)
	}

	return Options{
		Years:         withAll(yearStrs),
		Metrics:       withAll(sortedKeys(metrics)),
		Methods:       withAll(sortedKeys(methods)),
		AgeGroups:     withAll(ageList),
		Jurisdictions: withAll(stateList),
		Penalty:       penalty,
	}
}

// For returns the option list for a dimension.
func (o Options) For(d Dimension) []string {
	switch d {
	case DimYear:
		return o.Years
	case DimMetric:
		return o.Metrics
	case DimMethod:
		return o.Methods
	case DimAge:
		return o.AgeGroups
	case DimJurisdiction:
		return o.Jurisdictions
	}
	return nil
}

// ageLess orders "17-25" before "26-39" and falls back to string order.
func ageLess(a, b string) bool {
	na, okA := leadingInt(a)
	nb, okB := leadingInt(b)
	if okA && okB && na != nb {
		return na < nb
	}
	return a < b
}

func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

func withAll(vals []string) []string {
	return append([]string{All}, vals...)
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := keys(m)
	sort.Strings(out)
	return out
}
