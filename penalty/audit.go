package penalty

import (
	"sort"
	"strings"
)

// AnomalyKind classifies a data-shape problem that Normalize coerces away.
type AnomalyKind string

const (
	MissingNumber        AnomalyKind = "missing-number"
	UnparseableNumber    AnomalyKind = "unparseable-number"
	UnmappedJurisdiction AnomalyKind = "unmapped-jurisdiction"
)

// Anomaly is one coerced cell. Line is the 1-based CSV line, counting the
// header as line 1.
type Anomaly struct {
	Line       int
	Column     string
	Value      string
	Kind       AnomalyKind
	Suggestion string
}

// Audit lists every cell that Normalize would silently coerce. It does not
// modify rows.
func Audit(rows []Row, s Schema) []Anomaly {
	var out []Anomaly
	numeric := s.numericColumns()
	for i, row := range rows {
		line := i + 2
		for _, col := range numeric {
			raw, present := row[col]
			if !present || strings.TrimSpace(raw) == "" {
				out = append(out, Anomaly{Line: line, Column: col, Value: raw, Kind: MissingNumber})
				continue
			}
			if _, ok := ParseNumber(raw); !ok {
				out = append(out, Anomaly{Line: line, Column: col, Value: raw, Kind: UnparseableNumber})
			}
		}
		if s.Jurisdiction == "" {
			continue
		}
		code := strings.TrimSpace(row[s.Jurisdiction])
		if full := FullName(code); !Known(full) {
			out = append(out, Anomaly{
				Line:       line,
				Column:     s.Jurisdiction,
				Value:      code,
				Kind:       UnmappedJurisdiction,
				Suggestion: SuggestJurisdiction(code),
			})
		}
	}
	return out
}

// UnmappedSummary counts unmapped jurisdiction spellings, most frequent first.
func UnmappedSummary(anomalies []Anomaly) []JurisdictionCount {
	counts := make(map[string]int)
	suggest := make(map[string]string)
	for _, a := range anomalies {
		if a.Kind != UnmappedJurisdiction {
			continue
		}
		counts[a.Value]++
		suggest[a.Value] = a.Suggestion
	}
	out := make([]JurisdictionCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, JurisdictionCount{Value: v, Count: n, Suggestion: suggest[v]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// JurisdictionCount is one row of UnmappedSummary.
type JurisdictionCount struct {
	Value      string
	Count      int
	Suggestion string
}
