package penalty

// Counts holds the three penalty outcomes recorded for one observation.
type Counts struct {
	Fines   float64 `json:"fines"`
	Charges float64 `json:"charges"`
	Arrests float64 `json:"arrests"`
}

// Record is one normalized penalty observation: a (year, jurisdiction,
// metric, detection method, age group) tuple with its counts.
//
// Rows from the licence dataset also carry the licence denominator and the
// per-10,000-licences rates; Counts then holds the summed absolute values.
type Record struct {
	Year             int     `json:"year"`
	Jurisdiction     string  `json:"jurisdiction"`
	JurisdictionFull string  `json:"jurisdictionFull"`
	Metric           string  `json:"metric"`
	DetectionMethod  string  `json:"detectionMethod"`
	AgeGroup         string  `json:"ageGroup"`
	Counts           Counts  `json:"counts"`
	Licences         float64 `json:"licences,omitempty"`
	PerLicences      Counts  `json:"perLicences"`
}

// Totals is the reduced value of a group of records. Total is always the sum
// of the three summed components.
type Totals struct {
	Fines   float64 `json:"fines"`
	Charges float64 `json:"charges"`
	Arrests float64 `json:"arrests"`
	Total   float64 `json:"total"`
}

// Measure selects which counts of a record are summed.
type Measure func(Record) Counts

// Absolute sums the raw FINES/CHARGES/ARRESTS counts.
func Absolute(r Record) Counts { return r.Counts }

// PerTenThousand sums the per-10,000-licences rates.
func PerTenThousand(r Record) Counts { return r.PerLicences }
