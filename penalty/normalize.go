package penalty

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Row is one raw CSV row keyed by its (trimmed) header name.
type Row map[string]string

// Schema declares which columns feed which Record fields. An empty column
// name means the field is not present in the dataset.
type Schema struct {
	Year            string
	Jurisdiction    string
	Metric          string
	DetectionMethod string
	AgeGroup        string

	Fines   string
	Charges string
	Arrests string

	Licences   string
	FinesPer   string
	ChargesPer string
	ArrestsPer string
}

// PenaltiesSchema describes Penalties_process.csv.
var PenaltiesSchema = Schema{
	Year:            "YEAR",
	Jurisdiction:    "JURISDICTION",
	Metric:          "METRIC",
	DetectionMethod: "DETECTION_METHOD",
	AgeGroup:        "AGE_GROUP",
	Fines:           "FINES",
	Charges:         "CHARGES",
	Arrests:         "ARRESTS",
}

// LicencesSchema describes Penalties_per_10,000_licences_processed.csv.
var LicencesSchema = Schema{
	Year:            "YEAR",
	Jurisdiction:    "JURISDICTION",
	Metric:          "METRIC",
	DetectionMethod: "DETECTION_METHOD",
	AgeGroup:        "AGE_GROUP",
	Fines:           "Sum(FINES)",
	Charges:         "Sum(CHARGES)",
	Arrests:         "Sum(ARRESTS)",
	Licences:        "LICENCES",
	FinesPer:        "FINES PER 10000 LICENCES",
	ChargesPer:      "CHARGES PER 10000 LICENCES",
	ArrestsPer:      "ARRESTS PER 10000 LICENCES",
}

func (s Schema) numericColumns() []string {
	var cols []string
	for _, c := range []string{s.Year, s.Fines, s.Charges, s.Arrests, s.Licences, s.FinesPer, s.ChargesPer, s.ArrestsPer} {
		if c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// ReadRows parses CSV data into header-keyed rows. Rows shorter than the
// header leave the missing columns absent from the map.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(rows)+2, err)
		}
		row := make(Row, len(header))
		for i, v := range rec {
			if i < len(header) {
				row[header[i]] = v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Normalize coerces raw rows into records. Declared numeric fields that are
// missing or unparseable become 0, text fields are trimmed, and
// JurisdictionFull is the expanded short code or the original value. It
// never fails.
func Normalize(rows []Row, s Schema) []Record {
	out := make([]Record, len(rows))
	for i, row := range rows {
		r := Record{
			Year:            int(number(row, s.Year)),
			Jurisdiction:    text(row, s.Jurisdiction),
			Metric:          text(row, s.Metric),
			DetectionMethod: text(row, s.DetectionMethod),
			AgeGroup:        text(row, s.AgeGroup),
			Counts: Counts{
				Fines:   number(row, s.Fines),
				Charges: number(row, s.Charges),
				Arrests: number(row, s.Arrests),
			},
			Licences: number(row, s.Licences),
			PerLicences: Counts{
				Fines:   number(row, s.FinesPer),
				Charges: number(row, s.ChargesPer),
				Arrests: number(row, s.ArrestsPer),
			},
		}
		r.JurisdictionFull = FullName(r.Jurisdiction)
		out[i] = r
	}
	return out
}

func text(row Row, col string) string {
	if col == "" {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func number(row Row, col string) float64 {
	if col == "" {
		return 0
	}
	v, ok := ParseNumber(row[col])
	if !ok {
		return 0
	}
	return v
}

// ParseNumber parses a numeric cell, tolerating thousands separators and a
// trailing percent sign. It reports false for empty or malformed input and
// for non-finite values.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "- -" || s == "--" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
