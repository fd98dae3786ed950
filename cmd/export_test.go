package cmd

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/zalepa/roadpenalties/penalty"
)

func exportRecords() []penalty.Record {
	mk := func(year int, code string, f, c, a float64) penalty.Record {
		return penalty.Record{
			Year: year, Jurisdiction: code, JurisdictionFull: penalty.FullName(code),
			Metric: "speed_fines", DetectionMethod: "Camera", AgeGroup: "17-25",
			Counts:      penalty.Counts{Fines: f, Charges: c, Arrests: a},
			PerLicences: penalty.Counts{Fines: f / 10},
		}
	}
	return []penalty.Record{
		mk(2021, "VIC", 3, 2, 0),
		mk(2020, "NSW", 10, 5, 1),
		mk(2021, "NSW", 4, 0, 0),
	}
}

func TestExportTableByJurisdiction(t *testing.T) {
	header, rows := exportTable(exportRecords(), "jurisdiction", penalty.Absolute)
	if want := []string{"Jurisdiction", "Code", "Fines", "Charges", "Arrests", "Total"}; !reflect.DeepEqual(header, want) {
		t.Errorf("header = %v", header)
	}
	want := [][]any{
		{"New South Wales", "NSW", 14.0, 5.0, 1.0, 20.0},
		{"Victoria", "VIC", 3.0, 2.0, 0.0, 5.0},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}
}

func TestExportTableByYear(t *testing.T) {
	_, rows := exportTable(exportRecords(), "year", penalty.Absolute)
	if len(rows) != 2 || rows[0][0] != 2020 || rows[1][0] != 2021 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[1][4] != 9.0 {
		t.Errorf("2021 total = %v, want 9", rows[1][4])
	}
}

func TestExportTablePerLicences(t *testing.T) {
	_, rows := exportTable(exportRecords(), "jurisdiction", penalty.PerTenThousand)
	if rows[0][2] != 1.4 {
		t.Errorf("NSW fines per licences = %v, want 1.4", rows[0][2])
	}
}

func TestExportTableRows(t *testing.T) {
	header, rows := exportTable(exportRecords(), "rows", penalty.Absolute)
	if len(header) != 8 || len(rows) != 3 {
		t.Fatalf("header %v, %d rows", header, len(rows))
	}
	if rows[0][1] != "VIC" {
		t.Errorf("rows keep input order, got %v first", rows[0][1])
	}
}

func TestExportTableJurisdictionYear(t *testing.T) {
	_, rows := exportTable(exportRecords(), "jurisdiction-year", penalty.Absolute)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0][0] != "New South Wales" || rows[0][1] != 2020 {
		t.Errorf("first row = %v", rows[0])
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSV(&buf, []string{"Jurisdiction", "Year", "Fines"}, [][]any{
		{"New South Wales", 2020, 10.5},
		{"Victoria, East", 2021, 3.0},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "Jurisdiction,Year,Fines\nNew South Wales,2020,10.5\n\"Victoria, East\",2021,3\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	header, rows := exportTable(exportRecords(), "jurisdiction", penalty.Absolute)
	if err := writeXLSX(path, "penalties", header, rows); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := f.GetRows("penalties")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
	if got[0][0] != "Jurisdiction" || got[1][0] != "New South Wales" || got[1][5] != "20" {
		t.Errorf("sheet = %v", got)
	}
}

func TestFilterSetIgnoresPenalty(t *testing.T) {
	f, err := filterSet(map[string]string{"year": "2021", "penalty": "fines"})
	if err != nil {
		t.Fatal(err)
	}
	got := penalty.Filter(exportRecords(), f.Predicate())
	if len(got) != 2 {
		t.Errorf("got %d records, want 2", len(got))
	}
	if _, err := filterSet(map[string]string{"colour": "red"}); err == nil {
		t.Error("expected error for unknown dimension")
	}
}
