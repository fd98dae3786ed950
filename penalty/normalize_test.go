package penalty

import (
	"strings"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"10", 10, true},
		{" 2,339 ", 2339, true},
		{"12.5%", 12.5, true},
		{"-3", -3, true},
		{"", 0, false},
		{"- -", 0, false},
		{"n/a", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseNumber(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

const penaltiesCSV = "\ufeffYEAR,JURISDICTION,METRIC,DETECTION_METHOD,AGE_GROUP,FINES,CHARGES,ARRESTS\n" +
	"2020,NSW,speed_fines,Camera,17-25,10,5,1\n" +
	"2020,VIC,speed_fines,Police,26-39,3,2,\n" +
	"2021, QLD ,mobile_phone_use,Camera,40-64,\"1,200\",oops,0\n" +
	"2019,XYZ,speed_fines\n"

func TestReadRowsAndNormalize(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(penaltiesCSV))
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if _, ok := rows[0]["YEAR"]; !ok {
		t.Errorf("byte order mark not stripped from header: %v", rows[0])
	}
	if _, ok := rows[3]["FINES"]; ok {
		t.Errorf("short row should leave FINES absent")
	}

	recs := Normalize(rows, PenaltiesSchema)
	if len(recs) != len(rows) {
		t.Fatalf("Normalize dropped rows: got %d, want %d", len(recs), len(rows))
	}

	nsw := recs[0]
	if nsw.Year != 2020 || nsw.JurisdictionFull != "New South Wales" || nsw.Counts != (Counts{10, 5, 1}) {
		t.Errorf("unexpected NSW record: %+v", nsw)
	}
	if recs[1].Counts.Arrests != 0 {
		t.Errorf("empty ARRESTS should coerce to 0, got %v", recs[1].Counts.Arrests)
	}
	qld := recs[2]
	if qld.Jurisdiction != "QLD" || qld.JurisdictionFull != "Queensland" {
		t.Errorf("jurisdiction not trimmed and expanded: %+v", qld)
	}
	if qld.Counts.Fines != 1200 || qld.Counts.Charges != 0 {
		t.Errorf("unexpected QLD counts: %+v", qld.Counts)
	}
	bad := recs[3]
	if bad.JurisdictionFull != "XYZ" || bad.Counts != (Counts{}) {
		t.Errorf("unknown code should pass through with zero counts: %+v", bad)
	}
}

func TestReadRowsEmpty(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(""))
	if err != nil || rows != nil {
		t.Errorf("ReadRows(\"\") = %v, %v; want nil, nil", rows, err)
	}
}

func TestNormalizeLicences(t *testing.T) {
	data := "YEAR,JURISDICTION,METRIC,DETECTION_METHOD,AGE_GROUP,Sum(FINES),Sum(CHARGES),Sum(ARRESTS),LICENCES,FINES PER 10000 LICENCES,CHARGES PER 10000 LICENCES,ARRESTS PER 10000 LICENCES\n" +
		"2022,WA,speed_fines,Camera,All ages,500,20,2,100000,50,2,0.2\n"
	rows, err := ReadRows(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	r := Normalize(rows, LicencesSchema)[0]
	if r.Counts != (Counts{500, 20, 2}) {
		t.Errorf("Counts = %+v", r.Counts)
	}
	if r.Licences != 100000 || r.PerLicences != (Counts{50, 2, 0.2}) {
		t.Errorf("licence fields = %v, %+v", r.Licences, r.PerLicences)
	}
	if PerTenThousand(r) != r.PerLicences || Absolute(r) != r.Counts {
		t.Errorf("measures do not select the expected counts")
	}
}
