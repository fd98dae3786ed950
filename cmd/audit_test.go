package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/zalepa/roadpenalties/penalty"
)

var unmapped = []penalty.JurisdictionCount{
	{Value: "N.S.W.", Count: 2, Suggestion: "New South Wales"},
	{Value: "Atlantis", Count: 1},
	{Value: "vic", Count: 3, Suggestion: "Victoria"},
	{Value: "Qld.", Count: 1, Suggestion: "Queensland"},
}

func TestPlanFixesPrompts(t *testing.T) {
	var out bytes.Buffer
	fixes := planFixes(unmapped, strings.NewReader("y\nn\ny\n"), &out)

	want := map[string]string{"N.S.W.": "NSW", "Qld.": "QLD"}
	if !reflect.DeepEqual(fixes, want) {
		t.Errorf("fixes = %v, want %v", fixes, want)
	}
	if strings.Contains(out.String(), "Atlantis") {
		t.Error("spelling without a suggestion should not be prompted for")
	}
}

func TestPlanFixesAcceptAll(t *testing.T) {
	var out bytes.Buffer
	fixes := planFixes(unmapped, strings.NewReader("a\n"), &out)
	want := map[string]string{"N.S.W.": "NSW", "vic": "VIC", "Qld.": "QLD"}
	if !reflect.DeepEqual(fixes, want) {
		t.Errorf("fixes = %v, want %v", fixes, want)
	}
}

func TestPlanFixesInputEnds(t *testing.T) {
	fixes := planFixes(unmapped, strings.NewReader(""), &bytes.Buffer{})
	if len(fixes) != 0 {
		t.Errorf("fixes = %v, want none", fixes)
	}
}

func TestApplyFixes(t *testing.T) {
	rows := []penalty.Row{
		{"JURISDICTION": " N.S.W. ", "YEAR": "2020"},
		{"JURISDICTION": "VIC", "YEAR": "2020"},
		{"JURISDICTION": "N.S.W.", "YEAR": "2021"},
	}
	n := applyFixes(rows, "JURISDICTION", map[string]string{"N.S.W.": "NSW"})
	if n != 2 {
		t.Errorf("applied = %d, want 2", n)
	}
	for i, want := range []string{"NSW", "VIC", "NSW"} {
		if got := rows[i]["JURISDICTION"]; got != want {
			t.Errorf("row %d = %q, want %q", i, got, want)
		}
	}
	if applyFixes(rows, "", map[string]string{"VIC": "X"}) != 0 {
		t.Error("no column should apply nothing")
	}
}

func TestWriteRows(t *testing.T) {
	rows := []penalty.Row{
		{"YEAR": "2020", "JURISDICTION": "NSW", "FINES": "10", "NOTES": "x"},
	}
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := writeRows(path, rows, penalty.PenaltiesSchema); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	header := strings.Split(lines[0], ",")
	if header[0] != "YEAR" || header[1] != "JURISDICTION" || header[len(header)-1] != "NOTES" {
		t.Errorf("header = %v", header)
	}
	if !strings.HasPrefix(lines[1], "2020,NSW,") || !strings.HasSuffix(lines[1], ",x") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestReport(t *testing.T) {
	anomalies := []penalty.Anomaly{
		{Line: 2, Column: "FINES", Kind: penalty.AnomalyKind("non-numeric"), Value: "oops"},
		{Line: 3, Column: "FINES", Kind: penalty.AnomalyKind("non-numeric"), Value: "?"},
		{Line: 4, Column: "YEAR", Kind: penalty.AnomalyKind("bad-year"), Value: ""},
	}
	var buf bytes.Buffer
	report(&buf, "p.csv", 10, anomalies, 2)
	out := buf.String()
	if !strings.HasPrefix(out, "p.csv: 10 rows, 3 anomalies\n") {
		t.Errorf("summary line: %q", out)
	}
	if !strings.Contains(out, "... 1 more") {
		t.Errorf("limit not applied: %q", out)
	}
}
