package cmd

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zalepa/roadpenalties/dataset"
	"github.com/zalepa/roadpenalties/penalty"
)

// auditTable pairs a raw dataset with its schema and file name.
type auditTable struct {
	file   string
	schema penalty.Schema
	rows   []penalty.Row
}

// Audit implements the "audit" subcommand: report the cells that
// normalization coerces, and optionally write corrected copies of the CSV
// files with unmapped jurisdiction spellings replaced.
func Audit(args []string) {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	sf := addSourceFlags(fs)
	limit := fs.Int("limit", 20, "maximum anomalies listed per file (0 lists all)")
	fixDir := fs.String("fix", "", "write corrected CSV files to this directory, prompting for each jurisdiction mapping")
	yes := fs.Bool("yes", false, "accept every suggested mapping without prompting")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: roadpenalties audit [dir] [--limit 20] [--fix outdir [--yes]]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(reorderArgs(fs, args))

	_, dash, _ := mustLoad(fs, sf)
	data := dash.Data()
	tables := []auditTable{
		{file: dataset.PenaltiesFile, schema: penalty.PenaltiesSchema, rows: data.PenaltyRows},
		{file: dataset.LicencesFile, schema: penalty.LicencesSchema, rows: data.LicenceRows},
	}

	var all []penalty.Anomaly
	for _, t := range tables {
		anomalies := penalty.Audit(t.rows, t.schema)
		all = append(all, anomalies...)
		report(os.Stdout, t.file, len(t.rows), anomalies, *limit)
	}

	summary := penalty.UnmappedSummary(all)
	if len(summary) > 0 {
		fmt.Println("\nUnmapped jurisdictions:")
		for _, s := range summary {
			hint := "no suggestion"
			if s.Suggestion != "" {
				hint = "suggest " + s.Suggestion
			}
			fmt.Printf("  %-20q %6d rows  (%s)\n", s.Value, s.Count, hint)
		}
	}

	if *fixDir == "" {
		return
	}
	var in io.Reader = os.Stdin
	if *yes {
		in = strings.NewReader("a\n")
	}
	fixes := planFixes(summary, in, os.Stderr)
	if err := os.MkdirAll(*fixDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}
	for _, t := range tables {
		n := applyFixes(t.rows, t.schema.Jurisdiction, fixes)
		path := filepath.Join(*fixDir, t.file)
		if err := writeRows(path, t.rows, t.schema); err != nil {
			fmt.Fprintf(os.Stderr, "error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "audit: %s: renamed %d jurisdictions\n", path, n)
	}
}

// report prints a per-kind count and the first limit anomalies.
func report(w io.Writer, file string, rows int, anomalies []penalty.Anomaly, limit int) {
	byKind := make(map[penalty.AnomalyKind]int)
	for _, a := range anomalies {
		byKind[a.Kind]++
	}
	fmt.Fprintf(w, "%s: %d rows, %d anomalies\n", file, rows, len(anomalies))
	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-22s %d\n", k, byKind[penalty.AnomalyKind(k)])
	}
	for i, a := range anomalies {
		if limit > 0 && i >= limit {
			fmt.Fprintf(w, "  ... %d more\n", len(anomalies)-limit)
			break
		}
		fmt.Fprintf(w, "  line %-6d %-28s %-22s %q\n", a.Line, a.Column, a.Kind, a.Value)
	}
}

// planFixes asks, for each unmapped spelling that has a suggestion, whether
// to replace it with the suggested jurisdiction's short code. Answering
// "a" accepts the rest without prompting.
func planFixes(summary []penalty.JurisdictionCount, in io.Reader, out io.Writer) map[string]string {
	fixes := make(map[string]string)
	scanner := bufio.NewScanner(in)
	acceptAll := false
	for _, s := range summary {
		if s.Suggestion == "" {
			continue
		}
		code := penalty.ShortCode(s.Suggestion)
		if acceptAll {
			fmt.Fprintf(out, "  %q → %s (%d rows)\n", s.Value, code, s.Count)
			fixes[s.Value] = code
			continue
		}

		fmt.Fprintf(out, "\nUnmapped jurisdiction %q in %d rows.\n", s.Value, s.Count)
		fmt.Fprintf(out, "Replace with %s (%s)? [y/N/a(ll)]: ", code, s.Suggestion)
		if !scanner.Scan() {
			break
		}
		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "a", "all":
			acceptAll = true
			fixes[s.Value] = code
		case "y", "yes":
			fixes[s.Value] = code
		}
	}
	return fixes
}

// applyFixes rewrites the jurisdiction column in place and returns how many
// cells changed.
func applyFixes(rows []penalty.Row, col string, fixes map[string]string) int {
	if col == "" || len(fixes) == 0 {
		return 0
	}
	applied := 0
	for _, row := range rows {
		if code, ok := fixes[strings.TrimSpace(row[col])]; ok {
			row[col] = code
			applied++
		}
	}
	return applied
}

// rowColumns returns the schema's columns in declaration order followed by
// any other columns present, sorted.
func rowColumns(rows []penalty.Row, s penalty.Schema) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, c := range []string{s.Year, s.Jurisdiction, s.Metric, s.DetectionMethod, s.AgeGroup,
		s.Fines, s.Charges, s.Arrests, s.Licences, s.FinesPer, s.ChargesPer, s.ArrestsPer} {
		if c != "" && !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	var extra []string
	for _, row := range rows {
		for c := range row {
			if !seen[c] {
				seen[c] = true
				extra = append(extra, c)
			}
		}
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

func writeRows(path string, rows []penalty.Row, s penalty.Schema) error {
	cols := rowColumns(rows, s)
	table := make([][]any, len(rows))
	for i, row := range rows {
		rec := make([]any, len(cols))
		for j, c := range cols {
			rec[j] = row[c]
		}
		table[i] = rec
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeCSV(f, cols, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
