package cmd

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/zalepa/roadpenalties/penalty"
)

var validGroupings = []string{"jurisdiction", "year", "jurisdiction-year", "rows"}

// Export implements the "export" subcommand: write filtered aggregates (or
// the normalized rows) to CSV or XLSX.
func Export(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	sf := addSourceFlags(fs)
	table := fs.String("table", "penalties", "dataset: penalties or licences")
	by := fs.String("by", "jurisdiction", "grouping: "+strings.Join(validGroupings, ", "))
	perLicences := fs.Bool("per-licences", false, "sum per-10,000-licences rates (licences table only)")
	out := fs.String("o", "", "output file (.csv or .xlsx; omit for CSV on stdout)")
	ff := addFilterFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: roadpenalties export [dir] [--table penalties] [--by jurisdiction] [-o out.xlsx] [filters]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprint(os.Stderr, filterUsage)
	}
	fs.Parse(reorderArgs(fs, args))

	if !contains(validGroupings, *by) {
		fmt.Fprintf(os.Stderr, "invalid --by %q; valid options: %s\n", *by, strings.Join(validGroupings, ", "))
		os.Exit(1)
	}
	if *perLicences && *table != "licences" {
		fmt.Fprintf(os.Stderr, "--per-licences requires --table licences\n")
		os.Exit(1)
	}

	_, dash, _ := mustLoad(fs, sf)
	records, err := dash.Data().Records(*table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	filters, err := filterSet(ff.selections())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	measure := penalty.Absolute
	if *perLicences {
		measure = penalty.PerTenThousand
	}
	header, rows := exportTable(penalty.Filter(records, filters.Predicate()), *by, measure)

	switch {
	case *out == "":
		err = writeCSV(os.Stdout, header, rows)
	case strings.EqualFold(filepath.Ext(*out), ".xlsx"):
		err = writeXLSX(*out, *table, header, rows)
	default:
		var f *os.File
		if f, err = os.Create(*out); err == nil {
			err = writeCSV(f, header, rows)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", *out, err)
		os.Exit(1)
	}
	if *out != "" {
		fmt.Fprintf(os.Stderr, "wrote %d rows to %s\n", len(rows), *out)
	}
}

// filterSet builds an unscoped FilterSet from flag selections. The penalty
// type is ignored since exports carry every field.
func filterSet(selections map[string]string) (penalty.FilterSet, error) {
	f := penalty.NewFilterSet()
	for k, v := range selections {
		if k == "penalty" {
			continue
		}
		d, err := penalty.ParseDimension(k)
		if err != nil {
			return penalty.FilterSet{}, err
		}
		f.Set(d, v)
	}
	return f, nil
}

var totalsHeader = []string{"Fines", "Charges", "Arrests", "Total"}

func totalsRow(t penalty.Totals) []any {
	return []any{t.Fines, t.Charges, t.Arrests, t.Total}
}

// exportTable lays out records grouped by the named grouping.
func exportTable(records []penalty.Record, by string, measure penalty.Measure) ([]string, [][]any) {
	var header []string
	var rows [][]any
	switch by {
	case "year":
		header = append([]string{"Year"}, totalsHeader...)
		for _, b := range penalty.ByYear(records, measure) {
			rows = append(rows, append([]any{b.Key}, totalsRow(b.Totals)...))
		}
	case "jurisdiction-year":
		header = append([]string{"Jurisdiction", "Year"}, totalsHeader...)
		for _, s := range penalty.ByJurisdictionYear(records, measure) {
			for _, b := range s.Values {
				rows = append(rows, append([]any{s.Jurisdiction, b.Key}, totalsRow(b.Totals)...))
			}
		}
	case "rows":
		header = []string{"Year", "Jurisdiction", "Metric", "DetectionMethod", "AgeGroup", "Fines", "Charges", "Arrests"}
		for _, r := range records {
			c := measure(r)
			rows = append(rows, []any{r.Year, r.Jurisdiction, r.Metric, r.DetectionMethod, r.AgeGroup, c.Fines, c.Charges, c.Arrests})
		}
	default:
		header = append([]string{"Jurisdiction", "Code"}, totalsHeader...)
		for _, b := range penalty.ByJurisdiction(records, measure) {
			rows = append(rows, append([]any{b.Key, penalty.ShortCode(b.Key)}, totalsRow(b.Totals)...))
		}
	}
	return header, rows
}

func writeCSV(out io.Writer, header []string, rows [][]any) error {
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return err
	}
	rec := make([]string, len(header))
	for _, row := range rows {
		for i, v := range row {
			rec[i] = cellString(v)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func cellString(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	}
	return fmt.Sprint(v)
}

func writeXLSX(path, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
