package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/zalepa/roadpenalties/chart"
	"github.com/zalepa/roadpenalties/dashboard"
	"github.com/zalepa/roadpenalties/render"
)

// Viz implements the "viz" subcommand.
func Viz(args []string) {
	fs := flag.NewFlagSet("viz", flag.ExitOnError)
	sf := addSourceFlags(fs)
	pageID := fs.String("page", "overview", "dashboard page")
	chartID := fs.String("chart", "", "single chart to show (default every chart on the page)")
	pdfOut := fs.String("pdf", "", "output PDF file path (omit for terminal output)")
	ff := addFilterFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: roadpenalties viz [dir] [flags]

Show a dashboard page's charts in the terminal.

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprint(os.Stderr, filterUsage)
		fmt.Fprintf(os.Stderr, `
Charts: %s

Examples:
  roadpenalties viz ./data --page overview --year 2020
  roadpenalties viz ./data --page trends --chart histogram --age 17-25
  roadpenalties viz ./data --page fairness --pdf fairness.pdf
`, strings.Join(dashboard.ChartOrder, ", "))
	}
	fs.Parse(reorderArgs(fs, args))

	if *chartID != "" && !contains(dashboard.ChartOrder, *chartID) {
		fmt.Fprintf(os.Stderr, "invalid --chart %q; valid options: %s\n", *chartID, strings.Join(dashboard.ChartOrder, ", "))
		os.Exit(1)
	}

	_, dash, _ := mustLoad(fs, sf)
	frames, err := pageFrames(dash, *pageID, *chartID, ff.selections())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *pdfOut != "" {
		if err := writePDF(*pdfOut, frames, dash); err != nil {
			fmt.Fprintf(os.Stderr, "error writing PDF: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *pdfOut)
		return
	}

	for i, f := range frames {
		if i > 0 {
			fmt.Println()
		}
		render.Terminal(os.Stdout, f)
	}
}

// pageFrames applies selections to a fresh session on pageID and returns
// its frames, or only chartID's when set.
func pageFrames(dash *dashboard.Dashboard, pageID, chartID string, selections map[string]string) ([]chart.Frame, error) {
	filters, err := dash.Filters(pageID, selections)
	if err != nil {
		return nil, err
	}
	if chartID != "" {
		f, err := dash.Frame(pageID, chartID, filters)
		if err != nil {
			return nil, err
		}
		return []chart.Frame{f}, nil
	}
	sess, err := dash.NewSession(pageID)
	if err != nil {
		return nil, err
	}
	return sess.Apply(filters)
}
