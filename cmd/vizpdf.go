package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/zalepa/roadpenalties/chart"
	"github.com/zalepa/roadpenalties/dashboard"
	"github.com/zalepa/roadpenalties/render"
)

// PDF implements the "pdf" subcommand: one report covering every page.
func PDF(args []string) {
	fs := flag.NewFlagSet("pdf", flag.ExitOnError)
	sf := addSourceFlags(fs)
	out := fs.String("o", "roadpenalties.pdf", "output PDF file path")
	ff := addFilterFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: roadpenalties pdf [dir] [-o report.pdf] [filters]\n\nWrite every dashboard chart to a PDF report.\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprint(os.Stderr, filterUsage)
	}
	fs.Parse(reorderArgs(fs, args))

	_, dash, _ := mustLoad(fs, sf)
	sel := ff.selections()

	var frames []chart.Frame
	for _, p := range dash.Pages() {
		fr, err := pageFrames(dash, p.ID, "", sel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error on page %s: %v\n", p.ID, err)
			os.Exit(1)
		}
		frames = append(frames, fr...)
	}
	if err := writePDF(*out, frames, dash); err != nil {
		fmt.Fprintf(os.Stderr, "error writing PDF: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d charts)\n", *out, len(frames))
}

func writePDF(path string, frames []chart.Frame, dash *dashboard.Dashboard) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.WritePDF(f, frames, dash.Data().Geo); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
