package main

import (
	"fmt"
	"os"

	"github.com/zalepa/roadpenalties/cmd"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmd.Serve(os.Args[2:])
	case "viz":
		cmd.Viz(os.Args[2:])
	case "pdf":
		cmd.PDF(os.Args[2:])
	case "export":
		cmd.Export(os.Args[2:])
	case "audit":
		cmd.Audit(os.Args[2:])
	case "fetch":
		cmd.Fetch(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: roadpenalties <command>

Commands:
  serve    Start the interactive penalties dashboard
  viz      Show a dashboard page's charts in the terminal
  pdf      Write every dashboard chart to a PDF report
  export   Export filtered aggregates to CSV or XLSX
  audit    Report data-shape anomalies in the datasets
  fetch    Copy the dataset files from a remote source
`)
}
