package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/zalepa/roadpenalties/dashboard"
	"github.com/zalepa/roadpenalties/dataset"
	"github.com/zalepa/roadpenalties/internal/config"
	"github.com/zalepa/roadpenalties/internal/metrics"
)

// sourceFlags lets a command override where the datasets come from.
type sourceFlags struct {
	dir *string
	url *string
}

func addSourceFlags(fs *flag.FlagSet) sourceFlags {
	return sourceFlags{
		dir: fs.String("dir", "", "directory containing the dataset files (overrides ROADPENALTIES_DATA_DIR)"),
		url: fs.String("url", "", "base URL serving the dataset files (overrides ROADPENALTIES_DATA_URL)"),
	}
}

// loadConfig reads the environment and applies command-line overrides. A
// positional dir argument wins over -dir. Either override clears any
// configured S3 bucket.
func loadConfig(fs *flag.FlagSet, sf sourceFlags) (config.Config, error) {
	config.LoadEnv()
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	if fs.NArg() > 0 {
		*sf.dir = fs.Arg(0)
	}
	if *sf.dir != "" {
		cfg.DataDir = *sf.dir
		cfg.DataURL = ""
		cfg.S3 = dataset.S3Config{}
	}
	if *sf.url != "" {
		cfg.DataURL = *sf.url
		cfg.S3 = dataset.S3Config{}
	}
	return cfg, nil
}

// loadDashboard fetches and normalizes the datasets and builds the pages.
func loadDashboard(ctx context.Context, cfg config.Config) (*dashboard.Dashboard, dataset.Source, error) {
	src, err := cfg.Source(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset source: %w", err)
	}
	data, err := dataset.Load(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	metrics.DatasetRecords.WithLabelValues("penalties").Set(float64(len(data.Penalties)))
	metrics.DatasetRecords.WithLabelValues("licences").Set(float64(len(data.Licences)))

	pages, err := cfg.Pages()
	if err != nil {
		return nil, nil, err
	}
	dash, err := dashboard.New(data, pages)
	if err != nil {
		return nil, nil, err
	}
	return dash, src, nil
}

// mustLoad is loadConfig plus loadDashboard, exiting on failure.
func mustLoad(fs *flag.FlagSet, sf sourceFlags) (config.Config, *dashboard.Dashboard, dataset.Source) {
	cfg, err := loadConfig(fs, sf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading configuration: %v\n", err)
		os.Exit(1)
	}
	dash, src, err := loadDashboard(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading data: %v\n", err)
		os.Exit(1)
	}
	return cfg, dash, src
}
