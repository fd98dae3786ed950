package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalepa/roadpenalties/dataset"
	"github.com/zalepa/roadpenalties/internal/config"
)

// Fetch implements the "fetch" subcommand: copy the dataset files from the
// configured remote source (S3 bucket or base URL) into a local directory.
func Fetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	url := fs.String("url", "", "base URL serving the dataset files (overrides ROADPENALTIES_DATA_URL)")
	dir := fs.String("dir", "", "output directory (default ROADPENALTIES_DATA_DIR)")
	force := fs.Bool("force", false, "overwrite files that already exist")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: roadpenalties fetch [dir] [-url base] [-force]\n")
		fs.PrintDefaults()
	}
	fs.Parse(reorderArgs(fs, args))

	if fs.NArg() > 0 {
		*dir = fs.Arg(0)
	}
	config.LoadEnv()
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading configuration: %v\n", err)
		os.Exit(1)
	}
	if *url != "" {
		cfg.DataURL = *url
		cfg.S3 = dataset.S3Config{}
	}
	out := cfg.DataDir
	if *dir != "" {
		out = *dir
	}
	if cfg.S3.Bucket == "" && cfg.DataURL == "" {
		fmt.Fprintf(os.Stderr, "no remote source: set -url, ROADPENALTIES_DATA_URL or ROADPENALTIES_S3_BUCKET\n")
		os.Exit(1)
	}

	ctx := context.Background()
	src, err := cfg.Source(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening source: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Fetching from %s\n", src)
	downloaded, skipped, err := fetchAll(ctx, src, out, *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Done: %d downloaded, %d skipped\n", downloaded, skipped)
}

// fetchAll copies every dataset file from src into dir, skipping files that
// already exist unless force is set.
func fetchAll(ctx context.Context, src dataset.Source, dir string, force bool) (downloaded, skipped int, err error) {
	for _, name := range dataset.Files {
		outPath := filepath.Join(dir, name)
		if _, err := os.Stat(outPath); err == nil && !force {
			fmt.Fprintf(os.Stderr, "skip %s (already exists)\n", name)
			skipped++
			continue
		}

		fmt.Fprintf(os.Stderr, "downloading %s\n", name)
		data, err := src.Fetch(ctx, name)
		if errors.Is(err, dataset.ErrNotFound) {
			return downloaded, skipped, fmt.Errorf("%s missing from %s", name, src)
		}
		if err != nil {
			return downloaded, skipped, fmt.Errorf("downloading %s: %w", name, err)
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return downloaded, skipped, err
		}
		downloaded++
	}
	return downloaded, skipped, nil
}
