// Package dataset fetches the dashboard's three input files from a local
// directory, an HTTP base URL or an S3 bucket, and loads them together.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// File names of the three inputs, relative to a source's root.
const (
	GeoFile       = "australian-states.min.geojson"
	LicencesFile  = "Penalties_per_10,000_licences_processed.csv"
	PenaltiesFile = "Penalties_process.csv"
)

// Files lists the inputs in load order.
var Files = []string{GeoFile, LicencesFile, PenaltiesFile}

// ErrNotFound is returned when a source has no file of the requested name.
var ErrNotFound = errors.New("dataset file not found")

// Source is a read-only store of dataset files.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	String() string
}

// IsDatasetFile reports whether name is one of the three inputs.
func IsDatasetFile(name string) bool {
	for _, f := range Files {
		if f == name {
			return true
		}
	}
	return false
}

// Dir reads files from a local directory.
type Dir string

// Fetch reads name from the directory.
func (d Dir) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	data, err := os.ReadFile(filepath.Join(string(d), name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func (d Dir) String() string { return "dir " + string(d) }

// HTTP fetches files relative to a base URL.
type HTTP struct {
	Base   string
	Client *http.Client
}

// Fetch downloads name from the base URL. Names are path-escaped, so the
// comma in the licences file name survives.
func (h HTTP) Fetch(ctx context.Context, name string) ([]byte, error) {
	u, err := url.Parse(h.Base)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	u.Path = path.Join(u.Path, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetching %s: status %d", name, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func (h HTTP) String() string { return "url " + strings.TrimSuffix(h.Base, "/") }
