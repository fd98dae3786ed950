package dataset

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/zalepa/roadpenalties/penalty"
)

// Dataset is the fully loaded and normalized input.
type Dataset struct {
	Geo       *penalty.Geography
	Penalties []penalty.Record
	Licences  []penalty.Record

	// Raw rows, kept for auditing and export.
	PenaltyRows []penalty.Row
	LicenceRows []penalty.Row
}

// Load fetches the three files concurrently and normalizes them once all
// have arrived. Any failure fails the whole load; no partial dataset is
// returned.
func Load(ctx context.Context, src Source) (*Dataset, error) {
	var geo, licences, penalties []byte

	g, ctx := errgroup.WithContext(ctx)
	fetch := func(name string, dst *[]byte) {
		g.Go(func() error {
			data, err := src.Fetch(ctx, name)
			if err != nil {
				return fmt.Errorf("loading %s from %s: %w", name, src, err)
			}
			*dst = data
			return nil
		})
	}
	fetch(GeoFile, &geo)
	fetch(LicencesFile, &licences)
	fetch(PenaltiesFile, &penalties)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Parse(geo, licences, penalties)
}

// Parse decodes and normalizes already fetched file contents.
func Parse(geo, licences, penalties []byte) (*Dataset, error) {
	gj, err := penalty.ParseGeography(geo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", GeoFile, err)
	}
	lrows, err := penalty.ReadRows(bytes.NewReader(licences))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LicencesFile, err)
	}
	prows, err := penalty.ReadRows(bytes.NewReader(penalties))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", PenaltiesFile, err)
	}
	return &Dataset{
		Geo:         gj,
		Penalties:   penalty.Normalize(prows, penalty.PenaltiesSchema),
		Licences:    penalty.Normalize(lrows, penalty.LicencesSchema),
		PenaltyRows: prows,
		LicenceRows: lrows,
	}, nil
}

// Records returns the normalized records of the named table: "penalties" or
// "licences".
func (d *Dataset) Records(table string) ([]penalty.Record, error) {
	switch table {
	case "penalties":
		return d.Penalties, nil
	case "licences":
		return d.Licences, nil
	}
	return nil, fmt.Errorf("unknown table %q", table)
}
