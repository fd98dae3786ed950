package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	d, err := Load(context.Background(), Dir("testdata"))
	require.NoError(t, err)

	require.Len(t, d.Geo.Regions, 2)
	assert.Len(t, d.Penalties, 3)
	assert.Len(t, d.PenaltyRows, 3)
	require.Len(t, d.Licences, 2)
	assert.Equal(t, "New South Wales", d.Licences[0].JurisdictionFull)
	assert.Equal(t, 100000.0, d.Licences[0].Licences)
	assert.Equal(t, 0.5, d.Licences[0].PerLicences.Charges)

	recs, err := d.Records("licences")
	require.NoError(t, err)
	assert.Equal(t, d.Licences, recs)
	_, err = d.Records("fines")
	assert.Error(t, err)
}

// failingSource serves the penalties file only.
type failingSource struct{ Dir }

func (f failingSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if name != PenaltiesFile {
		return nil, errors.New("connection reset")
	}
	return f.Dir.Fetch(ctx, name)
}

func TestLoadFailsWhole(t *testing.T) {
	d, err := Load(context.Background(), failingSource{Dir("testdata")})
	assert.Nil(t, d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), Dir(t.TempDir()))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseInvalidGeo(t *testing.T) {
	_, err := Parse([]byte("{"), nil, nil)
	assert.Error(t, err)
}
