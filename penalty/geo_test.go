package penalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"STATE_NAME": "New South Wales"},
     "geometry": {"type": "Polygon", "coordinates": [[[141,-29],[153,-29],[153,-37],[141,-37],[141,-29]]]}},
    {"type": "Feature", "properties": {"STATE_NAME": "Tasmania"},
     "geometry": {"type": "MultiPolygon", "coordinates": [[[[144,-40],[148,-40],[148,-43],[144,-43],[144,-40]]]]}},
    {"type": "Feature", "properties": {"STATE_NAME": "Somewhere"},
     "geometry": {"type": "Point", "coordinates": [0, 0]}}
  ]
}`

func TestParseGeography(t *testing.T) {
	g, err := ParseGeography([]byte(testGeoJSON))
	require.NoError(t, err)
	require.Len(t, g.Regions, 2)
	assert.Equal(t, "New South Wales", g.Regions[0].Name)
	assert.Equal(t, "Tasmania", g.Regions[1].Name)

	// Projected to mercator metres: east is +x, south is -y.
	nsw := g.Regions[0].Bound
	assert.Greater(t, nsw.Max[0], nsw.Min[0])
	assert.Less(t, nsw.Min[1], 0.0)
	assert.True(t, g.Bound.Contains(g.Regions[1].Bound.Center()))
}

func TestParseGeographyInvalid(t *testing.T) {
	_, err := ParseGeography([]byte("not json"))
	assert.Error(t, err)
}

func TestJoinFillsMissingWithZero(t *testing.T) {
	g, err := ParseGeography([]byte(testGeoJSON))
	require.NoError(t, err)

	joined := g.Join([]Bucket[string]{
		{Key: "New South Wales", Totals: Totals{Fines: 10, Total: 10}},
		{Key: "Victoria", Totals: Totals{Total: 99}},
	})
	require.Len(t, joined, 2)
	assert.Equal(t, 10.0, joined[0].Totals.Total)
	assert.Equal(t, Totals{}, joined[1].Totals)
}
