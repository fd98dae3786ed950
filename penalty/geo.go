package penalty

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"
)

// StateNameProperty is the GeoJSON feature property holding the full
// jurisdiction name.
const StateNameProperty = "STATE_NAME"

// Region is one jurisdiction outline, projected to web mercator.
type Region struct {
	Name     string
	Polygons []orb.Polygon
	Bound    orb.Bound
}

// Geography is the set of jurisdiction outlines for the choropleth.
type Geography struct {
	Regions []Region
	Bound   orb.Bound
}

// ParseGeography decodes a GeoJSON FeatureCollection. Features without a
// polygonal geometry are skipped.
func ParseGeography(data []byte) (*Geography, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decoding geojson: %w", err)
	}

	g := &Geography{}
	first := true
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		name := f.Properties.MustString(StateNameProperty, "")
		var polys []orb.Polygon
		switch geom := project.Geometry(f.Geometry, project.WGS84.ToMercator).(type) {
		case orb.Polygon:
			polys = []orb.Polygon{geom}
		case orb.MultiPolygon:
			polys = geom
		default:
			continue
		}
		r := Region{Name: name, Polygons: polys, Bound: orb.MultiPolygon(polys).Bound()}
		if first {
			g.Bound = r.Bound
			first = false
		} else {
			g.Bound = g.Bound.Union(r.Bound)
		}
		g.Regions = append(g.Regions, r)
	}
	return g, nil
}

// RegionValue is a region joined to its aggregated totals.
type RegionValue struct {
	Region
	Totals Totals
}

// Join attaches bucket totals to every region by full name. Regions with no
// matching bucket get zero totals.
func (g *Geography) Join(buckets []Bucket[string]) []RegionValue {
	byName := make(map[string]Totals, len(buckets))
	for _, b := range buckets {
		byName[b.Key] = b.Totals
	}
	out := make([]RegionValue, len(g.Regions))
	for i, r := range g.Regions {
		out[i] = RegionValue{Region: r, Totals: byName[r.Name]}
	}
	return out
}
