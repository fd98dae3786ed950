package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalepa/roadpenalties/chart"
	"github.com/zalepa/roadpenalties/dataset"
	"github.com/zalepa/roadpenalties/penalty"
)

var testPages = []Page{
	{
		ID: "overview",
		Panel: Panel{ID: "filters", Table: "penalties", Penalty: true,
			Dimensions: []penalty.Dimension{penalty.DimYear, penalty.DimMetric, penalty.DimJurisdiction}},
		Mounts: []string{"filters", "line-1", "resetZoom", "map"},
	},
	{
		ID:     "trends",
		Panel:  Panel{ID: "filters2", Table: "penalties", Dimensions: []penalty.Dimension{penalty.DimMetric}},
		Mounts: []string{"filters2", "line-2", "histogram"},
	},
	{
		ID: "fairness",
		Panel: Panel{ID: "filters3", Table: "penalties", YearsAscending: true,
			Dimensions: []penalty.Dimension{penalty.DimYear, penalty.DimAge}},
		Mounts: []string{"filters3", "bar-2", "bar-1"},
	},
}

func newTestDashboard(t *testing.T) *Dashboard {
	t.Helper()
	data, err := dataset.Load(context.Background(), dataset.Dir("../dataset/testdata"))
	require.NoError(t, err)
	d, err := New(data, testPages)
	require.NoError(t, err)
	return d
}

func TestNewValidates(t *testing.T) {
	data, err := dataset.Load(context.Background(), dataset.Dir("../dataset/testdata"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		pages []Page
	}{
		{"missing id", []Page{{Panel: Panel{Table: "penalties"}}}},
		{"duplicate id", []Page{{ID: "a", Panel: Panel{Table: "penalties"}}, {ID: "a", Panel: Panel{Table: "penalties"}}}},
		{"unknown table", []Page{{ID: "a", Panel: Panel{Table: "fines"}}}},
		{"unknown dimension", []Page{{ID: "a", Panel: Panel{Table: "penalties", Dimensions: []penalty.Dimension{"colour"}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(data, tt.pages)
			assert.Error(t, err)
		})
	}
}

func TestPageCharts(t *testing.T) {
	assert.Equal(t, []string{"map", "line-1"}, testPages[0].Charts())
	assert.Equal(t, []string{"bar-1", "bar-2"}, testPages[2].Charts())
	assert.True(t, testPages[0].Has("resetZoom"))
	assert.False(t, testPages[1].Has("map"))
}

func TestSessionApplyMountGating(t *testing.T) {
	d := newTestDashboard(t)
	sess, err := d.NewSession("trends")
	require.NoError(t, err)

	frames, err := sess.Apply(penalty.NewFilterSet())
	require.NoError(t, err)
	var ids []string
	for _, f := range frames {
		ids = append(ids, f.Chart)
	}
	assert.Equal(t, []string{"line-2", "histogram"}, ids)

	_, ok := sess.State("map")
	assert.False(t, ok, "unmounted charts keep no state")
	st, ok := sess.State("histogram")
	assert.True(t, ok)
	assert.Equal(t, 1, st.Version)
}

func TestSessionRetainsState(t *testing.T) {
	d := newTestDashboard(t)
	sess, err := d.NewSession("overview")
	require.NoError(t, err)

	_, err = sess.Apply(penalty.NewFilterSet())
	require.NoError(t, err)

	f, err := d.Filters("overview", map[string]string{"year": "2020", "penalty": "fines"})
	require.NoError(t, err)
	frames, err := sess.Apply(f)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.Equal(t, "2020", sess.Filters().Get(penalty.DimYear))
	line := frames[1]
	assert.Equal(t, "line-1", line.Chart)
	assert.Equal(t, "Fines", line.Penalty)
	phases := make(map[string]chart.Phase)
	for _, tr := range line.Transitions {
		phases[tr.Key] = tr.Phase
	}
	assert.Equal(t, chart.PhaseUpdate, phases["year-2020"])
	assert.Equal(t, chart.PhaseExit, phases["year-2021"])

	st, _ := sess.State("line-1")
	assert.Equal(t, 2, st.Version)
}

func TestFiltersScopedToPanel(t *testing.T) {
	d := newTestDashboard(t)

	f, err := d.Filters("trends", map[string]string{"year": "2020", "metric": "speed_fines", "penalty": "arrests"})
	require.NoError(t, err)
	assert.Equal(t, penalty.All, f.Get(penalty.DimYear))
	assert.Equal(t, "speed_fines", f.Get(penalty.DimMetric))
	assert.Equal(t, penalty.AllPenalties, f.Penalty)

	_, err = d.Filters("overview", map[string]string{"colour": "red"})
	assert.Error(t, err)
	_, err = d.Filters("overview", map[string]string{"penalty": "parking"})
	assert.Error(t, err)
	_, err = d.Filters("nope", nil)
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestFrame(t *testing.T) {
	d := newTestDashboard(t)

	f, err := d.Frame("fairness", "bar-2", penalty.NewFilterSet())
	require.NoError(t, err)
	assert.Equal(t, "bar-2", f.Chart)
	require.Len(t, f.Data, 1)
	assert.Equal(t, 20.0, f.Data[0].Points[0].Y)

	_, err = d.Frame("fairness", "map", penalty.NewFilterSet())
	assert.ErrorIs(t, err, ErrUnknownChart)
	_, err = d.Frame("missing", "map", penalty.NewFilterSet())
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestOptions(t *testing.T) {
	d := newTestDashboard(t)
	o, err := d.Options("fairness")
	require.NoError(t, err)
	assert.Equal(t, []string{penalty.All, "2020", "2021"}, o.Years)
	assert.Equal(t, []string{penalty.All, "17-25", "26-39"}, o.AgeGroups)

	o, err = d.Options("overview")
	require.NoError(t, err)
	assert.Equal(t, []string{penalty.All, "2021", "2020"}, o.Years)
}

func TestFairnessAgeFilter(t *testing.T) {
	d := newTestDashboard(t)
	f, err := d.Filters("fairness", map[string]string{"age": "17-25"})
	require.NoError(t, err)

	total, err := d.Frame("fairness", "bar-2", f)
	require.NoError(t, err)
	require.False(t, total.Empty)
	require.Len(t, total.Data[0].Points, 1)
	assert.Equal(t, "NSW", total.Data[0].Points[0].Label)
	assert.Equal(t, 16.0, total.Data[0].Points[0].Y)

	// The licences file only has "All ages" rows.
	rates, err := d.Frame("fairness", "bar-1", f)
	require.NoError(t, err)
	assert.True(t, rates.Empty)
}

func TestSessionFiltersIsACopy(t *testing.T) {
	d := newTestDashboard(t)
	sess, err := d.NewSession("overview")
	require.NoError(t, err)
	f, err := d.Filters("overview", map[string]string{"year": "2020"})
	require.NoError(t, err)
	_, err = sess.Apply(f)
	require.NoError(t, err)

	got := sess.Filters()
	got.Set(penalty.DimYear, "2021")
	got.Set(penalty.DimMetric, "speed_fines")
	assert.Equal(t, "2020", sess.Filters().Get(penalty.DimYear))
	assert.Equal(t, penalty.All, sess.Filters().Get(penalty.DimMetric))
}
