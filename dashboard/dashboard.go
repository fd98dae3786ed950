// Package dashboard binds the loaded dataset to pages of charts. A page
// names the mounts it carries; only charts whose mount is present are
// computed.
package dashboard

import (
	"errors"
	"fmt"

	"github.com/zalepa/roadpenalties/chart"
	"github.com/zalepa/roadpenalties/dataset"
	"github.com/zalepa/roadpenalties/penalty"
)

var (
	ErrUnknownPage  = errors.New("unknown page")
	ErrUnknownChart = errors.New("unknown chart")
)

// ChartOrder is the fixed order charts are updated in after a filter change.
var ChartOrder = []string{"map", "line-1", "line-2", "bar-1", "bar-2", "histogram"}

// Panel is a page's filter dropdown group. Table names the dataset the
// dropdown choices are derived from; the selections are applied to every
// chart on the page, each over its own dataset.
type Panel struct {
	ID             string              `yaml:"id" json:"id"`
	Table          string              `yaml:"table" json:"table"`
	Dimensions     []penalty.Dimension `yaml:"dimensions" json:"dimensions"`
	Penalty        bool                `yaml:"penalty" json:"penalty"`
	YearsAscending bool                `yaml:"years_ascending" json:"yearsAscending"`
	ExcludeYears   []int               `yaml:"exclude_years" json:"excludeYears,omitempty"`
}

// Page is one dashboard page: a filter panel and the mounts it shows.
type Page struct {
	ID     string   `yaml:"id" json:"id"`
	Title  string   `yaml:"title" json:"title"`
	Panel  Panel    `yaml:"panel" json:"panel"`
	Mounts []string `yaml:"mounts" json:"mounts"`
}

// Has reports whether the page carries a mount with the given id.
func (p Page) Has(mount string) bool {
	for _, m := range p.Mounts {
		if m == mount {
			return true
		}
	}
	return false
}

// Charts returns the chart mounts of the page in update order.
func (p Page) Charts() []string {
	var out []string
	for _, id := range ChartOrder {
		if p.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Dashboard serves the pages over one immutable dataset.
type Dashboard struct {
	data  *dataset.Dataset
	pages []Page
	byID  map[string]int
}

// New validates pages against the dataset and chart catalog.
func New(data *dataset.Dataset, pages []Page) (*Dashboard, error) {
	d := &Dashboard{data: data, pages: pages, byID: make(map[string]int, len(pages))}
	for i, p := range pages {
		if p.ID == "" {
			return nil, fmt.Errorf("page %d: missing id", i)
		}
		if _, dup := d.byID[p.ID]; dup {
			return nil, fmt.Errorf("page %s: duplicate id", p.ID)
		}
		if _, err := data.Records(p.Panel.Table); err != nil {
			return nil, fmt.Errorf("page %s: %w", p.ID, err)
		}
		for _, dim := range p.Panel.Dimensions {
			if _, err := penalty.ParseDimension(string(dim)); err != nil {
				return nil, fmt.Errorf("page %s: %w", p.ID, err)
			}
		}
		for _, id := range p.Charts() {
			spec, _ := chart.Lookup(id)
			if _, err := data.Records(string(spec.Data)); err != nil {
				return nil, fmt.Errorf("page %s chart %s: %w", p.ID, id, err)
			}
		}
		d.byID[p.ID] = i
	}
	return d, nil
}

// Data returns the dataset the dashboard was built over.
func (d *Dashboard) Data() *dataset.Dataset { return d.data }

// Pages returns the pages in configuration order.
func (d *Dashboard) Pages() []Page { return d.pages }

// Page looks up a page by id.
func (d *Dashboard) Page(id string) (Page, error) {
	i, ok := d.byID[id]
	if !ok {
		return Page{}, fmt.Errorf("%w: %q", ErrUnknownPage, id)
	}
	return d.pages[i], nil
}

// Options derives the dropdown choices of a page's filter panel.
func (d *Dashboard) Options(pageID string) (penalty.Options, error) {
	p, err := d.Page(pageID)
	if err != nil {
		return penalty.Options{}, err
	}
	records, err := d.data.Records(p.Panel.Table)
	if err != nil {
		return penalty.Options{}, err
	}
	return penalty.DeriveOptions(records, penalty.OptionStyle{
		YearsAscending: p.Panel.YearsAscending,
		ExcludeYears:   p.Panel.ExcludeYears,
	}), nil
}

// Filters turns raw dropdown selections into a FilterSet for the page.
// Selections for dimensions the panel does not offer are ignored, as is the
// penalty type when the panel has no penalty dropdown.
func (d *Dashboard) Filters(pageID string, selections map[string]string) (penalty.FilterSet, error) {
	p, err := d.Page(pageID)
	if err != nil {
		return penalty.FilterSet{}, err
	}
	f := penalty.NewFilterSet()
	for k, v := range selections {
		if k == "penalty" {
			if !p.Panel.Penalty {
				continue
			}
			pt, err := penalty.ParsePenaltyType(v)
			if err != nil {
				return penalty.FilterSet{}, err
			}
			f.Penalty = pt
			continue
		}
		dim, err := penalty.ParseDimension(k)
		if err != nil {
			return penalty.FilterSet{}, err
		}
		f.Set(dim, v)
	}
	return f.Restrict(p.Panel.Dimensions), nil
}

// Frame computes one chart of a page from scratch, with no previous state.
func (d *Dashboard) Frame(pageID, chartID string, filters penalty.FilterSet) (chart.Frame, error) {
	p, err := d.Page(pageID)
	if err != nil {
		return chart.Frame{}, err
	}
	if !p.Has(chartID) {
		return chart.Frame{}, fmt.Errorf("%w: %q on page %s", ErrUnknownChart, chartID, pageID)
	}
	_, frame, err := d.update(chartID, chart.State{}, filters)
	return frame, err
}

func (d *Dashboard) update(chartID string, prev chart.State, filters penalty.FilterSet) (chart.State, chart.Frame, error) {
	spec, err := chart.Lookup(chartID)
	if err != nil {
		return prev, chart.Frame{}, fmt.Errorf("%w: %q", ErrUnknownChart, chartID)
	}
	records, err := d.data.Records(string(spec.Data))
	if err != nil {
		return prev, chart.Frame{}, err
	}
	return spec.Update(prev, chart.Input{
		Records: penalty.Filter(records, filters.Predicate()),
		Filters: filters,
		Geo:     d.data.Geo,
	})
}
