package dashboard

import (
	"sync"

	"github.com/zalepa/roadpenalties/chart"
	"github.com/zalepa/roadpenalties/penalty"
)

// Session is one viewer's page: the current filters and every chart's
// retained state. Apply calls are serialized.
type Session struct {
	mu      sync.Mutex
	d       *Dashboard
	page    Page
	filters penalty.FilterSet
	states  map[string]chart.State
}

// NewSession opens pageID with every filter at All.
func (d *Dashboard) NewSession(pageID string) (*Session, error) {
	p, err := d.Page(pageID)
	if err != nil {
		return nil, err
	}
	return &Session{
		d:       d,
		page:    p,
		filters: penalty.NewFilterSet(),
		states:  make(map[string]chart.State),
	}, nil
}

// Page returns the session's page.
func (s *Session) Page() Page { return s.page }

// Filters returns a copy of the current selections.
func (s *Session) Filters() penalty.FilterSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Restrict(penalty.Dimensions)
}

// Apply replaces the session's filters and updates every chart on the page
// in ChartOrder. Frames are returned in the same order. On error the
// session is left unchanged.
func (s *Session) Apply(filters penalty.FilterSet) ([]chart.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.page.Charts()
	next := make(map[string]chart.State, len(ids))
	frames := make([]chart.Frame, 0, len(ids))
	for _, id := range ids {
		st, frame, err := s.d.update(id, s.states[id], filters)
		if err != nil {
			return nil, err
		}
		next[id] = st
		frames = append(frames, frame)
	}
	s.filters = filters
	s.states = next
	return frames, nil
}

// State returns the retained state of one chart.
func (s *Session) State(chartID string) (chart.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[chartID]
	return st, ok
}
