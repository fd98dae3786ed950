// Package server exposes the dashboard over HTTP: the page, the static
// datasets, per-session chart frames and server-rendered SVG charts.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zalepa/roadpenalties/chart"
	"github.com/zalepa/roadpenalties/dashboard"
	"github.com/zalepa/roadpenalties/dataset"
	"github.com/zalepa/roadpenalties/internal/metrics"
	"github.com/zalepa/roadpenalties/penalty"
	"github.com/zalepa/roadpenalties/render"
)

// Options configures a Server.
type Options struct {
	// Index is the HTML served at /.
	Index          []byte
	AllowedOrigins []string
	// RateLimit is requests per second per client; zero disables it.
	RateLimit float64
	Sessions  int
}

// Server routes dashboard requests.
type Server struct {
	dash     *dashboard.Dashboard
	src      dataset.Source
	opts     Options
	sessions *sessions
	limiter  *limiter
}

// New builds a server over a loaded dashboard. src serves the raw dataset
// files.
func New(dash *dashboard.Dashboard, src dataset.Source, opts Options) (*Server, error) {
	if opts.Sessions <= 0 {
		opts.Sessions = 1024
	}
	sess, err := newSessions(dash, opts.Sessions)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	s := &Server{dash: dash, src: src, opts: opts, sessions: sess}
	if opts.RateLimit > 0 {
		if s.limiter, err = newLimiter(opts.RateLimit, 4096); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}
	return s, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors(s.opts.AllowedOrigins))

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/data/{file}", s.handleData)

	r.Route("/api", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.middleware)
		}
		r.Get("/pages", s.handlePages)
		r.Get("/pages/{page}/filters", s.handleFilters)
		r.Post("/pages/{page}/frames", s.handleFrames)
		r.Get("/pages/{page}/charts/{chart}.svg", s.handleSVG)
	})
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.opts.Index)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "ok %d sessions\n", s.sessions.len())
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	if !dataset.IsDatasetFile(name) {
		http.NotFound(w, r)
		return
	}
	data, err := s.src.Fetch(r.Context(), name)
	if errors.Is(err, dataset.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("fetching %s: %v", name, err)
		http.Error(w, "dataset unavailable", http.StatusBadGateway)
		return
	}
	switch {
	case strings.HasSuffix(name, ".geojson"):
		w.Header().Set("Content-Type", "application/geo+json")
	case strings.HasSuffix(name, ".csv"):
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	}
	w.Write(data)
}

type pageSummary struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Panel  string   `json:"panel"`
	Mounts []string `json:"mounts"`
	Charts []string `json:"charts"`
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	var out []pageSummary
	for _, p := range s.dash.Pages() {
		out = append(out, pageSummary{
			ID: p.ID, Title: p.Title, Panel: p.Panel.ID,
			Mounts: p.Mounts, Charts: p.Charts(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type filtersResponse struct {
	Panel    dashboard.Panel   `json:"panel"`
	Options  penalty.Options   `json:"options"`
	Selected map[string]string `json:"selected"`
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "page")
	page, err := s.dash.Page(pageID)
	if err != nil {
		writeError(w, err)
		return
	}
	opts, err := s.dash.Options(pageID)
	if err != nil {
		writeError(w, err)
		return
	}
	sess, err := s.sessions.get(browserID(w, r), pageID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filtersResponse{
		Panel:    page.Panel,
		Options:  opts,
		Selected: selections(sess.Filters()),
	})
}

type framesRequest struct {
	Filters map[string]string `json:"filters"`
}

type framesResponse struct {
	Page   string        `json:"page"`
	Frames []chart.Frame `json:"frames"`
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "page")
	var req framesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	filters, err := s.dash.Filters(pageID, req.Filters)
	if err != nil {
		writeError(w, err)
		return
	}
	sess, err := s.sessions.get(browserID(w, r), pageID)
	if err != nil {
		writeError(w, err)
		return
	}

	start := time.Now()
	frames, err := sess.Apply(filters)
	if err != nil {
		log.Printf("page %s: %v", pageID, err)
		http.Error(w, "could not compute frames", http.StatusInternalServerError)
		return
	}
	metrics.FrameDuration.WithLabelValues(pageID).Observe(time.Since(start).Seconds())
	metrics.FilterChanges.WithLabelValues(pageID).Inc()
	for _, f := range frames {
		metrics.ChartUpdates.WithLabelValues(f.Chart).Inc()
	}
	writeJSON(w, http.StatusOK, framesResponse{Page: pageID, Frames: frames})
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	pageID, chartID := chi.URLParam(r, "page"), chi.URLParam(r, "chart")
	// Other query parameters, such as cache busters, are not filters.
	q := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) == 0 {
			continue
		}
		if _, err := penalty.ParseDimension(k); err == nil || k == "penalty" {
			q[k] = v[0]
		}
	}
	filters, err := s.dash.Filters(pageID, q)
	if err != nil {
		writeError(w, err)
		return
	}
	frame, err := s.dash.Frame(pageID, chartID, filters)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.ChartUpdates.WithLabelValues(chartID).Inc()
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.WriteSVG(w, frame, s.dash.Data().Geo); err != nil {
		log.Printf("rendering %s: %v", chartID, err)
	}
}

// selections flattens a FilterSet into dropdown values.
func selections(f penalty.FilterSet) map[string]string {
	out := map[string]string{"penalty": string(f.Penalty)}
	for _, d := range penalty.Dimensions {
		out[string(d)] = f.Get(d)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

// writeError maps lookup failures to 404 and everything else to 400.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, dashboard.ErrUnknownPage) || errors.Is(err, dashboard.ErrUnknownChart) {
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}
