package server

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zalepa/roadpenalties/dashboard"
	"github.com/zalepa/roadpenalties/internal/metrics"
)

const sessionCookie = "roadpenalties_session"

// sessions keeps one dashboard session per browser and page, evicting the
// least recently used when full.
type sessions struct {
	mu    sync.Mutex
	dash  *dashboard.Dashboard
	cache *lru.Cache[string, *dashboard.Session]
}

func newSessions(dash *dashboard.Dashboard, size int) (*sessions, error) {
	cache, err := lru.NewWithEvict[string, *dashboard.Session](size, func(string, *dashboard.Session) {
		metrics.ActiveSessions.Dec()
	})
	if err != nil {
		return nil, err
	}
	return &sessions{dash: dash, cache: cache}, nil
}

// browserID returns the caller's session cookie, issuing a new one when
// absent or malformed.
func browserID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// get returns the browser's session for page, opening one if needed.
func (s *sessions) get(browser, page string) (*dashboard.Session, error) {
	key := browser + "|" + page
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.cache.Get(key); ok {
		return sess, nil
	}
	sess, err := s.dash.NewSession(page)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, sess)
	metrics.ActiveSessions.Inc()
	return sess, nil
}

func (s *sessions) len() int { return s.cache.Len() }
