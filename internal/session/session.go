// Package session keeps one dashboard per browser session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/katiamach/weather-dashboard/internal/dashboard"
	"github.com/katiamach/weather-dashboard/internal/logger"
)

// CookieName is the name of the session cookie.
const CookieName = "wd_session"

type entry struct {
	dashboard *dashboard.Dashboard
	lastSeen  time.Time
}

// Store maps session ids to dashboards. Sessions idle for longer than the
// ttl are dropped by Prune.
type Store struct {
	searcher dashboard.Searcher
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewStore creates an empty Store whose dashboards search with searcher.
func NewStore(searcher dashboard.Searcher, ttl time.Duration) *Store {
	return &Store{
		searcher: searcher,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Get returns the dashboard of session id. When id is unknown a new session
// is started and its id returned; otherwise id is returned unchanged.
func (s *Store) Get(id string) (string, *dashboard.Dashboard) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if e, ok := s.sessions[id]; ok {
		if now.Sub(e.lastSeen) <= s.ttl {
			e.lastSeen = now
			return id, e.dashboard
		}
		delete(s.sessions, id)
	}

	id = uuid.NewString()
	e := &entry{dashboard: dashboard.New(s.searcher), lastSeen: now}
	s.sessions[id] = e

	return id, e.dashboard
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// Prune drops sessions idle for longer than the ttl and returns how many
// were dropped.
func (s *Store) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
			dropped++
		}
	}

	return dropped
}

// RunJanitor prunes the store every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Prune(); n > 0 {
				logger.WithFields(logger.Fields{"dropped": n, "live": s.Len()}).Info("pruned idle sessions")
			}
		}
	}
}
