package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/niksmo/medsupply/internal/core/domain"
)

// A Session is the state of one client: cart, login, view and theme.
type Session struct {
	id string

	mu       sync.Mutex
	user     *domain.User
	view     domain.View
	cart     domain.Cart
	darkMode bool
	addr     string
	lastSeen time.Time
}

type SessionState struct {
	User     *domain.User
	View     domain.View
	DarkMode bool
}

func (sess *Session) ID() string {
	return sess.id
}

func (sess *Session) State() SessionState {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	st := SessionState{View: sess.view, DarkMode: sess.darkMode}
	if sess.user != nil {
		u := *sess.user
		st.User = &u
	}
	return st
}

// Role returns the role of the logged in user, or [domain.RoleGuest].
func (sess *Session) Role() domain.Role {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.user == nil {
		return domain.RoleGuest
	}
	return sess.user.Role
}

// actor returns the audit identity of the session.
func (sess *Session) actor() (name, addr string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	name = domain.GuestActor
	if sess.user != nil {
		name = sess.user.Name
	}
	return name, sess.addr
}

// Session returns the session of clientID, creating it on first use.
// When the store holds the maximum number of sessions, the least
// recently seen one is dropped first.
//
// A new session reads the stored dark-mode preference and falls back
// to prefersDark when nothing is stored.
func (s *Store) Session(
	ctx context.Context, clientID, addr string, prefersDark bool,
) *Session {
	const op = "Store.Session"

	s.sessMu.Lock()
	defer s.sessMu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[clientID]; ok {
		sess.mu.Lock()
		sess.addr = addr
		sess.lastSeen = now
		sess.mu.Unlock()
		return sess
	}

	darkMode := prefersDark
	if s.preferences != nil {
		v, found, err := s.preferences.DarkMode(ctx, clientID)
		if err != nil {
			slog.Warn("failed to read preference", "op", op, "err", err)
		} else if found {
			darkMode = v
		}
	}

	if len(s.sessions) >= s.maxSessions {
		s.evictOldestSession()
	}

	sess := &Session{
		id:       clientID,
		view:     domain.ViewHome,
		darkMode: darkMode,
		addr:     addr,
		lastSeen: now,
	}
	s.sessions[clientID] = sess
	return sess
}

// evictOldestSession must be called with sessMu held.
func (s *Store) evictOldestSession() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.sessions {
		sess.mu.Lock()
		seen := sess.lastSeen
		sess.mu.Unlock()
		if oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	delete(s.sessions, oldestID)
	slog.Debug("session evicted", "op", "Store.evictOldestSession")
}

// PruneSessions drops sessions idle for longer than idle.
func (s *Store) PruneSessions(idle time.Duration) int {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()

	deadline := s.now().Add(-idle)
	var n int
	for id, sess := range s.sessions {
		sess.mu.Lock()
		expired := sess.lastSeen.Before(deadline)
		sess.mu.Unlock()
		if expired {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// SetView switches the current view of the session.
func (s *Store) SetView(sess *Session, v domain.View) domain.Screen {
	sess.mu.Lock()
	sess.view = v
	sess.mu.Unlock()
	return s.Screen(sess)
}

// Screen routes the current view of the session.
func (s *Store) Screen(sess *Session) domain.Screen {
	st := sess.State()
	return Route(st.View, st.User)
}

// ToggleDarkMode flips the theme and writes it through to the
// preference storage. On storage failure the flag is left unchanged.
func (s *Store) ToggleDarkMode(ctx context.Context, sess *Session) (bool, error) {
	const op = "Store.ToggleDarkMode"

	sess.mu.Lock()
	defer sess.mu.Unlock()

	v := !sess.darkMode
	if s.preferences != nil {
		if err := s.preferences.SetDarkMode(ctx, sess.id, v); err != nil {
			return sess.darkMode, fmt.Errorf("%s: %w", op, err)
		}
	}
	sess.darkMode = v
	return v, nil
}
