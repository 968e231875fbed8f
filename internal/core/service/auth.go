package service

import (
	"fmt"
	"strings"

	"github.com/niksmo/medsupply/internal/core/domain"
)

// Login signs the session in as name with role. No credentials are checked.
//
// The view moves to the landing view of the role.
func (s *Store) Login(
	sess *Session, name string, role domain.Role,
) (domain.User, error) {
	const op = "Store.Login"

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.User{}, fmt.Errorf("%s: %w", op, domain.ErrInvalidName)
	}
	if !role.Valid() {
		return domain.User{}, fmt.Errorf("%s: %w", op, domain.ErrInvalidRole)
	}

	u := domain.User{
		ID:    s.newID(),
		Email: staffEmail(name),
		Name:  name,
		Role:  role,
	}

	sess.mu.Lock()
	sess.user = &u
	sess.view = role.LandingView()
	addr := sess.addr
	sess.mu.Unlock()

	s.appendLog(name, addr, "AUTH", "System access granted to "+name, "SECURE")
	return u, nil
}

// Logout signs the session out and returns it to the home view.
func (s *Store) Logout(sess *Session) {
	sess.mu.Lock()
	u := sess.user
	addr := sess.addr
	sess.user = nil
	sess.view = domain.ViewHome
	sess.mu.Unlock()

	if u != nil {
		s.appendLog(u.Name, addr, "AUTH", "Session terminated by "+u.Name, "AUTH")
	}
}

func staffEmail(name string) string {
	local := strings.ToLower(strings.Join(strings.Fields(name), "."))
	return local + "@" + domain.StaffEmailDomain
}
