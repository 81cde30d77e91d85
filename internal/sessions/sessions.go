package sessions

import (
	"context"
	"time"

	"sanad/internal/domain"
)

// Session is the per-conversation scratch state. The engine owns its
// contents; this package only gets it in and out of a store. State is an
// opaque string here so the store has no dependency on the engine's state
// enumeration.
type Session struct {
	ID        string            `json:"id"`
	State     string            `json:"state"`
	Role      domain.Role       `json:"role"`
	Username  string            `json:"username"`
	Password  string            `json:"password,omitempty"`
	Scratch   map[string]string `json:"scratch,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// New returns an idle session with no role and empty scratch.
func New(id string) Session {
	return Session{ID: id, Role: domain.RoleNone, Scratch: map[string]string{}}
}

// ResetFlow drops all scratch fields and puts the session back to the given
// idle state, keeping login identity intact.
func (s *Session) ResetFlow(idleState string) {
	s.State = idleState
	s.Scratch = map[string]string{}
}

// Logout clears identity and flow state both.
func (s *Session) Logout(idleState string) {
	s.ResetFlow(idleState)
	s.Role = domain.RoleNone
	s.Username = ""
	s.Password = ""
}

// Store persists sessions across events (and, for the redis implementation,
// across process restarts). Get returns sentinel.ErrNotFound for unknown ids.
type Store interface {
	Get(ctx context.Context, id string) (Session, error)
	Put(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}
