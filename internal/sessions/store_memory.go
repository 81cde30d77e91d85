package sessions

import (
	"context"
	"sync"
	"time"

	"sanad/pkg/platform/sentinel"
)

// InMemoryStore keeps sessions in a map. Suitable for tests and single
// process deployments.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]Session)}
}

func (s *InMemoryStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, sentinel.ErrNotFound
	}
	return clone(sess), nil
}

func (s *InMemoryStore) Put(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.UpdatedAt = time.Now().UTC()
	s.sessions[sess.ID] = clone(sess)
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// clone copies the scratch map so callers cannot mutate stored state.
func clone(sess Session) Session {
	scratch := make(map[string]string, len(sess.Scratch))
	for k, v := range sess.Scratch {
		scratch[k] = v
	}
	sess.Scratch = scratch
	return sess
}
