package memory

import (
	"context"
	"sort"
	"sync"

	"sanad/internal/domain"
	"sanad/pkg/platform/sentinel"
)

type AssistantStore struct {
	mu         sync.RWMutex
	assistants map[string]domain.Assistant
}

func NewAssistantStore() *AssistantStore {
	return &AssistantStore{assistants: make(map[string]domain.Assistant)}
}

func (s *AssistantStore) Create(_ context.Context, a domain.Assistant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assistants[a.Username]; ok {
		return sentinel.ErrDuplicate
	}
	s.assistants[a.Username] = a
	return nil
}

func (s *AssistantStore) FindByUsername(_ context.Context, username string) (domain.Assistant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.assistants[username]; ok {
		return a, nil
	}
	return domain.Assistant{}, sentinel.ErrNotFound
}

func (s *AssistantStore) Authenticate(_ context.Context, username, password string) (domain.Assistant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assistants[username]
	if !ok || a.Password != password {
		return domain.Assistant{}, sentinel.ErrNotFound
	}
	return a, nil
}

func (s *AssistantStore) List(_ context.Context) ([]domain.Assistant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.Assistant, 0, len(s.assistants))
	for _, a := range s.assistants {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return all, nil
}

func (s *AssistantStore) UpdatePassword(_ context.Context, username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assistants[username]
	if !ok {
		return sentinel.ErrNotFound
	}
	a.Password = password
	s.assistants[username] = a
	return nil
}

func (s *AssistantStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assistants[username]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.assistants, username)
	return nil
}

func (s *AssistantStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assistants), nil
}
