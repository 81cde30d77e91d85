package memory

import (
	"context"
	"sort"
	"sync"

	"sanad/internal/domain"
	"sanad/internal/store"
)

type SubscriberStore struct {
	mu          sync.RWMutex
	subscribers map[string]domain.Subscriber
}

func NewSubscriberStore() *SubscriberStore {
	return &SubscriberStore{subscribers: make(map[string]domain.Subscriber)}
}

func (s *SubscriberStore) Ensure(_ context.Context, sub domain.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[sub.ChatID]; ok {
		return nil
	}
	s.subscribers[sub.ChatID] = sub
	return nil
}

func (s *SubscriberStore) List(_ context.Context) ([]domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.Subscriber, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		all = append(all, sub)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ChatID < all[j].ChatID })
	return all, nil
}

func (s *SubscriberStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers), nil
}

// New wires a fully in-memory Stores bundle, used by tests and by processes
// started without a database URL.
func New() store.Stores {
	requests := NewRequestStore()
	return store.Stores{
		Members:     NewMemberStore(),
		Assistants:  NewAssistantStore(),
		Services:    NewServiceStore(requests),
		Requests:    requests,
		Deliveries:  NewDeliveryStore(),
		Subscribers: NewSubscriberStore(),
	}
}
