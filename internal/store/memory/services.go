package memory

import (
	"context"
	"sort"
	"sync"

	"sanad/internal/domain"
	"sanad/internal/store"
	"sanad/pkg/platform/sentinel"
)

// ServiceStore holds the service catalog. Deleting a service cascades into
// the request store, mirroring the foreign-key cascade of the postgres
// implementation.
type ServiceStore struct {
	mu       sync.RWMutex
	services map[string]domain.Service
	requests store.RequestStore
}

func NewServiceStore(requests store.RequestStore) *ServiceStore {
	return &ServiceStore{
		services: make(map[string]domain.Service),
		requests: requests,
	}
}

func (s *ServiceStore) Create(_ context.Context, svc domain.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.services[svc.Name]; ok {
		return sentinel.ErrDuplicate
	}
	s.services[svc.Name] = svc
	return nil
}

func (s *ServiceStore) Find(_ context.Context, name string) (domain.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if svc, ok := s.services[name]; ok {
		return svc, nil
	}
	return domain.Service{}, sentinel.ErrNotFound
}

func (s *ServiceStore) List(_ context.Context) ([]domain.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.Service, 0, len(s.services))
	for _, svc := range s.services {
		all = append(all, svc)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return all, nil
}

func (s *ServiceStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	if _, ok := s.services[name]; !ok {
		s.mu.Unlock()
		return sentinel.ErrNotFound
	}
	delete(s.services, name)
	s.mu.Unlock()

	return s.requests.DeleteByService(ctx, name)
}

func (s *ServiceStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.services), nil
}
