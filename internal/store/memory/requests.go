package memory

import (
	"context"
	"sort"
	"sync"

	"sanad/internal/domain"
	"sanad/pkg/platform/sentinel"
)

func pairKey(passport, serviceName string) string {
	return passport + "\x00" + serviceName
}

// RequestStore keys requests by the (passport, service) pair so pair
// uniqueness falls out of map semantics.
type RequestStore struct {
	mu       sync.RWMutex
	requests map[string]domain.ServiceRequest
}

func NewRequestStore() *RequestStore {
	return &RequestStore{requests: make(map[string]domain.ServiceRequest)}
}

func (s *RequestStore) Create(_ context.Context, r domain.ServiceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(r.Passport, r.ServiceName)
	if _, ok := s.requests[key]; ok {
		return sentinel.ErrDuplicate
	}
	s.requests[key] = r
	return nil
}

func (s *RequestStore) Exists(_ context.Context, passport, serviceName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.requests[pairKey(passport, serviceName)]
	return ok, nil
}

func (s *RequestStore) Update(_ context.Context, r domain.ServiceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(r.Passport, r.ServiceName)
	if _, ok := s.requests[key]; !ok {
		return sentinel.ErrNotFound
	}
	s.requests[key] = r
	return nil
}

func (s *RequestStore) List(_ context.Context) ([]domain.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.ServiceRequest, 0, len(s.requests))
	for _, r := range s.requests {
		all = append(all, r)
	}
	sortRequests(all)
	return all, nil
}

func (s *RequestStore) ListByService(_ context.Context, serviceName string) ([]domain.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []domain.ServiceRequest
	for _, r := range s.requests {
		if r.ServiceName == serviceName {
			matched = append(matched, r)
		}
	}
	sortRequests(matched)
	return matched, nil
}

func (s *RequestStore) DeleteByService(_ context.Context, serviceName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, r := range s.requests {
		if r.ServiceName == serviceName {
			delete(s.requests, key)
		}
	}
	return nil
}

func (s *RequestStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = make(map[string]domain.ServiceRequest)
	return nil
}

func (s *RequestStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.requests), nil
}

func (s *RequestStore) CountByService(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byService := make(map[string]int)
	for _, r := range s.requests {
		byService[r.ServiceName]++
	}
	return byService, nil
}

func sortRequests(rs []domain.ServiceRequest) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].RequestedAt.Equal(rs[j].RequestedAt) {
			return rs[i].Passport < rs[j].Passport
		}
		return rs[i].RequestedAt.Before(rs[j].RequestedAt)
	})
}
