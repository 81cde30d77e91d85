package memory

import (
	"context"
	"sort"
	"sync"

	"sanad/internal/domain"
	"sanad/pkg/platform/sentinel"
)

// DeliveryStore appends deliveries without any uniqueness constraint;
// re-delivery for the same passport is allowed by design.
type DeliveryStore struct {
	mu         sync.RWMutex
	deliveries []domain.Delivery
}

func NewDeliveryStore() *DeliveryStore {
	return &DeliveryStore{}
}

func (s *DeliveryStore) Create(_ context.Context, d domain.Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = append(s.deliveries, d)
	return nil
}

func (s *DeliveryStore) FindLatestByPassport(_ context.Context, passport string) (domain.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest domain.Delivery
	found := false
	for _, d := range s.deliveries {
		if d.Passport != passport {
			continue
		}
		if !found || d.DeliveredAt.After(latest.DeliveredAt) {
			latest = d
			found = true
		}
	}
	if !found {
		return domain.Delivery{}, sentinel.ErrNotFound
	}
	return latest, nil
}

func (s *DeliveryStore) List(_ context.Context) ([]domain.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.Delivery, len(s.deliveries))
	copy(all, s.deliveries)
	sortDeliveries(all)
	return all, nil
}

func (s *DeliveryStore) ListBySupervisor(_ context.Context, supervisor string) ([]domain.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []domain.Delivery
	for _, d := range s.deliveries {
		if d.Supervisor == supervisor {
			matched = append(matched, d)
		}
	}
	sortDeliveries(matched)
	return matched, nil
}

func (s *DeliveryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = nil
	return nil
}

func (s *DeliveryStore) DeleteBySupervisor(_ context.Context, supervisor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.deliveries[:0]
	for _, d := range s.deliveries {
		if d.Supervisor != supervisor {
			kept = append(kept, d)
		}
	}
	s.deliveries = kept
	return nil
}

func (s *DeliveryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.deliveries), nil
}

func (s *DeliveryStore) CountBySupervisor(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bySupervisor := make(map[string]int)
	for _, d := range s.deliveries {
		bySupervisor[d.Supervisor]++
	}
	return bySupervisor, nil
}

func (s *DeliveryStore) CountByDate(_ context.Context, supervisor string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byDate := make(map[string]int)
	for _, d := range s.deliveries {
		if d.Supervisor == supervisor {
			byDate[d.DeliveredAt.Format("2006-01-02")]++
		}
	}
	return byDate, nil
}

func sortDeliveries(ds []domain.Delivery) {
	sort.Slice(ds, func(i, j int) bool {
		if ds[i].DeliveredAt.Equal(ds[j].DeliveredAt) {
			return ds[i].Passport < ds[j].Passport
		}
		return ds[i].DeliveredAt.Before(ds[j].DeliveredAt)
	})
}
