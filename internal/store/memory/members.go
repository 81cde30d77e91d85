package memory

import (
	"context"
	"sort"
	"sync"

	"sanad/internal/domain"
	"sanad/pkg/platform/sentinel"
)

// MemberStore keeps members in a passport-keyed map. Check-and-insert happens
// under one mutex, so Create is the single authority for ErrDuplicate.
type MemberStore struct {
	mu      sync.RWMutex
	members map[string]domain.Member
}

func NewMemberStore() *MemberStore {
	return &MemberStore{members: make(map[string]domain.Member)}
}

func (s *MemberStore) Create(_ context.Context, m domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[m.Passport]; ok {
		return sentinel.ErrDuplicate
	}
	s.members[m.Passport] = m
	return nil
}

func (s *MemberStore) FindByPassport(_ context.Context, passport string) (domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.members[passport]; ok {
		return m, nil
	}
	return domain.Member{}, sentinel.ErrNotFound
}

func (s *MemberStore) List(_ context.Context) ([]domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.Member, 0, len(s.members))
	for _, m := range s.members {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Passport < all[j].Passport })
	return all, nil
}

func (s *MemberStore) Update(_ context.Context, m domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[m.Passport]; !ok {
		return sentinel.ErrNotFound
	}
	s.members[m.Passport] = m
	return nil
}

func (s *MemberStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = make(map[string]domain.Member)
	return nil
}

func (s *MemberStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members), nil
}

func (s *MemberStore) FamilyTotal(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, m := range s.members {
		total += m.FamilySize
	}
	return total, nil
}

func (s *MemberStore) CountByRoleLabel(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byRole := make(map[string]int)
	for _, m := range s.members {
		byRole[m.RoleLabel]++
	}
	return byRole, nil
}
