package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sanad/internal/domain"
	"sanad/internal/store"
	"sanad/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	ctx    context.Context
	stores store.Stores
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.stores = New()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) member(passport string) domain.Member {
	return domain.Member{
		Name:       "Omar Said",
		Passport:   passport,
		Phone:      "0912000000",
		Address:    "District 1",
		RoleLabel:  "رب أسرة",
		FamilySize: 4,
	}
}

func (s *MemoryStoreSuite) TestMembers() {
	s.Run("create and find", func() {
		s.Require().NoError(s.stores.Members.Create(s.ctx, s.member("P1")))

		got, err := s.stores.Members.FindByPassport(s.ctx, "P1")
		s.Require().NoError(err)
		s.Equal("Omar Said", got.Name)
	})

	s.Run("duplicate passport rejected", func() {
		err := s.stores.Members.Create(s.ctx, s.member("P1"))
		s.Require().ErrorIs(err, sentinel.ErrDuplicate)
	})

	s.Run("update replaces in place", func() {
		m := s.member("P1")
		m.FamilySize = 7
		s.Require().NoError(s.stores.Members.Update(s.ctx, m))

		got, err := s.stores.Members.FindByPassport(s.ctx, "P1")
		s.Require().NoError(err)
		s.Equal(7, got.FamilySize)
	})

	s.Run("update of missing member fails", func() {
		err := s.stores.Members.Update(s.ctx, s.member("P404"))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("aggregates", func() {
		m := s.member("P2")
		m.RoleLabel = "طالب"
		m.FamilySize = 1
		s.Require().NoError(s.stores.Members.Create(s.ctx, m))

		total, err := s.stores.Members.FamilyTotal(s.ctx)
		s.Require().NoError(err)
		s.Equal(8, total)

		byRole, err := s.stores.Members.CountByRoleLabel(s.ctx)
		s.Require().NoError(err)
		s.Equal(map[string]int{"رب أسرة": 1, "طالب": 1}, byRole)
	})

	s.Run("delete all", func() {
		s.Require().NoError(s.stores.Members.DeleteAll(s.ctx))
		n, err := s.stores.Members.Count(s.ctx)
		s.Require().NoError(err)
		s.Zero(n)
	})
}

func (s *MemoryStoreSuite) TestAssistants() {
	s.Require().NoError(s.stores.Assistants.Create(s.ctx, domain.Assistant{Username: "helper", Password: "pw"}))

	s.Run("duplicate username rejected", func() {
		err := s.stores.Assistants.Create(s.ctx, domain.Assistant{Username: "helper", Password: "other"})
		s.Require().ErrorIs(err, sentinel.ErrDuplicate)
	})

	s.Run("authenticate requires the exact pair", func() {
		_, err := s.stores.Assistants.Authenticate(s.ctx, "helper", "pw")
		s.Require().NoError(err)

		_, err = s.stores.Assistants.Authenticate(s.ctx, "helper", "wrong")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("password rotation invalidates the old pair", func() {
		s.Require().NoError(s.stores.Assistants.UpdatePassword(s.ctx, "helper", "new"))

		_, err := s.stores.Assistants.Authenticate(s.ctx, "helper", "pw")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		_, err = s.stores.Assistants.Authenticate(s.ctx, "helper", "new")
		s.Require().NoError(err)
	})

	s.Run("delete", func() {
		s.Require().NoError(s.stores.Assistants.Delete(s.ctx, "helper"))
		_, err := s.stores.Assistants.FindByUsername(s.ctx, "helper")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		s.Require().ErrorIs(s.stores.Assistants.Delete(s.ctx, "helper"), sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestRequests() {
	request := func(passport, service string) domain.ServiceRequest {
		return domain.ServiceRequest{
			ID:          passport + "-" + service,
			Passport:    passport,
			ServiceName: service,
			Requester:   "Omar",
			RequestedAt: time.Now().UTC(),
		}
	}

	s.Require().NoError(s.stores.Requests.Create(s.ctx, request("P1", "food")))
	s.Require().NoError(s.stores.Requests.Create(s.ctx, request("P1", "health")))
	s.Require().NoError(s.stores.Requests.Create(s.ctx, request("P2", "food")))

	s.Run("pair uniqueness", func() {
		err := s.stores.Requests.Create(s.ctx, request("P1", "food"))
		s.Require().ErrorIs(err, sentinel.ErrDuplicate)

		ok, err := s.stores.Requests.Exists(s.ctx, "P1", "food")
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("list by service", func() {
		got, err := s.stores.Requests.ListByService(s.ctx, "food")
		s.Require().NoError(err)
		s.Len(got, 2)
	})

	s.Run("count by service", func() {
		got, err := s.stores.Requests.CountByService(s.ctx)
		s.Require().NoError(err)
		s.Equal(map[string]int{"food": 2, "health": 1}, got)
	})

	s.Run("delete by service leaves the rest", func() {
		s.Require().NoError(s.stores.Requests.DeleteByService(s.ctx, "food"))

		n, err := s.stores.Requests.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, n)
	})
}

func (s *MemoryStoreSuite) TestServiceDeleteCascades() {
	s.Require().NoError(s.stores.Services.Create(s.ctx, domain.Service{Name: "food"}))
	s.Require().NoError(s.stores.Requests.Create(s.ctx, domain.ServiceRequest{
		ID: "r1", Passport: "P1", ServiceName: "food",
	}))

	s.Run("duplicate service rejected", func() {
		err := s.stores.Services.Create(s.ctx, domain.Service{Name: "food"})
		s.Require().ErrorIs(err, sentinel.ErrDuplicate)
	})

	s.Run("delete removes requests too", func() {
		s.Require().NoError(s.stores.Services.Delete(s.ctx, "food"))

		_, err := s.stores.Services.Find(s.ctx, "food")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		n, err := s.stores.Requests.Count(s.ctx)
		s.Require().NoError(err)
		s.Zero(n)
	})

	s.Run("delete of missing service fails", func() {
		s.Require().ErrorIs(s.stores.Services.Delete(s.ctx, "food"), sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestDeliveries() {
	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 10, 0, 0, 0, time.UTC)
	}
	delivery := func(id, supervisor, passport string, at time.Time) domain.Delivery {
		return domain.Delivery{ID: id, Supervisor: supervisor, Passport: passport, MemberName: "Omar", DeliveredAt: at}
	}

	s.Require().NoError(s.stores.Deliveries.Create(s.ctx, delivery("d1", "helper", "P1", day(1))))
	s.Require().NoError(s.stores.Deliveries.Create(s.ctx, delivery("d2", "helper", "P1", day(3))))
	s.Require().NoError(s.stores.Deliveries.Create(s.ctx, delivery("d3", "other", "P2", day(3))))

	s.Run("repeat deliveries are allowed", func() {
		n, err := s.stores.Deliveries.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(3, n)
	})

	s.Run("latest by passport", func() {
		got, err := s.stores.Deliveries.FindLatestByPassport(s.ctx, "P1")
		s.Require().NoError(err)
		s.Equal("d2", got.ID)

		_, err = s.stores.Deliveries.FindLatestByPassport(s.ctx, "P404")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("supervisor aggregates", func() {
		bySup, err := s.stores.Deliveries.CountBySupervisor(s.ctx)
		s.Require().NoError(err)
		s.Equal(map[string]int{"helper": 2, "other": 1}, bySup)

		byDate, err := s.stores.Deliveries.CountByDate(s.ctx, "helper")
		s.Require().NoError(err)
		s.Equal(map[string]int{"2026-03-01": 1, "2026-03-03": 1}, byDate)
	})

	s.Run("delete by supervisor", func() {
		s.Require().NoError(s.stores.Deliveries.DeleteBySupervisor(s.ctx, "helper"))

		left, err := s.stores.Deliveries.List(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(left, 1)
		s.Equal("other", left[0].Supervisor)
	})
}

func (s *MemoryStoreSuite) TestSubscribers() {
	s.Require().NoError(s.stores.Subscribers.Ensure(s.ctx, domain.Subscriber{ChatID: "c1", DisplayName: "Omar"}))
	s.Require().NoError(s.stores.Subscribers.Ensure(s.ctx, domain.Subscriber{ChatID: "c1", DisplayName: "renamed"}))
	s.Require().NoError(s.stores.Subscribers.Ensure(s.ctx, domain.Subscriber{ChatID: "c2"}))

	n, err := s.stores.Subscribers.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)

	// First contact wins; Ensure is a no-op for known chats.
	subs, err := s.stores.Subscribers.List(s.ctx)
	s.Require().NoError(err)
	for _, sub := range subs {
		if sub.ChatID == "c1" {
			s.Equal("Omar", sub.DisplayName)
		}
	}
}
