package guard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"sanad/internal/domain"
	"sanad/internal/store"
	"sanad/internal/store/memory"
	domainerrors "sanad/pkg/domain-errors"
)

type GuardSuite struct {
	suite.Suite
	stores store.Stores
	guard  *Guard
}

func (s *GuardSuite) SetupTest() {
	s.stores = memory.New()
	s.guard = New("admin", "secret", s.stores.Assistants)

	err := s.stores.Assistants.Create(context.Background(), domain.Assistant{
		Username: "helper",
		Password: "pw123",
	})
	s.Require().NoError(err)
}

func TestGuardSuite(t *testing.T) {
	suite.Run(t, new(GuardSuite))
}

func (s *GuardSuite) TestLogin() {
	ctx := context.Background()

	s.Run("root credentials yield root role", func() {
		role, err := s.guard.Login(ctx, "admin", "secret")
		s.Require().NoError(err)
		s.Equal(domain.RoleRoot, role)
	})

	s.Run("assistant credentials yield assistant role", func() {
		role, err := s.guard.Login(ctx, "helper", "pw123")
		s.Require().NoError(err)
		s.Equal(domain.RoleAssistant, role)
	})

	s.Run("wrong password is forbidden", func() {
		_, err := s.guard.Login(ctx, "helper", "nope")
		s.Require().True(domainerrors.HasCode(err, domainerrors.CodeForbidden))
	})

	s.Run("unknown username is forbidden", func() {
		_, err := s.guard.Login(ctx, "ghost", "pw")
		s.Require().True(domainerrors.HasCode(err, domainerrors.CodeForbidden))
	})

	s.Run("root username with assistant password is forbidden", func() {
		_, err := s.guard.Login(ctx, "admin", "pw123")
		s.Require().True(domainerrors.HasCode(err, domainerrors.CodeForbidden))
	})
}

func (s *GuardSuite) TestAuthorize() {
	ctx := context.Background()

	s.Run("root passes root requirements", func() {
		s.Require().NoError(s.guard.Authorize(ctx, domain.RoleRoot, "admin", "secret", domain.RoleRoot))
	})

	s.Run("assistant denied root actions", func() {
		err := s.guard.Authorize(ctx, domain.RoleAssistant, "helper", "pw123", domain.RoleRoot)
		s.Require().True(domainerrors.HasCode(err, domainerrors.CodeForbidden))
	})

	s.Run("assistant passes assistant requirements", func() {
		s.Require().NoError(s.guard.Authorize(ctx, domain.RoleAssistant, "helper", "pw123", domain.RoleAssistant))
	})

	s.Run("unauthenticated caller is denied", func() {
		err := s.guard.Authorize(ctx, domain.RoleNone, "", "", domain.RoleAssistant)
		s.Require().True(domainerrors.HasCode(err, domainerrors.CodeForbidden))
	})

	s.Run("anonymous requirements always pass", func() {
		s.Require().NoError(s.guard.Authorize(ctx, domain.RoleNone, "", "", domain.RoleNone))
	})
}

func (s *GuardSuite) TestDeletedAssistantLockedOut() {
	ctx := context.Background()

	role, err := s.guard.Login(ctx, "helper", "pw123")
	s.Require().NoError(err)
	s.Require().NoError(s.guard.Authorize(ctx, role, "helper", "pw123", domain.RoleAssistant))

	s.Require().NoError(s.stores.Assistants.Delete(ctx, "helper"))

	err = s.guard.Authorize(ctx, role, "helper", "pw123", domain.RoleAssistant)
	s.Require().True(domainerrors.HasCode(err, domainerrors.CodeForbidden))
}

func (s *GuardSuite) TestRotatedPasswordLockedOut() {
	ctx := context.Background()

	role, err := s.guard.Login(ctx, "helper", "pw123")
	s.Require().NoError(err)

	s.Require().NoError(s.stores.Assistants.UpdatePassword(ctx, "helper", "newpw"))

	err = s.guard.Authorize(ctx, role, "helper", "pw123", domain.RoleAssistant)
	s.Require().True(domainerrors.HasCode(err, domainerrors.CodeForbidden))
	s.Require().NoError(s.guard.Authorize(ctx, role, "helper", "newpw", domain.RoleAssistant))
}
