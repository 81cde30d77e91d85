//go:build integration

package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sanad/internal/domain"
	"sanad/internal/sessions"
	"sanad/pkg/platform/sentinel"
	"sanad/pkg/testutil/containers"
)

type RedisSessionSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *sessions.RedisStore
}

func TestRedisSessionSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisSessionSuite))
}

func (s *RedisSessionSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = sessions.NewRedisStore(s.redis.Client)
}

func (s *RedisSessionSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisSessionSuite) TestRoundTrip() {
	ctx := context.Background()

	sess := sessions.New("chat-77")
	sess.State = "ask_passport"
	sess.Role = domain.RoleRoot
	sess.Username = "admin"
	sess.Scratch["name"] = "Omar"

	s.Require().NoError(s.store.Put(ctx, sess))

	found, err := s.store.Get(ctx, "chat-77")
	s.Require().NoError(err)
	s.Equal("ask_passport", found.State)
	s.Equal(domain.RoleRoot, found.Role)
	s.Equal("admin", found.Username)
	s.Equal("Omar", found.Scratch["name"])
	s.WithinDuration(time.Now().UTC(), found.UpdatedAt, 5*time.Second)
}

func (s *RedisSessionSuite) TestMissingSession() {
	_, err := s.store.Get(context.Background(), "nobody")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisSessionSuite) TestDelete() {
	ctx := context.Background()
	s.Require().NoError(s.store.Put(ctx, sessions.New("chat-9")))
	s.Require().NoError(s.store.Delete(ctx, "chat-9"))

	_, err := s.store.Get(ctx, "chat-9")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisSessionSuite) TestExpiry() {
	ctx := context.Background()
	store := sessions.NewRedisStore(s.redis.Client, sessions.WithTTL(time.Second))

	s.Require().NoError(store.Put(ctx, sessions.New("chat-ttl")))
	time.Sleep(1500 * time.Millisecond)

	_, err := store.Get(ctx, "chat-ttl")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
