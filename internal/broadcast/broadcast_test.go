package broadcast

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"sanad/internal/domain"
	"sanad/internal/store"
	"sanad/internal/store/memory"
	"sanad/internal/transport"
)

type flakySender struct {
	mu       sync.Mutex
	failFor  map[string]bool
	received []string
}

func (f *flakySender) SendText(_ context.Context, chatID, _ string, _ []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[chatID] {
		return errors.New("recipient unreachable")
	}
	f.received = append(f.received, chatID)
	return nil
}

func (f *flakySender) SendFile(context.Context, string, transport.File, string) error {
	return nil
}

type BroadcastSuite struct {
	suite.Suite
	stores store.Stores
	sender *flakySender
}

func (s *BroadcastSuite) SetupTest() {
	s.stores = memory.New()
	s.sender = &flakySender{failFor: map[string]bool{}}
}

func TestBroadcastSuite(t *testing.T) {
	suite.Run(t, new(BroadcastSuite))
}

func (s *BroadcastSuite) dispatcher() *Dispatcher {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(s.stores.Subscribers, s.sender, logger, WithConcurrency(4))
}

func (s *BroadcastSuite) TestFailuresAreIsolated() {
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		chatID := fmt.Sprintf("chat-%d", i)
		err := s.stores.Subscribers.Ensure(ctx, domain.Subscriber{ChatID: chatID})
		s.Require().NoError(err)
	}
	s.sender.failFor["chat-2"] = true
	s.sender.failFor["chat-5"] = true
	s.sender.failFor["chat-8"] = true

	sent, failed, err := s.dispatcher().Broadcast(ctx, "meeting moved to 6pm")
	s.Require().NoError(err)
	s.Equal(7, sent)
	s.Equal(3, failed)
	s.Len(s.sender.received, 7)
	s.NotContains(s.sender.received, "chat-5")
}

func (s *BroadcastSuite) TestNoSubscribers() {
	sent, failed, err := s.dispatcher().Broadcast(context.Background(), "anyone there?")
	s.Require().NoError(err)
	s.Zero(sent)
	s.Zero(failed)
}

func (s *BroadcastSuite) TestAllFail() {
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		chatID := fmt.Sprintf("chat-%d", i)
		s.Require().NoError(s.stores.Subscribers.Ensure(ctx, domain.Subscriber{ChatID: chatID}))
		s.sender.failFor[chatID] = true
	}

	sent, failed, err := s.dispatcher().Broadcast(ctx, "hello")
	s.Require().NoError(err)
	s.Zero(sent)
	s.Equal(3, failed)
}
