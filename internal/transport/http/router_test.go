package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"sanad/internal/engine"
	"sanad/internal/transport"
	dErrors "sanad/pkg/domain-errors"
)

type fakeConversation struct {
	lastEvent transport.Event
	replies   []engine.Reply
	err       error
}

func (f *fakeConversation) Handle(_ context.Context, ev transport.Event) ([]engine.Reply, error) {
	f.lastEvent = ev
	return f.replies, f.err
}

type failingChecker struct{}

func (failingChecker) Health(context.Context) error { return errors.New("connection refused") }

type okChecker struct{}

func (okChecker) Health(context.Context) error { return nil }

type RouterSuite struct {
	suite.Suite
	conv    *fakeConversation
	outbox  *transport.Outbox
	handler *Handler
	server  http.Handler
}

func (s *RouterSuite) SetupTest() {
	s.conv = &fakeConversation{}
	s.outbox = transport.NewOutbox(0)
	s.handler = New(s.conv, s.outbox, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.server = s.handler.Router()
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) do(method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.server.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) TestHandleEvent() {
	s.Run("posts the event and returns replies", func() {
		s.conv.replies = []engine.Reply{{Text: "hello", Menu: []string{"a", "b"}}}

		rec := s.do(http.MethodPost, "/v1/events", []byte(`{"chat_id":"c1","text":"hi"}`))
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("c1", s.conv.lastEvent.ChatID)
		s.Equal("hi", s.conv.lastEvent.Text)

		var resp eventResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Require().Len(resp.Replies, 1)
		s.Equal("hello", resp.Replies[0].Text)
		s.Equal([]string{"a", "b"}, resp.Replies[0].Menu)
	})

	s.Run("rejects malformed body", func() {
		rec := s.do(http.MethodPost, "/v1/events", []byte(`{`))
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("rejects missing chat id", func() {
		rec := s.do(http.MethodPost, "/v1/events", []byte(`{"text":"hi"}`))
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("maps engine errors to error envelopes", func() {
		s.conv.err = dErrors.New(dErrors.CodeForbidden, "not allowed")

		rec := s.do(http.MethodPost, "/v1/events", []byte(`{"chat_id":"c1"}`))
		s.Equal(http.StatusForbidden, rec.Code)

		var body map[string]string
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("forbidden", body["error"])
		s.conv.err = nil
	})

	s.Run("file uploads round-trip through the event body", func() {
		payload, err := json.Marshal(transport.Event{
			ChatID: "c1",
			File:   &transport.File{Name: "members.csv", Data: []byte("name\n")},
		})
		s.Require().NoError(err)

		rec := s.do(http.MethodPost, "/v1/events", payload)
		s.Equal(http.StatusOK, rec.Code)
		s.Require().NotNil(s.conv.lastEvent.File)
		s.Equal("members.csv", s.conv.lastEvent.File.Name)
		s.Equal([]byte("name\n"), s.conv.lastEvent.File.Data)
	})
}

func (s *RouterSuite) TestHandleOutbox() {
	s.Run("drains queued messages once", func() {
		ctx := context.Background()
		s.Require().NoError(s.outbox.SendText(ctx, "c1", "broadcast", nil))
		s.Require().NoError(s.outbox.SendText(ctx, "c1", "again", nil))

		rec := s.do(http.MethodGet, "/v1/outbox/c1", nil)
		s.Equal(http.StatusOK, rec.Code)

		var resp outboxResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Require().Len(resp.Messages, 2)
		s.Equal("broadcast", resp.Messages[0].Text)

		rec = s.do(http.MethodGet, "/v1/outbox/c1", nil)
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Empty(resp.Messages)
	})

	s.Run("unknown chat returns an empty list", func() {
		rec := s.do(http.MethodGet, "/v1/outbox/nobody", nil)
		s.Equal(http.StatusOK, rec.Code)

		var resp outboxResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Empty(resp.Messages)
	})

	s.Run("404 when the outbox is not enabled", func() {
		h := New(s.conv, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
		req := httptest.NewRequest(http.MethodGet, "/v1/outbox/c1", nil)
		rec := httptest.NewRecorder()
		h.Router().ServeHTTP(rec, req)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *RouterSuite) TestHealth() {
	s.Run("healthy when all checks pass", func() {
		s.handler.AddHealthCheck("postgres", okChecker{})

		rec := s.do(http.MethodGet, "/healthz", nil)
		s.Equal(http.StatusOK, rec.Code)

		var body map[string]string
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("ok", body["postgres"])
	})

	s.Run("degraded when a check fails", func() {
		s.handler.AddHealthCheck("redis", failingChecker{})

		rec := s.do(http.MethodGet, "/healthz", nil)
		s.Equal(http.StatusServiceUnavailable, rec.Code)
	})
}
