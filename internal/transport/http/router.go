// Package httptransport is the thin HTTP layer over the conversation engine.
// Frontends (a Telegram poller, a web chat, curl) post inbound events and
// poll per-chat outboxes for broadcast pushes; the engine does the rest.
package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sanad/internal/engine"
	"sanad/internal/platform/middleware"
	"sanad/internal/transport"
	dErrors "sanad/pkg/domain-errors"
)

// Conversation is what the router needs from the engine.
type Conversation interface {
	Handle(ctx context.Context, ev transport.Event) ([]engine.Reply, error)
}

// HealthChecker reports backing store health for /healthz. Nil checkers are
// skipped so the memory-backed development mode stays healthy.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler handles the event and outbox endpoints.
type Handler struct {
	logger *slog.Logger
	conv   Conversation
	outbox *transport.Outbox
	checks map[string]HealthChecker
}

// New creates a new Handler. outbox may be nil when broadcasts push through
// a real provider instead of polling.
func New(conv Conversation, outbox *transport.Outbox, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		conv:   conv,
		outbox: outbox,
		checks: make(map[string]HealthChecker),
	}
}

// AddHealthCheck registers a named dependency probe for /healthz.
func (h *Handler) AddHealthCheck(name string, c HealthChecker) {
	if c != nil {
		h.checks[name] = c
	}
}

// Router wires all endpoints.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.logger))

	r.Post("/v1/events", h.handleEvent)
	r.Get("/v1/outbox/{chatID}", h.handleOutbox)
	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

type eventResponse struct {
	Replies []engine.Reply `json:"replies"`
}

func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var ev transport.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		h.logger.WarnContext(ctx, "invalid event body",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if ev.ChatID == "" {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "chat_id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	replies, err := h.conv.Handle(ctx, ev)
	if err != nil {
		h.logger.ErrorContext(ctx, "event handling failed",
			"request_id", middleware.GetRequestID(ctx),
			"chat_id", ev.ChatID,
			"error", err.Error(),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eventResponse{Replies: replies})
}

type outboxResponse struct {
	Messages []transport.Outgoing `json:"messages"`
}

func (h *Handler) handleOutbox(w http.ResponseWriter, r *http.Request) {
	if h.outbox == nil {
		writeError(w, dErrors.New(dErrors.CodeNotFound, "outbox not enabled"))
		return
	}
	chatID := chi.URLParam(r, "chatID")
	if chatID == "" {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "chat id is required"))
		return
	}
	msgs := h.outbox.Drain(chatID)
	if msgs == nil {
		msgs = []transport.Outgoing{}
	}
	writeJSON(w, http.StatusOK, outboxResponse{Messages: msgs})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	result := make(map[string]string, len(h.checks))
	for name, c := range h.checks {
		if err := c.Health(ctx); err != nil {
			status = http.StatusServiceUnavailable
			result[name] = err.Error()
			continue
		}
		result[name] = "ok"
	}
	writeJSON(w, status, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError centralizes domain error translation so every endpoint returns
// the same JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	var de *dErrors.Error
	if errors.As(err, &de) {
		code = de.Code
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(dErrors.ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": string(code),
	})
}
