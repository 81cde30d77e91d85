// Package engine drives every guided conversation: registration, service
// requests, and the admin/assistant consoles. It is a session-scoped state
// machine; each inbound event is resolved against the session's current
// state, gated by the permission guard where needed, and answered with
// replies plus a persisted next state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sanad/internal/admission"
	"sanad/internal/broadcast"
	"sanad/internal/domain"
	"sanad/internal/guard"
	"sanad/internal/importer"
	"sanad/internal/platform/metrics"
	"sanad/internal/sessions"
	"sanad/internal/store"
	"sanad/internal/transport"
	domainerrors "sanad/pkg/domain-errors"
	"sanad/pkg/platform/sentinel"
)

// Reply is one outbound message produced while handling an event.
type Reply struct {
	Text string          `json:"text,omitempty"`
	Menu []string        `json:"menu,omitempty"`
	File *transport.File `json:"file,omitempty"`
}

type Engine struct {
	stores     store.Stores
	sessions   sessions.Store
	guard      *guard.Guard
	admission  *admission.Validator
	committer  *importer.Committer
	dispatcher *broadcast.Dispatcher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics wires prometheus counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func New(
	stores store.Stores,
	sessionStore sessions.Store,
	g *guard.Guard,
	v *admission.Validator,
	c *importer.Committer,
	d *broadcast.Dispatcher,
	logger *slog.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		stores:     stores,
		sessions:   sessionStore,
		guard:      g,
		admission:  v,
		committer:  c,
		dispatcher: d,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func isBack(text string) bool {
	return text == labelBack || strings.EqualFold(text, "back")
}

func isCancel(text string) bool {
	return text == labelCancel || strings.EqualFold(text, "cancel")
}

// Handle processes one inbound event and returns the replies addressed to
// its chat. The session is persisted before the replies are handed back, so
// a crash after Handle never leaves the conversation behind its own answer.
func (e *Engine) Handle(ctx context.Context, ev transport.Event) ([]Reply, error) {
	if e.metrics != nil {
		e.metrics.EventsProcessed.Inc()
	}

	if err := e.stores.Subscribers.Ensure(ctx, domain.Subscriber{
		ChatID:      ev.ChatID,
		DisplayName: ev.Sender,
		FirstSeen:   e.now(),
	}); err != nil {
		e.logger.WarnContext(ctx, "subscriber tracking failed", "chat_id", ev.ChatID, "error", err)
	}

	sess, err := e.sessions.Get(ctx, ev.ChatID)
	if errors.Is(err, sentinel.ErrNotFound) {
		sess = sessions.New(ev.ChatID)
		sess.State = string(StateIdle)
	} else if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	state := State(sess.State)
	spec, ok := transitions[state]
	if !ok {
		// A state retired by an upgrade. Start the conversation over.
		sess.Logout(string(StateIdle))
		state = StateIdle
		spec = transitions[state]
	}

	if spec.role.Privileged() {
		if err := e.guard.Authorize(ctx, sess.Role, sess.Username, sess.Password, spec.role); err != nil {
			if domainerrors.HasCode(err, domainerrors.CodeForbidden) {
				sess.Logout(string(StateIdle))
				return e.finish(ctx, &sess, StateIdle, spec.flow, []Reply{{Text: msgNoPerms, Menu: e.mainMenu()}})
			}
			return nil, fmt.Errorf("authorize: %w", err)
		}
	}

	text := strings.TrimSpace(ev.Text)

	var replies []Reply
	var next State
	switch {
	case ev.File == nil && isCancel(text):
		next = homeState(&sess)
		sess.ResetFlow(string(next))
		replies = []Reply{{Text: msgCancelled, Menu: e.menuFor(&sess)}}
	case ev.File == nil && isBack(text):
		next = spec.back
		replies, err = e.prompt(ctx, next, &sess)
	default:
		replies, next, err = spec.handler(e, ctx, &sess, ev)
	}
	if err != nil {
		e.logger.ErrorContext(ctx, "handler failed",
			"chat_id", ev.ChatID,
			"state", string(state),
			"error", err,
		)
		next = homeState(&sess)
		sess.ResetFlow(string(next))
		replies = []Reply{{Text: msgWentWrong, Menu: e.menuFor(&sess)}}
	}

	return e.finish(ctx, &sess, next, spec.flow, replies)
}

// finish persists the session under its next state, then releases the
// replies. Replies must not reach the transport before the state is durable.
func (e *Engine) finish(ctx context.Context, sess *sessions.Session, next State, flow string, replies []Reply) ([]Reply, error) {
	sess.State = string(next)
	if err := e.sessions.Put(ctx, *sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	if e.metrics != nil {
		e.metrics.IncrementTransition(flow)
	}
	return replies, nil
}

// enter renders the prompt for a state and moves there.
func (e *Engine) enter(ctx context.Context, sess *sessions.Session, next State) ([]Reply, State, error) {
	replies, err := e.prompt(ctx, next, sess)
	return replies, next, err
}

// enterWithNotice moves to a state, prepending a notice to its prompt.
func (e *Engine) enterWithNotice(ctx context.Context, sess *sessions.Session, next State, notice string) ([]Reply, State, error) {
	replies, next, err := e.enter(ctx, sess, next)
	if err != nil {
		return nil, next, err
	}
	return append([]Reply{{Text: notice}}, replies...), next, nil
}

// stayWithFile re-renders the current state's prompt with a document
// attached in front.
func (e *Engine) stayWithFile(ctx context.Context, sess *sessions.Session, current State, name string, data []byte) ([]Reply, State, error) {
	replies, err := e.prompt(ctx, current, sess)
	if err != nil {
		return nil, current, err
	}
	file := Reply{File: &transport.File{Name: name, Data: data}}
	return append([]Reply{file}, replies...), current, nil
}

// stay re-renders the current state's prompt after an invalid input.
func (e *Engine) stay(ctx context.Context, sess *sessions.Session, current State, notice string) ([]Reply, State, error) {
	replies, err := e.prompt(ctx, current, sess)
	if err != nil {
		return nil, current, err
	}
	if notice != "" {
		replies = append([]Reply{{Text: notice}}, replies...)
	}
	return replies, current, nil
}

// toIdle clears the flow and shows the caller's home menu with a notice.
func (e *Engine) toIdle(sess *sessions.Session, notice string) ([]Reply, State, error) {
	home := homeState(sess)
	sess.ResetFlow(string(home))
	return []Reply{{Text: notice, Menu: e.menuFor(sess)}}, home, nil
}

// homeState is where a cancelled or finished flow lands: the main menu for
// visitors, the console menu for logged-in operators.
func homeState(sess *sessions.Session) State {
	switch sess.Role {
	case domain.RoleRoot:
		return StateAdminMenu
	case domain.RoleAssistant:
		return StateAssistantMenu
	default:
		return StateIdle
	}
}

// menuFor picks the idle menu matching the session's identity.
func (e *Engine) menuFor(sess *sessions.Session) []string {
	switch sess.Role {
	case domain.RoleRoot:
		return e.adminMenu()
	case domain.RoleAssistant:
		return e.assistantMenu()
	default:
		return e.mainMenu()
	}
}

func (e *Engine) mainMenu() []string {
	return []string{labelRegister, labelServices, labelAbout, labelContact, labelLogin}
}

func (e *Engine) adminMenu() []string {
	return []string{labelAccounts, labelStats, labelDeliveries, labelServicesAdm, labelBroadcast, labelLogout}
}

func (e *Engine) assistantMenu() []string {
	return []string{labelRecordDelivery, labelMyReports, labelLogout}
}

func cancelOrBack() []string {
	return []string{labelCancel, labelBack}
}
