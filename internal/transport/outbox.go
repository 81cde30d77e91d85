package transport

import (
	"context"
	"sync"
)

// Outgoing is one queued outbound message.
type Outgoing struct {
	ChatID  string   `json:"chat_id"`
	Text    string   `json:"text,omitempty"`
	Menu    []string `json:"menu,omitempty"`
	File    *File    `json:"file,omitempty"`
	Caption string   `json:"caption,omitempty"`
}

// Outbox is a Sender that queues messages per chat until a frontend drains
// them. It backs the broadcast dispatcher when no push provider is wired:
// the HTTP layer exposes the queues for polling.
type Outbox struct {
	mu     sync.Mutex
	queues map[string][]Outgoing

	// maxPerChat caps each queue so an abandoned chat cannot grow without
	// bound. Oldest messages are dropped first.
	maxPerChat int
}

// NewOutbox returns an empty outbox. maxPerChat <= 0 means unbounded.
func NewOutbox(maxPerChat int) *Outbox {
	return &Outbox{
		queues:     make(map[string][]Outgoing),
		maxPerChat: maxPerChat,
	}
}

func (o *Outbox) SendText(_ context.Context, chatID, text string, menu []string) error {
	o.push(chatID, Outgoing{ChatID: chatID, Text: text, Menu: menu})
	return nil
}

func (o *Outbox) SendFile(_ context.Context, chatID string, file File, caption string) error {
	o.push(chatID, Outgoing{ChatID: chatID, File: &file, Caption: caption})
	return nil
}

func (o *Outbox) push(chatID string, msg Outgoing) {
	o.mu.Lock()
	defer o.mu.Unlock()
	q := append(o.queues[chatID], msg)
	if o.maxPerChat > 0 && len(q) > o.maxPerChat {
		q = q[len(q)-o.maxPerChat:]
	}
	o.queues[chatID] = q
}

// Drain returns and clears everything queued for chatID.
func (o *Outbox) Drain(chatID string) []Outgoing {
	o.mu.Lock()
	defer o.mu.Unlock()
	q := o.queues[chatID]
	delete(o.queues, chatID)
	return q
}

// Pending reports how many messages are queued for chatID.
func (o *Outbox) Pending(chatID string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queues[chatID])
}
