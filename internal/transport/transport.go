// Package transport defines the seam between the conversation engine and
// whatever messaging provider actually moves the messages. The engine only
// ever sees inbound Events and an outbound Sender.
package transport

import "context"

// File is an uploaded or outgoing document.
type File struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// Event is one inbound message from a chat. Text and File are mutually
// exclusive in practice; handlers check File first.
type Event struct {
	ChatID string `json:"chat_id"`
	Sender string `json:"sender,omitempty"`
	Text   string `json:"text,omitempty"`
	File   *File  `json:"file,omitempty"`
}

// Sender delivers outbound replies. Implementations must be safe for
// concurrent use; the broadcast dispatcher fans out over one Sender.
type Sender interface {
	SendText(ctx context.Context, chatID, text string, menu []string) error
	SendFile(ctx context.Context, chatID string, file File, caption string) error
}
