package chat

import (
	"errors"
	"time"
)

// Kind classifies a message payload.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindFile  Kind = "file"
	KindAudio Kind = "audio"
)

// ChatFamily is the shared group conversation every client starts in.
// 1:1 conversations use the contact ID as their chat ID.
const ChatFamily = "family"

// Sender is a snapshot of the sender's identity at send time.
// Later profile edits do not rewrite historical messages.
type Sender struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Message is the wire and in-memory form of a single chat message.
// Messages are immutable once created.
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	Sender    Sender    `json:"sender"`
	Kind      Kind      `json:"kind"`
	Content   string    `json:"content"`
	FileName  string    `json:"fileName,omitempty"`
	MediaType string    `json:"mediaType,omitempty"`
	Timestamp time.Time `json:"ts"`
}

var (
	ErrEmptyMessage = errors.New("chat: message has no content")
	ErrNoChat       = errors.New("chat: message has no chat id")
)

// NewText builds a text message addressed to chatID.
func NewText(chatID string, sender Sender, text string) Message {
	return Message{
		ID:        NewID(),
		ChatID:    chatID,
		Sender:    sender,
		Kind:      KindText,
		Content:   text,
		Timestamp: time.Now(),
	}
}

// Validate checks the fields a relay or store must refuse to accept without.
func (m Message) Validate() error {
	if m.ChatID == "" {
		return ErrNoChat
	}
	if m.Content == "" {
		return ErrEmptyMessage
	}
	return nil
}

// IsMedia reports whether the content field is a blob reference rather than text.
func (m Message) IsMedia() bool {
	return m.Kind == KindImage || m.Kind == KindFile || m.Kind == KindAudio
}
