package client

import (
	"log/slog"
	"sync"
	"time"

	"github.com/famichat/famichat/internal/chat"
	"github.com/famichat/famichat/internal/config"
	"github.com/famichat/famichat/internal/media"
)

// Transport forwards a locally composed message to the relay.
// Sends are fire-and-forget: the store never waits for an acknowledgment
// and never rolls back a local append when the relay is unreachable.
type Transport interface {
	Send(msg chat.Message) error
}

// Store maintains the mapping chatID → ordered message sequence and
// reconciles its two write paths: local optimistic sends and relay-delivered
// receives. Sequences are append-only; order is exactly the order in which
// appends and deliveries happen at this client, never re-sorted.
type Store struct {
	mu        sync.RWMutex
	user      chat.Sender
	chats     map[string][]chat.Message
	active    string
	transport Transport
	dedup     *chat.Dedup
	onUpdate  func(chatID string)
}

func NewStore(user chat.Sender, transport Transport) *Store {
	return &Store{
		user:      user,
		chats:     make(map[string][]chat.Message),
		active:    chat.ChatFamily,
		transport: transport,
		dedup:     chat.NewDedup(time.Minute),
	}
}

// OnUpdate registers a callback invoked after any append, with the chat ID
// that changed. The UI layer hangs its re-render off this.
func (s *Store) OnUpdate(fn func(chatID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = fn
}

// Seed populates the demo conversations: a couple of family messages plus
// one greeting per contact.
func (s *Store) Seed(contacts []config.Contact) {
	if len(contacts) >= 2 {
		dad := chat.Sender{ID: contacts[0].ID, Name: contacts[0].Name, Avatar: contacts[0].Avatar}
		mom := chat.Sender{ID: contacts[1].ID, Name: contacts[1].Name, Avatar: contacts[1].Avatar}
		s.append(chat.NewText(chat.ChatFamily, dad, "Don't forget dinner at 7 🍲"))
		s.append(chat.NewText(chat.ChatFamily, mom, "Sure ❤️"))
	}
	for _, c := range contacts {
		sender := chat.Sender{ID: c.ID, Name: c.Name, Avatar: c.Avatar}
		s.append(chat.NewText(c.ID, sender, "Hi, this is "+c.Name+"."))
	}
}

// SendText composes a text message, applies it locally before any network
// round trip, and forwards it to the relay. Empty drafts are a no-op.
func (s *Store) SendText(chatID, text string) (chat.Message, error) {
	if text == "" {
		return chat.Message{}, chat.ErrEmptyMessage
	}
	msg := chat.NewText(chatID, s.User(), text)
	s.send(msg)
	return msg, nil
}

// SendMedia wraps a prepared capture draft into a message and sends it.
func (s *Store) SendMedia(chatID string, d media.Draft) (chat.Message, error) {
	if d.ContentRef == "" {
		return chat.Message{}, chat.ErrEmptyMessage
	}
	msg := chat.Message{
		ID:        chat.NewID(),
		ChatID:    chatID,
		Sender:    s.User(),
		Kind:      d.Kind,
		Content:   d.ContentRef,
		FileName:  d.FileName,
		MediaType: d.MediaType,
		Timestamp: time.Now(),
	}
	s.send(msg)
	return msg, nil
}

// SetTransport attaches the relay connection once dialing succeeds.
func (s *Store) SetTransport(t Transport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transport = t
}

func (s *Store) send(msg chat.Message) {
	// Record the ID before the optimistic append so the relay echo of this
	// send is dropped in Receive instead of displayed twice.
	s.dedup.Seen(msg.ID)
	s.append(msg)

	s.mu.RLock()
	t := s.transport
	s.mu.RUnlock()
	if t == nil {
		return
	}
	if err := t.Send(msg); err != nil {
		// Local-first: the append stands even when the relay is gone.
		slog.Warn("send failed, keeping local copy", "id", msg.ID, "error", err)
	}
}

// Receive appends a relay-delivered message to its chat's sequence.
// Echoes of this client's own sends are deduplicated by ID.
func (s *Store) Receive(msg chat.Message) {
	if s.dedup.Seen(msg.ID) {
		return
	}
	s.append(msg)
}

func (s *Store) append(msg chat.Message) {
	s.mu.Lock()
	s.chats[msg.ChatID] = append(s.chats[msg.ChatID], msg)
	fn := s.onUpdate
	s.mu.Unlock()

	if fn != nil {
		fn(msg.ChatID)
	}
}

// Close releases the store's dedup cache. Call at session teardown.
func (s *Store) Close() {
	s.dedup.Close()
}

// SwitchActive changes which conversation is rendered. Sequence contents
// are untouched.
func (s *Store) SwitchActive(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = chatID
}

// Active returns the currently rendered chat ID.
func (s *Store) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// History returns a copy of the message sequence for chatID.
func (s *Store) History(chatID string) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seq := s.chats[chatID]
	out := make([]chat.Message, len(seq))
	copy(out, seq)
	return out
}

// User returns the local identity stamped onto outgoing messages.
func (s *Store) User() chat.Sender {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetUser updates the local profile. Historical messages keep the sender
// snapshot they were created with.
func (s *Store) SetUser(name, avatar string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name != "" {
		s.user.Name = name
	}
	if avatar != "" {
		s.user.Avatar = avatar
	}
}
