package bot

import (
	"strings"
	"time"

	"github.com/famichat/famichat/internal/chat"
)

// DefaultName is the fixed bot identity. Messages carrying this sender
// name never trigger a reply, which is what breaks the feedback loop.
const DefaultName = "Auntie Luna"

// DefaultDelay models natural response latency before a reply is emitted.
const DefaultDelay = time.Second

// Rule maps a lower-case substring to a canned reply.
type Rule struct {
	Contains string
	Reply    string
}

// DefaultRules returns the stock reply table. Order matters: the first
// matching rule wins, not the longest or most specific one.
func DefaultRules() []Rule {
	return []Rule{
		{Contains: "tired", Reply: "Sweetie, don't forget to rest 🌙💤"},
		{Contains: "love", Reply: "I love you too, my dear 💙"},
		{Contains: "school", Reply: "Good luck at school tomorrow 📚✨"},
		{Contains: "dinner", Reply: "Don't skip meals, eat well 🍲❤️"},
	}
}

// Responder evaluates each message independently against an ordered rule
// table. It keeps no memory of prior messages.
type Responder struct {
	Name  string
	Delay time.Duration
	Rules []Rule
}

func New(name string, delay time.Duration, rules []Rule) *Responder {
	if name == "" {
		name = DefaultName
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Responder{Name: name, Delay: delay, Rules: rules}
}

// ReplyTo returns the reply text for msg, or false if the bot stays quiet:
// the sender is the bot itself, the message is not text, or no rule matches.
func (r *Responder) ReplyTo(msg chat.Message) (string, bool) {
	if msg.Sender.Name == r.Name {
		return "", false
	}
	if msg.Kind != chat.KindText {
		return "", false
	}
	text := strings.ToLower(msg.Content)
	for _, rule := range r.Rules {
		if strings.Contains(text, rule.Contains) {
			return rule.Reply, true
		}
	}
	return "", false
}

// Message wraps a reply into a full message. The chat ID is carried over
// from the triggering message so the wire shape stays complete, but the
// relay broadcasts bot replies to every client regardless of chat.
func (r *Responder) Message(chatID, reply string) chat.Message {
	return chat.NewText(chatID, chat.Sender{ID: "auntie-luna", Name: r.Name}, reply)
}
