package chatbot

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Origin identifies who authored a message.
type Origin string

const (
	OriginUser Origin = "user"
	OriginBot  Origin = "bot"
)

// Message is one turn of the conversation. Immutable once appended.
type Message struct {
	ID        string    `json:"id"`
	Origin    Origin    `json:"origin"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	IsError   bool      `json:"isError,omitempty"`
}

const greetingIntro = "👋 Hi there! I'm your Thyroid Cancer Awareness assistant. How can I help you today?"

const greetingHint = "You can ask me questions about thyroid cancer, risk factors, symptoms, or how to use this platform."

// apologyText is the fixed bot error message surfaced when answer delivery
// fails.
const apologyText = "Sorry, I'm having trouble connecting to my knowledge base. Please try again later."

// CommandKind enumerates the inbound transitions a conversation accepts.
type CommandKind int

const (
	CmdSubmit CommandKind = iota
	CmdToggleRemote
	CmdReceiveAnswer
	CmdReceiveError
)

// Command is a single requested state transition. Text carries the payload
// for CmdSubmit and CmdReceiveAnswer.
type Command struct {
	Kind CommandKind
	Text string
}

// Conversation holds the ordered message history, the awaiting-response
// guard, the current follow-up suggestions, and the remote toggle. All
// mutation goes through Apply, which is atomic under the internal mutex.
type Conversation struct {
	mu            sync.RWMutex
	history       []Message
	awaiting      bool
	suggestions   []string
	remoteEnabled bool
	lastUserText  string
}

// NewConversation seeds a conversation with the two greeting messages,
// default suggestions, and the given initial remote flag.
func NewConversation(remoteEnabled bool) *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		history: []Message{
			{ID: uuid.NewString(), Origin: OriginBot, Text: greetingIntro, CreatedAt: now},
			{ID: uuid.NewString(), Origin: OriginBot, Text: greetingHint, CreatedAt: now},
		},
		suggestions:   SuggestionsFor(CategoryDefault),
		remoteEnabled: remoteEnabled,
	}
}

// Apply executes one transition and reports whether the state changed.
//
//   - CmdSubmit appends a user message and raises the awaiting guard. It is
//     refused (returns false) while a response is outstanding or when the
//     trimmed text is empty, which is what makes submission single-flight.
//   - CmdReceiveAnswer appends the bot answer, lowers the guard, and
//     recomputes suggestions from the user message that triggered it.
//   - CmdReceiveError appends the fixed apology with the error flag set and
//     lowers the guard; suggestions stay as they were.
//   - CmdToggleRemote flips the remote flag and never touches history.
func (c *Conversation) Apply(cmd Command) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch cmd.Kind {
	case CmdSubmit:
		text := strings.TrimSpace(cmd.Text)
		if text == "" || c.awaiting {
			return false
		}
		c.history = append(c.history, Message{
			ID:        uuid.NewString(),
			Origin:    OriginUser,
			Text:      text,
			CreatedAt: time.Now().UTC(),
		})
		c.lastUserText = text
		c.awaiting = true
		return true

	case CmdReceiveAnswer:
		if !c.awaiting {
			return false
		}
		c.history = append(c.history, Message{
			ID:        uuid.NewString(),
			Origin:    OriginBot,
			Text:      cmd.Text,
			CreatedAt: time.Now().UTC(),
		})
		c.awaiting = false
		c.suggestions = SuggestionsFor(ClassifyCategory(c.lastUserText))
		return true

	case CmdReceiveError:
		if !c.awaiting {
			return false
		}
		c.history = append(c.history, Message{
			ID:        uuid.NewString(),
			Origin:    OriginBot,
			Text:      apologyText,
			CreatedAt: time.Now().UTC(),
			IsError:   true,
		})
		c.awaiting = false
		return true

	case CmdToggleRemote:
		c.remoteEnabled = !c.remoteEnabled
		return true
	}
	return false
}

// History returns a copy of the ordered message sequence.
func (c *Conversation) History() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.history))
	copy(out, c.history)
	return out
}

// LastMessage returns the newest message, if any.
func (c *Conversation) LastMessage() (Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.history) == 0 {
		return Message{}, false
	}
	return c.history[len(c.history)-1], true
}

// Awaiting reports whether a bot response is outstanding.
func (c *Conversation) Awaiting() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.awaiting
}

// Suggestions returns a copy of the current follow-up questions.
func (c *Conversation) Suggestions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.suggestions))
	copy(out, c.suggestions)
	return out
}

// RemoteEnabled reports whether the remote responder should be attempted.
func (c *Conversation) RemoteEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.remoteEnabled
}
