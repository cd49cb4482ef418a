package store

import (
	"context"
	"sync"
	"time"

	"github.com/rajat933788/cancerdetect-backend/internal/chatbot"
)

// Testimonial is a visitor-submitted experience shown on the home page.
type Testimonial struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordedQuestion is an analytics entry for a raw chat question.
type RecordedQuestion struct {
	Question  string
	Timestamp time.Time
}

// MemoryStore holds per-session conversation state plus the in-memory
// fallbacks used when no database is configured. Safe for concurrent use.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*chatbot.Conversation
	// OAuth state mapping per session (for CSRF protection)
	oauthStateBySession map[string]string
	// Reverse mapping: state -> sessionID to resolve callbacks
	sessionByOAuthState map[string]string
	// Email associated with session after auth
	emailBySession map[string]string
	// No-database fallbacks
	testimonials []Testimonial
	subscribers  map[string]struct{}
	questions    []RecordedQuestion
	// Initial remote flag for newly seeded conversations
	remoteEnabled bool
}

func NewMemoryStore(remoteEnabled bool) *MemoryStore {
	return &MemoryStore{
		remoteEnabled:       remoteEnabled,
		conversations:       make(map[string]*chatbot.Conversation),
		oauthStateBySession: make(map[string]string),
		sessionByOAuthState: make(map[string]string),
		emailBySession:      make(map[string]string),
		subscribers:         make(map[string]struct{}),
	}
}

// Conversation returns the session's conversation, seeding a fresh one with
// the greeting messages on first use.
func (m *MemoryStore) Conversation(sessionID string) *chatbot.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.conversations[sessionID]
	if !ok {
		conv = chatbot.NewConversation(m.remoteEnabled)
		m.conversations[sessionID] = conv
	}
	return conv
}

// OAuth helpers

func (m *MemoryStore) SetOAuthState(sessionID, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.oauthStateBySession[sessionID] = state
	m.sessionByOAuthState[state] = sessionID
}

func (m *MemoryStore) GetOAuthState(sessionID string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.oauthStateBySession[sessionID]
}

func (m *MemoryStore) ClearOAuthState(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.oauthStateBySession[sessionID]; ok {
		delete(m.sessionByOAuthState, st)
		delete(m.oauthStateBySession, sessionID)
	}
}

func (m *MemoryStore) GetSessionByOAuthState(state string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionByOAuthState[state]
}

func (m *MemoryStore) SetEmail(sessionID, email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emailBySession[sessionID] = email
}

func (m *MemoryStore) GetEmail(sessionID string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.emailBySession[sessionID]
}

func (m *MemoryStore) ClearEmail(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.emailBySession, sessionID)
}

// Community fallbacks (used when DB_URL is not provided)

func (m *MemoryStore) SaveTestimonial(t Testimonial) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}
	m.testimonials = append(m.testimonials, t)
}

func (m *MemoryStore) Testimonials() []Testimonial {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Testimonial, len(m.testimonials))
	copy(out, m.testimonials)
	return out
}

func (m *MemoryStore) AddSubscriber(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers[email] = struct{}{}
}

// RecordQuestion implements the chatbot analytics sink in memory.
func (m *MemoryStore) RecordQuestion(_ context.Context, question string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = append(m.questions, RecordedQuestion{Question: question, Timestamp: time.Now().UTC()})
	return nil
}

// Questions returns recorded chat questions, oldest first.
func (m *MemoryStore) Questions() []RecordedQuestion {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RecordedQuestion, len(m.questions))
	copy(out, m.questions)
	return out
}
