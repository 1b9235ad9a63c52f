// Package session keeps conversations in process memory. Nothing is
// persisted: restarting the server starts everyone over.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Greeting opens every new conversation.
const Greeting = "Bonjour ! Je suis votre assistant IA pour les parkings de Nantes Métropole. Comment puis-je vous aider aujourd'hui ?"

// ClearedGreeting replaces the history when a conversation is cleared.
const ClearedGreeting = "Conversation effacée. Comment puis-je vous aider avec les parkings de Nantes aujourd'hui ?"

// Message is a single chat message.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is an append-only conversation.
type Session struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	Messages  []Message `json:"messages"`
}

// Manager owns all live sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	logger   *slog.Logger
}

// NewManager creates an empty session manager.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Open returns the session id and a copy of its history, creating a fresh
// session with the greeting when id is empty or unknown.
func (m *Manager) Open(id string) (string, []Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		sess = m.newSessionLocked()
	}
	return sess.ID, copyMessages(sess.Messages)
}

// History returns a copy of the session's messages.
func (m *Manager) History(id string) ([]Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return copyMessages(sess.Messages), true
}

// Append adds a message to the session. Unknown ids are ignored.
func (m *Manager) Append(id, role, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return
	}
	sess.Messages = append(sess.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// Clear resets the session to the cleared greeting and returns the new
// history.
func (m *Manager) Clear(id string) ([]Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	sess.Messages = []Message{{
		Role:      RoleAssistant,
		Content:   ClearedGreeting,
		Timestamp: time.Now(),
	}}
	m.logger.Info("conversation cleared", "session_id", id)
	return copyMessages(sess.Messages), true
}

func (m *Manager) newSessionLocked() *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		StartTime: time.Now(),
		Messages: []Message{{
			Role:      RoleAssistant,
			Content:   Greeting,
			Timestamp: time.Now(),
		}},
	}
	m.sessions[sess.ID] = sess
	m.logger.Info("created new session", "session_id", sess.ID)
	return sess
}

func copyMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
