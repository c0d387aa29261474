package chat

import (
	"io"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Manager is the in-memory session registry. Sessions are fully independent
// of each other; the registry lock only guards the map itself.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	classifier Classifier
	orders     OrderPlacer
	logger     *log.Logger
}

func NewManager(classifier Classifier, orders OrderPlacer, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Manager{
		sessions:   make(map[string]*Session),
		classifier: classifier,
		orders:     orders,
		logger:     logger,
	}
}

// Open creates a session in Greeting and returns it with the welcome
// message already appended.
func (m *Manager) Open(userID string) (*Session, []Message) {
	session := newSession(uuid.NewString(), userID, m.classifier, m.orders)
	welcome := session.Open()

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()

	m.logger.Printf("chat: opened session=%s user=%s", session.ID(), userID)
	return session, welcome
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Close tears the session down and removes it from the registry.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	session, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	session.Close()
	m.logger.Printf("chat: closed session=%s", id)
	return nil
}

// Remove drops a session that already closed itself (the "quit" command).
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
