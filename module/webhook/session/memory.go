package session

import "sync"

// MemoryStore is the default single-instance store. Webhook delivery is
// serialized per sender by the transport, the mutex only guards the map
// itself against concurrent conversants.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Get(conversantID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[conversantID]; ok {
		return s
	}
	s := &Session{}
	m.sessions[conversantID] = s
	return s
}

func (m *MemoryStore) Put(conversantID string, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[conversantID] = s
}

func (m *MemoryStore) Clear(conversantID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, conversantID)
}
