// Package memory holds in-memory store implementations. They are NOT
// persistent and are only suitable for development / local mode.
package memory

import (
	"sync"

	"github.com/pverdant/leafval/internal/domain"
)

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.SessionID]*domain.Session),
	}
}

func (s *SessionStore) GetSession(id domain.SessionID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	copied := *sess
	return &copied, nil
}

func (s *SessionStore) PutSession(session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *session
	s.sessions[session.UserID] = &copied
	return nil
}
