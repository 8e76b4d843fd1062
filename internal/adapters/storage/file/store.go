// Package file persists sessions, the reviewed ledger and CSV artifacts as
// flat files under a data directory:
//
//	sessions.json             map of session id -> session document
//	reviewed.json             array of reviewed image ids
//	feedback/<name>.csv       one immutable artifact per batch completion
//
// Every mutation is a whole-file overwrite of the affected document. There is
// no per-request locking: concurrent writers to the same document follow
// last-writer-wins, which the expert-review workload tolerates. A flock on
// the data directory prevents two processes from sharing it at all.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/pverdant/leafval/internal/domain"
)

type Store struct {
	dir  string
	lock *flock.Flock

	mu sync.Mutex
}

// NewStore opens (creating if needed) a data directory and takes an exclusive
// lock file inside it. A second process pointing at the same directory fails
// fast instead of silently clobbering documents.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "feedback"), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	lock := flock.New(filepath.Join(dir, "leafval.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking data dir: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("data dir %s is in use by another process", dir)
	}

	return &Store{dir: dir, lock: lock}, nil
}

// Close releases the data directory lock.
func (s *Store) Close() error {
	return s.lock.Unlock()
}

func (s *Store) sessionsPath() string {
	return filepath.Join(s.dir, "sessions.json")
}

func (s *Store) reviewedPath() string {
	return filepath.Join(s.dir, "reviewed.json")
}

func (s *Store) artifactPath(name string) string {
	// Base strips any path components a caller might sneak in.
	return filepath.Join(s.dir, "feedback", filepath.Base(name))
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

func (s *Store) GetSession(id domain.SessionID) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.loadSessions()
	if err != nil {
		return nil, err
	}

	sess, ok := sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *Store) PutSession(session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.loadSessions()
	if err != nil {
		return err
	}

	sessions[session.UserID] = session
	return s.saveSessions(sessions)
}

func (s *Store) loadSessions() (map[domain.SessionID]*domain.Session, error) {
	data, err := os.ReadFile(s.sessionsPath())
	if os.IsNotExist(err) {
		return map[domain.SessionID]*domain.Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading sessions: %w", err)
	}

	var sessions map[domain.SessionID]*domain.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("decoding sessions: %w", err)
	}
	if sessions == nil {
		sessions = map[domain.SessionID]*domain.Session{}
	}
	return sessions, nil
}

func (s *Store) saveSessions(sessions map[domain.SessionID]*domain.Session) error {
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sessions: %w", err)
	}
	if err := os.WriteFile(s.sessionsPath(), data, 0o644); err != nil {
		return fmt.Errorf("writing sessions: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// ReviewedStore implementation
// ─────────────────────────────────────────

func (s *Store) Reviewed() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadReviewed()
}

func (s *Store) MarkReviewed(ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reviewed, err := s.loadReviewed()
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(reviewed))
	for _, id := range reviewed {
		seen[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			reviewed = append(reviewed, id)
		}
	}

	data, err := json.MarshalIndent(reviewed, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encoding reviewed set: %w", err)
	}
	if err := os.WriteFile(s.reviewedPath(), data, 0o644); err != nil {
		return 0, fmt.Errorf("writing reviewed set: %w", err)
	}

	return len(reviewed), nil
}

func (s *Store) loadReviewed() ([]string, error) {
	data, err := os.ReadFile(s.reviewedPath())
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading reviewed set: %w", err)
	}

	var reviewed []string
	if err := json.Unmarshal(data, &reviewed); err != nil {
		return nil, fmt.Errorf("decoding reviewed set: %w", err)
	}
	return reviewed, nil
}

// ─────────────────────────────────────────
// ArtifactStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveArtifact(name string, content []byte) error {
	if err := os.WriteFile(s.artifactPath(name), content, 0o644); err != nil {
		return fmt.Errorf("writing artifact %s: %w", name, err)
	}
	return nil
}

func (s *Store) ReadArtifact(name string) ([]byte, error) {
	content, err := os.ReadFile(s.artifactPath(name))
	if os.IsNotExist(err) {
		return nil, domain.ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading artifact %s: %w", name, err)
	}
	return content, nil
}
