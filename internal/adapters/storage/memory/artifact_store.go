package memory

import (
	"sync"

	"github.com/pverdant/leafval/internal/domain"
)

type ArtifactStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{
		files: make(map[string][]byte),
	}
}

func (s *ArtifactStore) SaveArtifact(name string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]byte, len(content))
	copy(copied, content)
	s.files[name] = copied
	return nil
}

func (s *ArtifactStore) ReadArtifact(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.files[name]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}

	copied := make([]byte, len(content))
	copy(copied, content)
	return copied, nil
}
