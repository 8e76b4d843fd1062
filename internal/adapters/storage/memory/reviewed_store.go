package memory

import (
	"sync"
)

// ReviewedStore keeps the global reviewed ledger as an in-process set, so it
// is scoped to a single process lifetime. Insertion order is preserved to
// keep snapshots stable.
type ReviewedStore struct {
	mu    sync.RWMutex
	seen  map[string]struct{}
	order []string
}

func NewReviewedStore() *ReviewedStore {
	return &ReviewedStore{
		seen: make(map[string]struct{}),
	}
}

func (s *ReviewedStore) Reviewed() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}

func (s *ReviewedStore) MarkReviewed(ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, ok := s.seen[id]; !ok {
			s.seen[id] = struct{}{}
			s.order = append(s.order, id)
		}
	}

	return len(s.order), nil
}
