// Package review implements the expert-review workflow: session bookkeeping,
// batch allocation and feedback recording.
package review

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/pverdant/leafval/internal/domain"
	"github.com/pverdant/leafval/internal/observability"
)

const artifactTimeFormat = "20060102_150405.000"

type Service struct {
	catalog   []domain.Item
	sessions  domain.SessionStore
	reviewed  domain.ReviewedStore
	artifacts domain.ArtifactStore

	batchSize int
	now       func() time.Time
	rng       *rand.Rand
}

type Option func(*Service)

// WithBatchSize overrides the default batch size of 50. The same number is
// the minimum availability required to start a batch.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithRand injects the random source used for batch sampling, so tests can
// make allocation deterministic.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rng = r }
}

// WithNow injects the clock.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(
	catalog []domain.Item,
	sessions domain.SessionStore,
	reviewed domain.ReviewedStore,
	artifacts domain.ArtifactStore,
	opts ...Option,
) *Service {
	s := &Service{
		catalog:   catalog,
		sessions:  sessions,
		reviewed:  reviewed,
		artifacts: artifacts,
		batchSize: 50,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// StartSession returns the session derived from a display name, creating an
// empty one on first login and refreshing last-active on every later one.
func (s *Service) StartSession(ctx context.Context, userName string) (*domain.Session, error) {
	name := strings.TrimSpace(userName)
	id := domain.DeriveSessionID(name)

	log := observability.LoggerFromContext(ctx).With("user_id", id)

	session, err := s.sessions.GetSession(id)
	switch {
	case err == nil:
		session.LastActive = s.now()
	case errors.Is(err, domain.ErrSessionNotFound):
		log.Info("creating new session", "user_name", name)
		session = domain.NewSession(name, s.now())
	default:
		log.Error("failed to load session", "error", err)
		return nil, err
	}

	if err := s.sessions.PutSession(session); err != nil {
		log.Error("failed to persist session", "error", err)
		return nil, err
	}

	return session, nil
}

// GetSession loads a session without touching it.
func (s *Service) GetSession(ctx context.Context, userID domain.SessionID) (*domain.Session, error) {
	return s.sessions.GetSession(userID)
}

// AllocateBatch assigns a fresh batch to the session: a uniform random sample
// of batchSize items drawn from the catalog minus the global reviewed set
// minus the session's own completed items. Fails with
// *domain.InsufficientItemsError when fewer than batchSize remain. The full
// item records of the batch are returned alongside the updated session.
func (s *Service) AllocateBatch(ctx context.Context, userID domain.SessionID) ([]domain.Item, *domain.Session, error) {
	session, err := s.sessions.GetSession(userID)
	if err != nil {
		return nil, nil, err
	}

	log := observability.LoggerFromContext(ctx).With("user_id", session.UserID)

	reviewedIDs, err := s.reviewed.Reviewed()
	if err != nil {
		log.Error("failed to load reviewed set", "error", err)
		return nil, nil, err
	}

	exclude := make(map[string]struct{}, len(reviewedIDs)+len(session.CompletedImages))
	for _, id := range reviewedIDs {
		exclude[id] = struct{}{}
	}
	for _, id := range session.CompletedImages {
		exclude[id] = struct{}{}
	}

	available := make([]domain.Item, 0, len(s.catalog))
	for _, item := range s.catalog {
		if _, done := exclude[item.ImageID]; !done {
			available = append(available, item)
		}
	}

	if len(available) < s.batchSize {
		return nil, nil, &domain.InsufficientItemsError{
			Available: len(available),
			Needed:    s.batchSize,
		}
	}

	s.rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})
	batch := available[:s.batchSize]

	ids := make([]string, len(batch))
	for i, item := range batch {
		ids[i] = item.ImageID
	}

	session.CurrentBatch = ids
	session.CurrentIndex = 0
	session.Feedback = []domain.Feedback{}
	session.LastActive = s.now()

	if err := s.sessions.PutSession(session); err != nil {
		log.Error("failed to persist session", "error", err)
		return nil, nil, err
	}

	log.Info("batch allocated", "batch_size", len(batch), "available", len(available))

	return batch, session, nil
}

// SaveProgress is the autosave: it unconditionally replaces the session's
// in-progress feedback list and current index with the caller's values. The
// presentation layer always sends its complete feedback state, so this is a
// full replace, not a merge.
func (s *Service) SaveProgress(ctx context.Context, userID domain.SessionID, feedback []domain.Feedback, currentIndex int) error {
	session, err := s.sessions.GetSession(userID)
	if err != nil {
		return err
	}

	session.Feedback = feedback
	session.CurrentIndex = currentIndex
	session.LastActive = s.now()

	if err := s.sessions.PutSession(session); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to persist progress",
			"user_id", userID, "error", err)
		return err
	}

	return nil
}

// CompletionResult is what a finished batch hands back to the caller.
type CompletionResult struct {
	ArtifactName  string
	CSV           string
	ReviewedCount int
	Session       *domain.Session
}

// CompleteBatch treats the feedback list as the final set of answers for the
// batch. It writes an immutable CSV artifact, folds every referenced image id
// into both the global reviewed set and the session's completed set, and
// resets the session's active batch. The artifact is written first so a
// failure in the later ledger updates never loses the submitted feedback.
func (s *Service) CompleteBatch(ctx context.Context, userID domain.SessionID, feedback []domain.Feedback) (*CompletionResult, error) {
	session, err := s.sessions.GetSession(userID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With("user_id", session.UserID)

	csv := EncodeArtifact(feedback)
	name := fmt.Sprintf("feedback_%s_%s.csv", session.UserID, s.now().UTC().Format(artifactTimeFormat))

	if err := s.artifacts.SaveArtifact(name, []byte(csv)); err != nil {
		log.Error("failed to save artifact", "artifact", name, "error", err)
		return nil, err
	}

	ids := make([]string, 0, len(feedback))
	for _, f := range feedback {
		ids = append(ids, f.ImageID)
	}

	total, err := s.reviewed.MarkReviewed(ids)
	if err != nil {
		log.Error("failed to update reviewed set", "error", err)
		return nil, err
	}

	session.CompletedImages = unionStrings(session.CompletedImages, ids)
	session.ClearBatch()
	session.LastActive = s.now()

	if err := s.sessions.PutSession(session); err != nil {
		log.Error("failed to persist session", "error", err)
		return nil, err
	}

	log.Info("batch completed", "artifact", name, "items", len(ids), "reviewed_total", total)

	return &CompletionResult{
		ArtifactName:  name,
		CSV:           csv,
		ReviewedCount: total,
		Session:       session,
	}, nil
}

// DownloadArtifact fetches a previously written artifact by name.
func (s *Service) DownloadArtifact(ctx context.Context, name string) ([]byte, error) {
	return s.artifacts.ReadArtifact(name)
}

// unionStrings appends the members of add not already in base, preserving
// order of first appearance.
func unionStrings(base, add []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, v := range base {
		seen[v] = struct{}{}
	}
	out := base
	for _, v := range add {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
