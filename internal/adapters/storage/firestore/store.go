// Package firestore backs the review stores with Cloud Firestore, for
// deployments where the API runs on GCP and a local data directory is not an
// option. One Store implements the session, reviewed-set and artifact ports.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pverdant/leafval/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given project
// (LEAFVAL_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) sessionDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.client.Collection("sessions").Doc(string(id))
}

func (s *Store) reviewedDoc() *firestore.DocumentRef {
	return s.client.Collection("meta").Doc("reviewed")
}

func (s *Store) artifactDoc(name string) *firestore.DocumentRef {
	return s.client.Collection("artifacts").Doc(name)
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type feedbackDoc struct {
	ImageID         string   `firestore:"image_id"`
	Question        string   `firestore:"question"`
	Answer          string   `firestore:"answer"`
	RelevanceRating string   `firestore:"relevance_rating"`
	PrimaryIssues   []string `firestore:"primary_issues"`
}

type sessionDoc struct {
	UserName        string        `firestore:"user_name"`
	CurrentBatch    []string      `firestore:"current_batch"`
	CurrentIndex    int           `firestore:"current_index"`
	CompletedImages []string      `firestore:"completed_images"`
	Feedback        []feedbackDoc `firestore:"feedback"`
	CreatedAt       time.Time     `firestore:"created_at"`
	LastActive      time.Time     `firestore:"last_active"`
}

type reviewedSetDoc struct {
	ImageIDs []string `firestore:"image_ids"`
}

type artifactContentDoc struct {
	Content   string    `firestore:"content"`
	CreatedAt time.Time `firestore:"created_at"`
}

func toSessionDoc(session *domain.Session) sessionDoc {
	feedback := make([]feedbackDoc, 0, len(session.Feedback))
	for _, f := range session.Feedback {
		feedback = append(feedback, feedbackDoc{
			ImageID:         f.ImageID,
			Question:        f.Question,
			Answer:          f.Answer,
			RelevanceRating: string(f.RelevanceRating),
			PrimaryIssues:   f.PrimaryIssues,
		})
	}

	return sessionDoc{
		UserName:        session.UserName,
		CurrentBatch:    session.CurrentBatch,
		CurrentIndex:    session.CurrentIndex,
		CompletedImages: session.CompletedImages,
		Feedback:        feedback,
		CreatedAt:       session.CreatedAt,
		LastActive:      session.LastActive,
	}
}

func fromSessionDoc(id domain.SessionID, doc sessionDoc) *domain.Session {
	feedback := make([]domain.Feedback, 0, len(doc.Feedback))
	for _, f := range doc.Feedback {
		feedback = append(feedback, domain.Feedback{
			ImageID:         f.ImageID,
			Question:        f.Question,
			Answer:          f.Answer,
			RelevanceRating: domain.RelevanceRating(f.RelevanceRating),
			PrimaryIssues:   f.PrimaryIssues,
		})
	}

	return &domain.Session{
		UserID:          id,
		UserName:        doc.UserName,
		CurrentBatch:    doc.CurrentBatch,
		CurrentIndex:    doc.CurrentIndex,
		CompletedImages: doc.CompletedImages,
		Feedback:        feedback,
		CreatedAt:       doc.CreatedAt,
		LastActive:      doc.LastActive,
	}
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

func (s *Store) GetSession(id domain.SessionID) (*domain.Session, error) {
	ctx := context.Background()

	snap, err := s.sessionDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("firestore GetSession: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetSession decode: %w", err)
	}

	return fromSessionDoc(id, doc), nil
}

func (s *Store) PutSession(session *domain.Session) error {
	ctx := context.Background()

	_, err := s.sessionDoc(session.UserID).Set(ctx, toSessionDoc(session))
	if err != nil {
		return fmt.Errorf("firestore PutSession: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// ReviewedStore implementation
// ─────────────────────────────────────────

func (s *Store) Reviewed() ([]string, error) {
	ctx := context.Background()

	snap, err := s.reviewedDoc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return []string{}, nil
		}
		return nil, fmt.Errorf("firestore Reviewed: %w", err)
	}

	var doc reviewedSetDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore Reviewed decode: %w", err)
	}
	return doc.ImageIDs, nil
}

func (s *Store) MarkReviewed(ids []string) (int, error) {
	ctx := context.Background()

	if len(ids) > 0 {
		union := make([]any, len(ids))
		for i, id := range ids {
			union[i] = id
		}

		_, err := s.reviewedDoc().Set(ctx, map[string]any{
			"image_ids": firestore.ArrayUnion(union...),
		}, firestore.MergeAll)
		if err != nil {
			return 0, fmt.Errorf("firestore MarkReviewed: %w", err)
		}
	}

	// Read back for the new total; a concurrent writer may have grown the
	// set in between, which is fine.
	reviewed, err := s.Reviewed()
	if err != nil {
		return 0, err
	}
	return len(reviewed), nil
}

// ─────────────────────────────────────────
// ArtifactStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveArtifact(name string, content []byte) error {
	ctx := context.Background()

	_, err := s.artifactDoc(name).Create(ctx, artifactContentDoc{
		Content:   string(content),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("firestore SaveArtifact: %w", err)
	}
	return nil
}

func (s *Store) ReadArtifact(name string) ([]byte, error) {
	ctx := context.Background()

	snap, err := s.artifactDoc(name).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("firestore ReadArtifact: %w", err)
	}

	var doc artifactContentDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore ReadArtifact decode: %w", err)
	}
	return []byte(doc.Content), nil
}
