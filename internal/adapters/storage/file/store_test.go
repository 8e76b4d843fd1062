package file

import (
	"errors"
	"testing"
	"time"

	"github.com/pverdant/leafval/internal/domain"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, dir
}

func TestSessionRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	session := domain.NewSession("Dr. Smith", time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	session.CurrentBatch = []string{"image_000001.JPG", "image_000002.JPG"}
	session.CurrentIndex = 1
	session.Feedback = []domain.Feedback{{
		ImageID:         "image_000001.JPG",
		RelevanceRating: domain.RatingAgree,
		PrimaryIssues:   []string{domain.PrimaryIssues[2]},
	}}

	if err := store.PutSession(session); err != nil {
		t.Fatalf("PutSession failed: %v", err)
	}

	loaded, err := store.GetSession("dr__smith")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}

	if loaded.UserName != "Dr. Smith" {
		t.Errorf("user name: %q", loaded.UserName)
	}
	if loaded.CurrentIndex != 1 {
		t.Errorf("index: %d", loaded.CurrentIndex)
	}
	if len(loaded.CurrentBatch) != 2 || len(loaded.Feedback) != 1 {
		t.Errorf("batch/feedback not preserved: %+v", loaded)
	}
	if !loaded.CreatedAt.Equal(session.CreatedAt) {
		t.Errorf("created at: %v", loaded.CreatedAt)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.GetSession("nobody")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionsSurviveReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	session := domain.NewSession("alice", time.Now())
	if err := store.PutSession(session); err != nil {
		t.Fatalf("PutSession failed: %v", err)
	}
	if _, err := store.MarkReviewed([]string{"image_000001.JPG"}); err != nil {
		t.Fatalf("MarkReviewed failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("reopening store failed: %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.GetSession("alice"); err != nil {
		t.Errorf("session lost across reopen: %v", err)
	}
	reviewed, err := reopened.Reviewed()
	if err != nil {
		t.Fatalf("Reviewed failed: %v", err)
	}
	if len(reviewed) != 1 || reviewed[0] != "image_000001.JPG" {
		t.Errorf("reviewed set lost across reopen: %v", reviewed)
	}
}

func TestMarkReviewedIsUnion(t *testing.T) {
	store, _ := newTestStore(t)

	total, err := store.MarkReviewed([]string{"a", "b"})
	if err != nil {
		t.Fatalf("MarkReviewed failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected total 2, got %d", total)
	}

	total, err = store.MarkReviewed([]string{"b", "c"})
	if err != nil {
		t.Fatalf("MarkReviewed failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3 after union, got %d", total)
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	content := []byte("image_id,question,answer,relevance_rating,primary_issues\n")
	if err := store.SaveArtifact("feedback_alice_20260801_120000.000.csv", content); err != nil {
		t.Fatalf("SaveArtifact failed: %v", err)
	}

	loaded, err := store.ReadArtifact("feedback_alice_20260801_120000.000.csv")
	if err != nil {
		t.Fatalf("ReadArtifact failed: %v", err)
	}
	if string(loaded) != string(content) {
		t.Errorf("artifact content mismatch")
	}

	_, err = store.ReadArtifact("missing.csv")
	if !errors.Is(err, domain.ErrArtifactNotFound) {
		t.Fatalf("expected ErrArtifactNotFound, got %v", err)
	}
}

func TestSecondStoreOnSameDirFails(t *testing.T) {
	_, dir := newTestStore(t)

	if _, err := NewStore(dir); err == nil {
		t.Fatal("expected lock error opening a second store on the same dir")
	}
}
