package domain

// SessionStore defines session persistence. Writes replace the whole record;
// there is no partial update and the last writer wins.
type SessionStore interface {
	GetSession(id SessionID) (*Session, error)
	PutSession(session *Session) error
}

// ReviewedStore is the cross-session ledger of image ids that no longer need
// review. It only grows.
type ReviewedStore interface {
	// Reviewed returns a snapshot of every reviewed image id.
	Reviewed() ([]string, error)
	// MarkReviewed folds the given ids into the ledger (set union) and
	// returns the new total size of the set.
	MarkReviewed(ids []string) (int, error)
}

// ArtifactStore keeps the CSV artifact of each completed batch, keyed by file
// name. Artifacts are immutable snapshots; a new one is written per
// completion.
type ArtifactStore interface {
	SaveArtifact(name string, content []byte) error
	ReadArtifact(name string) ([]byte, error)
}
