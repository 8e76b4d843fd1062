package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound means the caller supplied an id with no matching
	// session. A client error; nothing to recover server-side.
	ErrSessionNotFound = errors.New("session not found")

	// ErrArtifactNotFound means no artifact exists under the requested name.
	ErrArtifactNotFound = errors.New("artifact not found")
)

// InsufficientItemsError is returned by batch allocation when fewer
// unreviewed items remain than a full batch requires. Available reports how
// many there actually were, so a caller can decide whether to lower the
// threshold.
type InsufficientItemsError struct {
	Available int
	Needed    int
}

func (e *InsufficientItemsError) Error() string {
	return fmt.Sprintf("not enough unreviewed items: %d available, %d needed", e.Available, e.Needed)
}
