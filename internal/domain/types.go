package domain

import "strings"

type SessionID string

// RelevanceRating is the answer to "how relevant and accurate is this
// question-answer pair to the provided image?". Empty means unanswered.
type RelevanceRating string

const (
	RatingStronglyAgree    RelevanceRating = "strongly_agree"
	RatingAgree            RelevanceRating = "agree"
	RatingNeutral          RelevanceRating = "neutral"
	RatingDisagree         RelevanceRating = "disagree"
	RatingStronglyDisagree RelevanceRating = "strongly_disagree"
)

// PrimaryIssues is the fixed checklist offered to reviewers. Feedback may
// carry zero or more of these.
var PrimaryIssues = []string{
	"Factual Error in Answer: Incorrect disease/plant information",
	"Factual Error in Question: Incorrect assumption",
	"Vague/Ambiguous: Poorly phrased and unclear",
	"Symptom Not Visible: Discusses invisible symptoms",
	"Logical Mismatch: Answer doesn't match question",
}

// DeriveSessionID maps a user-supplied display name to a stable session id:
// lowercase, then every character outside [a-z0-9] becomes an underscore.
// The transformation is deterministic and idempotent.
func DeriveSessionID(userName string) SessionID {
	var b strings.Builder
	for _, r := range strings.ToLower(userName) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return SessionID(b.String())
}
