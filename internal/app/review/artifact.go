package review

import (
	"fmt"
	"strings"

	"github.com/pverdant/leafval/internal/domain"
)

// ArtifactHeader is the first line of every completed-batch CSV.
const ArtifactHeader = "image_id,question,answer,relevance_rating,primary_issues"

// issueJoiner separates multiple issue tags inside the single CSV column.
const issueJoiner = "; "

// EncodeArtifact renders a feedback list as the durable CSV artifact: the
// fixed header, then one row per feedback entry with every field
// quote-wrapped and the issue tags joined by a semicolon.
func EncodeArtifact(feedback []domain.Feedback) string {
	lines := make([]string, 0, len(feedback)+1)
	lines = append(lines, ArtifactHeader)

	for _, f := range feedback {
		lines = append(lines, fmt.Sprintf(`"%s","%s","%s","%s","%s"`,
			f.ImageID,
			f.Question,
			f.Answer,
			f.RelevanceRating,
			strings.Join(f.PrimaryIssues, issueJoiner),
		))
	}

	return strings.Join(lines, "\n")
}

// SplitIssues is the inverse of the joiner used by EncodeArtifact.
func SplitIssues(column string) []string {
	if column == "" {
		return nil
	}
	return strings.Split(column, issueJoiner)
}
