package review_test

import (
	"strings"
	"testing"

	"github.com/pverdant/leafval/internal/app/review"
	"github.com/pverdant/leafval/internal/catalog"
	"github.com/pverdant/leafval/internal/domain"
)

func TestEncodeArtifactRoundTrip(t *testing.T) {
	feedback := []domain.Feedback{
		{
			ImageID:         "image_000001.JPG",
			Question:        "Which symptoms, if any, are visible?",
			Answer:          "Yellowing, curling and stunting of the upper leaves.",
			RelevanceRating: domain.RatingStronglyAgree,
			PrimaryIssues:   nil,
		},
		{
			ImageID:         "image_000002.JPG",
			Question:        "What would a healthy specimen look like?",
			Answer:          "Uniformly green, flat leaves.",
			RelevanceRating: domain.RatingDisagree,
			PrimaryIssues: []string{
				domain.PrimaryIssues[0],
				domain.PrimaryIssues[3],
			},
		},
	}

	csv := review.EncodeArtifact(feedback)
	lines := strings.Split(csv, "\n")

	if lines[0] != review.ArtifactHeader {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if len(lines) != len(feedback)+1 {
		t.Fatalf("expected %d lines, got %d", len(feedback)+1, len(lines))
	}

	for i, f := range feedback {
		fields := catalog.ParseLine(lines[i+1])
		if len(fields) != 5 {
			t.Fatalf("row %d: expected 5 fields, got %d: %v", i, len(fields), fields)
		}
		if fields[0] != f.ImageID {
			t.Errorf("row %d: image id %q, want %q", i, fields[0], f.ImageID)
		}
		if fields[3] != string(f.RelevanceRating) {
			t.Errorf("row %d: rating %q, want %q", i, fields[3], f.RelevanceRating)
		}

		issues := review.SplitIssues(fields[4])
		if len(issues) != len(f.PrimaryIssues) {
			t.Fatalf("row %d: %d issues, want %d", i, len(issues), len(f.PrimaryIssues))
		}
		for j, issue := range f.PrimaryIssues {
			if issues[j] != issue {
				t.Errorf("row %d issue %d: %q, want %q", i, j, issues[j], issue)
			}
		}
	}
}

func TestEncodeArtifactQuotesDelimiters(t *testing.T) {
	feedback := []domain.Feedback{{
		ImageID:         "image_000003.JPG",
		Question:        "Given the spots, lesions, and curling, what disease is this?",
		Answer:          "Early blight, most likely.",
		RelevanceRating: domain.RatingNeutral,
	}}

	csv := review.EncodeArtifact(feedback)
	row := strings.Split(csv, "\n")[1]

	fields := catalog.ParseLine(row)
	if fields[1] != feedback[0].Question {
		t.Errorf("comma-bearing question mangled: %q", fields[1])
	}
}

func TestEncodeArtifactEmptyList(t *testing.T) {
	csv := review.EncodeArtifact(nil)
	if csv != review.ArtifactHeader {
		t.Errorf("empty feedback should produce just the header, got %q", csv)
	}
}
