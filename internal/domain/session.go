package domain

import "time"

// Feedback is one reviewer's judgment on one item. The question and answer
// text are echoed so the CSV artifact is self-contained. One Feedback per
// image id within a session's list; upserted by the presentation layer.
type Feedback struct {
	ImageID         string          `json:"image_id"`
	Question        string          `json:"question"`
	Answer          string          `json:"answer"`
	RelevanceRating RelevanceRating `json:"relevance_rating"`
	PrimaryIssues   []string        `json:"primary_issues"`
}

// Session is a reviewer's durable progress record. JSON field names match the
// wire contract of the review front-end, so the struct doubles as the stored
// document in the file backend.
type Session struct {
	UserID          SessionID  `json:"userId"`
	UserName        string     `json:"userName"`
	CurrentBatch    []string   `json:"currentBatch"`
	CurrentIndex    int        `json:"currentIndex"`
	CompletedImages []string   `json:"completedImages"`
	Feedback        []Feedback `json:"feedback"`
	CreatedAt       time.Time  `json:"createdAt"`
	LastActive      time.Time  `json:"lastActive"`
}

// NewSession creates an empty session for a display name.
func NewSession(userName string, now time.Time) *Session {
	return &Session{
		UserID:          DeriveSessionID(userName),
		UserName:        userName,
		CurrentBatch:    []string{},
		CurrentIndex:    0,
		CompletedImages: []string{},
		Feedback:        []Feedback{},
		CreatedAt:       now,
		LastActive:      now,
	}
}

// ClearBatch returns the session to the "no active batch" state.
func (s *Session) ClearBatch() {
	s.CurrentBatch = []string{}
	s.CurrentIndex = 0
	s.Feedback = []Feedback{}
}
