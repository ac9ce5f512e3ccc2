package model

import "time"

// VoteValue is a like or dislike.
type VoteValue int

const (
	VoteLike    VoteValue = 1
	VoteDislike VoteValue = -1
)

// IsValid reports whether the value is a like or dislike.
func (v VoteValue) IsValid() bool {
	return v == VoteLike || v == VoteDislike
}

// Vote records one user's like/dislike on a piece of content.
// At most one vote exists per (subject, subject_id, user).
type Vote struct {
	Subject   Subject   `json:"-"`
	SubjectID string    `json:"subject_id"`
	UserID    string    `json:"user_id"`
	Value     VoteValue `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteCounts is the like/dislike tally for a piece of content.
type VoteCounts struct {
	Likes    int64 `json:"like_count"`
	Dislikes int64 `json:"dislike_count"`
}
