package model

import "time"

// Subject identifies which kind of content a comment or vote belongs to.
// Each subject has its own comment and vote table.
type Subject string

const (
	SubjectPost     Subject = "post"
	SubjectReview   Subject = "review"
	SubjectPhishing Subject = "phishing"
)

// IsValid reports whether the subject is a known content type.
func (s Subject) IsValid() bool {
	switch s {
	case SubjectPost, SubjectReview, SubjectPhishing:
		return true
	}
	return false
}

// Comment is attached to a post, a review, or a phishing report.
// Rating is only populated for review comments.
type Comment struct {
	ID         string    `json:"id"`
	Subject    Subject   `json:"-"`
	SubjectID  string    `json:"subject_id"`
	AuthorID   string    `json:"user_id"`
	AuthorName string    `json:"user_name"`
	Content    string    `json:"content"`
	Rating     *float64  `json:"rating,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
