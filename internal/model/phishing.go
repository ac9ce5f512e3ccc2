package model

import "time"

// ReportStatus is the moderation state of a phishing report.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusConfirmed ReportStatus = "confirmed"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// IsValid reports whether the status is one of the known states.
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusPending, ReportStatusConfirmed, ReportStatusDismissed:
		return true
	}
	return false
}

// PhishingSite is a user-submitted report of a suspected phishing site.
type PhishingSite struct {
	ID           string       `json:"id"`
	URL          string       `json:"url"`
	Reason       string       `json:"reason"`
	Description  *string      `json:"description,omitempty"`
	Status       ReportStatus `json:"status"`
	AuthorID     string       `json:"user_id"`
	AuthorName   string       `json:"user_name"`
	ViewCount    int64        `json:"view_count"`
	LikeCount    int64        `json:"like_count"`
	DislikeCount int64        `json:"dislike_count"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    *time.Time   `json:"updated_at,omitempty"`
}
