package model

import "time"

// Review is a rating write-up for an external website. The submitter's own
// rating is folded into AverageRating together with comment ratings and is
// not exposed on its own.
type Review struct {
	ID           string     `json:"id"`
	SiteName     string     `json:"site_name"`
	URL          string     `json:"url"`
	Summary      string     `json:"summary"`
	Rating       *float64   `json:"-"`
	Pros         string     `json:"pros"`
	Cons         string     `json:"cons"`
	AuthorID     string     `json:"user_id"`
	AuthorName   string     `json:"user_name"`
	ViewCount    int64      `json:"view_count"`
	LikeCount    int64      `json:"like_count"`
	DislikeCount int64      `json:"dislike_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// AverageRating computes the mean of the review's own rating and every
// comment rating. Returns nil when no rating exists at all.
func (r *Review) AverageRating(comments []*Comment) *float64 {
	var sum float64
	var n int

	if r.Rating != nil {
		sum += *r.Rating
		n++
	}
	for _, c := range comments {
		if c.Rating != nil {
			sum += *c.Rating
			n++
		}
	}

	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}
