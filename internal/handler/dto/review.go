package dto

import (
	"github.com/webreviewer/webreviewer/internal/model"
)

// CreateReviewRequest represents the request body for creating a review.
type CreateReviewRequest struct {
	SiteName string   `json:"site_name"`
	URL      string   `json:"url"`
	Summary  string   `json:"summary,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Pros     string   `json:"pros,omitempty"`
	Cons     string   `json:"cons,omitempty"`
}

// UpdateReviewRequest represents a review update. Omitted fields are left
// unchanged.
type UpdateReviewRequest struct {
	SiteName *string  `json:"site_name,omitempty"`
	URL      *string  `json:"url,omitempty"`
	Summary  *string  `json:"summary,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Pros     *string  `json:"pros,omitempty"`
	Cons     *string  `json:"cons,omitempty"`
}

// ReviewResponse is a review with its derived average rating. The
// submitter's raw rating is folded into the average and never exposed.
type ReviewResponse struct {
	*model.Review
	AverageRating *float64 `json:"average_rating"`
}

// ReviewDetailResponse is a review together with its comments.
type ReviewDetailResponse struct {
	Review   *ReviewResponse  `json:"review"`
	Comments []*model.Comment `json:"comments"`
}

// ReviewListResponse is the list endpoint payload.
type ReviewListResponse struct {
	Data []*ReviewResponse `json:"data"`
}

// ToReviewResponse pairs a review with its average rating.
func ToReviewResponse(review *model.Review, average *float64) *ReviewResponse {
	return &ReviewResponse{Review: review, AverageRating: average}
}
