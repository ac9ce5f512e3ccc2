package dto

import (
	"github.com/webreviewer/webreviewer/internal/model"
)

// CreateCommentRequest represents the request body for adding a comment.
// Rating is only accepted on review comments.
type CreateCommentRequest struct {
	Content string   `json:"content"`
	Rating  *float64 `json:"rating,omitempty"`
}

// CommentListResponse is the list endpoint payload.
type CommentListResponse struct {
	Data []*model.Comment `json:"data"`
}

// VoteRequest casts a like (1) or dislike (-1).
type VoteRequest struct {
	Value int `json:"value"`
}

// VoteResponse describes the state after a vote toggle.
type VoteResponse struct {
	LikeCount    int64 `json:"like_count"`
	DislikeCount int64 `json:"dislike_count"`
	UserVote     int   `json:"user_vote"`
}
