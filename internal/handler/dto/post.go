package dto

import (
	"encoding/json"

	"github.com/webreviewer/webreviewer/internal/model"
)

// CreatePostRequest represents the request body for creating a post.
type CreatePostRequest struct {
	Title    string          `json:"title"`
	Category string          `json:"category,omitempty"`
	Content  json.RawMessage `json:"content"`
	Tags     []string        `json:"tags,omitempty"`
}

// UpdatePostRequest represents a post update. Omitted fields are left
// unchanged; a present tags field replaces the whole tag set.
type UpdatePostRequest struct {
	Title    *string         `json:"title,omitempty"`
	Category *string         `json:"category,omitempty"`
	Content  json.RawMessage `json:"content,omitempty"`
	Tags     []string        `json:"tags,omitempty"`
}

// PostDetailResponse is a post together with its comments.
type PostDetailResponse struct {
	Post     *model.Post      `json:"post"`
	Comments []*model.Comment `json:"comments"`
}

// PostListResponse is the list endpoint payload.
type PostListResponse struct {
	Data []*model.Post `json:"data"`
}

// StringListResponse carries category and tag enumerations.
type StringListResponse struct {
	Data []string `json:"data"`
}
