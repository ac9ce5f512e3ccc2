package model

import (
	"encoding/json"
	"time"
)

// Post is a community board entry. Content is an opaque rich-text document
// produced by the editor; the backend stores and returns it verbatim.
type Post struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Category     string          `json:"category"`
	Content      json.RawMessage `json:"content"`
	Tags         []string        `json:"tags"`
	AuthorID     string          `json:"user_id"`
	AuthorName   string          `json:"user_name"`
	ViewCount    int64           `json:"view_count"`
	LikeCount    int64           `json:"like_count"`
	DislikeCount int64           `json:"dislike_count"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
