package dto

import (
	"github.com/webreviewer/webreviewer/internal/model"
)

// SendMessageRequest represents the request body for sending a message.
type SendMessageRequest struct {
	ReceiverUsername string `json:"receiver_username"`
	Subject          string `json:"subject"`
	Content          string `json:"content"`
}

// MessageListResponse is one page of messages. UnreadCount is only set on
// the inbox.
type MessageListResponse struct {
	Data        []*model.PrivateMessage `json:"data"`
	Pagination  *Pagination             `json:"pagination"`
	UnreadCount *int64                  `json:"unread_count,omitempty"`
}

// UnreadCountResponse reports the inbox unread tally.
type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

// SaveMemoRequest creates or replaces a memo about a user.
type SaveMemoRequest struct {
	TargetUsername string `json:"target_username"`
	Memo           string `json:"memo"`
}

// MemoListResponse is the list endpoint payload.
type MemoListResponse struct {
	Data []*model.UserMemo `json:"data"`
}
