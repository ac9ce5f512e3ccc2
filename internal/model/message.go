package model

import "time"

// PrivateMessage is a direct message between two users.
// Deletion is soft per side; the row is removed once both sides delete.
type PrivateMessage struct {
	ID                string     `json:"id"`
	SenderID          string     `json:"-"`
	ReceiverID        string     `json:"-"`
	SenderName        string     `json:"sender_username,omitempty"`
	ReceiverName      string     `json:"receiver_username,omitempty"`
	Subject           string     `json:"subject"`
	Content           string     `json:"content"`
	ReadAt            *time.Time `json:"read_at,omitempty"`
	DeletedBySender   bool       `json:"-"`
	DeletedByReceiver bool       `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
}

// IsRead reports whether the receiver has opened the message.
func (m *PrivateMessage) IsRead() bool {
	return m.ReadAt != nil
}

// DeletedByBoth reports whether both participants have deleted the message,
// at which point the row can be removed for good.
func (m *PrivateMessage) DeletedByBoth() bool {
	return m.DeletedBySender && m.DeletedByReceiver
}

// UserMemo is a private note one user keeps about another.
type UserMemo struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"-"`
	TargetID   string    `json:"-"`
	TargetName string    `json:"target_username"`
	Memo       string    `json:"memo"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
