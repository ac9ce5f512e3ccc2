package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/webreviewer/webreviewer/internal/model"
	"github.com/webreviewer/webreviewer/internal/repository"
)

// Message service errors.
var (
	ErrMessageNotFound  = errors.New("message not found")
	ErrSelfMessage      = errors.New("cannot message yourself")
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrEmptyMessage     = errors.New("subject and content are required")
	ErrMessageTooLong   = errors.New("message too long")
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	maxSubjectLength = 100
	maxContentLength = 1000
)

// MessageService handles private messages between users.
type MessageService struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewMessageService creates a new MessageService.
func NewMessageService(repo *repository.Repository, logger *slog.Logger) *MessageService {
	return &MessageService{repo: repo, logger: logger}
}

// Send delivers a message to the named receiver.
func (s *MessageService) Send(ctx context.Context, actor model.AuthContext, receiverUsername, subject, content string) (*model.PrivateMessage, error) {
	subject = cleanText(subject)
	content = cleanText(content)
	if subject == "" || content == "" {
		return nil, ErrEmptyMessage
	}
	if len([]rune(subject)) > maxSubjectLength || len([]rune(content)) > maxContentLength {
		return nil, ErrMessageTooLong
	}

	receiver, err := s.repo.GetUserByUsername(ctx, receiverUsername)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}
	// Unverified accounts stay invisible to messaging.
	if !receiver.EmailVerified {
		return nil, ErrReceiverNotFound
	}
	if receiver.ID == actor.UserID {
		return nil, ErrSelfMessage
	}

	msg := &model.PrivateMessage{
		ID:           ulid.Make().String(),
		SenderID:     actor.UserID,
		ReceiverID:   receiver.ID,
		SenderName:   actor.Username,
		ReceiverName: receiver.Username,
		Subject:      subject,
		Content:      content,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// InboxPage is one page of received messages.
type InboxPage struct {
	Messages []*model.PrivateMessage
	Total    int64
	Unread   int64
	Page     int
	Limit    int
}

// Inbox retrieves a page of the user's received messages.
func (s *MessageService) Inbox(ctx context.Context, actor model.AuthContext, page, limit int) (*InboxPage, error) {
	page, limit = normalizePage(page, limit)

	messages, total, unread, err := s.repo.ListInbox(ctx, actor.UserID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &InboxPage{Messages: messages, Total: total, Unread: unread, Page: page, Limit: limit}, nil
}

// SentPage is one page of sent messages.
type SentPage struct {
	Messages []*model.PrivateMessage
	Total    int64
	Page     int
	Limit    int
}

// Sent retrieves a page of the user's sent messages.
func (s *MessageService) Sent(ctx context.Context, actor model.AuthContext, page, limit int) (*SentPage, error) {
	page, limit = normalizePage(page, limit)

	messages, total, err := s.repo.ListSent(ctx, actor.UserID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &SentPage{Messages: messages, Total: total, Page: page, Limit: limit}, nil
}

// UnreadCount returns how many unread messages sit in the user's inbox.
func (s *MessageService) UnreadCount(ctx context.Context, actor model.AuthContext) (int64, error) {
	return s.repo.CountUnread(ctx, actor.UserID)
}

// Get retrieves a message the actor participates in. Opening a received
// message marks it read.
func (s *MessageService) Get(ctx context.Context, actor model.AuthContext, id string) (*model.PrivateMessage, error) {
	msg, err := s.visibleMessage(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if msg.ReceiverID == actor.UserID && !msg.IsRead() {
		if err := s.repo.MarkMessageRead(ctx, id); err != nil {
			s.logger.Warn("failed to mark message read", "message_id", id, "error", err)
		} else {
			now := time.Now().UTC()
			msg.ReadAt = &now
		}
	}
	return msg, nil
}

// Delete removes a message from the actor's view. The row is deleted for
// good once both participants have removed it.
func (s *MessageService) Delete(ctx context.Context, actor model.AuthContext, id string) error {
	msg, err := s.visibleMessage(ctx, actor, id)
	if err != nil {
		return err
	}

	asSender := msg.SenderID == actor.UserID
	if err := s.repo.SoftDeleteMessage(ctx, id, asSender); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return ErrMessageNotFound
		}
		return err
	}

	if asSender {
		msg.DeletedBySender = true
	} else {
		msg.DeletedByReceiver = true
	}
	if msg.DeletedByBoth() {
		return s.repo.HardDeleteMessage(ctx, id)
	}
	return nil
}

// visibleMessage fetches a message and checks the actor can see it:
// participants only, and not after they deleted it on their side.
func (s *MessageService) visibleMessage(ctx context.Context, actor model.AuthContext, id string) (*model.PrivateMessage, error) {
	msg, err := s.repo.GetMessageByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	switch actor.UserID {
	case msg.SenderID:
		if msg.DeletedBySender {
			return nil, ErrMessageNotFound
		}
	case msg.ReceiverID:
		if msg.DeletedByReceiver {
			return nil, ErrMessageNotFound
		}
	default:
		return nil, ErrMessageNotFound
	}
	return msg, nil
}

// normalizePage clamps pagination parameters to sane values.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return page, limit
}
