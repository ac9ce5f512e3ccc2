package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/webreviewer/webreviewer/internal/model"
)

// ErrMessageNotFound indicates the message does not exist or is not visible
// to the caller.
var ErrMessageNotFound = errors.New("message not found")

const messageColumns = `
	m.id, m.sender_id, m.receiver_id, s.username, rc.username,
	m.subject, m.content, m.read_at, m.deleted_by_sender, m.deleted_by_receiver, m.created_at`

const messageJoins = `
	FROM private_messages m
	JOIN users s ON s.id = m.sender_id
	JOIN users rc ON rc.id = m.receiver_id`

// CreateMessage inserts a new private message.
func (r *Repository) CreateMessage(ctx context.Context, msg *model.PrivateMessage) error {
	query := `
		INSERT INTO private_messages (id, sender_id, receiver_id, subject, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		msg.ID,
		msg.SenderID,
		msg.ReceiverID,
		msg.Subject,
		msg.Content,
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetMessageByID retrieves a message with both participants' usernames.
func (r *Repository) GetMessageByID(ctx context.Context, id string) (*model.PrivateMessage, error) {
	query := `SELECT` + messageColumns + messageJoins + ` WHERE m.id = $1`

	msg, err := scanMessage(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return msg, nil
}

// ListInbox retrieves received messages the user has not deleted, newest
// first, with the page's offset applied. Returns the page plus the total
// and unread counts for the whole inbox.
func (r *Repository) ListInbox(ctx context.Context, userID string, limit, offset int) ([]*model.PrivateMessage, int64, int64, error) {
	query := `SELECT` + messageColumns + messageJoins + `
		WHERE m.receiver_id = $1 AND m.deleted_by_receiver = FALSE
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3`

	messages, err := r.queryMessages(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to list inbox: %w", err)
	}

	var total, unread int64
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE read_at IS NULL)
		FROM private_messages
		WHERE receiver_id = $1 AND deleted_by_receiver = FALSE
	`, userID).Scan(&total, &unread)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count inbox: %w", err)
	}

	return messages, total, unread, nil
}

// ListSent retrieves sent messages the user has not deleted, newest first,
// with the page's offset applied. Returns the page plus the total count.
func (r *Repository) ListSent(ctx context.Context, userID string, limit, offset int) ([]*model.PrivateMessage, int64, error) {
	query := `SELECT` + messageColumns + messageJoins + `
		WHERE m.sender_id = $1 AND m.deleted_by_sender = FALSE
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3`

	messages, err := r.queryMessages(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sent messages: %w", err)
	}

	var total int64
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM private_messages
		WHERE sender_id = $1 AND deleted_by_sender = FALSE
	`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count sent messages: %w", err)
	}

	return messages, total, nil
}

// CountUnread returns the number of unread messages in the user's inbox.
func (r *Repository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var unread int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM private_messages
		WHERE receiver_id = $1 AND deleted_by_receiver = FALSE AND read_at IS NULL
	`, userID).Scan(&unread)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return unread, nil
}

// MarkMessageRead stamps the message as read if it isn't already.
func (r *Repository) MarkMessageRead(ctx context.Context, id string) error {
	query := `UPDATE private_messages SET read_at = NOW() WHERE id = $1 AND read_at IS NULL`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return nil
}

// SoftDeleteMessage marks the message deleted for one side. asSender selects
// which side's flag to set.
func (r *Repository) SoftDeleteMessage(ctx context.Context, id string, asSender bool) error {
	column := "deleted_by_receiver"
	if asSender {
		column = "deleted_by_sender"
	}

	result, err := r.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE private_messages SET %s = TRUE WHERE id = $1`, column), id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// HardDeleteMessage removes the message row for good. Called once both
// participants have deleted it.
func (r *Repository) HardDeleteMessage(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM private_messages WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to hard delete message: %w", err)
	}
	return nil
}

func (r *Repository) queryMessages(ctx context.Context, query string, args ...any) ([]*model.PrivateMessage, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.PrivateMessage
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// scanMessage scans a joined row into a PrivateMessage model.
func scanMessage(row pgx.Row) (*model.PrivateMessage, error) {
	var msg model.PrivateMessage
	err := row.Scan(
		&msg.ID,
		&msg.SenderID,
		&msg.ReceiverID,
		&msg.SenderName,
		&msg.ReceiverName,
		&msg.Subject,
		&msg.Content,
		&msg.ReadAt,
		&msg.DeletedBySender,
		&msg.DeletedByReceiver,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
