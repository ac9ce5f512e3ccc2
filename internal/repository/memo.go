package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/webreviewer/webreviewer/internal/model"
)

// ErrMemoNotFound indicates no memo exists for the target user.
var ErrMemoNotFound = errors.New("memo not found")

const memoColumns = `
	m.id, m.user_id, m.target_user_id, t.username, m.memo, m.created_at, m.updated_at`

const memoJoins = `
	FROM user_memos m
	JOIN users t ON t.id = m.target_user_id`

// UpsertMemo creates a memo about the target user or replaces the owner's
// existing one. At most one memo exists per (owner, target) pair.
func (r *Repository) UpsertMemo(ctx context.Context, memo *model.UserMemo) error {
	query := `
		INSERT INTO user_memos (id, user_id, target_user_id, memo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, target_user_id)
		DO UPDATE SET memo = EXCLUDED.memo, updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, memo.ID, memo.OwnerID, memo.TargetID, memo.Memo, memo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert memo: %w", err)
	}
	return nil
}

// GetMemo retrieves the owner's memo about a target user.
func (r *Repository) GetMemo(ctx context.Context, ownerID, targetID string) (*model.UserMemo, error) {
	query := `SELECT` + memoColumns + memoJoins + ` WHERE m.user_id = $1 AND m.target_user_id = $2`

	memo, err := scanMemo(r.pool.QueryRow(ctx, query, ownerID, targetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemoNotFound
		}
		return nil, fmt.Errorf("failed to get memo: %w", err)
	}
	return memo, nil
}

// ListMemos retrieves all of the owner's memos, most recently updated first.
func (r *Repository) ListMemos(ctx context.Context, ownerID string) ([]*model.UserMemo, error) {
	query := `SELECT` + memoColumns + memoJoins + `
		WHERE m.user_id = $1
		ORDER BY m.updated_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memos: %w", err)
	}
	defer rows.Close()

	var memos []*model.UserMemo
	for rows.Next() {
		memo, err := scanMemo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memo: %w", err)
		}
		memos = append(memos, memo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memos: %w", err)
	}

	return memos, nil
}

// DeleteMemo removes the owner's memo about a target user.
func (r *Repository) DeleteMemo(ctx context.Context, ownerID, targetID string) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM user_memos WHERE user_id = $1 AND target_user_id = $2`, ownerID, targetID)
	if err != nil {
		return fmt.Errorf("failed to delete memo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrMemoNotFound
	}
	return nil
}

// scanMemo scans a joined row into a UserMemo model.
func scanMemo(row pgx.Row) (*model.UserMemo, error) {
	var memo model.UserMemo
	err := row.Scan(
		&memo.ID,
		&memo.OwnerID,
		&memo.TargetID,
		&memo.TargetName,
		&memo.Memo,
		&memo.CreatedAt,
		&memo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &memo, nil
}
