package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/webreviewer/webreviewer/internal/model"
)

// ErrCodeNotFound indicates no verification code matched.
var ErrCodeNotFound = errors.New("verification code not found")

// ReplaceVerificationCode deletes any existing code for the user and stores
// a new one, keeping the one-code-per-user invariant.
func (r *Repository) ReplaceVerificationCode(ctx context.Context, code *model.VerificationCode) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM email_verification_codes WHERE user_id = $1`, code.UserID); err != nil {
		return fmt.Errorf("failed to delete old code: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO email_verification_codes (user_id, code, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`, code.UserID, code.Code, code.ExpiresAt, code.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert code: %w", err)
	}

	return tx.Commit(ctx)
}

// GetVerificationCode looks up a code by its value.
func (r *Repository) GetVerificationCode(ctx context.Context, code string) (*model.VerificationCode, error) {
	query := `
		SELECT user_id, code, expires_at, created_at
		FROM email_verification_codes
		WHERE code = $1
	`

	var vc model.VerificationCode
	err := r.pool.QueryRow(ctx, query, code).Scan(&vc.UserID, &vc.Code, &vc.ExpiresAt, &vc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to get verification code: %w", err)
	}
	return &vc, nil
}

// DeleteVerificationCode removes a code by value. Used once a code is
// consumed or found expired.
func (r *Repository) DeleteVerificationCode(ctx context.Context, code string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM email_verification_codes WHERE code = $1`, code); err != nil {
		return fmt.Errorf("failed to delete verification code: %w", err)
	}
	return nil
}

// DeleteVerificationCodesForUser removes all codes issued to a user.
func (r *Repository) DeleteVerificationCodesForUser(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM email_verification_codes WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete verification codes: %w", err)
	}
	return nil
}

// DeleteExpiredVerificationCodes removes every code past its expiry.
// Returns the number removed. Used by the cleanup worker.
func (r *Repository) DeleteExpiredVerificationCodes(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM email_verification_codes WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired codes: %w", err)
	}
	return result.RowsAffected(), nil
}
