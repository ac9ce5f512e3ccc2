package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/webreviewer/webreviewer/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
)

const userColumns = `id, username, email, password_hash, google_id, role, email_verified, created_at, updated_at`

// CreateUser inserts a new user.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, google_id, role, email_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.GoogleID,
		user.Role,
		user.EmailVerified,
		user.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetUserByEmail retrieves a user by email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, username))
}

// GetUserByGoogleID retrieves a user by linked Google account ID.
func (r *Repository) GetUserByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, googleID))
}

// UsernameExists reports whether a username is taken by anyone other than
// excludeID. Pass an empty excludeID to check all users.
func (r *Repository) UsernameExists(ctx context.Context, username, excludeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND id <> $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, username, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

// EmailExists reports whether an email is taken by anyone other than excludeID.
func (r *Repository) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdateUserProfile updates username and/or email. Nil fields are left as-is.
func (r *Repository) UpdateUserProfile(ctx context.Context, id string, username, email *string) (*model.User, error) {
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    email = COALESCE($3, email),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := r.scanUser(r.pool.QueryRow(ctx, query, id, username, email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		if isUniqueViolation(err) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}
	return user, nil
}

// UpdateUserPassword replaces the stored password hash.
func (r *Repository) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// LinkGoogleID attaches a Google account ID to an existing user.
func (r *Repository) LinkGoogleID(ctx context.Context, id, googleID string) error {
	query := `UPDATE users SET google_id = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, googleID)
	if err != nil {
		return fmt.Errorf("failed to link google id: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// MarkEmailVerified flips the account to verified.
func (r *Repository) MarkEmailVerified(ctx context.Context, id string) error {
	query := `UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes a user row only. See DeleteUserCascade for full account
// removal.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUserCascade removes a user and everything they authored, in one
// transaction: votes, comments, posts, reviews, reports, messages, memos,
// verification codes, then the user row.
func (r *Repository) DeleteUserCascade(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	statements := []string{
		`DELETE FROM post_votes WHERE user_id = $1`,
		`DELETE FROM review_votes WHERE user_id = $1`,
		`DELETE FROM phishing_votes WHERE user_id = $1`,
		`DELETE FROM post_comments WHERE user_id = $1`,
		`DELETE FROM review_comments WHERE user_id = $1`,
		`DELETE FROM phishing_comments WHERE user_id = $1`,
		`DELETE FROM posts WHERE user_id = $1`,
		`DELETE FROM reviews WHERE user_id = $1`,
		`DELETE FROM phishing_sites WHERE user_id = $1`,
		`DELETE FROM private_messages WHERE sender_id = $1 OR receiver_id = $1`,
		`DELETE FROM user_memos WHERE user_id = $1 OR target_user_id = $1`,
		`DELETE FROM email_verification_codes WHERE user_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete user data: %w", err)
		}
	}

	result, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return tx.Commit(ctx)
}

// DeleteStaleUnverifiedUsers removes unverified accounts created before the
// cutoff, along with their verification codes. Returns the number of
// accounts removed. Used by the cleanup worker.
func (r *Repository) DeleteStaleUnverifiedUsers(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM email_verification_codes
		WHERE user_id IN (SELECT id FROM users WHERE email_verified = FALSE AND created_at < $1)
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale codes: %w", err)
	}

	result, err := tx.Exec(ctx, `
		DELETE FROM users WHERE email_verified = FALSE AND created_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale users: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// scanUser scans a single row into a User model.
func (r *Repository) scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.GoogleID,
		&user.Role,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
