package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/webreviewer/webreviewer/internal/model"
)

// Common errors for review repository operations.
var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrReviewURLExists = errors.New("review for this URL already exists")
)

const reviewColumns = `id, site_name, url, summary, rating, pros, cons, user_id, user_name, view_count, created_at, updated_at`

// CreateReview inserts a new review.
func (r *Repository) CreateReview(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (id, site_name, url, summary, rating, pros, cons, user_id, user_name, view_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.SiteName,
		review.URL,
		review.Summary,
		review.Rating,
		review.Pros,
		review.Cons,
		review.AuthorID,
		review.AuthorName,
		review.ViewCount,
		review.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrReviewURLExists
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// ReviewURLExists reports whether a review already covers the URL.
func (r *Repository) ReviewURLExists(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM reviews WHERE url = $1)`, url).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check review URL: %w", err)
	}
	return exists, nil
}

// GetReviewByID retrieves a review.
func (r *Repository) GetReviewByID(ctx context.Context, id string) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

// ListReviews retrieves all reviews newest first.
func (r *Repository) ListReviews(ctx context.Context) ([]*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// UpdateReview updates a review's mutable fields. Nil fields are left as-is.
func (r *Repository) UpdateReview(ctx context.Context, id string, siteName, url, summary, pros, cons *string, rating *float64) (*model.Review, error) {
	query := `
		UPDATE reviews
		SET site_name = COALESCE($2, site_name),
		    url = COALESCE($3, url),
		    summary = COALESCE($4, summary),
		    pros = COALESCE($5, pros),
		    cons = COALESCE($6, cons),
		    rating = COALESCE($7, rating),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + reviewColumns

	review, err := scanReview(r.pool.QueryRow(ctx, query, id, siteName, url, summary, pros, cons, rating))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrReviewURLExists
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return review, nil
}

// DeleteReview removes a review with its comments and votes.
func (r *Repository) DeleteReview(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM review_comments WHERE review_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete review comments: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM review_votes WHERE review_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete review votes: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrReviewNotFound
	}

	return tx.Commit(ctx)
}

// IncrementReviewViews bumps the view counter.
func (r *Repository) IncrementReviewViews(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE reviews SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment review views: %w", err)
	}
	return nil
}

// scanReview scans a row into a Review model.
func scanReview(row pgx.Row) (*model.Review, error) {
	var review model.Review
	err := row.Scan(
		&review.ID,
		&review.SiteName,
		&review.URL,
		&review.Summary,
		&review.Rating,
		&review.Pros,
		&review.Cons,
		&review.AuthorID,
		&review.AuthorName,
		&review.ViewCount,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}
