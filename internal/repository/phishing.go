package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/webreviewer/webreviewer/internal/model"
)

// ErrReportNotFound indicates the phishing report does not exist.
var ErrReportNotFound = errors.New("phishing report not found")

const phishingColumns = `id, url, reason, description, status, user_id, user_name, view_count, created_at, updated_at`

// CreatePhishingSite inserts a new phishing report.
func (r *Repository) CreatePhishingSite(ctx context.Context, site *model.PhishingSite) error {
	query := `
		INSERT INTO phishing_sites (id, url, reason, description, status, user_id, user_name, view_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		site.ID,
		site.URL,
		site.Reason,
		site.Description,
		site.Status,
		site.AuthorID,
		site.AuthorName,
		site.ViewCount,
		site.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create phishing report: %w", err)
	}
	return nil
}

// GetPhishingSiteByID retrieves a phishing report.
func (r *Repository) GetPhishingSiteByID(ctx context.Context, id string) (*model.PhishingSite, error) {
	query := `SELECT ` + phishingColumns + ` FROM phishing_sites WHERE id = $1`

	site, err := scanPhishingSite(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get phishing report: %w", err)
	}
	return site, nil
}

// ListPhishingSites retrieves phishing reports newest first, optionally
// filtered by status.
func (r *Repository) ListPhishingSites(ctx context.Context, status model.ReportStatus) ([]*model.PhishingSite, error) {
	query := `SELECT ` + phishingColumns + ` FROM phishing_sites`
	var args []any

	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list phishing reports: %w", err)
	}
	defer rows.Close()

	var sites []*model.PhishingSite
	for rows.Next() {
		site, err := scanPhishingSite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan phishing report: %w", err)
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating phishing reports: %w", err)
	}

	return sites, nil
}

// UpdatePhishingSite updates a report's mutable fields. Nil fields are left
// as-is.
func (r *Repository) UpdatePhishingSite(ctx context.Context, id string, url, reason, description *string) (*model.PhishingSite, error) {
	query := `
		UPDATE phishing_sites
		SET url = COALESCE($2, url),
		    reason = COALESCE($3, reason),
		    description = COALESCE($4, description),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + phishingColumns

	site, err := scanPhishingSite(r.pool.QueryRow(ctx, query, id, url, reason, description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to update phishing report: %w", err)
	}
	return site, nil
}

// UpdatePhishingStatus sets the moderation status of a report.
func (r *Repository) UpdatePhishingStatus(ctx context.Context, id string, status model.ReportStatus) (*model.PhishingSite, error) {
	query := `
		UPDATE phishing_sites
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + phishingColumns

	site, err := scanPhishingSite(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to update phishing status: %w", err)
	}
	return site, nil
}

// DeletePhishingSite removes a report with its comments and votes.
func (r *Repository) DeletePhishingSite(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM phishing_comments WHERE phishing_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete report comments: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM phishing_votes WHERE phishing_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete report votes: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM phishing_sites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete phishing report: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrReportNotFound
	}

	return tx.Commit(ctx)
}

// IncrementPhishingViews bumps the view counter.
func (r *Repository) IncrementPhishingViews(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE phishing_sites SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment report views: %w", err)
	}
	return nil
}

// scanPhishingSite scans a row into a PhishingSite model.
func scanPhishingSite(row pgx.Row) (*model.PhishingSite, error) {
	var site model.PhishingSite
	err := row.Scan(
		&site.ID,
		&site.URL,
		&site.Reason,
		&site.Description,
		&site.Status,
		&site.AuthorID,
		&site.AuthorName,
		&site.ViewCount,
		&site.CreatedAt,
		&site.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &site, nil
}
