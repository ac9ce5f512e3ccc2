package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/webreviewer/webreviewer/internal/model"
)

// likePattern wraps a query term for a case-insensitive substring match,
// escaping the ILIKE wildcards in user input.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

// SearchPosts finds posts whose title, content, author, or tags match the
// term, newest first.
func (r *Repository) SearchPosts(ctx context.Context, term string) ([]*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE title ILIKE $1
		   OR content::text ILIKE $1
		   OR user_name ILIKE $1
		   OR EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE $1)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, likePattern(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// SearchReviews finds reviews whose site name, URL, text, or author match
// the term, newest first.
func (r *Repository) SearchReviews(ctx context.Context, term string) ([]*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews
		WHERE site_name ILIKE $1
		   OR url ILIKE $1
		   OR summary ILIKE $1
		   OR pros ILIKE $1
		   OR cons ILIKE $1
		   OR user_name ILIKE $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, likePattern(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search reviews: %w", err)
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
	return reviews, rows.Err()
}

// SearchPhishingSites finds reports whose URL, reason, description, or
// author match the term, newest first.
func (r *Repository) SearchPhishingSites(ctx context.Context, term string) ([]*model.PhishingSite, error) {
	query := `SELECT ` + phishingColumns + ` FROM phishing_sites
		WHERE url ILIKE $1
		   OR reason ILIKE $1
		   OR description ILIKE $1
		   OR user_name ILIKE $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, likePattern(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search phishing reports: %w", err)
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
	return sites, rows.Err()
}

// SuggestTerms returns up to limit distinct post titles, review site names,
// and tags starting with the prefix.
func (r *Repository) SuggestTerms(ctx context.Context, prefix string, limit int) ([]string, error) {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	pattern := escaped + "%"

	query := `
		SELECT DISTINCT suggestion FROM (
			SELECT title AS suggestion FROM posts WHERE title ILIKE $1
			UNION
			SELECT site_name FROM reviews WHERE site_name ILIKE $1
			UNION
			SELECT unnest(tags) FROM posts
		) s
		WHERE suggestion ILIKE $1
		ORDER BY suggestion
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch suggestions: %w", err)
	}
	defer rows.Close()

	return collectStrings(rows)
}
