package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/webreviewer/webreviewer/internal/model"
)

// ErrPostNotFound indicates the post does not exist.
var ErrPostNotFound = errors.New("post not found")

const postColumns = `id, title, category, content, tags, user_id, user_name, view_count, created_at, updated_at`

// PostFilter defines filters for listing posts. Category and Tag are
// mutually exclusive; Tag wins when both are set.
type PostFilter struct {
	Category string
	Tag      string
}

// CreatePost inserts a new post with its tags.
func (r *Repository) CreatePost(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (id, title, category, content, tags, user_id, user_name, view_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Category,
		post.Content,
		pq.Array(post.Tags),
		post.AuthorID,
		post.AuthorName,
		post.ViewCount,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetPostByID retrieves a post.
func (r *Repository) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// ListPosts retrieves posts newest first, optionally filtered by category
// or tag.
func (r *Repository) ListPosts(ctx context.Context, filter PostFilter) ([]*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	var args []any

	switch {
	case filter.Tag != "":
		query += ` WHERE $1 = ANY(tags)`
		args = append(args, filter.Tag)
	case filter.Category != "":
		query += ` WHERE category = $1`
		args = append(args, filter.Category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

// UpdatePost updates a post's mutable fields. Nil fields are left as-is;
// a non-nil Tags replaces the whole tag set.
func (r *Repository) UpdatePost(ctx context.Context, id string, title, category *string, content []byte, tags []string) (*model.Post, error) {
	query := `
		UPDATE posts
		SET title = COALESCE($2, title),
		    category = COALESCE($3, category),
		    content = COALESCE($4, content),
		    tags = COALESCE($5, tags),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns

	var tagsArg any
	if tags != nil {
		tagsArg = pq.Array(tags)
	}

	post, err := scanPost(r.pool.QueryRow(ctx, query, id, title, category, content, tagsArg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

// DeletePost removes a post with its comments and votes.
func (r *Repository) DeletePost(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM post_comments WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete post comments: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM post_votes WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete post votes: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPostNotFound
	}

	return tx.Commit(ctx)
}

// IncrementPostViews bumps the view counter.
func (r *Repository) IncrementPostViews(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment post views: %w", err)
	}
	return nil
}

// ListCategories returns the distinct post categories in use.
func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM posts ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	return collectStrings(rows)
}

// ListTags returns the distinct tag names in use.
func (r *Repository) ListTags(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT unnest(tags) AS tag FROM posts ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	return collectStrings(rows)
}

// scanPost scans a row into a Post model.
func scanPost(row pgx.Row) (*model.Post, error) {
	var post model.Post
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Category,
		&post.Content,
		pq.Array(&post.Tags),
		&post.AuthorID,
		&post.AuthorName,
		&post.ViewCount,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return &post, nil
}

// collectStrings drains a single-column string result set.
func collectStrings(rows pgx.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
