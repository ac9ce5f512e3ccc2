package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/webreviewer/webreviewer/internal/model"
)

// ErrCommentNotFound indicates the comment does not exist.
var ErrCommentNotFound = errors.New("comment not found")

// commentTable maps a subject to its comment table and foreign-key column.
// Subjects are validated at the service layer; an unknown subject here is a
// programming error.
func commentTable(subject model.Subject) (table, fkColumn string) {
	switch subject {
	case model.SubjectPost:
		return "post_comments", "post_id"
	case model.SubjectReview:
		return "review_comments", "review_id"
	case model.SubjectPhishing:
		return "phishing_comments", "phishing_id"
	}
	panic(fmt.Sprintf("unknown comment subject %q", subject))
}

// CreateComment inserts a comment under its subject's table.
func (r *Repository) CreateComment(ctx context.Context, comment *model.Comment) error {
	table, fk := commentTable(comment.Subject)
	query := fmt.Sprintf(`
		INSERT INTO %s (id, %s, user_id, user_name, content, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, table, fk)

	_, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.SubjectID,
		comment.AuthorID,
		comment.AuthorName,
		comment.Content,
		comment.Rating,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetCommentByID retrieves a comment from its subject's table.
func (r *Repository) GetCommentByID(ctx context.Context, subject model.Subject, id string) (*model.Comment, error) {
	table, fk := commentTable(subject)
	query := fmt.Sprintf(`
		SELECT id, %s, user_id, user_name, content, rating, created_at
		FROM %s WHERE id = $1
	`, fk, table)

	comment, err := scanComment(r.pool.QueryRow(ctx, query, id), subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

// ListComments retrieves a subject's comments oldest first.
func (r *Repository) ListComments(ctx context.Context, subject model.Subject, subjectID string) ([]*model.Comment, error) {
	table, fk := commentTable(subject)
	query := fmt.Sprintf(`
		SELECT id, %s, user_id, user_name, content, rating, created_at
		FROM %s WHERE %s = $1
		ORDER BY created_at ASC
	`, fk, table, fk)

	rows, err := r.pool.Query(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		comment, err := scanComment(rows, subject)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}

// DeleteComment removes a comment.
func (r *Repository) DeleteComment(ctx context.Context, subject model.Subject, id string) error {
	table, _ := commentTable(subject)

	result, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// scanComment scans a row into a Comment model.
func scanComment(row pgx.Row, subject model.Subject) (*model.Comment, error) {
	comment := model.Comment{Subject: subject}
	err := row.Scan(
		&comment.ID,
		&comment.SubjectID,
		&comment.AuthorID,
		&comment.AuthorName,
		&comment.Content,
		&comment.Rating,
		&comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
