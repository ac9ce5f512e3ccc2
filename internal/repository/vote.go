package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/webreviewer/webreviewer/internal/model"
)

// ErrVoteNotFound indicates the user has no vote on the content.
var ErrVoteNotFound = errors.New("vote not found")

// voteTable maps a subject to its vote table and foreign-key column.
func voteTable(subject model.Subject) (table, fkColumn string) {
	switch subject {
	case model.SubjectPost:
		return "post_votes", "post_id"
	case model.SubjectReview:
		return "review_votes", "review_id"
	case model.SubjectPhishing:
		return "phishing_votes", "phishing_id"
	}
	panic(fmt.Sprintf("unknown vote subject %q", subject))
}

// GetVote retrieves a user's existing vote on a piece of content.
func (r *Repository) GetVote(ctx context.Context, subject model.Subject, subjectID, userID string) (*model.Vote, error) {
	table, fk := voteTable(subject)
	query := fmt.Sprintf(`
		SELECT %s, user_id, value, created_at
		FROM %s WHERE %s = $1 AND user_id = $2
	`, fk, table, fk)

	vote := model.Vote{Subject: subject}
	err := r.pool.QueryRow(ctx, query, subjectID, userID).Scan(
		&vote.SubjectID,
		&vote.UserID,
		&vote.Value,
		&vote.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVoteNotFound
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	return &vote, nil
}

// UpsertVote inserts a vote or replaces the user's existing one.
func (r *Repository) UpsertVote(ctx context.Context, vote *model.Vote) error {
	table, fk := voteTable(vote.Subject)
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, user_id, value, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (%s, user_id) DO UPDATE SET value = EXCLUDED.value
	`, table, fk, fk)

	_, err := r.pool.Exec(ctx, query, vote.SubjectID, vote.UserID, vote.Value, vote.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert vote: %w", err)
	}
	return nil
}

// DeleteVote removes a user's vote on a piece of content.
func (r *Repository) DeleteVote(ctx context.Context, subject model.Subject, subjectID, userID string) error {
	table, fk := voteTable(subject)

	result, err := r.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND user_id = $2`, table, fk),
		subjectID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrVoteNotFound
	}
	return nil
}

// CountVotes tallies likes and dislikes for a piece of content.
func (r *Repository) CountVotes(ctx context.Context, subject model.Subject, subjectID string) (model.VoteCounts, error) {
	table, fk := voteTable(subject)
	query := fmt.Sprintf(`
		SELECT
			COUNT(*) FILTER (WHERE value = 1),
			COUNT(*) FILTER (WHERE value = -1)
		FROM %s WHERE %s = $1
	`, table, fk)

	var counts model.VoteCounts
	err := r.pool.QueryRow(ctx, query, subjectID).Scan(&counts.Likes, &counts.Dislikes)
	if err != nil {
		return model.VoteCounts{}, fmt.Errorf("failed to count votes: %w", err)
	}
	return counts, nil
}
