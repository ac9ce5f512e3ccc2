package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/webreviewer/webreviewer/internal/model"
	"github.com/webreviewer/webreviewer/internal/repository"
)

// ErrInvalidVote indicates the vote value was neither a like nor a dislike.
var ErrInvalidVote = errors.New("vote must be a like or a dislike")

// VoteService handles like/dislike toggling on content.
type VoteService struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewVoteService creates a new VoteService.
func NewVoteService(repo *repository.Repository, logger *slog.Logger) *VoteService {
	return &VoteService{repo: repo, logger: logger}
}

// VoteResult describes the state after a vote toggle.
type VoteResult struct {
	Counts model.VoteCounts
	// UserVote is the caller's vote after the operation; 0 when removed.
	UserVote int
}

// Toggle applies a like or dislike. Casting the same vote again removes it;
// casting the opposite vote switches it.
func (s *VoteService) Toggle(ctx context.Context, actor model.AuthContext, subject model.Subject, subjectID string, value int) (*VoteResult, error) {
	if !subject.IsValid() {
		return nil, ErrUnknownSubject
	}
	voteValue := model.VoteValue(value)
	if !voteValue.IsValid() {
		return nil, ErrInvalidVote
	}

	if err := subjectExists(ctx, s.repo, subject, subjectID); err != nil {
		return nil, err
	}

	userVote := int(voteValue)
	existing, err := s.repo.GetVote(ctx, subject, subjectID, actor.UserID)
	switch {
	case err == nil && existing.Value == voteValue:
		// Same vote again: toggle off.
		if err := s.repo.DeleteVote(ctx, subject, subjectID, actor.UserID); err != nil && !errors.Is(err, repository.ErrVoteNotFound) {
			return nil, err
		}
		userVote = 0
	case err == nil || errors.Is(err, repository.ErrVoteNotFound):
		vote := &model.Vote{
			Subject:   subject,
			SubjectID: subjectID,
			UserID:    actor.UserID,
			Value:     voteValue,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.repo.UpsertVote(ctx, vote); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	counts, err := s.repo.CountVotes(ctx, subject, subjectID)
	if err != nil {
		return nil, err
	}
	return &VoteResult{Counts: counts, UserVote: userVote}, nil
}

// Counts returns the like/dislike tally for a piece of content.
func (s *VoteService) Counts(ctx context.Context, subject model.Subject, subjectID string) (model.VoteCounts, error) {
	if !subject.IsValid() {
		return model.VoteCounts{}, ErrUnknownSubject
	}
	return s.repo.CountVotes(ctx, subject, subjectID)
}
