package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/webreviewer/webreviewer/internal/model"
	"github.com/webreviewer/webreviewer/internal/repository"
)

// Memo service errors.
var (
	ErrMemoNotFound = errors.New("memo not found")
	ErrMemoTooLong  = errors.New("memo exceeds the maximum length")
	ErrSelfMemo     = errors.New("cannot keep a memo about yourself")
)

const maxMemoLength = 500

// MemoService handles private per-user notes about other users.
type MemoService struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewMemoService creates a new MemoService.
func NewMemoService(repo *repository.Repository, logger *slog.Logger) *MemoService {
	return &MemoService{repo: repo, logger: logger}
}

// Save creates or replaces the actor's memo about the named user.
func (s *MemoService) Save(ctx context.Context, actor model.AuthContext, targetUsername, memoText string) (*model.UserMemo, error) {
	memoText = cleanText(memoText)
	if len(memoText) > maxMemoLength {
		return nil, ErrMemoTooLong
	}

	target, err := s.repo.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !target.EmailVerified {
		return nil, ErrUserNotFound
	}
	if target.ID == actor.UserID {
		return nil, ErrSelfMemo
	}

	now := time.Now().UTC()
	memo := &model.UserMemo{
		ID:         ulid.Make().String(),
		OwnerID:    actor.UserID,
		TargetID:   target.ID,
		TargetName: target.Username,
		Memo:       memoText,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.UpsertMemo(ctx, memo); err != nil {
		return nil, err
	}

	// The upsert may have kept an earlier row; re-read for the stored state.
	return s.repo.GetMemo(ctx, actor.UserID, target.ID)
}

// Get retrieves the actor's memo about the named user.
func (s *MemoService) Get(ctx context.Context, actor model.AuthContext, targetUsername string) (*model.UserMemo, error) {
	target, err := s.repo.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	memo, err := s.repo.GetMemo(ctx, actor.UserID, target.ID)
	if err != nil {
		if errors.Is(err, repository.ErrMemoNotFound) {
			return nil, ErrMemoNotFound
		}
		return nil, err
	}
	return memo, nil
}

// List retrieves all of the actor's memos, most recently updated first.
func (s *MemoService) List(ctx context.Context, actor model.AuthContext) ([]*model.UserMemo, error) {
	return s.repo.ListMemos(ctx, actor.UserID)
}

// Delete removes the actor's memo about the named user.
func (s *MemoService) Delete(ctx context.Context, actor model.AuthContext, targetUsername string) error {
	target, err := s.repo.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.repo.DeleteMemo(ctx, actor.UserID, target.ID); err != nil {
		if errors.Is(err, repository.ErrMemoNotFound) {
			return ErrMemoNotFound
		}
		return err
	}
	return nil
}
