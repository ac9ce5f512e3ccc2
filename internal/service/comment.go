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

// Comment service errors.
var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrEmptyComment     = errors.New("comment content is required")
	ErrRatingNotAllowed = errors.New("only review comments can carry a rating")
	ErrUnknownSubject   = errors.New("unknown content type")
	ErrSubjectNotFound  = errors.New("content not found")
)

const maxCommentLength = 2000

// CommentService handles comments on posts, reviews, and phishing reports.
type CommentService struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewCommentService creates a new CommentService.
func NewCommentService(repo *repository.Repository, logger *slog.Logger) *CommentService {
	return &CommentService{repo: repo, logger: logger}
}

// AddComment attaches a comment to a piece of content. A rating is only
// accepted on review comments.
func (s *CommentService) AddComment(ctx context.Context, actor model.AuthContext, subject model.Subject, subjectID, content string, rating *float64) (*model.Comment, error) {
	if !subject.IsValid() {
		return nil, ErrUnknownSubject
	}
	text := cleanText(content)
	if text == "" || len(text) > maxCommentLength {
		return nil, ErrEmptyComment
	}
	if rating != nil {
		if subject != model.SubjectReview {
			return nil, ErrRatingNotAllowed
		}
		if *rating < 0 || *rating > 5 {
			return nil, ErrInvalidRating
		}
	}

	if err := subjectExists(ctx, s.repo, subject, subjectID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:         ulid.Make().String(),
		Subject:    subject,
		SubjectID:  subjectID,
		AuthorID:   actor.UserID,
		AuthorName: actor.Username,
		Content:    text,
		Rating:     rating,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments retrieves a subject's comments oldest first.
func (s *CommentService) ListComments(ctx context.Context, subject model.Subject, subjectID string) ([]*model.Comment, error) {
	if !subject.IsValid() {
		return nil, ErrUnknownSubject
	}
	if err := subjectExists(ctx, s.repo, subject, subjectID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, subject, subjectID)
}

// DeleteComment removes a comment. Only the author or an admin may do so.
func (s *CommentService) DeleteComment(ctx context.Context, actor model.AuthContext, subject model.Subject, id string) error {
	if !subject.IsValid() {
		return ErrUnknownSubject
	}

	comment, err := s.repo.GetCommentByID(ctx, subject, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.AuthorID != actor.UserID && !actor.IsAdmin() {
		return ErrForbidden
	}

	if err := s.repo.DeleteComment(ctx, subject, id); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}

// subjectExists checks that the content a comment or vote targets exists.
func subjectExists(ctx context.Context, repo *repository.Repository, subject model.Subject, subjectID string) error {
	var err error
	switch subject {
	case model.SubjectPost:
		_, err = repo.GetPostByID(ctx, subjectID)
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrSubjectNotFound
		}
	case model.SubjectReview:
		_, err = repo.GetReviewByID(ctx, subjectID)
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrSubjectNotFound
		}
	case model.SubjectPhishing:
		_, err = repo.GetPhishingSiteByID(ctx, subjectID)
		if errors.Is(err, repository.ErrReportNotFound) {
			return ErrSubjectNotFound
		}
	default:
		return ErrUnknownSubject
	}
	return err
}
