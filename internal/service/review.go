package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/webreviewer/webreviewer/internal/model"
	"github.com/webreviewer/webreviewer/internal/repository"
)

// Review service errors.
var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrReviewURLExists = errors.New("a review for this URL already exists")
	ErrInvalidURL      = errors.New("invalid URL")
	ErrInvalidRating   = errors.New("rating must be between 0 and 5")
	ErrInvalidSiteName = errors.New("site name is required")
)

// ReviewService handles website reviews.
type ReviewService struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(repo *repository.Repository, logger *slog.Logger) *ReviewService {
	return &ReviewService{repo: repo, logger: logger}
}

// CreateReviewInput defines input for creating a review.
type CreateReviewInput struct {
	SiteName string
	URL      string
	Summary  string
	Rating   *float64
	Pros     string
	Cons     string
}

// CreateReview creates a review. Each URL can only be reviewed once.
func (s *ReviewService) CreateReview(ctx context.Context, actor model.AuthContext, input CreateReviewInput) (*model.Review, error) {
	siteName := cleanText(input.SiteName)
	if siteName == "" {
		return nil, ErrInvalidSiteName
	}
	reviewURL, err := validateURL(input.URL)
	if err != nil {
		return nil, err
	}
	if input.Rating != nil && (*input.Rating < 0 || *input.Rating > 5) {
		return nil, ErrInvalidRating
	}

	exists, err := s.repo.ReviewURLExists(ctx, reviewURL)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrReviewURLExists
	}

	review := &model.Review{
		ID:         ulid.Make().String(),
		SiteName:   siteName,
		URL:        reviewURL,
		Summary:    cleanText(input.Summary),
		Rating:     input.Rating,
		Pros:       cleanText(input.Pros),
		Cons:       cleanText(input.Cons),
		AuthorID:   actor.UserID,
		AuthorName: actor.Username,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.CreateReview(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewURLExists) {
			return nil, ErrReviewURLExists
		}
		return nil, err
	}
	return review, nil
}

// GetReview retrieves a review with its comments, vote counts, and average
// rating, bumping the view counter.
func (s *ReviewService) GetReview(ctx context.Context, id string) (*model.Review, []*model.Comment, *float64, error) {
	review, err := s.repo.GetReviewByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, nil, nil, ErrReviewNotFound
		}
		return nil, nil, nil, err
	}

	if err := s.repo.IncrementReviewViews(ctx, id); err != nil {
		s.logger.Warn("failed to increment review views", "review_id", id, "error", err)
	} else {
		review.ViewCount++
	}

	comments, err := s.repo.ListComments(ctx, model.SubjectReview, id)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := s.fillVoteCounts(ctx, review); err != nil {
		return nil, nil, nil, err
	}

	return review, comments, review.AverageRating(comments), nil
}

// ListReviews retrieves all reviews with vote counts and average ratings.
// The returned averages are index-aligned with the reviews.
func (s *ReviewService) ListReviews(ctx context.Context) ([]*model.Review, []*float64, error) {
	reviews, err := s.repo.ListReviews(ctx)
	if err != nil {
		return nil, nil, err
	}

	averages := make([]*float64, len(reviews))
	for i, review := range reviews {
		if err := s.fillVoteCounts(ctx, review); err != nil {
			return nil, nil, err
		}
		comments, err := s.repo.ListComments(ctx, model.SubjectReview, review.ID)
		if err != nil {
			return nil, nil, err
		}
		averages[i] = review.AverageRating(comments)
	}
	return reviews, averages, nil
}

// UpdateReviewInput defines input for updating a review. Nil fields are
// left unchanged.
type UpdateReviewInput struct {
	SiteName *string
	URL      *string
	Summary  *string
	Rating   *float64
	Pros     *string
	Cons     *string
}

// UpdateReview modifies a review. Only the author or an admin may do so.
// The returned average reflects the updated rating.
func (s *ReviewService) UpdateReview(ctx context.Context, actor model.AuthContext, id string, input UpdateReviewInput) (*model.Review, *float64, error) {
	review, err := s.repo.GetReviewByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, nil, ErrReviewNotFound
		}
		return nil, nil, err
	}
	if review.AuthorID != actor.UserID && !actor.IsAdmin() {
		return nil, nil, ErrForbidden
	}

	if input.SiteName != nil {
		siteName := cleanText(*input.SiteName)
		if siteName == "" {
			return nil, nil, ErrInvalidSiteName
		}
		input.SiteName = &siteName
	}
	if input.URL != nil {
		reviewURL, err := validateURL(*input.URL)
		if err != nil {
			return nil, nil, err
		}
		input.URL = &reviewURL
	}
	if input.Rating != nil && (*input.Rating < 0 || *input.Rating > 5) {
		return nil, nil, ErrInvalidRating
	}
	if input.Summary != nil {
		summary := cleanText(*input.Summary)
		input.Summary = &summary
	}
	if input.Pros != nil {
		pros := cleanText(*input.Pros)
		input.Pros = &pros
	}
	if input.Cons != nil {
		cons := cleanText(*input.Cons)
		input.Cons = &cons
	}

	updated, err := s.repo.UpdateReview(ctx, id, input.SiteName, input.URL, input.Summary, input.Pros, input.Cons, input.Rating)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReviewNotFound):
			return nil, nil, ErrReviewNotFound
		case errors.Is(err, repository.ErrReviewURLExists):
			return nil, nil, ErrReviewURLExists
		}
		return nil, nil, err
	}
	if err := s.fillVoteCounts(ctx, updated); err != nil {
		return nil, nil, err
	}

	comments, err := s.repo.ListComments(ctx, model.SubjectReview, id)
	if err != nil {
		return nil, nil, err
	}
	return updated, updated.AverageRating(comments), nil
}

// DeleteReview removes a review. Only the author or an admin may do so.
func (s *ReviewService) DeleteReview(ctx context.Context, actor model.AuthContext, id string) error {
	review, err := s.repo.GetReviewByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if review.AuthorID != actor.UserID && !actor.IsAdmin() {
		return ErrForbidden
	}

	if err := s.repo.DeleteReview(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *ReviewService) fillVoteCounts(ctx context.Context, review *model.Review) error {
	counts, err := s.repo.CountVotes(ctx, model.SubjectReview, review.ID)
	if err != nil {
		return err
	}
	review.LikeCount = counts.Likes
	review.DislikeCount = counts.Dislikes
	return nil
}

// validateURL checks for an absolute http(s) URL and returns it with
// surrounding whitespace removed.
func validateURL(raw string) (string, error) {
	raw = cleanText(raw)
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidURL
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", ErrInvalidURL
	}
	return raw, nil
}
