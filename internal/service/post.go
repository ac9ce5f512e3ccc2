package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/webreviewer/webreviewer/internal/model"
	"github.com/webreviewer/webreviewer/internal/repository"
)

// Content service errors shared across posts, reviews, and reports.
var (
	ErrForbidden      = errors.New("not allowed")
	ErrPostNotFound   = errors.New("post not found")
	ErrInvalidTitle   = errors.New("title is required")
	ErrInvalidContent = errors.New("content is required")
)

// legacyCategories maps category names from the old board UI to their
// canonical slugs.
var legacyCategories = map[string]string{
	"자유게시판": "free",
}

const (
	defaultCategory = "free"
	maxTitleLength  = 200
	maxTags         = 10
)

// PostService handles community board posts.
type PostService struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewPostService creates a new PostService.
func NewPostService(repo *repository.Repository, logger *slog.Logger) *PostService {
	return &PostService{repo: repo, logger: logger}
}

// CreatePostInput defines input for creating a post.
type CreatePostInput struct {
	Title    string
	Category string
	Content  json.RawMessage
	Tags     []string
}

// CreatePost creates a new post authored by the actor.
func (s *PostService) CreatePost(ctx context.Context, actor model.AuthContext, input CreatePostInput) (*model.Post, error) {
	title := cleanText(input.Title)
	if title == "" || len(title) > maxTitleLength {
		return nil, ErrInvalidTitle
	}
	if len(input.Content) == 0 {
		return nil, ErrInvalidContent
	}

	now := time.Now().UTC()
	post := &model.Post{
		ID:         ulid.Make().String(),
		Title:      title,
		Category:   normalizeCategory(input.Category),
		Content:    input.Content,
		Tags:       normalizeTags(input.Tags),
		AuthorID:   actor.UserID,
		AuthorName: actor.Username,
		CreatedAt:  now,
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost retrieves a post with its comments and vote counts, bumping the
// view counter.
func (s *PostService) GetPost(ctx context.Context, id string) (*model.Post, []*model.Comment, error) {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, nil, ErrPostNotFound
		}
		return nil, nil, err
	}

	if err := s.repo.IncrementPostViews(ctx, id); err != nil {
		s.logger.Warn("failed to increment post views", "post_id", id, "error", err)
	} else {
		post.ViewCount++
	}

	comments, err := s.repo.ListComments(ctx, model.SubjectPost, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.fillVoteCounts(ctx, post); err != nil {
		return nil, nil, err
	}

	return post, comments, nil
}

// ListPosts retrieves posts, optionally filtered by category or tag, with
// vote counts filled in.
func (s *PostService) ListPosts(ctx context.Context, category, tag string) ([]*model.Post, error) {
	filter := repository.PostFilter{
		Category: normalizeFilterCategory(category),
		Tag:      tag,
	}
	posts, err := s.repo.ListPosts(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		if err := s.fillVoteCounts(ctx, post); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// UpdatePostInput defines input for updating a post. Nil fields are left
// unchanged.
type UpdatePostInput struct {
	Title    *string
	Category *string
	Content  json.RawMessage
	Tags     []string
}

// UpdatePost modifies a post. Only the author or an admin may do so.
func (s *PostService) UpdatePost(ctx context.Context, actor model.AuthContext, id string, input UpdatePostInput) (*model.Post, error) {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.AuthorID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	if input.Title != nil {
		title := cleanText(*input.Title)
		if title == "" || len(title) > maxTitleLength {
			return nil, ErrInvalidTitle
		}
		input.Title = &title
	}
	if input.Category != nil {
		category := normalizeCategory(*input.Category)
		input.Category = &category
	}
	if input.Tags != nil {
		input.Tags = normalizeTags(input.Tags)
	}

	updated, err := s.repo.UpdatePost(ctx, id, input.Title, input.Category, input.Content, input.Tags)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if err := s.fillVoteCounts(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePost removes a post. Only the author or an admin may do so.
func (s *PostService) DeletePost(ctx context.Context, actor model.AuthContext, id string) error {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.AuthorID != actor.UserID && !actor.IsAdmin() {
		return ErrForbidden
	}

	if err := s.repo.DeletePost(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}

// Categories returns the distinct post categories in use.
func (s *PostService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

// Tags returns the distinct tag names in use.
func (s *PostService) Tags(ctx context.Context) ([]string, error) {
	return s.repo.ListTags(ctx)
}

func (s *PostService) fillVoteCounts(ctx context.Context, post *model.Post) error {
	counts, err := s.repo.CountVotes(ctx, model.SubjectPost, post.ID)
	if err != nil {
		return err
	}
	post.LikeCount = counts.Likes
	post.DislikeCount = counts.Dislikes
	return nil
}

// normalizeCategory maps legacy category names and falls back to the
// default category.
func normalizeCategory(category string) string {
	category = cleanText(category)
	if canonical, ok := legacyCategories[category]; ok {
		return canonical
	}
	if category == "" {
		return defaultCategory
	}
	return category
}

// normalizeFilterCategory maps legacy names but keeps an empty filter empty.
func normalizeFilterCategory(category string) string {
	if category == "" {
		return ""
	}
	return normalizeCategory(category)
}

// normalizeTags cleans, dedupes, and caps the tag list.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = cleanText(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
		if len(out) == maxTags {
			break
		}
	}
	return out
}
