package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/webreviewer/webreviewer/internal/model"
	"github.com/webreviewer/webreviewer/internal/repository"
)

// ErrEmptyQuery indicates a search with no query term.
var ErrEmptyQuery = errors.New("search query is required")

const (
	snippetLength       = 160
	defaultPreviewLimit = 3
	maxSuggestions      = 10
)

// Sort orders accepted by Search. Anything else falls back to newest.
const (
	SortNewest = "created_at"
	SortViews  = "view_count"
)

// SearchService handles unified search across posts, reviews, and phishing
// reports.
type SearchService struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewSearchService creates a new SearchService.
func NewSearchService(repo *repository.Repository, logger *slog.Logger) *SearchService {
	return &SearchService{repo: repo, logger: logger}
}

// SearchItem is one hit in a unified search. Type-specific fields are
// empty for the other content types.
type SearchItem struct {
	Type       model.Subject `json:"content_type"`
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Snippet    string        `json:"snippet,omitempty"`
	AuthorName string        `json:"user_name"`
	Category   string        `json:"category,omitempty"`
	Tags       []string      `json:"tags,omitempty"`
	URL        string        `json:"url,omitempty"`
	Status     string        `json:"status,omitempty"`
	ViewCount  int64         `json:"view_count"`
	CreatedAt  time.Time     `json:"created_at"`
}

// SearchPage is one page of unified search results.
type SearchPage struct {
	Items       []SearchItem
	Total       int
	TotalPages  int
	Page        int
	Limit       int
	HasNext     bool
	HasPrevious bool
}

// Search runs a unified search and returns one page of results. sortBy
// picks the order; unknown values sort newest first.
func (s *SearchService) Search(ctx context.Context, term string, page, limit int, sortBy string) (*SearchPage, error) {
	items, err := s.collect(ctx, term)
	if err != nil {
		return nil, err
	}

	if sortBy == SortViews {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].ViewCount > items[j].ViewCount
		})
	}

	page, limit = normalizePage(page, limit)
	total := len(items)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &SearchPage{
		Items:       items[start:end],
		Total:       total,
		TotalPages:  totalPages,
		Page:        page,
		Limit:       limit,
		HasNext:     page < totalPages,
		HasPrevious: page > 1 && total > 0,
	}, nil
}

// Preview holds the first few hits per content type, for search-as-you-type.
type Preview struct {
	Posts    []SearchItem
	Reviews  []SearchItem
	Phishing []SearchItem
	Total    int
}

// Preview returns up to limit hits per content type.
func (s *SearchService) Preview(ctx context.Context, term string, limit int) (*Preview, error) {
	if limit <= 0 {
		limit = defaultPreviewLimit
	}

	items, err := s.collect(ctx, term)
	if err != nil {
		return nil, err
	}

	preview := &Preview{Total: len(items)}
	for _, item := range items {
		switch item.Type {
		case model.SubjectPost:
			if len(preview.Posts) < limit {
				preview.Posts = append(preview.Posts, item)
			}
		case model.SubjectReview:
			if len(preview.Reviews) < limit {
				preview.Reviews = append(preview.Reviews, item)
			}
		case model.SubjectPhishing:
			if len(preview.Phishing) < limit {
				preview.Phishing = append(preview.Phishing, item)
			}
		}
	}
	return preview, nil
}

// Suggestions returns autocomplete candidates for a prefix.
func (s *SearchService) Suggestions(ctx context.Context, prefix string) ([]string, error) {
	prefix = cleanText(prefix)
	if prefix == "" {
		return []string{}, nil
	}

	suggestions, err := s.repo.SuggestTerms(ctx, prefix, maxSuggestions)
	if err != nil {
		return nil, err
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return suggestions, nil
}

// collect runs the per-type searches and merges the hits newest first.
func (s *SearchService) collect(ctx context.Context, term string) ([]SearchItem, error) {
	term = cleanText(term)
	if term == "" {
		return nil, ErrEmptyQuery
	}

	posts, err := s.repo.SearchPosts(ctx, term)
	if err != nil {
		return nil, err
	}
	reviews, err := s.repo.SearchReviews(ctx, term)
	if err != nil {
		return nil, err
	}
	sites, err := s.repo.SearchPhishingSites(ctx, term)
	if err != nil {
		return nil, err
	}

	items := make([]SearchItem, 0, len(posts)+len(reviews)+len(sites))
	for _, p := range posts {
		items = append(items, SearchItem{
			Type:       model.SubjectPost,
			ID:         p.ID,
			Title:      p.Title,
			AuthorName: p.AuthorName,
			Category:   p.Category,
			Tags:       p.Tags,
			ViewCount:  p.ViewCount,
			CreatedAt:  p.CreatedAt,
		})
	}
	for _, r := range reviews {
		items = append(items, SearchItem{
			Type:       model.SubjectReview,
			ID:         r.ID,
			Title:      r.SiteName,
			Snippet:    snippet(r.Summary),
			AuthorName: r.AuthorName,
			URL:        r.URL,
			ViewCount:  r.ViewCount,
			CreatedAt:  r.CreatedAt,
		})
	}
	for _, p := range sites {
		items = append(items, SearchItem{
			Type:       model.SubjectPhishing,
			ID:         p.ID,
			Title:      p.URL,
			Snippet:    snippet(p.Reason),
			AuthorName: p.AuthorName,
			URL:        p.URL,
			Status:     string(p.Status),
			ViewCount:  p.ViewCount,
			CreatedAt:  p.CreatedAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// snippet truncates text for a result preview on a rune boundary.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetLength {
		return text
	}
	return string(runes[:snippetLength]) + "…"
}
