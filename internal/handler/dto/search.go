package dto

import (
	"github.com/webreviewer/webreviewer/internal/model"
	"github.com/webreviewer/webreviewer/internal/service"
)

// SearchPagination carries page bookkeeping for search results.
type SearchPagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalCount  int  `json:"total_count"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// SearchResponse is one page of unified search results.
type SearchResponse struct {
	Data       []service.SearchItem `json:"data"`
	Pagination *SearchPagination    `json:"pagination"`
}

// SearchPreviewResponse carries the first few hits per content type.
type SearchPreviewResponse struct {
	Posts    []service.SearchItem `json:"posts"`
	Reviews  []service.SearchItem `json:"reviews"`
	Phishing []service.SearchItem `json:"phishing"`
	Total    int                  `json:"total"`
}

// SuggestionsResponse carries autocomplete candidates.
type SuggestionsResponse struct {
	Data []string `json:"data"`
}

// UploadResponse describes a stored image.
type UploadResponse struct {
	Image *model.Image `json:"image"`
}
