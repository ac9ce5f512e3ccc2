package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/webreviewer/webreviewer/internal/handler/dto"
	"github.com/webreviewer/webreviewer/internal/service"
)

// SearchHandler handles unified search endpoints.
type SearchHandler struct {
	svc    *service.SearchService
	logger *slog.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{svc: svc, logger: logger}
}

// Search handles GET /api/search?q=...&page=...&limit=...&sort_by=....
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, limit := parsePagination(r)

	result, err := h.svc.Search(r.Context(), query.Get("q"), page, limit, query.Get("sort_by"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	data := result.Items
	if data == nil {
		data = []service.SearchItem{}
	}
	writeJSON(w, http.StatusOK, dto.SearchResponse{
		Data: data,
		Pagination: &dto.SearchPagination{
			Page:        result.Page,
			Limit:       result.Limit,
			TotalCount:  result.Total,
			TotalPages:  result.TotalPages,
			HasNext:     result.HasNext,
			HasPrevious: result.HasPrevious,
		},
	})
}

// Preview handles GET /api/search/preview?q=...&limit=....
func (h *SearchHandler) Preview(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))

	preview, err := h.svc.Preview(r.Context(), query.Get("q"), limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := dto.SearchPreviewResponse{
		Posts:    preview.Posts,
		Reviews:  preview.Reviews,
		Phishing: preview.Phishing,
		Total:    preview.Total,
	}
	if resp.Posts == nil {
		resp.Posts = []service.SearchItem{}
	}
	if resp.Reviews == nil {
		resp.Reviews = []service.SearchItem{}
	}
	if resp.Phishing == nil {
		resp.Phishing = []service.SearchItem{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Suggestions handles GET /api/search/suggestions?q=....
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.svc.Suggestions(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuggestionsResponse{Data: suggestions})
}

// handleServiceError maps search errors to HTTP responses.
func (h *SearchHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "EMPTY_QUERY", "q query parameter is required")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
