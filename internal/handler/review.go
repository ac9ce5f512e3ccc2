package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/webreviewer/webreviewer/internal/auth"
	"github.com/webreviewer/webreviewer/internal/handler/dto"
	"github.com/webreviewer/webreviewer/internal/service"
)

// ReviewHandler handles HTTP requests for website reviews.
type ReviewHandler struct {
	svc    *service.ReviewService
	logger *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, logger: logger}
}

// Create handles POST /api/reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())

	var req dto.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	review, err := h.svc.CreateReview(r.Context(), *actor, service.CreateReviewInput{
		SiteName: req.SiteName,
		URL:      req.URL,
		Summary:  req.Summary,
		Rating:   req.Rating,
		Pros:     req.Pros,
		Cons:     req.Cons,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("review_created", "review_id", review.ID, "user_id", actor.UserID)
	writeJSON(w, http.StatusCreated, dto.ToReviewResponse(review, review.AverageRating(nil)))
}

// Get handles GET /api/reviews/{id}.
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	review, comments, average, err := h.svc.GetReview(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReviewDetailResponse{
		Review:   dto.ToReviewResponse(review, average),
		Comments: comments,
	})
}

// List handles GET /api/reviews.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, averages, err := h.svc.ListReviews(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	data := make([]*dto.ReviewResponse, len(reviews))
	for i, review := range reviews {
		data[i] = dto.ToReviewResponse(review, averages[i])
	}
	writeJSON(w, http.StatusOK, dto.ReviewListResponse{Data: data})
}

// Update handles PATCH /api/reviews/{id}.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	review, average, err := h.svc.UpdateReview(r.Context(), *actor, id, service.UpdateReviewInput{
		SiteName: req.SiteName,
		URL:      req.URL,
		Summary:  req.Summary,
		Rating:   req.Rating,
		Pros:     req.Pros,
		Cons:     req.Cons,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToReviewResponse(review, average))
}

// Delete handles DELETE /api/reviews/{id}.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteReview(r.Context(), *actor, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("review_deleted", "review_id", id, "user_id", actor.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps review service errors to HTTP responses.
func (h *ReviewHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrReviewNotFound):
		writeError(w, http.StatusNotFound, "REVIEW_NOT_FOUND", "Review not found")
	case errors.Is(err, service.ErrReviewURLExists):
		writeError(w, http.StatusConflict, "REVIEW_URL_EXISTS", "A review for this URL already exists")
	case errors.Is(err, service.ErrInvalidURL):
		writeError(w, http.StatusBadRequest, "INVALID_URL", "A valid http(s) URL is required")
	case errors.Is(err, service.ErrInvalidRating):
		writeError(w, http.StatusBadRequest, "INVALID_RATING", "Rating must be between 0 and 5")
	case errors.Is(err, service.ErrInvalidSiteName):
		writeError(w, http.StatusBadRequest, "INVALID_SITE_NAME", "Site name is required")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the author or an admin can do this")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
