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

// PostHandler handles HTTP requests for board posts.
type PostHandler struct {
	svc    *service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(svc *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{svc: svc, logger: logger}
}

// Create handles POST /posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())

	var req dto.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	post, err := h.svc.CreatePost(r.Context(), *actor, service.CreatePostInput{
		Title:    req.Title,
		Category: req.Category,
		Content:  req.Content,
		Tags:     req.Tags,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("post_created", "post_id", post.ID, "user_id", actor.UserID)
	writeJSON(w, http.StatusCreated, post)
}

// Get handles GET /posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, comments, err := h.svc.GetPost(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PostDetailResponse{Post: post, Comments: comments})
}

// List handles GET /posts with optional category and tag filters.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	posts, err := h.svc.ListPosts(r.Context(), query.Get("category"), query.Get("tag"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PostListResponse{Data: posts})
}

// Update handles PATCH /posts/{id}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	post, err := h.svc.UpdatePost(r.Context(), *actor, id, service.UpdatePostInput{
		Title:    req.Title,
		Category: req.Category,
		Content:  req.Content,
		Tags:     req.Tags,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.DeletePost(r.Context(), *actor, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("post_deleted", "post_id", id, "user_id", actor.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// Categories handles GET /posts/categories.
func (h *PostHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, dto.StringListResponse{Data: categories})
}

// Tags handles GET /posts/tags.
func (h *PostHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Tags(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, dto.StringListResponse{Data: tags})
}

// handleServiceError maps post service errors to HTTP responses.
func (h *PostHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "POST_NOT_FOUND", "Post not found")
	case errors.Is(err, service.ErrInvalidTitle):
		writeError(w, http.StatusBadRequest, "INVALID_TITLE", "Title is required and limited to 200 characters")
	case errors.Is(err, service.ErrInvalidContent):
		writeError(w, http.StatusBadRequest, "INVALID_CONTENT", "Content is required")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the author or an admin can do this")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
