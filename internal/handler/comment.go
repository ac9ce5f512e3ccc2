package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/webreviewer/webreviewer/internal/auth"
	"github.com/webreviewer/webreviewer/internal/handler/dto"
	"github.com/webreviewer/webreviewer/internal/model"
	"github.com/webreviewer/webreviewer/internal/service"
)

// CommentHandler handles comments and votes on posts, reviews, and
// phishing reports. Each route binds the handler to one content type.
type CommentHandler struct {
	comments *service.CommentService
	votes    *service.VoteService
	logger   *slog.Logger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(comments *service.CommentService, votes *service.VoteService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, votes: votes, logger: logger}
}

// Add returns a handler for POST .../{id}/comments on the given content
// type.
func (h *CommentHandler) Add(subject model.Subject) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := auth.MustFromContext(r.Context())
		subjectID := chi.URLParam(r, "id")

		var req dto.CreateCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
			return
		}

		comment, err := h.comments.AddComment(r.Context(), *actor, subject, subjectID, req.Content, req.Rating)
		if err != nil {
			h.handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, comment)
	}
}

// List returns a handler for GET .../{id}/comments on the given content
// type.
func (h *CommentHandler) List(subject model.Subject) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjectID := chi.URLParam(r, "id")

		comments, err := h.comments.ListComments(r.Context(), subject, subjectID)
		if err != nil {
			h.handleServiceError(w, err)
			return
		}
		if comments == nil {
			comments = []*model.Comment{}
		}

		writeJSON(w, http.StatusOK, dto.CommentListResponse{Data: comments})
	}
}

// Delete returns a handler for DELETE .../comments/{commentID} on the
// given content type.
func (h *CommentHandler) Delete(subject model.Subject) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := auth.MustFromContext(r.Context())
		commentID := chi.URLParam(r, "commentID")

		if err := h.comments.DeleteComment(r.Context(), *actor, subject, commentID); err != nil {
			h.handleServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// Vote returns a handler for POST .../{id}/vote on the given content type.
// Repeating a vote removes it; the opposite vote switches it.
func (h *CommentHandler) Vote(subject model.Subject) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := auth.MustFromContext(r.Context())
		subjectID := chi.URLParam(r, "id")

		var req dto.VoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
			return
		}

		result, err := h.votes.Toggle(r.Context(), *actor, subject, subjectID, req.Value)
		if err != nil {
			h.handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, dto.VoteResponse{
			LikeCount:    result.Counts.Likes,
			DislikeCount: result.Counts.Dislikes,
			UserVote:     result.UserVote,
		})
	}
}

// handleServiceError maps comment and vote errors to HTTP responses.
func (h *CommentHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		writeError(w, http.StatusNotFound, "CONTENT_NOT_FOUND", "Content not found")
	case errors.Is(err, service.ErrCommentNotFound):
		writeError(w, http.StatusNotFound, "COMMENT_NOT_FOUND", "Comment not found")
	case errors.Is(err, service.ErrEmptyComment):
		writeError(w, http.StatusBadRequest, "INVALID_COMMENT", "Comment content is required and limited to 2000 characters")
	case errors.Is(err, service.ErrRatingNotAllowed):
		writeError(w, http.StatusBadRequest, "RATING_NOT_ALLOWED", "Only review comments can carry a rating")
	case errors.Is(err, service.ErrInvalidRating):
		writeError(w, http.StatusBadRequest, "INVALID_RATING", "Rating must be between 0 and 5")
	case errors.Is(err, service.ErrInvalidVote):
		writeError(w, http.StatusBadRequest, "INVALID_VOTE", "Vote value must be 1 or -1")
	case errors.Is(err, service.ErrUnknownSubject):
		writeError(w, http.StatusBadRequest, "INVALID_CONTENT_TYPE", "Unknown content type")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the author or an admin can do this")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
