package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/webreviewer/webreviewer/internal/auth"
	"github.com/webreviewer/webreviewer/internal/handler/dto"
	"github.com/webreviewer/webreviewer/internal/model"
	"github.com/webreviewer/webreviewer/internal/service"
)

// MessageHandler handles private messages and user memos.
type MessageHandler struct {
	messages *service.MessageService
	memos    *service.MemoService
	logger   *slog.Logger
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages *service.MessageService, memos *service.MemoService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, memos: memos, logger: logger}
}

// Send handles POST /api/messages.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())

	var req dto.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	msg, err := h.messages.Send(r.Context(), *actor, req.ReceiverUsername, req.Subject, req.Content)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// Inbox handles GET /api/messages/inbox.
func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())
	page, limit := parsePagination(r)

	result, err := h.messages.Inbox(r.Context(), *actor, page, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	data := result.Messages
	if data == nil {
		data = []*model.PrivateMessage{}
	}
	writeJSON(w, http.StatusOK, dto.MessageListResponse{
		Data:        data,
		Pagination:  &dto.Pagination{Page: result.Page, Limit: result.Limit, Total: result.Total},
		UnreadCount: &result.Unread,
	})
}

// Sent handles GET /api/messages/sent.
func (h *MessageHandler) Sent(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())
	page, limit := parsePagination(r)

	result, err := h.messages.Sent(r.Context(), *actor, page, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	data := result.Messages
	if data == nil {
		data = []*model.PrivateMessage{}
	}
	writeJSON(w, http.StatusOK, dto.MessageListResponse{
		Data:       data,
		Pagination: &dto.Pagination{Page: result.Page, Limit: result.Limit, Total: result.Total},
	})
}

// UnreadCount handles GET /api/messages/unread-count.
func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())

	unread, err := h.messages.UnreadCount(r.Context(), *actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UnreadCountResponse{UnreadCount: unread})
}

// Get handles GET /api/messages/{id}. Opening a received message marks it
// read.
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	msg, err := h.messages.Get(r.Context(), *actor, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, msg)
}

// Delete handles DELETE /api/messages/{id}.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.messages.Delete(r.Context(), *actor, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SaveMemo handles PUT /api/memos.
func (h *MessageHandler) SaveMemo(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())

	var req dto.SaveMemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	memo, err := h.memos.Save(r.Context(), *actor, req.TargetUsername, req.Memo)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, memo)
}

// GetMemo handles GET /api/memos/{username}.
func (h *MessageHandler) GetMemo(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())
	username := chi.URLParam(r, "username")

	memo, err := h.memos.Get(r.Context(), *actor, username)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, memo)
}

// ListMemos handles GET /api/memos.
func (h *MessageHandler) ListMemos(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())

	memos, err := h.memos.List(r.Context(), *actor)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if memos == nil {
		memos = []*model.UserMemo{}
	}

	writeJSON(w, http.StatusOK, dto.MemoListResponse{Data: memos})
}

// DeleteMemo handles DELETE /api/memos/{username}.
func (h *MessageHandler) DeleteMemo(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())
	username := chi.URLParam(r, "username")

	if err := h.memos.Delete(r.Context(), *actor, username); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parsePagination reads page and limit query parameters; the service
// clamps them.
func parsePagination(r *http.Request) (page, limit int) {
	query := r.URL.Query()
	page, _ = strconv.Atoi(query.Get("page"))
	limit, _ = strconv.Atoi(query.Get("limit"))
	return page, limit
}

// handleServiceError maps message and memo errors to HTTP responses.
func (h *MessageHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMessageNotFound):
		writeError(w, http.StatusNotFound, "MESSAGE_NOT_FOUND", "Message not found")
	case errors.Is(err, service.ErrSelfMessage):
		writeError(w, http.StatusBadRequest, "SELF_MESSAGE", "Cannot message yourself")
	case errors.Is(err, service.ErrReceiverNotFound):
		writeError(w, http.StatusNotFound, "RECEIVER_NOT_FOUND", "Receiver not found")
	case errors.Is(err, service.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "INVALID_MESSAGE", "Subject and content are required")
	case errors.Is(err, service.ErrMessageTooLong):
		writeError(w, http.StatusBadRequest, "MESSAGE_TOO_LONG", "Subject is limited to 100 and content to 1000 characters")
	case errors.Is(err, service.ErrMemoNotFound):
		writeError(w, http.StatusNotFound, "MEMO_NOT_FOUND", "Memo not found")
	case errors.Is(err, service.ErrMemoTooLong):
		writeError(w, http.StatusBadRequest, "MEMO_TOO_LONG", "Memo is limited to 500 characters")
	case errors.Is(err, service.ErrSelfMemo):
		writeError(w, http.StatusBadRequest, "SELF_MEMO", "Cannot keep a memo about yourself")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
