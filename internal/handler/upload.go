package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/webreviewer/webreviewer/internal/auth"
	"github.com/webreviewer/webreviewer/internal/handler/dto"
	"github.com/webreviewer/webreviewer/internal/upload"
)

// UploadHandler handles image uploads.
type UploadHandler struct {
	store   *upload.Store
	maxSize int64
	logger  *slog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(store *upload.Store, maxSize int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{store: store, maxSize: maxSize, logger: logger}
}

// Upload handles POST /upload/image with a multipart "file" field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())

	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_MULTIPART", "Expected a multipart form with a file field")
		return
	}

	_, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}

	img, err := h.store.Save(r.Context(), actor.UserID, header)
	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.UploadResponse{Image: img})
}

// handleStoreError maps upload errors to HTTP responses.
func (h *UploadHandler) handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, upload.ErrUnsupportedType):
		writeError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_TYPE", "Only png, jpg, jpeg, gif, and webp files are accepted")
	case errors.Is(err, upload.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds the maximum size")
	case errors.Is(err, upload.ErrEmptyFile):
		writeError(w, http.StatusBadRequest, "EMPTY_FILE", "Uploaded file is empty")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
