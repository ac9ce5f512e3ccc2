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

// PhishingHandler handles HTTP requests for phishing reports.
type PhishingHandler struct {
	svc    *service.PhishingService
	logger *slog.Logger
}

// NewPhishingHandler creates a new PhishingHandler.
func NewPhishingHandler(svc *service.PhishingService, logger *slog.Logger) *PhishingHandler {
	return &PhishingHandler{svc: svc, logger: logger}
}

// Create handles POST /api/phishing-sites.
func (h *PhishingHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())

	var req dto.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	site, err := h.svc.CreateReport(r.Context(), *actor, service.CreateReportInput{
		URL:         req.URL,
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, site)
}

// Get handles GET /api/phishing-sites/{id}.
func (h *PhishingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	site, comments, err := h.svc.GetReport(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportDetailResponse{Report: site, Comments: comments})
}

// List handles GET /api/phishing-sites with an optional status filter.
func (h *PhishingHandler) List(w http.ResponseWriter, r *http.Request) {
	sites, err := h.svc.ListReports(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportListResponse{Data: sites})
}

// Update handles PATCH /api/phishing-sites/{id}.
func (h *PhishingHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.UpdateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	site, err := h.svc.UpdateReport(r.Context(), *actor, id, service.UpdateReportInput{
		URL:         req.URL,
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, site)
}

// UpdateStatus handles PUT /api/phishing-sites/{id}/status. Admin only.
func (h *PhishingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	site, err := h.svc.UpdateStatus(r.Context(), *actor, id, req.Status)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, site)
}

// Delete handles DELETE /api/phishing-sites/{id}.
func (h *PhishingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := auth.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteReport(r.Context(), *actor, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("report_deleted", "report_id", id, "user_id", actor.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps phishing service errors to HTTP responses.
func (h *PhishingHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrReportNotFound):
		writeError(w, http.StatusNotFound, "REPORT_NOT_FOUND", "Phishing report not found")
	case errors.Is(err, service.ErrInvalidURL):
		writeError(w, http.StatusBadRequest, "INVALID_URL", "A valid http(s) URL is required")
	case errors.Is(err, service.ErrInvalidReason):
		writeError(w, http.StatusBadRequest, "INVALID_REASON", "Reason is required")
	case errors.Is(err, service.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "INVALID_STATUS", "Status must be pending, confirmed, or dismissed")
	case errors.Is(err, service.ErrAdminOnlyStatus):
		writeError(w, http.StatusForbidden, "ADMIN_ONLY", "Only admins can change report status")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the author or an admin can do this")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
