package dto

import (
	"github.com/webreviewer/webreviewer/internal/model"
)

// CreateReportRequest represents the request body for a phishing report.
type CreateReportRequest struct {
	URL         string  `json:"url"`
	Reason      string  `json:"reason"`
	Description *string `json:"description,omitempty"`
}

// UpdateReportRequest represents a report update. Omitted fields are left
// unchanged.
type UpdateReportRequest struct {
	URL         *string `json:"url,omitempty"`
	Reason      *string `json:"reason,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateStatusRequest moves a report between moderation states.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ReportDetailResponse is a report together with its comments.
type ReportDetailResponse struct {
	Report   *model.PhishingSite `json:"report"`
	Comments []*model.Comment    `json:"comments"`
}

// ReportListResponse is the list endpoint payload.
type ReportListResponse struct {
	Data []*model.PhishingSite `json:"data"`
}
