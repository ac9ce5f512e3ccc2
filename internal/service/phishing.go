package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/webreviewer/webreviewer/internal/model"
	"github.com/webreviewer/webreviewer/internal/repository"
)

// Phishing service errors.
var (
	ErrReportNotFound  = errors.New("phishing report not found")
	ErrInvalidReason   = errors.New("reason is required")
	ErrInvalidStatus   = errors.New("invalid report status")
	ErrAdminOnlyStatus = errors.New("only admins can change report status")
)

// PhishingService handles phishing site reports.
type PhishingService struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewPhishingService creates a new PhishingService.
func NewPhishingService(repo *repository.Repository, logger *slog.Logger) *PhishingService {
	return &PhishingService{repo: repo, logger: logger}
}

// CreateReportInput defines input for reporting a phishing site.
type CreateReportInput struct {
	URL         string
	Reason      string
	Description *string
}

// CreateReport files a new phishing report. New reports start out pending.
func (s *PhishingService) CreateReport(ctx context.Context, actor model.AuthContext, input CreateReportInput) (*model.PhishingSite, error) {
	reportURL, err := validateURL(input.URL)
	if err != nil {
		return nil, err
	}
	reason := cleanText(input.Reason)
	if reason == "" {
		return nil, ErrInvalidReason
	}
	if input.Description != nil {
		desc := cleanText(*input.Description)
		input.Description = &desc
	}

	site := &model.PhishingSite{
		ID:          ulid.Make().String(),
		URL:         reportURL,
		Reason:      reason,
		Description: input.Description,
		Status:      model.ReportStatusPending,
		AuthorID:    actor.UserID,
		AuthorName:  actor.Username,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreatePhishingSite(ctx, site); err != nil {
		return nil, err
	}

	s.logger.Info("phishing report filed", "report_id", site.ID, "url", site.URL)
	return site, nil
}

// GetReport retrieves a report with its comments and vote counts, bumping
// the view counter.
func (s *PhishingService) GetReport(ctx context.Context, id string) (*model.PhishingSite, []*model.Comment, error) {
	site, err := s.repo.GetPhishingSiteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, nil, ErrReportNotFound
		}
		return nil, nil, err
	}

	if err := s.repo.IncrementPhishingViews(ctx, id); err != nil {
		s.logger.Warn("failed to increment report views", "report_id", id, "error", err)
	} else {
		site.ViewCount++
	}

	comments, err := s.repo.ListComments(ctx, model.SubjectPhishing, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.fillVoteCounts(ctx, site); err != nil {
		return nil, nil, err
	}

	return site, comments, nil
}

// ListReports retrieves reports, optionally filtered by status, with vote
// counts filled in.
func (s *PhishingService) ListReports(ctx context.Context, status string) ([]*model.PhishingSite, error) {
	var filter model.ReportStatus
	if status != "" {
		filter = model.ReportStatus(status)
		if !filter.IsValid() {
			return nil, ErrInvalidStatus
		}
	}

	sites, err := s.repo.ListPhishingSites(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, site := range sites {
		if err := s.fillVoteCounts(ctx, site); err != nil {
			return nil, err
		}
	}
	return sites, nil
}

// UpdateReportInput defines input for updating a report. Nil fields are
// left unchanged.
type UpdateReportInput struct {
	URL         *string
	Reason      *string
	Description *string
}

// UpdateReport modifies a report's content. Only the author or an admin
// may do so; status changes go through UpdateStatus.
func (s *PhishingService) UpdateReport(ctx context.Context, actor model.AuthContext, id string, input UpdateReportInput) (*model.PhishingSite, error) {
	site, err := s.repo.GetPhishingSiteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if site.AuthorID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	if input.URL != nil {
		reportURL, err := validateURL(*input.URL)
		if err != nil {
			return nil, err
		}
		input.URL = &reportURL
	}
	if input.Reason != nil {
		reason := cleanText(*input.Reason)
		if reason == "" {
			return nil, ErrInvalidReason
		}
		input.Reason = &reason
	}
	if input.Description != nil {
		desc := cleanText(*input.Description)
		input.Description = &desc
	}

	updated, err := s.repo.UpdatePhishingSite(ctx, id, input.URL, input.Reason, input.Description)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if err := s.fillVoteCounts(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateStatus moves a report between moderation states. Admin only.
func (s *PhishingService) UpdateStatus(ctx context.Context, actor model.AuthContext, id, status string) (*model.PhishingSite, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnlyStatus
	}
	next := model.ReportStatus(status)
	if !next.IsValid() {
		return nil, ErrInvalidStatus
	}

	site, err := s.repo.UpdatePhishingStatus(ctx, id, next)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	s.logger.Info("phishing report status changed",
		"report_id", id,
		"status", next,
		"admin_id", actor.UserID,
	)
	if err := s.fillVoteCounts(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

// DeleteReport removes a report. Only the author or an admin may do so.
func (s *PhishingService) DeleteReport(ctx context.Context, actor model.AuthContext, id string) error {
	site, err := s.repo.GetPhishingSiteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return ErrReportNotFound
		}
		return err
	}
	if site.AuthorID != actor.UserID && !actor.IsAdmin() {
		return ErrForbidden
	}

	if err := s.repo.DeletePhishingSite(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return ErrReportNotFound
		}
		return err
	}
	return nil
}

func (s *PhishingService) fillVoteCounts(ctx context.Context, site *model.PhishingSite) error {
	counts, err := s.repo.CountVotes(ctx, model.SubjectPhishing, site.ID)
	if err != nil {
		return err
	}
	site.LikeCount = counts.Likes
	site.DislikeCount = counts.Dislikes
	return nil
}
