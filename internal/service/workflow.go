package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ratewise/ratewise/internal/apperrors"
	"github.com/ratewise/ratewise/internal/models"
	"github.com/ratewise/ratewise/internal/rate"
	"github.com/ratewise/ratewise/internal/report"
	"github.com/ratewise/ratewise/internal/repository"
)

// Timesheet workflow
func (s *DefaultService) CreateTimesheet(ctx context.Context, userID string, req models.CreateTimesheetRequest) (*models.Timesheet, error) {
	ws, err := parseWeekStart(req.WeekStart)
	if err != nil {
		return nil, err
	}

	if _, err := s.getProject(ctx, req.ProjectID, userID); err != nil {
		return nil, err
	}

	ts := &models.Timesheet{
		ProjectID: req.ProjectID,
		WeekStart: ws,
		Status:    models.TimesheetDraft,
	}

	if err := s.repo.CreateTimesheet(ctx, ts); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.InvalidState("a timesheet already exists for this project week")
		}
		return nil, apperrors.Internal(fmt.Errorf("creating timesheet: %w", err))
	}
	return ts, nil
}

// SubmitTimesheet moves a draft to submitted, freezing the week's time
// entries. Not-found and wrong-state both report INVALID_STATE: either way
// the timesheet cannot be submitted now.
func (s *DefaultService) SubmitTimesheet(ctx context.Context, userID, timesheetID string, req models.SubmitTimesheetRequest) (*models.Timesheet, error) {
	ts, err := s.repo.SubmitTimesheet(ctx, timesheetID, userID, req.ReviewerEmail)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("submitting timesheet: %w", err))
	}
	if ts == nil {
		return nil, apperrors.InvalidState("timesheet cannot be submitted")
	}
	return ts, nil
}

// ReviewTimesheet records an external reviewer's decision. The share token
// is the reviewer's only credential.
func (s *DefaultService) ReviewTimesheet(ctx context.Context, token string, req models.ReviewTimesheetRequest) (*models.Timesheet, error) {
	link, err := s.resolveLink(ctx, token)
	if err != nil {
		return nil, err
	}
	if link.TargetType != models.ShareTargetTimesheet {
		return nil, apperrors.NotFound("share link not found")
	}

	decision := models.TimesheetStatus(req.Decision)
	if !models.TimesheetSubmitted.CanTransitionTo(decision) {
		return nil, apperrors.Validation("decision must be approved or rejected")
	}

	ts, err := s.repo.ReviewTimesheet(ctx, link.TargetID, decision, req.Note)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("reviewing timesheet: %w", err))
	}
	if ts != nil {
		return ts, nil
	}

	existing, err := s.repo.GetTimesheetByID(ctx, link.TargetID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("getting timesheet: %w", err))
	}
	if existing == nil {
		return nil, apperrors.NotFound("timesheet not found")
	}
	return nil, apperrors.InvalidState(fmt.Sprintf("timesheet is %s, only submitted timesheets can be reviewed", existing.Status))
}

// Share link gate
func (s *DefaultService) CreateShareLink(ctx context.Context, userID string, req models.CreateShareLinkRequest) (*models.ShareLinkResponse, error) {
	targetType := models.ShareTargetType(req.TargetType)
	if !targetType.Valid() {
		return nil, apperrors.Validation("targetType must be report or timesheet")
	}

	// Ownership-filtered target lookup; foreign targets read as absent.
	switch targetType {
	case models.ShareTargetReport:
		rpt, err := s.repo.GetWeeklyReportForOwner(ctx, req.TargetID, userID)
		if err != nil {
			return nil, apperrors.Internal(fmt.Errorf("getting report: %w", err))
		}
		if rpt == nil {
			return nil, apperrors.NotFound("report not found")
		}
	case models.ShareTargetTimesheet:
		ts, err := s.repo.GetTimesheetForOwner(ctx, req.TargetID, userID)
		if err != nil {
			return nil, apperrors.Internal(fmt.Errorf("getting timesheet: %w", err))
		}
		if ts == nil {
			return nil, apperrors.NotFound("timesheet not found")
		}
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return nil, apperrors.Validation("expiresAt must be an RFC 3339 timestamp")
		}
		expiresAt = &t
	}

	token, err := generateShareToken()
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("generating share token: %w", err))
	}

	link := &models.ShareLink{
		OwnerID:               userID,
		TargetType:            targetType,
		TargetID:              req.TargetID,
		Token:                 token,
		Label:                 req.Label,
		ExpiresAt:             expiresAt,
		ShowTimeDetails:       req.ShowTimeDetails,
		ShowCategoryBreakdown: req.ShowCategoryBreakdown,
		ShowProgress:          req.ShowProgress,
		ShowInvoiceDownload:   req.ShowInvoiceDownload,
	}

	if err := s.repo.CreateShareLink(ctx, link); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("creating share link: %w", err))
	}

	resp := &models.ShareLinkResponse{
		Status: "success",
		LinkID: link.ID,
		Token:  link.Token,
		URL:    "/api/shared/" + link.Token,
	}
	if link.ExpiresAt != nil {
		resp.ExpiresAt = link.ExpiresAt.Format(time.RFC3339)
	}
	return resp, nil
}

// ResolveShareLink validates the token and assembles the public view,
// filtered to exactly the visibility flags stored with the link.
func (s *DefaultService) ResolveShareLink(ctx context.Context, token string) (*models.SharedView, error) {
	link, err := s.resolveLink(ctx, token)
	if err != nil {
		return nil, err
	}

	switch link.TargetType {
	case models.ShareTargetReport:
		return s.sharedReportView(ctx, link)
	case models.ShareTargetTimesheet:
		return s.sharedTimesheetView(ctx, link)
	default:
		return nil, apperrors.NotFound("share link not found")
	}
}

// resolveLink maps expired and unknown tokens to the same NOT_FOUND so the
// response leaks nothing about the token space.
func (s *DefaultService) resolveLink(ctx context.Context, token string) (*models.ShareLink, error) {
	link, err := s.repo.GetShareLinkByToken(ctx, token)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("getting share link: %w", err))
	}
	if link == nil {
		return nil, apperrors.NotFound("share link not found")
	}
	return link, nil
}

func (s *DefaultService) sharedReportView(ctx context.Context, link *models.ShareLink) (*models.SharedView, error) {
	rpt, err := s.repo.GetWeeklyReportByID(ctx, link.TargetID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("getting report: %w", err))
	}
	if rpt == nil {
		return nil, apperrors.NotFound("share link not found")
	}

	var data models.WeekData
	if err := json.Unmarshal(rpt.Data, &data); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("decoding report data: %w", err))
	}

	view := &models.SharedView{
		TargetType:      models.ShareTargetReport,
		Label:           link.Label,
		WeekStart:       data.WeekStart,
		WeekEnd:         data.WeekEnd,
		Currency:        data.Currency,
		LoggedMinutes:   data.LoggedMinutes,
		BilledHours:     data.BilledHours,
		Revenue:         data.Revenue,
		RealHourlyRate:  data.RealHourlyRate,
		InvoiceDownload: link.ShowInvoiceDownload,
	}
	if link.ShowCategoryBreakdown {
		view.Categories = data.Categories
	}
	if link.ShowProgress {
		view.Days = data.Days
		view.Comparison = data.Comparison
	}
	if link.ShowTimeDetails {
		entries, err := s.sharedEntries(ctx, link.OwnerID, "", rpt.WeekStart)
		if err != nil {
			return nil, err
		}
		view.Entries = entries
	}
	return view, nil
}

func (s *DefaultService) sharedTimesheetView(ctx context.Context, link *models.ShareLink) (*models.SharedView, error) {
	ts, err := s.repo.GetTimesheetByID(ctx, link.TargetID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("getting timesheet: %w", err))
	}
	if ts == nil {
		return nil, apperrors.NotFound("share link not found")
	}

	entries, err := s.repo.ListTimeEntries(ctx, link.OwnerID, ts.ProjectID, ts.WeekStart, report.WeekEnd(ts.WeekStart))
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("listing time entries: %w", err))
	}

	loggedMinutes := 0
	for _, e := range entries {
		if e.Intent == models.IntentDone {
			loggedMinutes += e.Minutes
		}
	}

	view := &models.SharedView{
		TargetType:      models.ShareTargetTimesheet,
		Label:           link.Label,
		WeekStart:       ts.WeekStart.Format(models.DateLayout),
		WeekEnd:         report.WeekEnd(ts.WeekStart).Format(models.DateLayout),
		LoggedMinutes:   loggedMinutes,
		BilledHours:     rate.Round2(float64(loggedMinutes) / 60),
		TimesheetStatus: ts.Status,
		CanReview:       ts.Status == models.TimesheetSubmitted,
		InvoiceDownload: link.ShowInvoiceDownload,
	}
	if link.ShowCategoryBreakdown {
		totals := make(map[models.Category]int)
		for _, e := range entries {
			if e.Intent == models.IntentDone {
				totals[e.Category] += e.Minutes
			}
		}
		for cat, minutes := range totals {
			view.Categories = append(view.Categories, models.CategoryMinutes{Category: cat, Minutes: minutes})
		}
		// Same ordering as report breakdowns: minutes descending, ties in
		// canonical category order.
		sort.SliceStable(view.Categories, func(i, j int) bool {
			if view.Categories[i].Minutes != view.Categories[j].Minutes {
				return view.Categories[i].Minutes > view.Categories[j].Minutes
			}
			return models.CategoryRank(view.Categories[i].Category) < models.CategoryRank(view.Categories[j].Category)
		})
	}
	if link.ShowTimeDetails {
		for _, e := range entries {
			view.Entries = append(view.Entries, models.SharedEntry{
				Date:        e.EntryDate.Format(models.DateLayout),
				Minutes:     e.Minutes,
				Category:    e.Category,
				Description: e.Description,
			})
		}
	}
	return view, nil
}

func (s *DefaultService) sharedEntries(ctx context.Context, ownerID, projectID string, weekStart time.Time) ([]models.SharedEntry, error) {
	entries, err := s.repo.ListTimeEntries(ctx, ownerID, projectID, weekStart, report.WeekEnd(weekStart))
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("listing time entries: %w", err))
	}

	shared := make([]models.SharedEntry, 0, len(entries))
	for _, e := range entries {
		shared = append(shared, models.SharedEntry{
			Date:        e.EntryDate.Format(models.DateLayout),
			Minutes:     e.Minutes,
			Category:    e.Category,
			Description: e.Description,
		})
	}
	return shared, nil
}

// generateShareToken produces an unguessable URL-safe credential.
func generateShareToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
