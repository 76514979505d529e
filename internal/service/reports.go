package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ratewise/ratewise/internal/apperrors"
	"github.com/ratewise/ratewise/internal/models"
	"github.com/ratewise/ratewise/internal/report"
)

// AggregateWeeklyReport recomputes the snapshot for (owner, weekStart) and
// persists it. Recomputation replaces the existing live row; the uniqueness
// constraint guarantees a single live row per week even under concurrent
// aggregation. Partial weeks are valid input.
func (s *DefaultService) AggregateWeeklyReport(ctx context.Context, userID, weekStart string) (*models.WeeklyReportResponse, error) {
	ws, err := parseWeekStart(weekStart)
	if err != nil {
		return nil, err
	}
	we := report.WeekEnd(ws)

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListTimeEntries(ctx, userID, "", ws, we)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("listing time entries: %w", err))
	}
	costs, err := s.repo.ListCostEntries(ctx, userID, "", ws, we)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("listing cost entries: %w", err))
	}
	projects, err := s.repo.ListProjects(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("listing projects: %w", err))
	}
	projectIndex := make(map[string]models.Project, len(projects))
	for _, p := range projects {
		projectIndex[p.ID] = p
	}

	previous, err := s.previousWeekData(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}

	data, err := s.aggregator.Build(ctx, report.Input{
		OwnerID:           userID,
		WeekStart:         ws,
		Entries:           entries,
		Costs:             costs,
		Projects:          projectIndex,
		ReportingCurrency: user.Currency,
		Previous:          previous,
	})
	if err != nil {
		return nil, err
	}

	blob, err := json.Marshal(data)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("encoding report data: %w", err))
	}

	existing, err := s.repo.GetWeeklyReport(ctx, userID, ws)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("getting weekly report: %w", err))
	}

	row := &models.WeeklyReport{
		OwnerID:   userID,
		WeekStart: ws,
		WeekEnd:   we,
		Data:      blob,
	}
	if err := s.repo.UpsertWeeklyReport(ctx, row); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("upserting weekly report: %w", err))
	}

	// First aggregation for a week lands a queue item; recomputation stays
	// quiet.
	if existing == nil {
		if err := s.enqueueReportAction(ctx, userID, row); err != nil {
			s.logger.Error().Err(err).Str("report_id", row.ID).Msg("failed to enqueue report action")
		}
	}

	return &models.WeeklyReportResponse{
		Status:    "success",
		ReportID:  row.ID,
		WeekStart: data.WeekStart,
		WeekEnd:   data.WeekEnd,
		Data:      *data,
		Insight:   row.Insight,
	}, nil
}

// previousWeekData loads the stored snapshot of the preceding week, nil
// when none exists.
func (s *DefaultService) previousWeekData(ctx context.Context, userID, weekStart string) (*models.WeekData, error) {
	ws, err := parseWeekStart(weekStart)
	if err != nil {
		return nil, err
	}

	prevRow, err := s.repo.GetWeeklyReport(ctx, userID, ws.AddDate(0, 0, -7))
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("getting previous report: %w", err))
	}
	if prevRow == nil {
		return nil, nil
	}

	var prev models.WeekData
	if err := json.Unmarshal(prevRow.Data, &prev); err != nil {
		// A corrupt historical blob should not block this week's report.
		s.logger.Error().Err(err).Str("report_id", prevRow.ID).Msg("unreadable previous week data")
		return nil, nil
	}
	return &prev, nil
}

func (s *DefaultService) enqueueReportAction(ctx context.Context, userID string, row *models.WeeklyReport) error {
	payload, err := json.Marshal(map[string]string{
		"reportId":  row.ID,
		"weekStart": row.WeekStart.Format(models.DateLayout),
	})
	if err != nil {
		return err
	}

	return s.repo.CreateAiAction(ctx, &models.AiAction{
		OwnerID: userID,
		Type:    models.ActionWeeklyReport,
		Title:   fmt.Sprintf("Weekly report for %s", row.WeekStart.Format(models.DateLayout)),
		Message: "Your weekly report is ready to review.",
		Payload: payload,
	})
}

func (s *DefaultService) ListWeeklyReports(ctx context.Context, userID string, limit int) ([]models.WeeklyReport, error) {
	if limit <= 0 {
		limit = 10
	}

	reports, err := s.repo.ListWeeklyReports(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("listing weekly reports: %w", err))
	}
	return reports, nil
}
