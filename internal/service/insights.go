package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ratewise/ratewise/internal/anomaly"
	"github.com/ratewise/ratewise/internal/apperrors"
	"github.com/ratewise/ratewise/internal/models"
	"github.com/ratewise/ratewise/internal/profit"
	"github.com/ratewise/ratewise/internal/report"
	"github.com/ratewise/ratewise/internal/repository"
)

func (s *DefaultService) ComputeProfitability(ctx context.Context, userID, projectID, from, to string) (*models.ProfitabilityResponse, error) {
	fromDate, toDate, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}

	project, err := s.getProject(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListTimeEntries(ctx, userID, projectID, fromDate, toDate)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("listing time entries: %w", err))
	}
	costs, err := s.repo.ListCostEntries(ctx, userID, projectID, fromDate, toDate)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("listing cost entries: %w", err))
	}

	summary, err := s.calc.Compute(ctx, profit.Input{
		Entries:           entries,
		Costs:             costs,
		HourlyRate:        project.HourlyRate,
		RateCurrency:      project.Currency,
		ReportingCurrency: user.Currency,
		AsOf:              toDate,
	})
	if err != nil {
		return nil, err
	}

	return &models.ProfitabilityResponse{
		Status:         "success",
		ProjectID:      projectID,
		Currency:       summary.Currency,
		LoggedMinutes:  summary.LoggedMinutes,
		PlannedMinutes: summary.PlannedMinutes,
		BilledHours:    summary.BilledHours,
		Revenue:        summary.Revenue,
		Cost:           summary.Cost,
		RealHourlyRate: summary.RealHourlyRate,
		HasData:        summary.HasData,
	}, nil
}

// DetectAnomalies scans the project's rolling window and reconciles the
// findings with stored flags. Re-running is idempotent: an existing active
// flag of the same kind gets its trigger reference refreshed instead of a
// duplicate row.
func (s *DefaultService) DetectAnomalies(ctx context.Context, userID, projectID string) ([]models.FlagDelta, error) {
	project, err := s.getProject(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	weeks, err := s.collectWeekStats(ctx, user, project)
	if err != nil {
		return nil, err
	}

	findings := s.detector.Scan(anomaly.Input{
		ProjectID:  projectID,
		Weeks:      weeks,
		HourlyGoal: user.HourlyGoal,
	})

	deltas := make([]models.FlagDelta, 0, len(findings))
	for _, finding := range findings {
		delta, err := s.reconcileFlag(ctx, user.ID, project, finding)
		if err != nil {
			return nil, err
		}
		deltas = append(deltas, *delta)
	}
	return deltas, nil
}

// collectWeekStats computes per-week profitability for the detection
// window, oldest week first, current week last.
func (s *DefaultService) collectWeekStats(ctx context.Context, user *models.User, project *models.Project) ([]anomaly.WeekStat, error) {
	weeksNeeded := s.anomalyCfg.TrailingWindowWeeks + 1
	if n := s.anomalyCfg.UnderperformanceWeeks; n > weeksNeeded {
		weeksNeeded = n
	}
	if weeksNeeded < 2 {
		weeksNeeded = 2
	}

	currentWeek := report.MondayOf(time.Now().UTC())
	from := currentWeek.AddDate(0, 0, -7*(weeksNeeded-1))
	to := report.WeekEnd(currentWeek)

	entries, err := s.repo.ListTimeEntries(ctx, user.ID, project.ID, from, to)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("listing time entries: %w", err))
	}
	costs, err := s.repo.ListCostEntries(ctx, user.ID, project.ID, from, to)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("listing cost entries: %w", err))
	}

	stats := make([]anomaly.WeekStat, 0, weeksNeeded)
	for i := 0; i < weeksNeeded; i++ {
		weekStart := from.AddDate(0, 0, 7*i)
		weekEnd := report.WeekEnd(weekStart)

		var weekEntries []models.TimeEntry
		for _, e := range entries {
			if !e.EntryDate.Before(weekStart) && !e.EntryDate.After(weekEnd) {
				weekEntries = append(weekEntries, e)
			}
		}
		var weekCosts []models.CostEntry
		for _, ce := range costs {
			if !ce.CostDate.Before(weekStart) && !ce.CostDate.After(weekEnd) {
				weekCosts = append(weekCosts, ce)
			}
		}

		summary, err := s.calc.Compute(ctx, profit.Input{
			Entries:           weekEntries,
			Costs:             weekCosts,
			HourlyRate:        project.HourlyRate,
			RateCurrency:      project.Currency,
			ReportingCurrency: user.Currency,
			AsOf:              weekEnd,
		})
		if err != nil {
			return nil, err
		}

		stats = append(stats, anomaly.WeekStat{
			WeekStart:      weekStart.Format(models.DateLayout),
			LoggedMinutes:  summary.LoggedMinutes,
			RealHourlyRate: summary.RealHourlyRate,
			HasData:        summary.HasData,
		})
	}
	return stats, nil
}

// reconcileFlag turns one finding into a created or refreshed flag row,
// tolerating a concurrent detection run via the storage-level uniqueness
// guarantee.
func (s *DefaultService) reconcileFlag(ctx context.Context, userID string, project *models.Project, finding anomaly.Finding) (*models.FlagDelta, error) {
	existing, err := s.repo.GetActiveFlag(ctx, project.ID, finding.Kind)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("getting active flag: %w", err))
	}
	if existing != nil {
		if err := s.repo.UpdateFlagTrigger(ctx, existing.ID, finding.TriggerRef); err != nil {
			return nil, apperrors.Internal(fmt.Errorf("updating flag trigger: %w", err))
		}
		return &models.FlagDelta{FlagID: existing.ID, Kind: finding.Kind, Change: "updated"}, nil
	}

	flag := &models.Flag{ProjectID: project.ID, Kind: finding.Kind, TriggerRef: finding.TriggerRef}
	err = s.repo.CreateFlag(ctx, flag)
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost the race to a concurrent run; refresh the winner's row.
		winner, err := s.repo.GetActiveFlag(ctx, project.ID, finding.Kind)
		if err != nil {
			return nil, apperrors.Internal(fmt.Errorf("re-reading active flag: %w", err))
		}
		if winner != nil {
			if err := s.repo.UpdateFlagTrigger(ctx, winner.ID, finding.TriggerRef); err != nil {
				return nil, apperrors.Internal(fmt.Errorf("updating flag trigger: %w", err))
			}
			return &models.FlagDelta{FlagID: winner.ID, Kind: finding.Kind, Change: "updated"}, nil
		}
		return nil, apperrors.Internal(fmt.Errorf("active flag vanished after duplicate insert"))
	}
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("creating flag: %w", err))
	}

	if err := s.enqueueFlagAction(ctx, userID, project, flag); err != nil {
		s.logger.Error().Err(err).Str("flag_id", flag.ID).Msg("failed to enqueue flag action")
	}
	return &models.FlagDelta{FlagID: flag.ID, Kind: finding.Kind, Change: "created"}, nil
}

func (s *DefaultService) enqueueFlagAction(ctx context.Context, userID string, project *models.Project, flag *models.Flag) error {
	var actionType models.ActionType
	var title string
	switch flag.Kind {
	case models.FlagScopeOverrun:
		actionType = models.ActionScopeAlert
		title = fmt.Sprintf("Scope overrun on %s", project.Name)
	case models.FlagRateUnderperformance:
		actionType = models.ActionProfitabilityWarning
		title = fmt.Sprintf("Profitability warning on %s", project.Name)
	default:
		return fmt.Errorf("no action mapping for flag kind %s", flag.Kind)
	}

	payload, err := json.Marshal(map[string]string{
		"flagId":    flag.ID,
		"projectId": project.ID,
	})
	if err != nil {
		return err
	}

	return s.repo.CreateAiAction(ctx, &models.AiAction{
		OwnerID:   userID,
		ProjectID: &project.ID,
		Type:      actionType,
		Title:     title,
		Message:   flag.TriggerRef,
		Payload:   payload,
	})
}

func (s *DefaultService) ListFlags(ctx context.Context, userID, projectID string) ([]models.Flag, error) {
	if _, err := s.getProject(ctx, projectID, userID); err != nil {
		return nil, err
	}

	flags, err := s.repo.ListActiveFlags(ctx, projectID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("listing flags: %w", err))
	}
	return flags, nil
}

// DismissFlag is terminal for the flag instance. Dismissing an absent,
// foreign, or already-dismissed flag is the same NOT_FOUND.
func (s *DefaultService) DismissFlag(ctx context.Context, userID, flagID string) (*models.Flag, error) {
	flag, err := s.repo.DismissFlag(ctx, flagID, userID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("dismissing flag: %w", err))
	}
	if flag == nil {
		return nil, apperrors.NotFound("flag not found")
	}
	return flag, nil
}

// AI action queue
func (s *DefaultService) ListAiActions(ctx context.Context, userID, status string) ([]models.AiAction, error) {
	filter := models.ActionStatus(status)
	if status != "" && !filter.Valid() {
		return nil, apperrors.Validation("unknown status: " + status)
	}

	actions, err := s.repo.ListAiActions(ctx, userID, filter)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("listing actions: %w", err))
	}
	return actions, nil
}

// TransitionAiAction moves one pending action to a terminal status. The
// lookup is ownership-filtered, so a foreign action reads as NOT_FOUND
// rather than a distinguishable forbidden.
func (s *DefaultService) TransitionAiAction(ctx context.Context, userID, actionID, target string) (*models.AiAction, error) {
	targetStatus := models.ActionStatus(target)
	if !models.ActionPending.CanTransitionTo(targetStatus) {
		return nil, apperrors.Validation("target must be approved, dismissed or executed")
	}

	action, err := s.repo.TransitionAiAction(ctx, actionID, userID, targetStatus)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("transitioning action: %w", err))
	}
	if action != nil {
		return action, nil
	}

	// The conditional write matched nothing: absent or not pending.
	existing, err := s.repo.GetAiActionForOwner(ctx, actionID, userID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("getting action: %w", err))
	}
	if existing == nil {
		return nil, apperrors.NotFound("action not found")
	}
	return nil, apperrors.InvalidState(fmt.Sprintf("action is %s, only pending actions can transition", existing.Status))
}
