package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/ratewise/ratewise/internal/apperrors"
	"github.com/ratewise/ratewise/internal/models"
	"github.com/ratewise/ratewise/internal/repository"
)

// Project operations
func (s *DefaultService) CreateProject(ctx context.Context, userID string, req models.CreateProjectRequest) (*models.Project, error) {
	project := &models.Project{
		OwnerID:             userID,
		Name:                req.Name,
		Client:              req.Client,
		HourlyRate:          req.HourlyRate,
		Currency:            strings.ToUpper(req.Currency),
		WeeklyBudgetMinutes: req.WeeklyBudgetMinutes,
	}

	if err := s.repo.CreateProject(ctx, project); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("creating project: %w", err))
	}
	return project, nil
}

func (s *DefaultService) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	projects, err := s.repo.ListProjects(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("listing projects: %w", err))
	}
	return projects, nil
}

// Time entry operations
func (s *DefaultService) CreateTimeEntry(ctx context.Context, userID string, req models.CreateTimeEntryRequest) (*models.TimeEntry, error) {
	category := models.Category(req.Category)
	if !category.Valid() {
		return nil, apperrors.Validation("unknown category: " + req.Category)
	}
	intent := models.Intent(req.Intent)
	if !intent.Valid() {
		return nil, apperrors.Validation("intent must be done or planned")
	}
	entryDate, err := parseDate(req.Date, "date")
	if err != nil {
		return nil, err
	}

	if _, err := s.getProject(ctx, req.ProjectID, userID); err != nil {
		return nil, err
	}
	if err := s.ensureWeekOpen(ctx, req.ProjectID, entryDate); err != nil {
		return nil, err
	}

	entry := &models.TimeEntry{
		OwnerID:     userID,
		ProjectID:   req.ProjectID,
		EntryDate:   entryDate,
		Minutes:     req.Minutes,
		Category:    category,
		Intent:      intent,
		Description: req.Description,
		SourceText:  req.SourceText,
		Tags:        pq.StringArray(req.Tags),
	}

	if err := s.repo.CreateTimeEntry(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrWeekLocked) {
			return nil, errWeekFrozen
		}
		return nil, apperrors.Internal(fmt.Errorf("creating time entry: %w", err))
	}
	return entry, nil
}

func (s *DefaultService) UpdateTimeEntry(ctx context.Context, userID, entryID string, req models.UpdateTimeEntryRequest) (*models.TimeEntry, error) {
	entry, err := s.repo.GetTimeEntryForOwner(ctx, entryID, userID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("getting time entry: %w", err))
	}
	if entry == nil {
		return nil, apperrors.NotFound("time entry not found")
	}

	if err := s.ensureWeekOpen(ctx, entry.ProjectID, entry.EntryDate); err != nil {
		return nil, err
	}

	if req.Date != "" {
		newDate, err := parseDate(req.Date, "date")
		if err != nil {
			return nil, err
		}
		// Moving an entry into a frozen week is as illegal as editing one.
		if err := s.ensureWeekOpen(ctx, entry.ProjectID, newDate); err != nil {
			return nil, err
		}
		entry.EntryDate = newDate
	}
	if req.Minutes != 0 {
		entry.Minutes = req.Minutes
	}
	if req.Category != "" {
		category := models.Category(req.Category)
		if !category.Valid() {
			return nil, apperrors.Validation("unknown category: " + req.Category)
		}
		entry.Category = category
	}
	if req.Intent != "" {
		entry.Intent = models.Intent(req.Intent)
	}
	if req.Description != "" {
		entry.Description = req.Description
	}
	if req.Tags != nil {
		entry.Tags = pq.StringArray(req.Tags)
	}

	if err := s.repo.UpdateTimeEntry(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrWeekLocked) {
			return nil, errWeekFrozen
		}
		return nil, apperrors.Internal(fmt.Errorf("updating time entry: %w", err))
	}
	return entry, nil
}

func (s *DefaultService) DeleteTimeEntry(ctx context.Context, userID, entryID string) error {
	entry, err := s.repo.GetTimeEntryForOwner(ctx, entryID, userID)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("getting time entry: %w", err))
	}
	if entry == nil {
		return apperrors.NotFound("time entry not found")
	}

	if err := s.ensureWeekOpen(ctx, entry.ProjectID, entry.EntryDate); err != nil {
		return err
	}

	if err := s.repo.SoftDeleteTimeEntry(ctx, entryID, userID); err != nil {
		if errors.Is(err, repository.ErrWeekLocked) {
			return errWeekFrozen
		}
		return apperrors.Internal(fmt.Errorf("deleting time entry: %w", err))
	}
	return nil
}

func (s *DefaultService) ListTimeEntries(ctx context.Context, userID, projectID, from, to string) ([]models.TimeEntry, error) {
	fromDate, toDate, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListTimeEntries(ctx, userID, projectID, fromDate, toDate)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("listing time entries: %w", err))
	}
	return entries, nil
}

// errWeekFrozen is the caller-facing form of a timesheet freeze, whether it
// surfaced at the pre-check or at the write statement.
var errWeekFrozen = apperrors.Locked("time entries for this week are frozen by a submitted timesheet")

// ensureWeekOpen rejects writes to entries covered by a timesheet past
// draft. This is a fast pre-check only; the write statements carry the same
// predicate, so a submit landing after the check still wins.
func (s *DefaultService) ensureWeekOpen(ctx context.Context, projectID string, date time.Time) error {
	locked, err := s.repo.IsWeekLocked(ctx, projectID, date)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("checking timesheet lock: %w", err))
	}
	if locked {
		return errWeekFrozen
	}
	return nil
}

// Cost entry operations
func (s *DefaultService) CreateCostEntry(ctx context.Context, userID string, req models.CreateCostEntryRequest) (*models.CostEntry, error) {
	costType := models.CostType(req.CostType)
	if !costType.Valid() {
		return nil, apperrors.Validation("unknown cost type: " + req.CostType)
	}
	costDate, err := parseDate(req.Date, "date")
	if err != nil {
		return nil, err
	}

	if _, err := s.getProject(ctx, req.ProjectID, userID); err != nil {
		return nil, err
	}

	entry := &models.CostEntry{
		OwnerID:   userID,
		ProjectID: req.ProjectID,
		Amount:    req.Amount,
		Currency:  strings.ToUpper(req.Currency),
		CostType:  costType,
		CostDate:  costDate,
		Notes:     req.Notes,
	}

	if err := s.repo.CreateCostEntry(ctx, entry); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("creating cost entry: %w", err))
	}
	return entry, nil
}

func (s *DefaultService) DeleteCostEntry(ctx context.Context, userID, entryID string) error {
	entry, err := s.repo.GetCostEntryForOwner(ctx, entryID, userID)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("getting cost entry: %w", err))
	}
	if entry == nil {
		return apperrors.NotFound("cost entry not found")
	}

	if err := s.repo.SoftDeleteCostEntry(ctx, entryID, userID); err != nil {
		return apperrors.Internal(fmt.Errorf("deleting cost entry: %w", err))
	}
	return nil
}

func (s *DefaultService) ListCostEntries(ctx context.Context, userID, projectID, from, to string) ([]models.CostEntry, error) {
	fromDate, toDate, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListCostEntries(ctx, userID, projectID, fromDate, toDate)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("listing cost entries: %w", err))
	}
	return entries, nil
}

// parseRange parses an optional date range, defaulting to the last 90 days.
func parseRange(from, to string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	fromDate := now.AddDate(0, 0, -90)
	toDate := now

	var err error
	if from != "" {
		if fromDate, err = parseDate(from, "from"); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if to != "" {
		if toDate, err = parseDate(to, "to"); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if toDate.Before(fromDate) {
		return time.Time{}, time.Time{}, apperrors.Validation("to must not be before from")
	}
	return fromDate, toDate, nil
}
