package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ratewise/ratewise/internal/apperrors"
	"github.com/ratewise/ratewise/internal/models"
)

func TestResolveShareLinkUnknownToken(t *testing.T) {
	// Expired links are filtered out at the storage layer, so expired and
	// unknown tokens are indistinguishable here.
	repo := new(mockRepository)
	repo.On("GetShareLinkByToken", mock.Anything, "gone").Return(nil, nil)

	svc := newTestService(repo)
	_, err := svc.ResolveShareLink(context.Background(), "gone")

	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestResolveShareLinkHidesDisabledSections(t *testing.T) {
	weekStart, _ := time.ParseInLocation(models.DateLayout, "2025-01-06", time.UTC)
	data := models.WeekData{
		WeekStart:      "2025-01-06",
		WeekEnd:        "2025-01-12",
		Currency:       "USD",
		LoggedMinutes:  600,
		BilledHours:    10,
		Revenue:        500,
		RealHourlyRate: 46,
		HasData:        true,
		Categories:     []models.CategoryMinutes{{Category: models.CategoryDevelopment, Minutes: 600}},
		Days:           []models.DayMinutes{{Date: "2025-01-06", Minutes: 600}},
	}
	blob, err := json.Marshal(data)
	require.NoError(t, err)

	repo := new(mockRepository)
	repo.On("GetShareLinkByToken", mock.Anything, "tok").Return(&models.ShareLink{
		ID: "link-1", OwnerID: "user-1",
		TargetType: models.ShareTargetReport, TargetID: "report-1",
		Token: "tok",
	}, nil)
	repo.On("GetWeeklyReportByID", mock.Anything, "report-1").Return(&models.WeeklyReport{
		ID: "report-1", OwnerID: "user-1", WeekStart: weekStart, Data: blob,
	}, nil)

	svc := newTestService(repo)
	view, err := svc.ResolveShareLink(context.Background(), "tok")
	require.NoError(t, err)

	// Core figures are always visible; every optional section is off.
	assert.Equal(t, 600, view.LoggedMinutes)
	assert.Equal(t, 46.0, view.RealHourlyRate)
	assert.Nil(t, view.Categories)
	assert.Nil(t, view.Days)
	assert.Nil(t, view.Entries)
	assert.False(t, view.InvoiceDownload)
	repo.AssertNotCalled(t, "ListTimeEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveShareLinkShowsEnabledSections(t *testing.T) {
	weekStart, _ := time.ParseInLocation(models.DateLayout, "2025-01-06", time.UTC)
	data := models.WeekData{
		WeekStart:     "2025-01-06",
		WeekEnd:       "2025-01-12",
		LoggedMinutes: 120,
		Categories:    []models.CategoryMinutes{{Category: models.CategoryDesign, Minutes: 120}},
		Days:          []models.DayMinutes{{Date: "2025-01-07", Minutes: 120}},
	}
	blob, err := json.Marshal(data)
	require.NoError(t, err)

	repo := new(mockRepository)
	repo.On("GetShareLinkByToken", mock.Anything, "tok").Return(&models.ShareLink{
		ID: "link-1", OwnerID: "user-1",
		TargetType: models.ShareTargetReport, TargetID: "report-1",
		Token:                 "tok",
		ShowCategoryBreakdown: true,
		ShowProgress:          true,
	}, nil)
	repo.On("GetWeeklyReportByID", mock.Anything, "report-1").Return(&models.WeeklyReport{
		ID: "report-1", OwnerID: "user-1", WeekStart: weekStart, Data: blob,
	}, nil)

	svc := newTestService(repo)
	view, err := svc.ResolveShareLink(context.Background(), "tok")
	require.NoError(t, err)

	assert.Len(t, view.Categories, 1)
	assert.Len(t, view.Days, 1)
	assert.Nil(t, view.Entries)
}

func TestResolveShareLinkTimesheetCategoryOrdering(t *testing.T) {
	weekStart, _ := time.ParseInLocation(models.DateLayout, "2025-01-06", time.UTC)

	repo := new(mockRepository)
	repo.On("GetShareLinkByToken", mock.Anything, "tok").Return(&models.ShareLink{
		ID: "link-1", OwnerID: "user-1",
		TargetType: models.ShareTargetTimesheet, TargetID: "ts-1",
		Token:                 "tok",
		ShowCategoryBreakdown: true,
	}, nil)
	repo.On("GetTimesheetByID", mock.Anything, "ts-1").Return(&models.Timesheet{
		ID: "ts-1", ProjectID: "proj-1", WeekStart: weekStart,
		Status: models.TimesheetSubmitted,
	}, nil)
	repo.On("ListTimeEntries", mock.Anything, "user-1", "proj-1", mock.Anything, mock.Anything).Return([]models.TimeEntry{
		{EntryDate: weekStart, Minutes: 60, Category: models.CategoryMeeting, Intent: models.IntentDone},
		{EntryDate: weekStart.AddDate(0, 0, 1), Minutes: 120, Category: models.CategoryDesign, Intent: models.IntentDone},
		{EntryDate: weekStart.AddDate(0, 0, 2), Minutes: 60, Category: models.CategoryDevelopment, Intent: models.IntentDone},
	}, nil)

	svc := newTestService(repo)
	view, err := svc.ResolveShareLink(context.Background(), "tok")
	require.NoError(t, err)

	// Largest bucket first; equal buckets fall back to the canonical
	// category order, development ahead of meeting.
	require.Len(t, view.Categories, 3)
	assert.Equal(t, models.CategoryDesign, view.Categories[0].Category)
	assert.Equal(t, models.CategoryDevelopment, view.Categories[1].Category)
	assert.Equal(t, models.CategoryMeeting, view.Categories[2].Category)
}

func TestCreateShareLinkForeignTarget(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetWeeklyReportForOwner", mock.Anything, "report-1", "user-2").Return(nil, nil)

	svc := newTestService(repo)
	_, err := svc.CreateShareLink(context.Background(), "user-2", models.CreateShareLinkRequest{
		TargetType: "report",
		TargetID:   "report-1",
	})

	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	repo.AssertNotCalled(t, "CreateShareLink", mock.Anything, mock.Anything)
}

func TestCreateShareLinkTokensDiffer(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetTimesheetForOwner", mock.Anything, "ts-1", "user-1").Return(&models.Timesheet{
		ID: "ts-1", Status: models.TimesheetDraft,
	}, nil)
	repo.On("CreateShareLink", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(repo)
	req := models.CreateShareLinkRequest{TargetType: "timesheet", TargetID: "ts-1"}

	first, err := svc.CreateShareLink(context.Background(), "user-1", req)
	require.NoError(t, err)
	second, err := svc.CreateShareLink(context.Background(), "user-1", req)
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
	assert.Equal(t, "/api/shared/"+first.Token, first.URL)
}

func TestReviewTimesheetWrongTargetType(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetShareLinkByToken", mock.Anything, "tok").Return(&models.ShareLink{
		ID: "link-1", TargetType: models.ShareTargetReport, TargetID: "report-1",
	}, nil)

	svc := newTestService(repo)
	_, err := svc.ReviewTimesheet(context.Background(), "tok", models.ReviewTimesheetRequest{Decision: "approved"})

	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestReviewTimesheetAlreadyReviewed(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetShareLinkByToken", mock.Anything, "tok").Return(&models.ShareLink{
		ID: "link-1", TargetType: models.ShareTargetTimesheet, TargetID: "ts-1",
	}, nil)
	repo.On("ReviewTimesheet", mock.Anything, "ts-1", models.TimesheetRejected, "too thin").Return(nil, nil)
	repo.On("GetTimesheetByID", mock.Anything, "ts-1").Return(&models.Timesheet{
		ID: "ts-1", Status: models.TimesheetApproved,
	}, nil)

	svc := newTestService(repo)
	_, err := svc.ReviewTimesheet(context.Background(), "tok", models.ReviewTimesheetRequest{
		Decision: "rejected",
		Note:     "too thin",
	})

	assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(err))
}

func TestReviewTimesheetRecordsDecision(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetShareLinkByToken", mock.Anything, "tok").Return(&models.ShareLink{
		ID: "link-1", TargetType: models.ShareTargetTimesheet, TargetID: "ts-1",
	}, nil)
	repo.On("ReviewTimesheet", mock.Anything, "ts-1", models.TimesheetApproved, "").Return(&models.Timesheet{
		ID: "ts-1", Status: models.TimesheetApproved,
	}, nil)

	svc := newTestService(repo)
	ts, err := svc.ReviewTimesheet(context.Background(), "tok", models.ReviewTimesheetRequest{Decision: "approved"})

	require.NoError(t, err)
	assert.Equal(t, models.TimesheetApproved, ts.Status)
}

func TestAggregateWeeklyReportEnqueuesActionOnlyOnFirstRun(t *testing.T) {
	weekStart, _ := time.ParseInLocation(models.DateLayout, "2025-01-06", time.UTC)
	prevWeek := weekStart.AddDate(0, 0, -7)

	user := &models.User{ID: "user-1", Currency: "USD", HourlyGoal: 40}

	setup := func(existing *models.WeeklyReport) *mockRepository {
		repo := new(mockRepository)
		repo.On("GetUserByID", mock.Anything, "user-1").Return(user, nil)
		repo.On("ListTimeEntries", mock.Anything, "user-1", "", mock.Anything, mock.Anything).Return(nil, nil)
		repo.On("ListCostEntries", mock.Anything, "user-1", "", mock.Anything, mock.Anything).Return(nil, nil)
		repo.On("ListProjects", mock.Anything, "user-1").Return(nil, nil)
		repo.On("GetWeeklyReport", mock.Anything, "user-1", prevWeek).Return(nil, nil)
		repo.On("GetWeeklyReport", mock.Anything, "user-1", weekStart).Return(existing, nil)
		repo.On("UpsertWeeklyReport", mock.Anything, mock.Anything).Return(nil)
		repo.On("CreateAiAction", mock.Anything, mock.Anything).Return(nil)
		return repo
	}

	// First aggregation: a queue item is created.
	repo := setup(nil)
	svc := newTestService(repo)
	resp, err := svc.AggregateWeeklyReport(context.Background(), "user-1", "2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-06", resp.WeekStart)
	repo.AssertNumberOfCalls(t, "CreateAiAction", 1)

	// Recomputation replaces the snapshot quietly.
	repo = setup(&models.WeeklyReport{ID: "report-1", OwnerID: "user-1", WeekStart: weekStart})
	svc = newTestService(repo)
	_, err = svc.AggregateWeeklyReport(context.Background(), "user-1", "2025-01-06")
	require.NoError(t, err)
	repo.AssertNotCalled(t, "CreateAiAction", mock.Anything, mock.Anything)
}
