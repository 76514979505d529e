package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ratewise/ratewise/internal/models"
)

// mockService is a testify double for service.Service.
type mockService struct {
	mock.Mock
}

func (m *mockService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockService) UpdateSettings(ctx context.Context, userID string, req models.UpdateSettingsRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockService) CreateProject(ctx context.Context, userID string, req models.CreateProjectRequest) (*models.Project, error) {
	args := m.Called(ctx, userID, req)
	project, _ := args.Get(0).(*models.Project)
	return project, args.Error(1)
}

func (m *mockService) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	args := m.Called(ctx, userID)
	projects, _ := args.Get(0).([]models.Project)
	return projects, args.Error(1)
}

func (m *mockService) CreateTimeEntry(ctx context.Context, userID string, req models.CreateTimeEntryRequest) (*models.TimeEntry, error) {
	args := m.Called(ctx, userID, req)
	entry, _ := args.Get(0).(*models.TimeEntry)
	return entry, args.Error(1)
}

func (m *mockService) UpdateTimeEntry(ctx context.Context, userID, entryID string, req models.UpdateTimeEntryRequest) (*models.TimeEntry, error) {
	args := m.Called(ctx, userID, entryID, req)
	entry, _ := args.Get(0).(*models.TimeEntry)
	return entry, args.Error(1)
}

func (m *mockService) DeleteTimeEntry(ctx context.Context, userID, entryID string) error {
	return m.Called(ctx, userID, entryID).Error(0)
}

func (m *mockService) ListTimeEntries(ctx context.Context, userID, projectID, from, to string) ([]models.TimeEntry, error) {
	args := m.Called(ctx, userID, projectID, from, to)
	entries, _ := args.Get(0).([]models.TimeEntry)
	return entries, args.Error(1)
}

func (m *mockService) CreateCostEntry(ctx context.Context, userID string, req models.CreateCostEntryRequest) (*models.CostEntry, error) {
	args := m.Called(ctx, userID, req)
	entry, _ := args.Get(0).(*models.CostEntry)
	return entry, args.Error(1)
}

func (m *mockService) DeleteCostEntry(ctx context.Context, userID, entryID string) error {
	return m.Called(ctx, userID, entryID).Error(0)
}

func (m *mockService) ListCostEntries(ctx context.Context, userID, projectID, from, to string) ([]models.CostEntry, error) {
	args := m.Called(ctx, userID, projectID, from, to)
	entries, _ := args.Get(0).([]models.CostEntry)
	return entries, args.Error(1)
}

func (m *mockService) ComputeProfitability(ctx context.Context, userID, projectID, from, to string) (*models.ProfitabilityResponse, error) {
	args := m.Called(ctx, userID, projectID, from, to)
	resp, _ := args.Get(0).(*models.ProfitabilityResponse)
	return resp, args.Error(1)
}

func (m *mockService) DetectAnomalies(ctx context.Context, userID, projectID string) ([]models.FlagDelta, error) {
	args := m.Called(ctx, userID, projectID)
	deltas, _ := args.Get(0).([]models.FlagDelta)
	return deltas, args.Error(1)
}

func (m *mockService) ListFlags(ctx context.Context, userID, projectID string) ([]models.Flag, error) {
	args := m.Called(ctx, userID, projectID)
	flags, _ := args.Get(0).([]models.Flag)
	return flags, args.Error(1)
}

func (m *mockService) DismissFlag(ctx context.Context, userID, flagID string) (*models.Flag, error) {
	args := m.Called(ctx, userID, flagID)
	flag, _ := args.Get(0).(*models.Flag)
	return flag, args.Error(1)
}

func (m *mockService) ListAiActions(ctx context.Context, userID, status string) ([]models.AiAction, error) {
	args := m.Called(ctx, userID, status)
	actions, _ := args.Get(0).([]models.AiAction)
	return actions, args.Error(1)
}

func (m *mockService) TransitionAiAction(ctx context.Context, userID, actionID, target string) (*models.AiAction, error) {
	args := m.Called(ctx, userID, actionID, target)
	action, _ := args.Get(0).(*models.AiAction)
	return action, args.Error(1)
}

func (m *mockService) AggregateWeeklyReport(ctx context.Context, userID, weekStart string) (*models.WeeklyReportResponse, error) {
	args := m.Called(ctx, userID, weekStart)
	resp, _ := args.Get(0).(*models.WeeklyReportResponse)
	return resp, args.Error(1)
}

func (m *mockService) ListWeeklyReports(ctx context.Context, userID string, limit int) ([]models.WeeklyReport, error) {
	args := m.Called(ctx, userID, limit)
	reports, _ := args.Get(0).([]models.WeeklyReport)
	return reports, args.Error(1)
}

func (m *mockService) CreateTimesheet(ctx context.Context, userID string, req models.CreateTimesheetRequest) (*models.Timesheet, error) {
	args := m.Called(ctx, userID, req)
	ts, _ := args.Get(0).(*models.Timesheet)
	return ts, args.Error(1)
}

func (m *mockService) SubmitTimesheet(ctx context.Context, userID, timesheetID string, req models.SubmitTimesheetRequest) (*models.Timesheet, error) {
	args := m.Called(ctx, userID, timesheetID, req)
	ts, _ := args.Get(0).(*models.Timesheet)
	return ts, args.Error(1)
}

func (m *mockService) ReviewTimesheet(ctx context.Context, token string, req models.ReviewTimesheetRequest) (*models.Timesheet, error) {
	args := m.Called(ctx, token, req)
	ts, _ := args.Get(0).(*models.Timesheet)
	return ts, args.Error(1)
}

func (m *mockService) CreateShareLink(ctx context.Context, userID string, req models.CreateShareLinkRequest) (*models.ShareLinkResponse, error) {
	args := m.Called(ctx, userID, req)
	resp, _ := args.Get(0).(*models.ShareLinkResponse)
	return resp, args.Error(1)
}

func (m *mockService) ResolveShareLink(ctx context.Context, token string) (*models.SharedView, error) {
	args := m.Called(ctx, token)
	view, _ := args.Get(0).(*models.SharedView)
	return view, args.Error(1)
}
