package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ratewise/ratewise/internal/models"
)

// mockRepository is a testify double for repository.Repository.
type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockRepository) UpdateUserSettings(ctx context.Context, id string, hourlyGoal float64, currency string) error {
	return m.Called(ctx, id, hourlyGoal, currency).Error(0)
}

func (m *mockRepository) CreateProject(ctx context.Context, project *models.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *mockRepository) GetProjectForOwner(ctx context.Context, id, ownerID string) (*models.Project, error) {
	args := m.Called(ctx, id, ownerID)
	project, _ := args.Get(0).(*models.Project)
	return project, args.Error(1)
}

func (m *mockRepository) ListProjects(ctx context.Context, ownerID string) ([]models.Project, error) {
	args := m.Called(ctx, ownerID)
	projects, _ := args.Get(0).([]models.Project)
	return projects, args.Error(1)
}

func (m *mockRepository) CreateTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockRepository) GetTimeEntryForOwner(ctx context.Context, id, ownerID string) (*models.TimeEntry, error) {
	args := m.Called(ctx, id, ownerID)
	entry, _ := args.Get(0).(*models.TimeEntry)
	return entry, args.Error(1)
}

func (m *mockRepository) UpdateTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockRepository) SoftDeleteTimeEntry(ctx context.Context, id, ownerID string) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

func (m *mockRepository) ListTimeEntries(ctx context.Context, ownerID, projectID string, from, to time.Time) ([]models.TimeEntry, error) {
	args := m.Called(ctx, ownerID, projectID, from, to)
	entries, _ := args.Get(0).([]models.TimeEntry)
	return entries, args.Error(1)
}

func (m *mockRepository) IsWeekLocked(ctx context.Context, projectID string, date time.Time) (bool, error) {
	args := m.Called(ctx, projectID, date)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) CreateCostEntry(ctx context.Context, entry *models.CostEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockRepository) GetCostEntryForOwner(ctx context.Context, id, ownerID string) (*models.CostEntry, error) {
	args := m.Called(ctx, id, ownerID)
	entry, _ := args.Get(0).(*models.CostEntry)
	return entry, args.Error(1)
}

func (m *mockRepository) SoftDeleteCostEntry(ctx context.Context, id, ownerID string) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

func (m *mockRepository) ListCostEntries(ctx context.Context, ownerID, projectID string, from, to time.Time) ([]models.CostEntry, error) {
	args := m.Called(ctx, ownerID, projectID, from, to)
	entries, _ := args.Get(0).([]models.CostEntry)
	return entries, args.Error(1)
}

func (m *mockRepository) GetActiveFlag(ctx context.Context, projectID string, kind models.FlagKind) (*models.Flag, error) {
	args := m.Called(ctx, projectID, kind)
	flag, _ := args.Get(0).(*models.Flag)
	return flag, args.Error(1)
}

func (m *mockRepository) CreateFlag(ctx context.Context, flag *models.Flag) error {
	return m.Called(ctx, flag).Error(0)
}

func (m *mockRepository) UpdateFlagTrigger(ctx context.Context, id, triggerRef string) error {
	return m.Called(ctx, id, triggerRef).Error(0)
}

func (m *mockRepository) DismissFlag(ctx context.Context, id, ownerID string) (*models.Flag, error) {
	args := m.Called(ctx, id, ownerID)
	flag, _ := args.Get(0).(*models.Flag)
	return flag, args.Error(1)
}

func (m *mockRepository) ListActiveFlags(ctx context.Context, projectID string) ([]models.Flag, error) {
	args := m.Called(ctx, projectID)
	flags, _ := args.Get(0).([]models.Flag)
	return flags, args.Error(1)
}

func (m *mockRepository) CreateAiAction(ctx context.Context, action *models.AiAction) error {
	return m.Called(ctx, action).Error(0)
}

func (m *mockRepository) GetAiActionForOwner(ctx context.Context, id, ownerID string) (*models.AiAction, error) {
	args := m.Called(ctx, id, ownerID)
	action, _ := args.Get(0).(*models.AiAction)
	return action, args.Error(1)
}

func (m *mockRepository) ListAiActions(ctx context.Context, ownerID string, status models.ActionStatus) ([]models.AiAction, error) {
	args := m.Called(ctx, ownerID, status)
	actions, _ := args.Get(0).([]models.AiAction)
	return actions, args.Error(1)
}

func (m *mockRepository) TransitionAiAction(ctx context.Context, id, ownerID string, target models.ActionStatus) (*models.AiAction, error) {
	args := m.Called(ctx, id, ownerID, target)
	action, _ := args.Get(0).(*models.AiAction)
	return action, args.Error(1)
}

func (m *mockRepository) UpsertWeeklyReport(ctx context.Context, report *models.WeeklyReport) error {
	return m.Called(ctx, report).Error(0)
}

func (m *mockRepository) GetWeeklyReport(ctx context.Context, ownerID string, weekStart time.Time) (*models.WeeklyReport, error) {
	args := m.Called(ctx, ownerID, weekStart)
	report, _ := args.Get(0).(*models.WeeklyReport)
	return report, args.Error(1)
}

func (m *mockRepository) GetWeeklyReportForOwner(ctx context.Context, id, ownerID string) (*models.WeeklyReport, error) {
	args := m.Called(ctx, id, ownerID)
	report, _ := args.Get(0).(*models.WeeklyReport)
	return report, args.Error(1)
}

func (m *mockRepository) GetWeeklyReportByID(ctx context.Context, id string) (*models.WeeklyReport, error) {
	args := m.Called(ctx, id)
	report, _ := args.Get(0).(*models.WeeklyReport)
	return report, args.Error(1)
}

func (m *mockRepository) ListWeeklyReports(ctx context.Context, ownerID string, limit int) ([]models.WeeklyReport, error) {
	args := m.Called(ctx, ownerID, limit)
	reports, _ := args.Get(0).([]models.WeeklyReport)
	return reports, args.Error(1)
}

func (m *mockRepository) CreateTimesheet(ctx context.Context, ts *models.Timesheet) error {
	return m.Called(ctx, ts).Error(0)
}

func (m *mockRepository) GetTimesheetForOwner(ctx context.Context, id, ownerID string) (*models.Timesheet, error) {
	args := m.Called(ctx, id, ownerID)
	ts, _ := args.Get(0).(*models.Timesheet)
	return ts, args.Error(1)
}

func (m *mockRepository) GetTimesheetByID(ctx context.Context, id string) (*models.Timesheet, error) {
	args := m.Called(ctx, id)
	ts, _ := args.Get(0).(*models.Timesheet)
	return ts, args.Error(1)
}

func (m *mockRepository) SubmitTimesheet(ctx context.Context, id, ownerID, reviewerEmail string) (*models.Timesheet, error) {
	args := m.Called(ctx, id, ownerID, reviewerEmail)
	ts, _ := args.Get(0).(*models.Timesheet)
	return ts, args.Error(1)
}

func (m *mockRepository) ReviewTimesheet(ctx context.Context, id string, decision models.TimesheetStatus, note string) (*models.Timesheet, error) {
	args := m.Called(ctx, id, decision, note)
	ts, _ := args.Get(0).(*models.Timesheet)
	return ts, args.Error(1)
}

func (m *mockRepository) CreateShareLink(ctx context.Context, link *models.ShareLink) error {
	return m.Called(ctx, link).Error(0)
}

func (m *mockRepository) GetShareLinkByToken(ctx context.Context, token string) (*models.ShareLink, error) {
	args := m.Called(ctx, token)
	link, _ := args.Get(0).(*models.ShareLink)
	return link, args.Error(1)
}
