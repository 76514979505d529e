package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/ratewise/ratewise/internal/models"
)

// ErrDuplicate reports a write rejected by a uniqueness constraint. Callers
// racing on the same key treat it as "someone else got there first".
var ErrDuplicate = errors.New("duplicate row")

// ErrWeekLocked reports an entry write rejected because a timesheet past
// draft covers the entry's week. The check is part of the write statement,
// so a submit committing between a caller's pre-check and the write still
// rejects the write.
var ErrWeekLocked = errors.New("week locked by timesheet")

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserSettings(ctx context.Context, id string, hourlyGoal float64, currency string) error

	// Project operations
	CreateProject(ctx context.Context, project *models.Project) error
	GetProjectForOwner(ctx context.Context, id, ownerID string) (*models.Project, error)
	ListProjects(ctx context.Context, ownerID string) ([]models.Project, error)

	// Time entry operations
	CreateTimeEntry(ctx context.Context, entry *models.TimeEntry) error
	GetTimeEntryForOwner(ctx context.Context, id, ownerID string) (*models.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, entry *models.TimeEntry) error
	SoftDeleteTimeEntry(ctx context.Context, id, ownerID string) error
	ListTimeEntries(ctx context.Context, ownerID, projectID string, from, to time.Time) ([]models.TimeEntry, error)
	// IsWeekLocked reports whether a timesheet past draft covers the given
	// project date, freezing its entries.
	IsWeekLocked(ctx context.Context, projectID string, date time.Time) (bool, error)

	// Cost entry operations
	CreateCostEntry(ctx context.Context, entry *models.CostEntry) error
	GetCostEntryForOwner(ctx context.Context, id, ownerID string) (*models.CostEntry, error)
	SoftDeleteCostEntry(ctx context.Context, id, ownerID string) error
	ListCostEntries(ctx context.Context, ownerID, projectID string, from, to time.Time) ([]models.CostEntry, error)

	// Flag operations
	GetActiveFlag(ctx context.Context, projectID string, kind models.FlagKind) (*models.Flag, error)
	CreateFlag(ctx context.Context, flag *models.Flag) error
	UpdateFlagTrigger(ctx context.Context, id, triggerRef string) error
	DismissFlag(ctx context.Context, id, ownerID string) (*models.Flag, error)
	ListActiveFlags(ctx context.Context, projectID string) ([]models.Flag, error)

	// AI action operations
	CreateAiAction(ctx context.Context, action *models.AiAction) error
	GetAiActionForOwner(ctx context.Context, id, ownerID string) (*models.AiAction, error)
	ListAiActions(ctx context.Context, ownerID string, status models.ActionStatus) ([]models.AiAction, error)
	TransitionAiAction(ctx context.Context, id, ownerID string, target models.ActionStatus) (*models.AiAction, error)

	// Weekly report operations
	UpsertWeeklyReport(ctx context.Context, report *models.WeeklyReport) error
	GetWeeklyReport(ctx context.Context, ownerID string, weekStart time.Time) (*models.WeeklyReport, error)
	GetWeeklyReportForOwner(ctx context.Context, id, ownerID string) (*models.WeeklyReport, error)
	GetWeeklyReportByID(ctx context.Context, id string) (*models.WeeklyReport, error)
	ListWeeklyReports(ctx context.Context, ownerID string, limit int) ([]models.WeeklyReport, error)

	// Timesheet operations
	CreateTimesheet(ctx context.Context, ts *models.Timesheet) error
	GetTimesheetForOwner(ctx context.Context, id, ownerID string) (*models.Timesheet, error)
	GetTimesheetByID(ctx context.Context, id string) (*models.Timesheet, error)
	SubmitTimesheet(ctx context.Context, id, ownerID, reviewerEmail string) (*models.Timesheet, error)
	ReviewTimesheet(ctx context.Context, id string, decision models.TimesheetStatus, note string) (*models.Timesheet, error)

	// Share link operations
	CreateShareLink(ctx context.Context, link *models.ShareLink) error
	GetShareLinkByToken(ctx context.Context, token string) (*models.ShareLink, error)
}

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, password, hourly_goal, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Currency == "" {
		user.Currency = "USD"
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Password, user.HourlyGoal, user.Currency,
		user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) UpdateUserSettings(ctx context.Context, id string, hourlyGoal float64, currency string) error {
	query := `UPDATE users SET hourly_goal = $2, currency = $3, updated_at = $4 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, hourlyGoal, currency, time.Now().UTC())
	return err
}

// Project repository methods
func (r *PostgresRepository) CreateProject(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (id, owner_id, name, client, hourly_rate, currency, weekly_budget_minutes, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if project.ID == "" {
		project.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		project.ID, project.OwnerID, project.Name, project.Client, project.HourlyRate,
		project.Currency, project.WeeklyBudgetMinutes, project.Archived,
		project.CreatedAt, project.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetProjectForOwner(ctx context.Context, id, ownerID string) (*models.Project, error) {
	query := `SELECT * FROM projects WHERE id = $1 AND owner_id = $2`

	var project models.Project
	err := r.db.GetContext(ctx, &project, query, id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Absent and unauthorized are indistinguishable
		}
		return nil, err
	}

	return &project, nil
}

func (r *PostgresRepository) ListProjects(ctx context.Context, ownerID string) ([]models.Project, error) {
	query := `SELECT * FROM projects WHERE owner_id = $1 ORDER BY created_at DESC`

	var projects []models.Project
	if err := r.db.SelectContext(ctx, &projects, query, ownerID); err != nil {
		return nil, err
	}
	return projects, nil
}

// Time entry repository methods

// CreateTimeEntry inserts an entry unless a timesheet past draft already
// covers its week. The freeze predicate lives in the insert itself, so the
// statement and a concurrent submit serialize at the storage layer.
func (r *PostgresRepository) CreateTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	query := `
		INSERT INTO time_entries (id, owner_id, project_id, entry_date, minutes, category, intent, description, source_text, tags, deleted, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, $11, $12
		WHERE NOT EXISTS (
			SELECT 1 FROM timesheets
			WHERE project_id = $3 AND status <> 'draft'
			  AND $4::date >= week_start AND $4::date <= week_start + 6
		)
	`

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Tags == nil {
		entry.Tags = pq.StringArray{}
	}

	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.OwnerID, entry.ProjectID, entry.EntryDate, entry.Minutes,
		entry.Category, entry.Intent, entry.Description, entry.SourceText, entry.Tags,
		entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrWeekLocked
	}
	return nil
}

func (r *PostgresRepository) GetTimeEntryForOwner(ctx context.Context, id, ownerID string) (*models.TimeEntry, error) {
	query := `SELECT * FROM time_entries WHERE id = $1 AND owner_id = $2 AND NOT deleted`

	var entry models.TimeEntry
	err := r.db.GetContext(ctx, &entry, query, id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &entry, nil
}

// UpdateTimeEntry rewrites an entry unless either its current week or the
// week it is moving into is frozen. The predicate reads the pre-update
// entry_date, so pulling an entry out of a frozen week is rejected too.
// Callers verify existence first; zero rows here means the freeze won.
func (r *PostgresRepository) UpdateTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	query := `
		UPDATE time_entries
		SET entry_date = $3, minutes = $4, category = $5, intent = $6, description = $7, tags = $8, updated_at = $9
		WHERE id = $1 AND owner_id = $2 AND NOT deleted
		  AND NOT EXISTS (
			SELECT 1 FROM timesheets t
			WHERE t.project_id = time_entries.project_id AND t.status <> 'draft'
			  AND (
				(time_entries.entry_date >= t.week_start AND time_entries.entry_date <= t.week_start + 6)
				OR ($3::date >= t.week_start AND $3::date <= t.week_start + 6)
			  )
		  )
	`

	entry.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.OwnerID, entry.EntryDate, entry.Minutes, entry.Category,
		entry.Intent, entry.Description, entry.Tags, entry.UpdatedAt)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrWeekLocked
	}
	return nil
}

// SoftDeleteTimeEntry carries the same in-statement freeze predicate as
// UpdateTimeEntry.
func (r *PostgresRepository) SoftDeleteTimeEntry(ctx context.Context, id, ownerID string) error {
	query := `
		UPDATE time_entries SET deleted = TRUE, updated_at = $3
		WHERE id = $1 AND owner_id = $2 AND NOT deleted
		  AND NOT EXISTS (
			SELECT 1 FROM timesheets t
			WHERE t.project_id = time_entries.project_id AND t.status <> 'draft'
			  AND time_entries.entry_date >= t.week_start AND time_entries.entry_date <= t.week_start + 6
		  )
	`

	res, err := r.db.ExecContext(ctx, query, id, ownerID, time.Now().UTC())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrWeekLocked
	}
	return nil
}

func (r *PostgresRepository) ListTimeEntries(ctx context.Context, ownerID, projectID string, from, to time.Time) ([]models.TimeEntry, error) {
	query := `
		SELECT * FROM time_entries
		WHERE owner_id = $1 AND NOT deleted AND entry_date >= $2 AND entry_date <= $3
	`
	args := []interface{}{ownerID, from, to}

	if projectID != "" {
		query += ` AND project_id = $4`
		args = append(args, projectID)
	}
	query += ` ORDER BY entry_date ASC, created_at ASC`

	var entries []models.TimeEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresRepository) IsWeekLocked(ctx context.Context, projectID string, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM timesheets
			WHERE project_id = $1 AND status <> 'draft'
			  AND $2::date >= week_start AND $2::date <= week_start + 6
		)
	`

	var locked bool
	if err := r.db.GetContext(ctx, &locked, query, projectID, date); err != nil {
		return false, err
	}
	return locked, nil
}

// Cost entry repository methods
func (r *PostgresRepository) CreateCostEntry(ctx context.Context, entry *models.CostEntry) error {
	query := `
		INSERT INTO cost_entries (id, owner_id, project_id, amount, currency, cost_type, cost_date, notes, deleted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9)
	`

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.OwnerID, entry.ProjectID, entry.Amount, entry.Currency,
		entry.CostType, entry.CostDate, entry.Notes, entry.CreatedAt)
	return err
}

func (r *PostgresRepository) GetCostEntryForOwner(ctx context.Context, id, ownerID string) (*models.CostEntry, error) {
	query := `SELECT * FROM cost_entries WHERE id = $1 AND owner_id = $2 AND NOT deleted`

	var entry models.CostEntry
	err := r.db.GetContext(ctx, &entry, query, id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &entry, nil
}

func (r *PostgresRepository) SoftDeleteCostEntry(ctx context.Context, id, ownerID string) error {
	query := `UPDATE cost_entries SET deleted = TRUE WHERE id = $1 AND owner_id = $2 AND NOT deleted`

	_, err := r.db.ExecContext(ctx, query, id, ownerID)
	return err
}

func (r *PostgresRepository) ListCostEntries(ctx context.Context, ownerID, projectID string, from, to time.Time) ([]models.CostEntry, error) {
	query := `
		SELECT * FROM cost_entries
		WHERE owner_id = $1 AND NOT deleted AND cost_date >= $2 AND cost_date <= $3
	`
	args := []interface{}{ownerID, from, to}

	if projectID != "" {
		query += ` AND project_id = $4`
		args = append(args, projectID)
	}
	query += ` ORDER BY cost_date ASC, created_at ASC`

	var entries []models.CostEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, err
	}
	return entries, nil
}

// Flag repository methods
func (r *PostgresRepository) GetActiveFlag(ctx context.Context, projectID string, kind models.FlagKind) (*models.Flag, error) {
	query := `SELECT * FROM flags WHERE project_id = $1 AND kind = $2 AND dismissed_at IS NULL`

	var flag models.Flag
	err := r.db.GetContext(ctx, &flag, query, projectID, kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &flag, nil
}

// CreateFlag inserts a new active flag. A concurrent detection run landing
// first surfaces as ErrDuplicate via the partial unique index; callers then
// re-read and update instead.
func (r *PostgresRepository) CreateFlag(ctx context.Context, flag *models.Flag) error {
	query := `
		INSERT INTO flags (id, project_id, kind, trigger_ref, dismissed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULL, $5, $6)
	`

	if flag.ID == "" {
		flag.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	flag.CreatedAt = now
	flag.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		flag.ID, flag.ProjectID, flag.Kind, flag.TriggerRef, flag.CreatedAt, flag.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresRepository) UpdateFlagTrigger(ctx context.Context, id, triggerRef string) error {
	query := `UPDATE flags SET trigger_ref = $2, updated_at = $3 WHERE id = $1 AND dismissed_at IS NULL`

	_, err := r.db.ExecContext(ctx, query, id, triggerRef, time.Now().UTC())
	return err
}

// DismissFlag terminally dismisses an active flag owned by ownerID. Returns
// (nil, nil) when the flag is absent, foreign, or already dismissed.
func (r *PostgresRepository) DismissFlag(ctx context.Context, id, ownerID string) (*models.Flag, error) {
	query := `
		UPDATE flags SET dismissed_at = $3, updated_at = $3
		FROM projects
		WHERE flags.id = $1 AND flags.dismissed_at IS NULL
		  AND projects.id = flags.project_id AND projects.owner_id = $2
		RETURNING flags.*
	`

	var flag models.Flag
	err := r.db.GetContext(ctx, &flag, query, id, ownerID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &flag, nil
}

func (r *PostgresRepository) ListActiveFlags(ctx context.Context, projectID string) ([]models.Flag, error) {
	query := `SELECT * FROM flags WHERE project_id = $1 AND dismissed_at IS NULL ORDER BY created_at DESC`

	var flags []models.Flag
	if err := r.db.SelectContext(ctx, &flags, query, projectID); err != nil {
		return nil, err
	}
	return flags, nil
}

// AI action repository methods
func (r *PostgresRepository) CreateAiAction(ctx context.Context, action *models.AiAction) error {
	query := `
		INSERT INTO ai_actions (id, owner_id, project_id, type, title, message, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if action.ID == "" {
		action.ID = uuid.New().String()
	}
	if action.Status == "" {
		action.Status = models.ActionPending
	}
	if action.Payload == nil {
		action.Payload = []byte(`{}`)
	}

	now := time.Now().UTC()
	action.CreatedAt = now
	action.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		action.ID, action.OwnerID, action.ProjectID, action.Type, action.Title,
		action.Message, action.Payload, action.Status, action.CreatedAt, action.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetAiActionForOwner(ctx context.Context, id, ownerID string) (*models.AiAction, error) {
	query := `SELECT * FROM ai_actions WHERE id = $1 AND owner_id = $2`

	var action models.AiAction
	err := r.db.GetContext(ctx, &action, query, id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &action, nil
}

func (r *PostgresRepository) ListAiActions(ctx context.Context, ownerID string, status models.ActionStatus) ([]models.AiAction, error) {
	query := `SELECT * FROM ai_actions WHERE owner_id = $1`
	args := []interface{}{ownerID}

	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	var actions []models.AiAction
	if err := r.db.SelectContext(ctx, &actions, query, args...); err != nil {
		return nil, err
	}
	return actions, nil
}

// TransitionAiAction moves a pending action to target in one conditional
// write. Zero rows means absent, foreign, or not pending; the caller probes
// to pick the right condition.
func (r *PostgresRepository) TransitionAiAction(ctx context.Context, id, ownerID string, target models.ActionStatus) (*models.AiAction, error) {
	query := `
		UPDATE ai_actions SET status = $3, updated_at = $4
		WHERE id = $1 AND owner_id = $2 AND status = 'pending'
		RETURNING *
	`

	var action models.AiAction
	err := r.db.GetContext(ctx, &action, query, id, ownerID, target, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &action, nil
}

// Weekly report repository methods

// UpsertWeeklyReport writes the snapshot for (owner, week). The partial
// unique index on live rows makes concurrent aggregations converge on a
// single row; last writer wins on content.
func (r *PostgresRepository) UpsertWeeklyReport(ctx context.Context, report *models.WeeklyReport) error {
	query := `
		INSERT INTO weekly_reports (id, owner_id, week_start, week_end, data, insight, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $7)
		ON CONFLICT (owner_id, week_start) WHERE NOT deleted
		DO UPDATE SET week_end = EXCLUDED.week_end, data = EXCLUDED.data,
			insight = EXCLUDED.insight, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	if report.ID == "" {
		report.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	report.UpdatedAt = now

	row := r.db.QueryRowContext(ctx, query,
		report.ID, report.OwnerID, report.WeekStart, report.WeekEnd,
		report.Data, report.Insight, now)
	return row.Scan(&report.ID, &report.CreatedAt)
}

func (r *PostgresRepository) GetWeeklyReport(ctx context.Context, ownerID string, weekStart time.Time) (*models.WeeklyReport, error) {
	query := `SELECT * FROM weekly_reports WHERE owner_id = $1 AND week_start = $2 AND NOT deleted`

	var report models.WeeklyReport
	err := r.db.GetContext(ctx, &report, query, ownerID, weekStart)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &report, nil
}

func (r *PostgresRepository) GetWeeklyReportForOwner(ctx context.Context, id, ownerID string) (*models.WeeklyReport, error) {
	query := `SELECT * FROM weekly_reports WHERE id = $1 AND owner_id = $2 AND NOT deleted`

	var report models.WeeklyReport
	err := r.db.GetContext(ctx, &report, query, id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &report, nil
}

func (r *PostgresRepository) GetWeeklyReportByID(ctx context.Context, id string) (*models.WeeklyReport, error) {
	query := `SELECT * FROM weekly_reports WHERE id = $1 AND NOT deleted`

	var report models.WeeklyReport
	err := r.db.GetContext(ctx, &report, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &report, nil
}

func (r *PostgresRepository) ListWeeklyReports(ctx context.Context, ownerID string, limit int) ([]models.WeeklyReport, error) {
	query := `
		SELECT * FROM weekly_reports
		WHERE owner_id = $1 AND NOT deleted
		ORDER BY week_start DESC
		LIMIT $2
	`

	var reports []models.WeeklyReport
	if err := r.db.SelectContext(ctx, &reports, query, ownerID, limit); err != nil {
		return nil, err
	}
	return reports, nil
}

// Timesheet repository methods
func (r *PostgresRepository) CreateTimesheet(ctx context.Context, ts *models.Timesheet) error {
	query := `
		INSERT INTO timesheets (id, project_id, week_start, status, reviewer_email, review_note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if ts.ID == "" {
		ts.ID = uuid.New().String()
	}
	if ts.Status == "" {
		ts.Status = models.TimesheetDraft
	}

	now := time.Now().UTC()
	ts.CreatedAt = now
	ts.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		ts.ID, ts.ProjectID, ts.WeekStart, ts.Status, ts.ReviewerEmail, ts.ReviewNote,
		ts.CreatedAt, ts.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresRepository) GetTimesheetForOwner(ctx context.Context, id, ownerID string) (*models.Timesheet, error) {
	query := `
		SELECT t.* FROM timesheets t
		JOIN projects p ON p.id = t.project_id
		WHERE t.id = $1 AND p.owner_id = $2
	`

	var ts models.Timesheet
	err := r.db.GetContext(ctx, &ts, query, id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &ts, nil
}

func (r *PostgresRepository) GetTimesheetByID(ctx context.Context, id string) (*models.Timesheet, error) {
	query := `SELECT * FROM timesheets WHERE id = $1`

	var ts models.Timesheet
	err := r.db.GetContext(ctx, &ts, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &ts, nil
}

// SubmitTimesheet performs draft -> submitted in one conditional write,
// scoped to the owner. Zero rows covers absent, foreign, and wrong-state
// alike; the caller reports them as a single condition. Committing the
// status change is also what freezes the week's entries, since entry writes
// check timesheet status.
func (r *PostgresRepository) SubmitTimesheet(ctx context.Context, id, ownerID, reviewerEmail string) (*models.Timesheet, error) {
	query := `
		UPDATE timesheets SET status = 'submitted', reviewer_email = $3, submitted_at = $4, updated_at = $4
		FROM projects
		WHERE timesheets.id = $1 AND timesheets.status = 'draft'
		  AND projects.id = timesheets.project_id AND projects.owner_id = $2
		RETURNING timesheets.*
	`

	var ts models.Timesheet
	err := r.db.GetContext(ctx, &ts, query, id, ownerID, reviewerEmail, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &ts, nil
}

// ReviewTimesheet performs submitted -> approved|rejected in one
// conditional write. Zero rows means absent or not currently reviewable.
func (r *PostgresRepository) ReviewTimesheet(ctx context.Context, id string, decision models.TimesheetStatus, note string) (*models.Timesheet, error) {
	query := `
		UPDATE timesheets SET status = $2, review_note = $3, reviewed_at = $4, updated_at = $4
		WHERE id = $1 AND status = 'submitted'
		RETURNING *
	`

	var ts models.Timesheet
	err := r.db.GetContext(ctx, &ts, query, id, decision, note, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &ts, nil
}

// Share link repository methods
func (r *PostgresRepository) CreateShareLink(ctx context.Context, link *models.ShareLink) error {
	query := `
		INSERT INTO share_links (id, owner_id, target_type, target_id, token, label, expires_at,
			show_time_details, show_category_breakdown, show_progress, show_invoice_download, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	link.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		link.ID, link.OwnerID, link.TargetType, link.TargetID, link.Token, link.Label,
		link.ExpiresAt, link.ShowTimeDetails, link.ShowCategoryBreakdown,
		link.ShowProgress, link.ShowInvoiceDownload, link.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// GetShareLinkByToken resolves a live share link. Expiry is folded into the
// query so expired and unknown tokens are indistinguishable to callers.
func (r *PostgresRepository) GetShareLinkByToken(ctx context.Context, token string) (*models.ShareLink, error) {
	query := `
		SELECT * FROM share_links
		WHERE token = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`

	var link models.ShareLink
	err := r.db.GetContext(ctx, &link, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &link, nil
}
