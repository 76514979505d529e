package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// DateLayout is the wire format for calendar dates. Date-scoped entities
// associate by calendar date, not timestamp, so week boundaries do not drift
// across timezones.
const DateLayout = "2006-01-02"

// User represents a user in the system
type User struct {
	ID         string    `db:"id" json:"id"`
	Email      string    `db:"email" json:"email"`
	Name       string    `db:"name" json:"name"`
	Password   string    `db:"password" json:"-"` // Password hash, not returned in JSON
	HourlyGoal float64   `db:"hourly_goal" json:"hourlyGoal"`
	Currency   string    `db:"currency" json:"currency"` // reporting currency
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// Project represents a client project billed at an hourly rate.
type Project struct {
	ID                  string    `db:"id" json:"id"`
	OwnerID             string    `db:"owner_id" json:"ownerId"`
	Name                string    `db:"name" json:"name"`
	Client              string    `db:"client" json:"client"`
	HourlyRate          float64   `db:"hourly_rate" json:"hourlyRate"`
	Currency            string    `db:"currency" json:"currency"`
	WeeklyBudgetMinutes int       `db:"weekly_budget_minutes" json:"weeklyBudgetMinutes"`
	Archived            bool      `db:"archived" json:"archived"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}

// TimeEntry is one logged or planned block of work. Entries covered by a
// submitted timesheet are immutable.
type TimeEntry struct {
	ID          string         `db:"id" json:"id"`
	OwnerID     string         `db:"owner_id" json:"ownerId"`
	ProjectID   string         `db:"project_id" json:"projectId"`
	EntryDate   time.Time      `db:"entry_date" json:"entryDate"`
	Minutes     int            `db:"minutes" json:"minutes"`
	Category    Category       `db:"category" json:"category"`
	Intent      Intent         `db:"intent" json:"intent"`
	Description string         `db:"description" json:"description"`
	SourceText  string         `db:"source_text" json:"sourceText,omitempty"`
	Tags        pq.StringArray `db:"tags" json:"tags"`
	Deleted     bool           `db:"deleted" json:"-"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// CostEntry is a cost attributed to a project.
type CostEntry struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"ownerId"`
	ProjectID string    `db:"project_id" json:"projectId"`
	Amount    float64   `db:"amount" json:"amount"`
	Currency  string    `db:"currency" json:"currency"`
	CostType  CostType  `db:"cost_type" json:"costType"`
	CostDate  time.Time `db:"cost_date" json:"costDate"`
	Notes     string    `db:"notes" json:"notes"`
	Deleted   bool      `db:"deleted" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Flag is a project-scoped anomaly marker, active until dismissed. The
// storage layer enforces at most one active flag per (project, kind).
type Flag struct {
	ID          string     `db:"id" json:"id"`
	ProjectID   string     `db:"project_id" json:"projectId"`
	Kind        FlagKind   `db:"kind" json:"kind"`
	TriggerRef  string     `db:"trigger_ref" json:"triggerRef"`
	DismissedAt *time.Time `db:"dismissed_at" json:"dismissedAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// Active reports whether the flag has not been dismissed.
func (f *Flag) Active() bool {
	return f.DismissedAt == nil
}

// AiAction is a user-scoped work item produced by detection or aggregation.
// Rows are append-only; only the status ever changes.
type AiAction struct {
	ID        string         `db:"id" json:"id"`
	OwnerID   string         `db:"owner_id" json:"ownerId"`
	ProjectID *string        `db:"project_id" json:"projectId,omitempty"`
	Type      ActionType     `db:"type" json:"type"`
	Title     string         `db:"title" json:"title"`
	Message   string         `db:"message" json:"message"`
	Payload   types.JSONText `db:"payload" json:"payload,omitempty"`
	Status    ActionStatus   `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}

// WeeklyReport is the persisted aggregation snapshot for one (owner, week).
// At most one non-deleted row per key.
type WeeklyReport struct {
	ID        string         `db:"id" json:"id"`
	OwnerID   string         `db:"owner_id" json:"ownerId"`
	WeekStart time.Time      `db:"week_start" json:"weekStart"`
	WeekEnd   time.Time      `db:"week_end" json:"weekEnd"`
	Data      types.JSONText `db:"data" json:"data"`
	Insight   string         `db:"insight" json:"insight,omitempty"`
	Deleted   bool           `db:"deleted" json:"-"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}

// Timesheet governs the approval workflow for one project week.
type Timesheet struct {
	ID            string          `db:"id" json:"id"`
	ProjectID     string          `db:"project_id" json:"projectId"`
	WeekStart     time.Time       `db:"week_start" json:"weekStart"`
	Status        TimesheetStatus `db:"status" json:"status"`
	ReviewerEmail string          `db:"reviewer_email" json:"reviewerEmail,omitempty"`
	ReviewNote    string          `db:"review_note" json:"reviewNote,omitempty"`
	SubmittedAt   *time.Time      `db:"submitted_at" json:"submittedAt,omitempty"`
	ReviewedAt    *time.Time      `db:"reviewed_at" json:"reviewedAt,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// ShareLink grants filtered public read access to one report or timesheet.
// The token is the sole credential.
type ShareLink struct {
	ID                    string          `db:"id" json:"id"`
	OwnerID               string          `db:"owner_id" json:"ownerId"`
	TargetType            ShareTargetType `db:"target_type" json:"targetType"`
	TargetID              string          `db:"target_id" json:"targetId"`
	Token                 string          `db:"token" json:"token"`
	Label                 string          `db:"label" json:"label,omitempty"`
	ExpiresAt             *time.Time      `db:"expires_at" json:"expiresAt,omitempty"`
	ShowTimeDetails       bool            `db:"show_time_details" json:"showTimeDetails"`
	ShowCategoryBreakdown bool            `db:"show_category_breakdown" json:"showCategoryBreakdown"`
	ShowProgress          bool            `db:"show_progress" json:"showProgress"`
	ShowInvoiceDownload   bool            `db:"show_invoice_download" json:"showInvoiceDownload"`
	CreatedAt             time.Time       `db:"created_at" json:"createdAt"`
}

// CategoryMinutes is one row of a category breakdown.
type CategoryMinutes struct {
	Category Category `json:"category"`
	Minutes  int      `json:"minutes"`
}

// DayMinutes is one row of a per-day breakdown.
type DayMinutes struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

// WeekComparison holds deltas against the immediately preceding week.
type WeekComparison struct {
	PrevWeekStart string  `json:"prevWeekStart"`
	RateDelta     float64 `json:"rateDelta"`
	HoursDelta    float64 `json:"hoursDelta"`
}

// WeekData is the aggregated payload stored in a WeeklyReport's data blob.
type WeekData struct {
	WeekStart      string            `json:"weekStart"`
	WeekEnd        string            `json:"weekEnd"`
	Currency       string            `json:"currency"`
	LoggedMinutes  int               `json:"loggedMinutes"`
	PlannedMinutes int               `json:"plannedMinutes"`
	BilledHours    float64           `json:"billedHours"`
	Revenue        float64           `json:"revenue"`
	Cost           float64           `json:"cost"`
	RealHourlyRate float64           `json:"realHourlyRate"`
	HasData        bool              `json:"hasData"`
	Categories     []CategoryMinutes `json:"categories"`
	Days           []DayMinutes      `json:"days"`
	Comparison     *WeekComparison   `json:"comparison,omitempty"`
}

// FlagDelta describes what a detection run did to one flag.
type FlagDelta struct {
	FlagID string   `json:"flagId"`
	Kind   FlagKind `json:"kind"`
	Change string   `json:"change"` // "created" or "updated"
}
