package models

// Request models
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateSettingsRequest struct {
	HourlyGoal *float64 `json:"hourlyGoal" binding:"omitempty,gte=0"`
	Currency   string   `json:"currency" binding:"omitempty,len=3"`
}

type CreateProjectRequest struct {
	Name                string  `json:"name" binding:"required"`
	Client              string  `json:"client"`
	HourlyRate          float64 `json:"hourlyRate" binding:"required,gt=0"`
	Currency            string  `json:"currency" binding:"required,len=3"`
	WeeklyBudgetMinutes int     `json:"weeklyBudgetMinutes" binding:"gte=0"`
}

type CreateTimeEntryRequest struct {
	ProjectID   string   `json:"projectId" binding:"required"`
	Date        string   `json:"date" binding:"required"`
	Minutes     int      `json:"minutes" binding:"required,min=1,max=1440"`
	Category    string   `json:"category" binding:"required"`
	Intent      string   `json:"intent" binding:"required,oneof=done planned"`
	Description string   `json:"description" binding:"required"`
	SourceText  string   `json:"sourceText"`
	Tags        []string `json:"tags"`
}

type UpdateTimeEntryRequest struct {
	Date        string   `json:"date"`
	Minutes     int      `json:"minutes" binding:"omitempty,min=1,max=1440"`
	Category    string   `json:"category"`
	Intent      string   `json:"intent" binding:"omitempty,oneof=done planned"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type CreateCostEntryRequest struct {
	ProjectID string  `json:"projectId" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Currency  string  `json:"currency" binding:"required,len=3"`
	CostType  string  `json:"costType" binding:"required"`
	Date      string  `json:"date" binding:"required"`
	Notes     string  `json:"notes"`
}

type TransitionActionRequest struct {
	Target string `json:"target" binding:"required,oneof=approved dismissed executed"`
}

type AggregateReportRequest struct {
	WeekStart string `json:"weekStart" binding:"required"`
}

type CreateTimesheetRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	WeekStart string `json:"weekStart" binding:"required"`
}

type SubmitTimesheetRequest struct {
	ReviewerEmail string `json:"reviewerEmail" binding:"omitempty,email"`
}

type ReviewTimesheetRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Note     string `json:"note"`
}

type CreateShareLinkRequest struct {
	TargetType            string `json:"targetType" binding:"required,oneof=report timesheet"`
	TargetID              string `json:"targetId" binding:"required"`
	Label                 string `json:"label"`
	ExpiresAt             string `json:"expiresAt"` // RFC 3339, empty = no expiry
	ShowTimeDetails       bool   `json:"showTimeDetails"`
	ShowCategoryBreakdown bool   `json:"showCategoryBreakdown"`
	ShowProgress          bool   `json:"showProgress"`
	ShowInvoiceDownload   bool   `json:"showInvoiceDownload"`
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type ProfitabilityResponse struct {
	Status         string  `json:"status"`
	ProjectID      string  `json:"projectId"`
	Currency       string  `json:"currency"`
	LoggedMinutes  int     `json:"loggedMinutes"`
	PlannedMinutes int     `json:"plannedMinutes"`
	BilledHours    float64 `json:"billedHours"`
	Revenue        float64 `json:"revenue"`
	Cost           float64 `json:"cost"`
	RealHourlyRate float64 `json:"realHourlyRate"`
	HasData        bool    `json:"hasData"`
}

type DetectAnomaliesResponse struct {
	Status    string      `json:"status"`
	ProjectID string      `json:"projectId"`
	Deltas    []FlagDelta `json:"deltas"`
}

type WeeklyReportResponse struct {
	Status    string   `json:"status"`
	ReportID  string   `json:"reportId"`
	WeekStart string   `json:"weekStart"`
	WeekEnd   string   `json:"weekEnd"`
	Data      WeekData `json:"data"`
	Insight   string   `json:"insight,omitempty"`
}

type ShareLinkResponse struct {
	Status    string `json:"status"`
	LinkID    string `json:"linkId"`
	Token     string `json:"token"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

// SharedEntry is the per-entry row exposed through a share link when time
// details are visible.
type SharedEntry struct {
	Date        string   `json:"date"`
	Minutes     int      `json:"minutes"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
}

// SharedView is the token-gated public projection of a report or timesheet.
// Optional sections are present only when the link's visibility flags allow.
type SharedView struct {
	TargetType      ShareTargetType   `json:"targetType"`
	Label           string            `json:"label,omitempty"`
	WeekStart       string            `json:"weekStart"`
	WeekEnd         string            `json:"weekEnd"`
	Currency        string            `json:"currency,omitempty"`
	LoggedMinutes   int               `json:"loggedMinutes"`
	BilledHours     float64           `json:"billedHours"`
	Revenue         float64           `json:"revenue,omitempty"`
	RealHourlyRate  float64           `json:"realHourlyRate,omitempty"`
	TimesheetStatus TimesheetStatus   `json:"timesheetStatus,omitempty"`
	CanReview       bool              `json:"canReview,omitempty"`
	Categories      []CategoryMinutes `json:"categories,omitempty"`
	Days            []DayMinutes      `json:"days,omitempty"`
	Comparison      *WeekComparison   `json:"comparison,omitempty"`
	Entries         []SharedEntry     `json:"entries,omitempty"`
	InvoiceDownload bool              `json:"invoiceDownload"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
