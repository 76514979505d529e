package models

// Category classifies what a time entry was spent on. The declaration order
// is the tie-break order for breakdown sorting.
type Category string

const (
	CategoryPlanning    Category = "planning"
	CategoryDesign      Category = "design"
	CategoryDevelopment Category = "development"
	CategoryMeeting     Category = "meeting"
	CategoryRevision    Category = "revision"
	CategoryAdmin       Category = "admin"
	CategoryEmail       Category = "email"
	CategoryResearch    Category = "research"
	CategoryOther       Category = "other"
)

// Categories lists all valid categories in tie-break order.
var Categories = []Category{
	CategoryPlanning,
	CategoryDesign,
	CategoryDevelopment,
	CategoryMeeting,
	CategoryRevision,
	CategoryAdmin,
	CategoryEmail,
	CategoryResearch,
	CategoryOther,
}

// CategoryRank returns the position of c in the canonical order, or
// len(Categories) for unknown values so they sort last.
func CategoryRank(c Category) int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return len(Categories)
}

func (c Category) Valid() bool {
	return CategoryRank(c) < len(Categories)
}

// Intent distinguishes realized work from forecast work.
type Intent string

const (
	IntentDone    Intent = "done"
	IntentPlanned Intent = "planned"
)

func (i Intent) Valid() bool {
	return i == IntentDone || i == IntentPlanned
}

// CostType classifies a cost entry.
type CostType string

const (
	CostPlatformFee CostType = "platform_fee"
	CostTax         CostType = "tax"
	CostTool        CostType = "tool"
	CostContractor  CostType = "contractor"
	CostMisc        CostType = "misc"
)

func (c CostType) Valid() bool {
	switch c {
	case CostPlatformFee, CostTax, CostTool, CostContractor, CostMisc:
		return true
	}
	return false
}

// FlagKind identifies an anomaly condition.
type FlagKind string

const (
	FlagScopeOverrun         FlagKind = "scope_overrun"
	FlagRateUnderperformance FlagKind = "rate_underperformance"
)

func (k FlagKind) Valid() bool {
	return k == FlagScopeOverrun || k == FlagRateUnderperformance
}

// ActionType classifies an AI action queue item.
type ActionType string

const (
	ActionBriefing              ActionType = "briefing"
	ActionScopeAlert            ActionType = "scope_alert"
	ActionBillingSuggestion     ActionType = "billing_suggestion"
	ActionProfitabilityWarning  ActionType = "profitability_warning"
	ActionFollowupReminder      ActionType = "followup_reminder"
	ActionWeeklyReport          ActionType = "weekly_report"
)

// ActionStatus is the lifecycle state of an AI action.
type ActionStatus string

const (
	ActionPending   ActionStatus = "pending"
	ActionApproved  ActionStatus = "approved"
	ActionDismissed ActionStatus = "dismissed"
	ActionExecuted  ActionStatus = "executed"
)

// actionTransitions is the full transition table; everything not listed is
// illegal. All transitions out of pending are one-way.
var actionTransitions = map[ActionStatus][]ActionStatus{
	ActionPending: {ActionApproved, ActionDismissed, ActionExecuted},
}

func (s ActionStatus) Valid() bool {
	switch s {
	case ActionPending, ActionApproved, ActionDismissed, ActionExecuted:
		return true
	}
	return false
}

// CanTransitionTo reports whether s -> target is a legal transition.
func (s ActionStatus) CanTransitionTo(target ActionStatus) bool {
	for _, t := range actionTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are permitted from s.
func (s ActionStatus) Terminal() bool {
	return s.Valid() && len(actionTransitions[s]) == 0
}

// TimesheetStatus is the lifecycle state of a timesheet.
type TimesheetStatus string

const (
	TimesheetDraft     TimesheetStatus = "draft"
	TimesheetSubmitted TimesheetStatus = "submitted"
	TimesheetApproved  TimesheetStatus = "approved"
	TimesheetRejected  TimesheetStatus = "rejected"
)

var timesheetTransitions = map[TimesheetStatus][]TimesheetStatus{
	TimesheetDraft:     {TimesheetSubmitted},
	TimesheetSubmitted: {TimesheetApproved, TimesheetRejected},
}

func (s TimesheetStatus) Valid() bool {
	switch s {
	case TimesheetDraft, TimesheetSubmitted, TimesheetApproved, TimesheetRejected:
		return true
	}
	return false
}

func (s TimesheetStatus) CanTransitionTo(target TimesheetStatus) bool {
	for _, t := range timesheetTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s TimesheetStatus) Terminal() bool {
	return s.Valid() && len(timesheetTransitions[s]) == 0
}

// Locked reports whether the timesheet state freezes its week's time
// entries. Everything past draft does: submission starts the freeze and the
// workflow has no path back.
func (s TimesheetStatus) Locked() bool {
	return s.Valid() && s != TimesheetDraft
}

// ShareTargetType identifies what a share link exposes.
type ShareTargetType string

const (
	ShareTargetReport    ShareTargetType = "report"
	ShareTargetTimesheet ShareTargetType = "timesheet"
)

func (t ShareTargetType) Valid() bool {
	return t == ShareTargetReport || t == ShareTargetTimesheet
}
