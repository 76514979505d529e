// Package report composes profitability figures, category and day
// breakdowns, and a previous-week comparison into the snapshot stored as a
// weekly report. Persistence of the snapshot is the repository's concern.
package report

import (
	"context"
	"sort"
	"time"

	"github.com/ratewise/ratewise/internal/models"
	"github.com/ratewise/ratewise/internal/profit"
	"github.com/ratewise/ratewise/internal/rate"
)

// MondayOf truncates t to its calendar date and rewinds to the Monday of
// that week.
func MondayOf(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// IsMonday reports whether d falls on a Monday.
func IsMonday(d time.Time) bool {
	return d.Weekday() == time.Monday
}

// WeekEnd returns the Sunday closing the week that starts on weekStart.
func WeekEnd(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, 6)
}

// Input is everything needed to build one owner-week snapshot. Entries and
// costs must already be scoped to [weekStart, weekStart+6d]; Projects maps
// project id to its billing configuration.
type Input struct {
	OwnerID           string
	WeekStart         time.Time
	Entries           []models.TimeEntry
	Costs             []models.CostEntry
	Projects          map[string]models.Project
	ReportingCurrency string
	// Previous is the stored snapshot of the immediately preceding week,
	// nil when none exists.
	Previous *models.WeekData
}

// Aggregator builds weekly snapshots on top of the profitability calculator.
type Aggregator struct {
	calc *profit.Calculator
}

func NewAggregator(calc *profit.Calculator) *Aggregator {
	return &Aggregator{calc: calc}
}

// Build computes the snapshot for one week. Partial weeks are valid input:
// the result covers whatever non-deleted entries fall inside the range.
func (a *Aggregator) Build(ctx context.Context, in Input) (*models.WeekData, error) {
	entriesByProject := make(map[string][]models.TimeEntry)
	for _, e := range in.Entries {
		if e.Deleted {
			continue
		}
		entriesByProject[e.ProjectID] = append(entriesByProject[e.ProjectID], e)
	}
	costsByProject := make(map[string][]models.CostEntry)
	for _, ce := range in.Costs {
		if ce.Deleted {
			continue
		}
		costsByProject[ce.ProjectID] = append(costsByProject[ce.ProjectID], ce)
	}

	projectIDs := make(map[string]bool)
	for id := range entriesByProject {
		projectIDs[id] = true
	}
	for id := range costsByProject {
		projectIDs[id] = true
	}

	data := &models.WeekData{
		WeekStart:  in.WeekStart.Format(models.DateLayout),
		WeekEnd:    WeekEnd(in.WeekStart).Format(models.DateLayout),
		Currency:   in.ReportingCurrency,
		Categories: []models.CategoryMinutes{},
		Days:       []models.DayMinutes{},
	}

	var revenue, cost float64
	for id := range projectIDs {
		project := in.Projects[id]
		summary, err := a.calc.Compute(ctx, profit.Input{
			Entries:           entriesByProject[id],
			Costs:             costsByProject[id],
			HourlyRate:        project.HourlyRate,
			RateCurrency:      project.Currency,
			ReportingCurrency: in.ReportingCurrency,
			AsOf:              WeekEnd(in.WeekStart),
		})
		if err != nil {
			return nil, err
		}
		data.LoggedMinutes += summary.LoggedMinutes
		data.PlannedMinutes += summary.PlannedMinutes
		revenue += summary.Revenue
		cost += summary.Cost
	}

	data.Revenue = rate.Round2(revenue)
	data.Cost = rate.Round2(cost)
	if data.LoggedMinutes > 0 {
		data.HasData = true
		billedHours := float64(data.LoggedMinutes) / 60
		data.BilledHours = rate.Round2(billedHours)
		data.RealHourlyRate = rate.Round2((revenue - cost) / billedHours)
	}

	data.Categories = categoryBreakdown(in.Entries)
	data.Days = dayBreakdown(in.WeekStart, in.Entries)
	data.Comparison = compare(data, in.Previous)
	return data, nil
}

// categoryBreakdown sums realized minutes per category, sorted by minutes
// descending with ties broken by the canonical category order.
func categoryBreakdown(entries []models.TimeEntry) []models.CategoryMinutes {
	totals := make(map[models.Category]int)
	for _, e := range entries {
		if e.Deleted || e.Intent != models.IntentDone {
			continue
		}
		totals[e.Category] += e.Minutes
	}

	breakdown := make([]models.CategoryMinutes, 0, len(totals))
	for cat, minutes := range totals {
		breakdown = append(breakdown, models.CategoryMinutes{Category: cat, Minutes: minutes})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		if breakdown[i].Minutes != breakdown[j].Minutes {
			return breakdown[i].Minutes > breakdown[j].Minutes
		}
		return models.CategoryRank(breakdown[i].Category) < models.CategoryRank(breakdown[j].Category)
	})
	return breakdown
}

// dayBreakdown sums realized minutes per calendar day, Monday through Sunday.
func dayBreakdown(weekStart time.Time, entries []models.TimeEntry) []models.DayMinutes {
	days := make([]models.DayMinutes, 7)
	index := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		date := weekStart.AddDate(0, 0, i).Format(models.DateLayout)
		days[i] = models.DayMinutes{Date: date}
		index[date] = i
	}
	for _, e := range entries {
		if e.Deleted || e.Intent != models.IntentDone {
			continue
		}
		if i, ok := index[e.EntryDate.Format(models.DateLayout)]; ok {
			days[i].Minutes += e.Minutes
		}
	}
	return days
}

func compare(current *models.WeekData, previous *models.WeekData) *models.WeekComparison {
	if previous == nil {
		return nil
	}
	return &models.WeekComparison{
		PrevWeekStart: previous.WeekStart,
		RateDelta:     rate.Round2(current.RealHourlyRate - previous.RealHourlyRate),
		HoursDelta:    rate.Round2(float64(current.LoggedMinutes-previous.LoggedMinutes) / 60),
	}
}
