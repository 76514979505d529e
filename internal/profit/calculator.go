// Package profit computes profitability metrics for a project period:
// realized hours, billed revenue, normalized costs, and the real hourly
// rate left after costs.
package profit

import (
	"context"
	"time"

	"github.com/ratewise/ratewise/internal/currency"
	"github.com/ratewise/ratewise/internal/models"
	"github.com/ratewise/ratewise/internal/rate"
)

// Input is one project period to evaluate. Entries and costs are expected
// non-deleted; deleted rows are skipped regardless.
type Input struct {
	Entries           []models.TimeEntry
	Costs             []models.CostEntry
	HourlyRate        float64
	RateCurrency      string
	ReportingCurrency string
	// AsOf is the conversion date for revenue. Costs convert on their own
	// cost date.
	AsOf time.Time
}

// Summary is the computed result. HasData=false marks a period with zero
// realized minutes; that is a valid answer, distinct from a failure.
type Summary struct {
	LoggedMinutes  int
	PlannedMinutes int
	BilledHours    float64
	Revenue        float64
	Cost           float64
	RealHourlyRate float64
	Currency       string
	HasData        bool
}

// Calculator derives profitability summaries, routing every monetary value
// through the currency normalizer before arithmetic.
type Calculator struct {
	normalizer *currency.Normalizer
}

func NewCalculator(normalizer *currency.Normalizer) *Calculator {
	return &Calculator{normalizer: normalizer}
}

// Compute evaluates one period. A negative real hourly rate is a valid
// outcome and is returned as-is.
func (c *Calculator) Compute(ctx context.Context, in Input) (*Summary, error) {
	var loggedMinutes, plannedMinutes int
	for _, e := range in.Entries {
		if e.Deleted {
			continue
		}
		switch e.Intent {
		case models.IntentDone:
			loggedMinutes += e.Minutes
		case models.IntentPlanned:
			plannedMinutes += e.Minutes
		}
	}

	totalCost := 0.0
	for _, ce := range in.Costs {
		if ce.Deleted {
			continue
		}
		normalized, err := c.normalizer.Normalize(ctx, ce.Amount, ce.Currency, in.ReportingCurrency, ce.CostDate)
		if err != nil {
			return nil, err
		}
		totalCost += normalized
	}

	summary := &Summary{
		LoggedMinutes:  loggedMinutes,
		PlannedMinutes: plannedMinutes,
		Cost:           rate.RoundTo(totalCost, currency.MinorUnits(in.ReportingCurrency)),
		Currency:       in.ReportingCurrency,
	}

	if loggedMinutes == 0 {
		// No realized work: a defined "no data" result, never a division.
		return summary, nil
	}

	billedHours := float64(loggedMinutes) / 60
	grossRevenue := billedHours * in.HourlyRate
	revenue, err := c.normalizer.Normalize(ctx, grossRevenue, in.RateCurrency, in.ReportingCurrency, in.AsOf)
	if err != nil {
		return nil, err
	}

	summary.HasData = true
	summary.BilledHours = rate.Round2(billedHours)
	summary.Revenue = revenue
	summary.RealHourlyRate = rate.Round2((revenue - totalCost) / billedHours)
	return summary, nil
}
