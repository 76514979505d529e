package profit

import (
	"context"
	"testing"
	"time"

	"github.com/ratewise/ratewise/internal/apperrors"
	"github.com/ratewise/ratewise/internal/currency"
	"github.com/ratewise/ratewise/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalculator(rates map[string]float64) *Calculator {
	return NewCalculator(currency.NewNormalizer(currency.NewFixedSource(rates), time.Second))
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func doneEntry(minutes int, cat models.Category, d int) models.TimeEntry {
	return models.TimeEntry{Minutes: minutes, Category: cat, Intent: models.IntentDone, EntryDate: day(d)}
}

func TestComputeFiftyDollarWeek(t *testing.T) {
	// 10h logged at $50/hr with $40 of costs: revenue $500, real rate $46.00.
	calc := newTestCalculator(nil)

	in := Input{
		Entries: []models.TimeEntry{
			doneEntry(480, models.CategoryDevelopment, 10),
			doneEntry(120, models.CategoryMeeting, 11),
		},
		Costs: []models.CostEntry{
			{Amount: 40, Currency: "USD", CostDate: day(12)},
		},
		HourlyRate:        50,
		RateCurrency:      "USD",
		ReportingCurrency: "USD",
		AsOf:              day(16),
	}

	got, err := calc.Compute(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, got.HasData)
	assert.Equal(t, 600, got.LoggedMinutes)
	assert.Equal(t, 10.0, got.BilledHours)
	assert.Equal(t, 500.0, got.Revenue)
	assert.Equal(t, 40.0, got.Cost)
	assert.Equal(t, 46.0, got.RealHourlyRate)
}

func TestComputeZeroMinutesIsNoData(t *testing.T) {
	calc := newTestCalculator(nil)

	got, err := calc.Compute(context.Background(), Input{
		Costs: []models.CostEntry{
			{Amount: 25, Currency: "USD", CostDate: day(3)},
		},
		HourlyRate:        80,
		RateCurrency:      "USD",
		ReportingCurrency: "USD",
	})
	require.NoError(t, err)
	assert.False(t, got.HasData)
	assert.Equal(t, 0, got.LoggedMinutes)
	assert.Equal(t, 0.0, got.Revenue)
	assert.Equal(t, 0.0, got.RealHourlyRate)
	// Costs are still normalized and reported.
	assert.Equal(t, 25.0, got.Cost)
}

func TestComputeNegativeRealRateSurfaces(t *testing.T) {
	calc := newTestCalculator(nil)

	got, err := calc.Compute(context.Background(), Input{
		Entries:           []models.TimeEntry{doneEntry(60, models.CategoryAdmin, 4)},
		Costs:             []models.CostEntry{{Amount: 90, Currency: "USD", CostDate: day(4)}},
		HourlyRate:        50,
		RateCurrency:      "USD",
		ReportingCurrency: "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, -40.0, got.RealHourlyRate)
}

func TestComputeExcludesPlannedAndDeleted(t *testing.T) {
	calc := newTestCalculator(nil)

	planned := doneEntry(240, models.CategoryPlanning, 5)
	planned.Intent = models.IntentPlanned
	deleted := doneEntry(300, models.CategoryDevelopment, 6)
	deleted.Deleted = true

	got, err := calc.Compute(context.Background(), Input{
		Entries:           []models.TimeEntry{doneEntry(120, models.CategoryDevelopment, 5), planned, deleted},
		HourlyRate:        60,
		RateCurrency:      "USD",
		ReportingCurrency: "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, 120, got.LoggedMinutes)
	assert.Equal(t, 240, got.PlannedMinutes)
	assert.Equal(t, 120.0, got.Revenue)
}

func TestComputeNormalizesAcrossCurrencies(t *testing.T) {
	calc := newTestCalculator(map[string]float64{"EUR/USD": 1.1})

	got, err := calc.Compute(context.Background(), Input{
		Entries:           []models.TimeEntry{doneEntry(60, models.CategoryDevelopment, 7)},
		Costs:             []models.CostEntry{{Amount: 10, Currency: "EUR", CostDate: day(7)}},
		HourlyRate:        100,
		RateCurrency:      "EUR",
		ReportingCurrency: "USD",
		AsOf:              day(7),
	})
	require.NoError(t, err)
	assert.Equal(t, 110.0, got.Revenue)
	assert.Equal(t, 11.0, got.Cost)
	assert.Equal(t, 99.0, got.RealHourlyRate)
}

func TestComputeSurfacesRateUnavailable(t *testing.T) {
	calc := newTestCalculator(nil)

	_, err := calc.Compute(context.Background(), Input{
		Entries:           []models.TimeEntry{doneEntry(60, models.CategoryDevelopment, 8)},
		Costs:             []models.CostEntry{{Amount: 10, Currency: "GBP", CostDate: day(8)}},
		HourlyRate:        100,
		RateCurrency:      "USD",
		ReportingCurrency: "USD",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeRateUnavailable, apperrors.CodeOf(err))
}
