package anomaly

import (
	"testing"

	"github.com/ratewise/ratewise/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSettings = Settings{
	ScopeOverrunMultiple:  1.5,
	UnderperformanceWeeks: 2,
	TrailingWindowWeeks:   4,
}

func week(start string, minutes int, rate float64) WeekStat {
	return WeekStat{WeekStart: start, LoggedMinutes: minutes, RealHourlyRate: rate, HasData: minutes > 0}
}

func findKind(findings []Finding, kind models.FlagKind) *Finding {
	for i, f := range findings {
		if f.Kind == kind {
			return &findings[i]
		}
	}
	return nil
}

func TestScanScopeOverrun(t *testing.T) {
	d := NewDetector(testSettings)

	// Trailing average 600m, current 1200m > 1.5 * 600.
	findings := d.Scan(Input{
		ProjectID: "p1",
		Weeks: []WeekStat{
			week("2025-02-17", 600, 55),
			week("2025-02-24", 600, 55),
			week("2025-03-03", 1200, 55),
		},
		HourlyGoal: 50,
	})

	f := findKind(findings, models.FlagScopeOverrun)
	require.NotNil(t, f)
	assert.Contains(t, f.TriggerRef, "2025-03-03")
}

func TestScanScopeOverrunThresholdEdge(t *testing.T) {
	d := NewDetector(testSettings)

	// Exactly at the multiple is not an overrun; the threshold is strict.
	findings := d.Scan(Input{
		Weeks: []WeekStat{
			week("2025-02-24", 600, 55),
			week("2025-03-03", 900, 55),
		},
		HourlyGoal: 50,
	})
	assert.Nil(t, findKind(findings, models.FlagScopeOverrun))

	findings = d.Scan(Input{
		Weeks: []WeekStat{
			week("2025-02-24", 600, 55),
			week("2025-03-03", 901, 55),
		},
		HourlyGoal: 50,
	})
	assert.NotNil(t, findKind(findings, models.FlagScopeOverrun))
}

func TestScanScopeOverrunNeedsTrailingData(t *testing.T) {
	d := NewDetector(testSettings)

	// One week of history, nothing to average against.
	findings := d.Scan(Input{
		Weeks:      []WeekStat{week("2025-03-03", 2000, 55)},
		HourlyGoal: 50,
	})
	assert.Empty(t, findings)

	// Trailing weeks exist but are empty.
	findings = d.Scan(Input{
		Weeks: []WeekStat{
			week("2025-02-24", 0, 0),
			week("2025-03-03", 2000, 55),
		},
	})
	assert.Nil(t, findKind(findings, models.FlagScopeOverrun))
}

func TestScanScopeOverrunTrailingWindowCap(t *testing.T) {
	d := NewDetector(Settings{ScopeOverrunMultiple: 1.5, TrailingWindowWeeks: 2})

	// The old 3000m week falls outside the 2-week trailing window, so the
	// average is 100m and 400m overruns.
	findings := d.Scan(Input{
		Weeks: []WeekStat{
			week("2025-02-10", 3000, 55),
			week("2025-02-17", 100, 55),
			week("2025-02-24", 100, 55),
			week("2025-03-03", 400, 55),
		},
	})
	assert.NotNil(t, findKind(findings, models.FlagScopeOverrun))
}

func TestScanRateUnderperformance(t *testing.T) {
	d := NewDetector(testSettings)

	findings := d.Scan(Input{
		Weeks: []WeekStat{
			week("2025-02-24", 600, 42),
			week("2025-03-03", 600, 38),
		},
		HourlyGoal: 50,
	})

	f := findKind(findings, models.FlagRateUnderperformance)
	require.NotNil(t, f)
	assert.Contains(t, f.TriggerRef, "38.00")
}

func TestScanRateUnderperformanceNeedsConsecutiveWeeks(t *testing.T) {
	d := NewDetector(testSettings)

	// Only the latest week is below goal.
	findings := d.Scan(Input{
		Weeks: []WeekStat{
			week("2025-02-24", 600, 60),
			week("2025-03-03", 600, 38),
		},
		HourlyGoal: 50,
	})
	assert.Nil(t, findKind(findings, models.FlagRateUnderperformance))

	// A no-data week breaks the streak.
	findings = d.Scan(Input{
		Weeks: []WeekStat{
			week("2025-02-24", 0, 0),
			week("2025-03-03", 600, 38),
		},
		HourlyGoal: 50,
	})
	assert.Nil(t, findKind(findings, models.FlagRateUnderperformance))
}

func TestScanNoGoalNoUnderperformance(t *testing.T) {
	d := NewDetector(testSettings)

	findings := d.Scan(Input{
		Weeks: []WeekStat{
			week("2025-02-24", 600, 1),
			week("2025-03-03", 600, 1),
		},
	})
	assert.Nil(t, findKind(findings, models.FlagRateUnderperformance))
}

func TestScanEmptyHistory(t *testing.T) {
	d := NewDetector(testSettings)
	assert.Empty(t, d.Scan(Input{}))
}

func TestScanIsDeterministic(t *testing.T) {
	d := NewDetector(testSettings)
	in := Input{
		Weeks: []WeekStat{
			week("2025-02-24", 400, 30),
			week("2025-03-03", 1200, 30),
		},
		HourlyGoal: 50,
	}

	first := d.Scan(in)
	second := d.Scan(in)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}
