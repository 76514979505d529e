// Package anomaly scans a project's recent weeks for conditions that should
// prompt user action: scope overruns and sustained rate underperformance.
// The scan itself is pure; flag persistence and idempotency live in the
// service and storage layers.
package anomaly

import (
	"fmt"

	"github.com/ratewise/ratewise/internal/models"
)

// Settings are the detection thresholds. They are configuration, supplied
// at wiring time.
type Settings struct {
	// ScopeOverrunMultiple flags the current week when its logged minutes
	// exceed this multiple of the trailing average.
	ScopeOverrunMultiple float64
	// UnderperformanceWeeks is how many consecutive weeks the real hourly
	// rate must sit below the hourly goal before flagging.
	UnderperformanceWeeks int
	// TrailingWindowWeeks caps how many weeks feed the trailing average.
	TrailingWindowWeeks int
}

// WeekStat is one week of computed project figures, oldest first in the
// input slice; the last element is the week under inspection.
type WeekStat struct {
	WeekStart      string
	LoggedMinutes  int
	RealHourlyRate float64
	HasData        bool
}

// Input is one project's rolling window plus the owner's hourly goal.
type Input struct {
	ProjectID  string
	Weeks      []WeekStat
	HourlyGoal float64
}

// Finding is a detected condition with a human-readable trigger reference.
type Finding struct {
	Kind       models.FlagKind
	TriggerRef string
}

type Detector struct {
	settings Settings
}

func NewDetector(settings Settings) *Detector {
	return &Detector{settings: settings}
}

// Scan inspects the window and returns zero or more findings. Re-running
// Scan over the same window returns the same findings; dedup against
// existing flags is the caller's concern.
func (d *Detector) Scan(in Input) []Finding {
	var findings []Finding

	if f := d.scopeOverrun(in); f != nil {
		findings = append(findings, *f)
	}
	if f := d.rateUnderperformance(in); f != nil {
		findings = append(findings, *f)
	}
	return findings
}

func (d *Detector) scopeOverrun(in Input) *Finding {
	if len(in.Weeks) < 2 || d.settings.ScopeOverrunMultiple <= 0 {
		return nil
	}

	current := in.Weeks[len(in.Weeks)-1]
	trailing := in.Weeks[:len(in.Weeks)-1]
	if d.settings.TrailingWindowWeeks > 0 && len(trailing) > d.settings.TrailingWindowWeeks {
		trailing = trailing[len(trailing)-d.settings.TrailingWindowWeeks:]
	}

	total := 0
	for _, w := range trailing {
		total += w.LoggedMinutes
	}
	avg := float64(total) / float64(len(trailing))
	if avg <= 0 {
		return nil
	}

	if float64(current.LoggedMinutes) > d.settings.ScopeOverrunMultiple*avg {
		return &Finding{
			Kind: models.FlagScopeOverrun,
			TriggerRef: fmt.Sprintf("week %s logged %dm against a trailing average of %.0fm",
				current.WeekStart, current.LoggedMinutes, avg),
		}
	}
	return nil
}

func (d *Detector) rateUnderperformance(in Input) *Finding {
	needed := d.settings.UnderperformanceWeeks
	if needed <= 0 || in.HourlyGoal <= 0 || len(in.Weeks) < needed {
		return nil
	}

	recent := in.Weeks[len(in.Weeks)-needed:]
	for _, w := range recent {
		if !w.HasData || w.RealHourlyRate >= in.HourlyGoal {
			return nil
		}
	}

	latest := recent[len(recent)-1]
	return &Finding{
		Kind: models.FlagRateUnderperformance,
		TriggerRef: fmt.Sprintf("real hourly rate %.2f below goal %.2f for %d consecutive weeks ending %s",
			latest.RealHourlyRate, in.HourlyGoal, needed, latest.WeekStart),
	}
}
