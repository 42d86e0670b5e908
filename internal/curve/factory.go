package curve

import (
	"time"

	"github.com/usual2970/daywise/domain"
	"github.com/usual2970/daywise/domain/entity"
)

// Factory builds a Curve from a CurveConfig plus the optional context a
// few variants need: a dependency checker for Blocked, and the owning
// task for Accumulator (its recurrence pattern / completion history).
type Factory struct {
	// Now is consulted for every "default to current time" rule. Tests
	// construct a Factory with a fixed Now; production code uses the
	// wall clock at call time.
	Now func() time.Time
}

// NewFactory returns a Factory that defaults to time.Now.
func NewFactory() *Factory {
	return &Factory{Now: time.Now}
}

// Build dispatches on cfg.Type. checker may be nil unless cfg.Type is
// Blocked; task may be nil unless cfg.Type is Accumulator. Missing
// start/deadline for Linear/Exponential default from Now alone.
func (f *Factory) Build(cfg entity.CurveConfig, checker TaskGetter, task *entity.Task) (Curve, error) {
	now := f.Now()

	switch cfg.Type {
	case entity.CurveLinear, "":
		start, deadline := f.linearBounds(cfg, now)
		return NewLinearCurve(start, deadline)

	case entity.CurveExponential:
		start, deadline := f.linearBounds(cfg, now)
		k := 2.0
		if cfg.Exponent != nil {
			k = *cfg.Exponent
		}
		return NewExponentialCurve(start, deadline, k)

	case entity.CurveHardWindow:
		if cfg.WindowStart == "" || cfg.WindowEnd == "" {
			return nil, domain.ErrMissingCurveField
		}
		windowStart, windowEnd, err := windowInstants(now, cfg.WindowStart, cfg.WindowEnd)
		if err != nil {
			return nil, err
		}
		p := 1.0
		if cfg.Priority != nil {
			p = *cfg.Priority
		}
		return NewHardWindowCurve(windowStart, windowEnd, p)

	case entity.CurveBlocked:
		if checker == nil || len(cfg.Dependencies) == 0 {
			return nil, domain.ErrMissingCurveField
		}
		thenCfg := entity.CurveConfig{Type: entity.CurveLinear}
		if cfg.ThenCurve != nil {
			thenCfg = *cfg.ThenCurve
		}
		if thenCfg.StartDate == nil {
			thenCfg.StartDate = cfg.StartDate
		}
		if thenCfg.Deadline == nil {
			thenCfg.Deadline = cfg.Deadline
		}
		inner, err := f.Build(thenCfg, checker, task)
		if err != nil {
			return nil, err
		}
		return NewBlockedCurve(cfg.Dependencies, inner, checker)

	case entity.CurveAccumulator:
		pattern := cfg.Recurrence
		if pattern == nil && task != nil {
			pattern = task.Recurrence
		}
		if pattern == nil {
			return nil, domain.ErrMissingCurveField
		}
		buildup := 0.1
		if cfg.BuildupRate != nil {
			buildup = *cfg.BuildupRate
		}
		nextDue := &now
		if task != nil && task.NextDueAt != nil {
			nextDue = task.NextDueAt
		}
		var lastCompleted *time.Time
		if task != nil {
			lastCompleted = task.LastCompletedAt
		}
		return NewAccumulatorCurve(*pattern, lastCompleted, nextDue, buildup), nil

	default:
		return nil, domain.ErrMissingCurveField
	}
}

// DefaultConfigFor decides the curve type a newly created task gets when
// it specifies none explicitly: Accumulator (with the pattern injected)
// if the task recurs, Linear otherwise.
func DefaultConfigFor(task *entity.Task) entity.CurveConfig {
	if task.Recurrence != nil {
		return entity.CurveConfig{Type: entity.CurveAccumulator, Recurrence: task.Recurrence}
	}
	return entity.CurveConfig{Type: entity.CurveLinear}
}

func (f *Factory) linearBounds(cfg entity.CurveConfig, now time.Time) (time.Time, time.Time) {
	start := now
	if cfg.StartDate != nil {
		start = *cfg.StartDate
	}
	deadline := now.AddDate(0, 0, 7)
	if cfg.Deadline != nil {
		deadline = *cfg.Deadline
	}
	return start, deadline
}

// windowInstants anchors HH:MM window bounds to the calendar day of now,
// so HardWindowCurve can compare real instants.
func windowInstants(now time.Time, startHHMM, endHHMM string) (time.Time, time.Time, error) {
	year, month, day := now.Date()
	start, err := parseAndAnchor(year, month, day, startHHMM, now.Location())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseAndAnchor(year, month, day, endHHMM, now.Location())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseAndAnchor(year int, month time.Month, day int, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("15:04", hhmm, loc)
	if err != nil {
		return time.Time{}, domain.ErrMissingCurveField
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), 0, 0, loc), nil
}
