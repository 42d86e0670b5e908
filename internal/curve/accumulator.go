package curve

import (
	"context"
	"math"
	"time"

	"github.com/usual2970/daywise/domain/entity"
)

// AccumulatorCurve ramps priority up as a recurring task's due instant
// approaches (calendar mode) or as time elapses since it was last done
// (completion mode). It is the only curve that branches on the
// recurrence pattern's mode.
type AccumulatorCurve struct {
	Pattern       entity.RecurrencePattern
	LastCompleted *time.Time
	NextDue       *time.Time
	BuildupRate   float64
}

// NewAccumulatorCurve returns an AccumulatorCurve. BuildupRate of 0 is
// replaced with the default 0.1 (mirrors the factory default, kept here
// too so the curve is safe to construct directly in tests).
func NewAccumulatorCurve(pattern entity.RecurrencePattern, lastCompleted, nextDue *time.Time, buildupRate float64) *AccumulatorCurve {
	if buildupRate == 0 {
		buildupRate = 0.1
	}
	return &AccumulatorCurve{
		Pattern:       pattern,
		LastCompleted: lastCompleted,
		NextDue:       nextDue,
		BuildupRate:   buildupRate,
	}
}

func (c *AccumulatorCurve) Evaluate(_ context.Context, at time.Time) (float64, error) {
	d := c.Pattern.ExpectedIntervalDays()

	if c.Pattern.Mode == entity.RecurrenceModeCompletion {
		return c.completionValue(at, d), nil
	}
	return c.calendarValue(at, d), nil
}

func (c *AccumulatorCurve) calendarValue(at time.Time, d float64) float64 {
	nextDue := at
	if c.NextDue != nil {
		nextDue = *c.NextDue
	}
	delta := nextDue.Sub(at).Hours() / 24 // signed days, due - now

	switch {
	case delta > d/2:
		return 0.2
	case delta < 0:
		overdue := -delta
		v := 1.0 + overdue*c.BuildupRate
		return math.Min(1.5, v)
	default:
		return 0.2 + (1-delta/(d/2))*0.8
	}
}

func (c *AccumulatorCurve) completionValue(at time.Time, d float64) float64 {
	last := at.AddDate(0, 0, -int(d))
	if c.LastCompleted != nil {
		last = *c.LastCompleted
	}
	daysSince := at.Sub(last).Hours() / 24
	r := daysSince / d

	switch {
	case r < 0.5:
		return 0.1
	case r < 0.8:
		return 0.3
	case r < 1.0:
		return 0.6
	case r < 1.2:
		return 0.9
	default:
		return 1.0
	}
}

func (c *AccumulatorCurve) Metadata() Metadata {
	return Metadata{
		Type: entity.CurveAccumulator,
		Args: map[string]any{
			"pattern":      c.Pattern,
			"buildup_rate": c.BuildupRate,
		},
	}
}
