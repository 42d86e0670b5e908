package curve

import (
	"context"
	"time"

	"github.com/usual2970/daywise/domain"
	"github.com/usual2970/daywise/domain/entity"
)

// LinearCurve ramps priority from 0 at Start to 1.0 at Deadline, then
// keeps growing linearly past the deadline at the same slope.
type LinearCurve struct {
	Start    time.Time
	Deadline time.Time
}

// NewLinearCurve validates bounds and returns a LinearCurve.
func NewLinearCurve(start, deadline time.Time) (*LinearCurve, error) {
	if !deadline.After(start) {
		return nil, domain.ErrInvalidCurveArgs
	}
	return &LinearCurve{Start: start, Deadline: deadline}, nil
}

func (c *LinearCurve) Evaluate(_ context.Context, at time.Time) (float64, error) {
	return linearValue(at, c.Start, c.Deadline), nil
}

func (c *LinearCurve) Metadata() Metadata {
	return Metadata{
		Type: entity.CurveLinear,
		Args: map[string]any{"start": c.Start, "deadline": c.Deadline},
	}
}

// linearValue is the shared Linear/Exponential overdue-growth formula:
// 0 before start, a 0..1 ramp inside [start, deadline], and 1 + overdue
// growth past deadline. Exponential raises only the inside-window ramp
// to its exponent; the overdue branch is identical for both curves.
func linearValue(t, start, deadline time.Time) float64 {
	span := deadline.Sub(start).Seconds()
	switch {
	case t.Before(start):
		return 0
	case t.After(deadline):
		overdue := t.Sub(deadline).Seconds()
		return 1 + overdue/span
	default:
		return t.Sub(start).Seconds() / span
	}
}
