package curve

import (
	"context"
	"math"
	"time"

	"github.com/usual2970/daywise/domain"
	"github.com/usual2970/daywise/domain/entity"
)

// ExponentialCurve behaves like LinearCurve before Start and after
// Deadline (same overdue growth, not raised to K), but raises the
// inside-window ramp to the power K.
type ExponentialCurve struct {
	Start    time.Time
	Deadline time.Time
	K        float64
}

// NewExponentialCurve validates bounds and the exponent range [1, 5].
func NewExponentialCurve(start, deadline time.Time, k float64) (*ExponentialCurve, error) {
	if !deadline.After(start) {
		return nil, domain.ErrInvalidCurveArgs
	}
	if k < 1.0 || k > 5.0 {
		return nil, domain.ErrInvalidCurveArgs
	}
	return &ExponentialCurve{Start: start, Deadline: deadline, K: k}, nil
}

func (c *ExponentialCurve) Evaluate(_ context.Context, at time.Time) (float64, error) {
	switch {
	case at.Before(c.Start):
		return 0, nil
	case at.After(c.Deadline):
		return linearValue(at, c.Start, c.Deadline), nil
	default:
		span := c.Deadline.Sub(c.Start).Seconds()
		frac := at.Sub(c.Start).Seconds() / span
		return math.Pow(frac, c.K), nil
	}
}

func (c *ExponentialCurve) Metadata() Metadata {
	return Metadata{
		Type: entity.CurveExponential,
		Args: map[string]any{"start": c.Start, "deadline": c.Deadline, "k": c.K},
	}
}
