package curve

import (
	"context"
	"time"

	"github.com/usual2970/daywise/domain"
	"github.com/usual2970/daywise/domain/entity"
)

// HardWindowCurve returns a fixed priority P inside an inclusive
// [WindowStart, WindowEnd] instant range, and 0 outside it.
type HardWindowCurve struct {
	WindowStart time.Time
	WindowEnd   time.Time
	P           float64
}

// NewHardWindowCurve validates bounds and the priority range [0, 2.0].
func NewHardWindowCurve(windowStart, windowEnd time.Time, p float64) (*HardWindowCurve, error) {
	if !windowEnd.After(windowStart) {
		return nil, domain.ErrInvalidCurveArgs
	}
	if p < 0 || p > 2.0 {
		return nil, domain.ErrInvalidCurveArgs
	}
	return &HardWindowCurve{WindowStart: windowStart, WindowEnd: windowEnd, P: p}, nil
}

func (c *HardWindowCurve) Evaluate(_ context.Context, at time.Time) (float64, error) {
	if !at.Before(c.WindowStart) && !at.After(c.WindowEnd) {
		return c.P, nil
	}
	return 0, nil
}

func (c *HardWindowCurve) Metadata() Metadata {
	return Metadata{
		Type: entity.CurveHardWindow,
		Args: map[string]any{"window_start": c.WindowStart, "window_end": c.WindowEnd, "p": c.P},
	}
}
