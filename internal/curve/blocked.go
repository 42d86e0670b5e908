package curve

import (
	"context"
	"time"

	"github.com/usual2970/daywise/domain"
	"github.com/usual2970/daywise/domain/entity"
)

// BlockedCurve is the only variant that may suspend: it resolves each
// dependency id through a borrowed TaskGetter before delegating to its
// inner curve. Any missing or not-Completed dependency forces 0.
type BlockedCurve struct {
	DepIDs []int64
	Inner  Curve
	Store  TaskGetter
}

// NewBlockedCurve rejects an empty dependency list.
func NewBlockedCurve(depIDs []int64, inner Curve, store TaskGetter) (*BlockedCurve, error) {
	if len(depIDs) == 0 {
		return nil, domain.ErrInvalidCurveArgs
	}
	return &BlockedCurve{DepIDs: depIDs, Inner: inner, Store: store}, nil
}

func (c *BlockedCurve) Evaluate(ctx context.Context, at time.Time) (float64, error) {
	for _, id := range c.DepIDs {
		dep, err := c.Store.Get(ctx, id)
		if err != nil || dep == nil || dep.Status != entity.TaskStatusCompleted {
			return 0, nil
		}
	}
	return c.Inner.Evaluate(ctx, at)
}

func (c *BlockedCurve) Metadata() Metadata {
	return Metadata{
		Type: entity.CurveBlocked,
		Args: map[string]any{"dependencies": c.DepIDs, "inner": c.Inner.Metadata()},
	}
}
