// Package curve implements the priority-curve family: pure-ish functions
// of time, parameterized by a CurveConfig, that reduce a task's urgency
// at an instant to a single non-negative scalar. All curves satisfy the
// one Curve interface; the only variant that can suspend (because it
// must consult the task store) is Blocked — callers always call through
// Evaluate's context-and-error signature so pure curves and the
// store-backed one share a single calling convention. There is no
// runtime type sniffing to distinguish them.
package curve

import (
	"context"
	"time"

	"github.com/usual2970/daywise/domain/entity"
)

// Curve evaluates a task's priority at an instant. Pure variants ignore
// ctx and never return an error; Blocked may do both.
type Curve interface {
	Evaluate(ctx context.Context, at time.Time) (float64, error)
	Metadata() Metadata
}

// Metadata describes a constructed curve for diagnostics and for the
// wire format's "what produced this priority" field.
type Metadata struct {
	Type entity.CurveType
	Args map[string]any
}

// TaskGetter is the read-only store handle a Blocked curve needs to
// resolve its dependency ids. Any repository.TaskStore satisfies it.
type TaskGetter interface {
	Get(ctx context.Context, id int64) (*entity.Task, error)
}
