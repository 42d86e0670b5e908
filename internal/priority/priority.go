// Package priority composes the blocked check, the time-window check and
// a constructed curve into the single priority number the planner sorts
// by. It is the one place in the core that recovers from a curve-factory
// error instead of propagating it.
package priority

import (
	"context"
	"sort"
	"time"

	"github.com/usual2970/daywise/domain/entity"
	"github.com/usual2970/daywise/domain/repository"
	"github.com/usual2970/daywise/internal/curve"
	"github.com/usual2970/daywise/internal/depgraph"
	"github.com/usual2970/daywise/internal/timeutil"
)

// Evaluator computes a Task's priority at an instant.
type Evaluator struct {
	Store     repository.TaskStore
	Validator *depgraph.Validator
	Factory   *curve.Factory
}

// New builds an Evaluator over store.
func New(store repository.TaskStore) *Evaluator {
	return &Evaluator{
		Store:     store,
		Validator: depgraph.New(store),
		Factory:   curve.NewFactory(),
	}
}

// Evaluate returns task's priority at instant t:
// blocked dependencies and an outside-window instant both force 0 without
// consulting the curve; a curve-construction failure falls back to a
// synthetic linear curve from the task's creation to its deadline (or
// created_at+7 days).
func (e *Evaluator) Evaluate(ctx context.Context, task *entity.Task, t time.Time) (float64, error) {
	if task.HasDependencies() && !e.Validator.AllComplete(ctx, task.Dependencies) {
		return 0, nil
	}

	if task.HasWindow() {
		inWindow, err := windowContains(task, t)
		if err != nil {
			return 0, nil
		}
		if !inWindow {
			return 0, nil
		}
	}

	c, err := e.Factory.Build(task.Curve, curveTaskGetter{e.Store}, task)
	if err != nil {
		c, err = e.fallbackCurve(task)
		if err != nil {
			return 0, nil
		}
	}
	return c.Evaluate(ctx, t)
}

func (e *Evaluator) fallbackCurve(task *entity.Task) (curve.Curve, error) {
	deadline := task.CreatedAt.AddDate(0, 0, 7)
	if task.Deadline != nil {
		deadline = *task.Deadline
	}
	return curve.NewLinearCurve(task.CreatedAt, deadline)
}

func windowContains(task *entity.Task, t time.Time) (bool, error) {
	start, err := timeutil.ParseHHMM(task.WindowStart)
	if err != nil {
		return false, err
	}
	end, err := timeutil.ParseHHMM(task.WindowEnd)
	if err != nil {
		return false, err
	}
	nowMinutes := t.Hour()*60 + t.Minute()
	return timeutil.InWindow(nowMinutes, start, end), nil
}

// GetByPriority loads open and in-progress tasks, scores each at t, and
// returns them sorted by priority descending, truncated to limit when
// limit > 0. Ties keep the store's natural order (creation order
// descending).
func (e *Evaluator) GetByPriority(ctx context.Context, limit int, t time.Time) ([]ScoredTask, error) {
	tasks, err := e.Store.List(ctx, repository.TaskFilter{
		Status: []entity.TaskStatus{entity.TaskStatusOpen, entity.TaskStatusInProgress},
	})
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredTask, 0, len(tasks))
	for _, task := range tasks {
		p, err := e.Evaluate(ctx, task, t)
		if err != nil {
			return nil, err
		}
		scored = append(scored, ScoredTask{Task: task, Priority: p})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Priority > scored[j].Priority
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// ScoredTask pairs a task with its priority at the instant it was scored.
type ScoredTask struct {
	Task     *entity.Task
	Priority float64
}

// curveTaskGetter adapts a repository.TaskStore to curve.TaskGetter, the
// narrow read surface the Blocked curve needs.
type curveTaskGetter struct {
	store repository.TaskStore
}

func (g curveTaskGetter) Get(ctx context.Context, id int64) (*entity.Task, error) {
	return g.store.Get(ctx, id)
}
