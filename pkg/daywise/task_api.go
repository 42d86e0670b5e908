package daywise

import (
	"context"
	"time"

	"github.com/usual2970/daywise/domain/entity"
	"github.com/usual2970/daywise/domain/repository"
	"github.com/usual2970/daywise/internal/planner"
	"github.com/usual2970/daywise/internal/task"
)

// CreateTask creates a new task, computing a default curve when in does
// not supply one.
func (d *Daywise) CreateTask(ctx context.Context, in task.CreateInput) (*entity.Task, error) {
	return d.tasks.Create(ctx, in)
}

// GetTask fetches a task by id.
func (d *Daywise) GetTask(ctx context.Context, id int64) (*entity.Task, error) {
	return d.store.Get(ctx, id)
}

// ListTasks lists tasks matching filter.
func (d *Daywise) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]*entity.Task, error) {
	return d.store.List(ctx, filter)
}

// UpdateTask applies patch to the task at id.
func (d *Daywise) UpdateTask(ctx context.Context, id int64, patch task.UpdateInput) (*entity.Task, error) {
	return d.tasks.Update(ctx, id, patch)
}

// DeleteTask removes the task at id, refusing if another task still
// depends on it.
func (d *Daywise) DeleteTask(ctx context.Context, id int64) error {
	return d.tasks.Delete(ctx, id)
}

// CompleteTask records a completion and either settles the task or rolls
// a recurring task forward to its next due instant.
func (d *Daywise) CompleteTask(ctx context.Context, id int64, completedAt *time.Time) (*entity.Task, error) {
	return d.tasks.Complete(ctx, id, completedAt)
}

// ReopenTask sets a task's status back to Open.
func (d *Daywise) ReopenTask(ctx context.Context, id int64) (*entity.Task, error) {
	return d.tasks.Reopen(ctx, id)
}

// GetStats tallies tasks by status plus an overdue count.
func (d *Daywise) GetStats(ctx context.Context) (task.Stats, error) {
	return d.tasks.GetStats(ctx)
}

// PlanDay produces a greedy first-fit schedule for date.
func (d *Daywise) PlanDay(ctx context.Context, date time.Time, opts planner.Options) (*planner.Plan, error) {
	return d.plans.PlanDay(ctx, date, opts)
}

// Evaluate scores a task's priority at instant t, bypassing the planner.
func (d *Daywise) Evaluate(ctx context.Context, t *entity.Task, at time.Time) (float64, error) {
	return d.eval.Evaluate(ctx, t, at)
}
