// Package task implements the lifecycle manager (C7): the sole writer of
// tasks. It validates the dependency graph through depgraph on create and
// on dependency updates, and drives recurrence through the recurrence package on
// completion.
package task

import (
	"context"
	"fmt"
	"time"

	"github.com/usual2970/daywise/domain"
	"github.com/usual2970/daywise/domain/entity"
	"github.com/usual2970/daywise/domain/repository"
	"github.com/usual2970/daywise/internal/curve"
	"github.com/usual2970/daywise/internal/depgraph"
	"github.com/usual2970/daywise/internal/recurrence"

	"github.com/google/uuid"
)

// Manager owns task creation, mutation and the completion/recurrence
// transition. It is the only component permitted to write to the store.
type Manager struct {
	Store     repository.TaskStore
	Validator *depgraph.Validator
	Now       func() time.Time
}

// New builds a Manager over store with the wall clock as its time source.
func New(store repository.TaskStore) *Manager {
	return &Manager{
		Store:     store,
		Validator: depgraph.New(store),
		Now:       time.Now,
	}
}

// CreateInput is the set of fields a caller may supply when creating a
// task. Curve is optional; when zero-valued, curve.DefaultConfigFor picks
// Accumulator for a recurring task and Linear otherwise.
type CreateInput struct {
	Title           string
	Project         string
	Bucket          *int64
	Tags            []string
	Deadline        *time.Time
	EstimateMinutes *int
	WindowStart     string
	WindowEnd       string
	Recurrence      *entity.RecurrencePattern
	Dependencies    []int64
	Curve           *entity.CurveConfig
}

// Create validates dependency existence, computes the default curve
// config when the caller left one unset, and persists the new task as
// Open.
func (m *Manager) Create(ctx context.Context, in CreateInput) (*entity.Task, error) {
	if err := m.Validator.CheckExistence(ctx, in.Dependencies); err != nil {
		return nil, err
	}

	now := m.Now()
	t := &entity.Task{
		Title:           in.Title,
		Project:         in.Project,
		Bucket:          in.Bucket,
		Tags:            in.Tags,
		Deadline:        in.Deadline,
		EstimateMinutes: in.EstimateMinutes,
		WindowStart:     in.WindowStart,
		WindowEnd:       in.WindowEnd,
		Recurrence:      in.Recurrence,
		Dependencies:    in.Dependencies,
		Status:          entity.TaskStatusOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if in.Curve != nil {
		t.Curve = *in.Curve
	} else {
		t.Curve = curve.DefaultConfigFor(t)
	}

	id, err := m.Store.Insert(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	t.ID = id
	return t, nil
}

// UpdateInput carries only the fields the caller wants to change; nil
// fields are left untouched. Dependencies is a pointer-to-slice so a
// caller can distinguish "leave dependencies alone" (nil) from "set to
// empty" (non-nil empty slice).
type UpdateInput struct {
	Title           *string
	Project         *string
	Bucket          **int64
	Tags            *[]string
	Deadline        **time.Time
	EstimateMinutes **int
	WindowStart     *string
	WindowEnd       *string
	Recurrence      **entity.RecurrencePattern
	Dependencies    *[]int64
	Curve           *entity.CurveConfig
}

// Update applies patch to the task at id. When Dependencies is set, it
// re-runs existence and cycle checks with excludeTaskId=id before
// persisting.
func (m *Manager) Update(ctx context.Context, id int64, patch UpdateInput) (*entity.Task, error) {
	existing, err := m.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Dependencies != nil {
		if err := m.Validator.CheckExistence(ctx, *patch.Dependencies); err != nil {
			return nil, err
		}
		if err := m.Validator.CheckAcyclic(ctx, id, *patch.Dependencies); err != nil {
			return nil, err
		}
		existing.Dependencies = *patch.Dependencies
	}

	applyScalarPatch(existing, patch)

	existing.UpdatedAt = m.Now()
	if err := m.Store.Update(ctx, id, existing); err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return existing, nil
}

func applyScalarPatch(t *entity.Task, patch UpdateInput) {
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Project != nil {
		t.Project = *patch.Project
	}
	if patch.Bucket != nil {
		t.Bucket = *patch.Bucket
	}
	if patch.Tags != nil {
		t.Tags = *patch.Tags
	}
	if patch.Deadline != nil {
		t.Deadline = *patch.Deadline
	}
	if patch.EstimateMinutes != nil {
		t.EstimateMinutes = *patch.EstimateMinutes
	}
	if patch.WindowStart != nil {
		t.WindowStart = *patch.WindowStart
	}
	if patch.WindowEnd != nil {
		t.WindowEnd = *patch.WindowEnd
	}
	if patch.Recurrence != nil {
		t.Recurrence = *patch.Recurrence
	}
	if patch.Curve != nil {
		t.Curve = *patch.Curve
	}
}

// Delete refuses to remove a task that any other task still lists as a
// dependency.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	all, err := m.Store.List(ctx, repository.TaskFilter{})
	if err != nil {
		return err
	}
	for _, other := range all {
		if other.ID == id {
			continue
		}
		for _, dep := range other.Dependencies {
			if dep == id {
				return fmt.Errorf("task %d depends on %d: %w", other.ID, id, domain.ErrHasDependents)
			}
		}
	}
	if err := m.Store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// Complete records a completion row and either reopens a recurring task
// with a freshly computed next_due_at, or settles a one-off task into
// Completed.
func (m *Manager) Complete(ctx context.Context, id int64, completedAt *time.Time) (*entity.Task, error) {
	t, err := m.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	at := m.Now()
	if completedAt != nil {
		at = *completedAt
	}

	if err := m.Store.InsertCompletion(ctx, &entity.Completion{
		ID:          uuid.NewString(),
		TaskID:      id,
		CompletedAt: at,
	}); err != nil {
		return nil, fmt.Errorf("record completion for task %d: %w", id, err)
	}

	if err := m.Store.SetLastCompleted(ctx, id, at); err != nil {
		return nil, fmt.Errorf("set last_completed_at for task %d: %w", id, err)
	}
	t.LastCompletedAt = &at

	if t.IsRecurring() {
		next := recurrence.NextDue(*t.Recurrence, at, t)
		if err := m.Store.SetNextDue(ctx, id, next); err != nil {
			return nil, fmt.Errorf("set next_due_at for task %d: %w", id, err)
		}
		t.NextDueAt = &next
		t.Status = entity.TaskStatusOpen
	} else {
		t.Status = entity.TaskStatusCompleted
	}

	t.UpdatedAt = m.Now()
	if err := m.Store.Update(ctx, id, t); err != nil {
		return nil, fmt.Errorf("update task %d after completion: %w", id, err)
	}
	return t, nil
}

// Reopen sets the task's status back to Open.
func (m *Manager) Reopen(ctx context.Context, id int64) (*entity.Task, error) {
	t, err := m.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Status = entity.TaskStatusOpen
	t.UpdatedAt = m.Now()
	if err := m.Store.Update(ctx, id, t); err != nil {
		return nil, fmt.Errorf("reopen task %d: %w", id, err)
	}
	return t, nil
}

// Stats summarizes the task store for a lightweight dashboard surface,
// supplementing the core with the kind of aggregate the original system
// exposed alongside CRUD.
type Stats struct {
	Open       int
	InProgress int
	Completed  int
	Blocked    int
	Overdue    int
}

// GetStats tallies task counts by status plus an overdue count (open or
// in-progress tasks whose deadline has passed).
func (m *Manager) GetStats(ctx context.Context) (Stats, error) {
	all, err := m.Store.List(ctx, repository.TaskFilter{})
	if err != nil {
		return Stats{}, err
	}
	now := m.Now()
	var s Stats
	for _, t := range all {
		switch t.Status {
		case entity.TaskStatusOpen:
			s.Open++
		case entity.TaskStatusInProgress:
			s.InProgress++
		case entity.TaskStatusCompleted:
			s.Completed++
		case entity.TaskStatusBlocked:
			s.Blocked++
		}
		if t.Deadline != nil && t.Deadline.Before(now) &&
			(t.Status == entity.TaskStatusOpen || t.Status == entity.TaskStatusInProgress) {
			s.Overdue++
		}
	}
	return s, nil
}
