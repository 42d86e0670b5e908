// Package depgraph guards the dependency edges between tasks: every id a
// task lists must resolve to a real task, and the graph those edges form
// across the whole store must stay acyclic. It borrows a read-only view
// of the task store rather than owning any state of its own.
package depgraph

import (
	"context"
	"fmt"

	"github.com/usual2970/daywise/domain"
	"github.com/usual2970/daywise/domain/entity"
	"github.com/usual2970/daywise/domain/repository"
)

// Validator checks dependency edges against a TaskStore on behalf of the
// lifecycle manager.
type Validator struct {
	Store repository.TaskStore
}

// New returns a Validator backed by store.
func New(store repository.TaskStore) *Validator {
	return &Validator{Store: store}
}

// CheckExistence fails with domain.ErrDepMissing if any id in deps does
// not resolve to a task.
func (v *Validator) CheckExistence(ctx context.Context, deps []int64) error {
	for _, id := range deps {
		if _, err := v.Store.Get(ctx, id); err != nil {
			return fmt.Errorf("dependency %d: %w", id, domain.ErrDepMissing)
		}
	}
	return nil
}

// CheckAcyclic walks the transitive closure of deps (the proposed new
// dependency list for excludeTaskID) and fails with domain.ErrCircular if
// excludeTaskID is reachable from it. The visited set bounds the search
// to the size of the graph regardless of how deps is constructed.
func (v *Validator) CheckAcyclic(ctx context.Context, excludeTaskID int64, deps []int64) error {
	visited := make(map[int64]bool)
	queue := append([]int64{}, deps...)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if id == excludeTaskID {
			return domain.ErrCircular
		}
		if visited[id] {
			continue
		}
		visited[id] = true

		task, err := v.Store.Get(ctx, id)
		if err != nil {
			continue
		}
		queue = append(queue, task.Dependencies...)
	}
	return nil
}

// AllComplete reports whether every id in deps resolves to a task and
// that task's status is Completed. An empty deps list is vacuously true.
func (v *Validator) AllComplete(ctx context.Context, deps []int64) bool {
	for _, id := range deps {
		task, err := v.Store.Get(ctx, id)
		if err != nil {
			return false
		}
		if task.Status != entity.TaskStatusCompleted {
			return false
		}
	}
	return true
}
