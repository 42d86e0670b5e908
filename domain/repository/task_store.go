// Package repository declares the storage collaborator the core depends
// on. The core never talks to SQL directly — it borrows a TaskStore and
// issues sequential lookups through it. Concrete implementations live
// under repository/.
package repository

import (
	"context"
	"time"

	"github.com/usual2970/daywise/domain/entity"
)

// TaskStore is the persistence collaborator consumed by the core. Every
// method may block on I/O; none are assumed to be safe to call from
// multiple goroutines mutating the same task concurrently.
type TaskStore interface {
	Get(ctx context.Context, id int64) (*entity.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*entity.Task, error)
	Insert(ctx context.Context, task *entity.Task) (int64, error)
	Update(ctx context.Context, id int64, patch *entity.Task) error
	Delete(ctx context.Context, id int64) error

	SetLastCompleted(ctx context.Context, id int64, ts time.Time) error
	SetNextDue(ctx context.Context, id int64, ts time.Time) error
	InsertCompletion(ctx context.Context, completion *entity.Completion) error

	Search(ctx context.Context, query string) ([]*entity.Task, error)
}

// TaskFilter narrows List. A nil/zero field means "don't filter on this".
type TaskFilter struct {
	Status       []entity.TaskStatus
	Project      string
	BucketID     *int64
	Tags         []string
	HasDeadline  *bool
	HasRecurrence *bool
	Overdue      *bool
	Limit        int
}
