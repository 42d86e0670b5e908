// Package memory implements domain/repository.TaskStore entirely in
// process memory, guarded by a single RWMutex. It backs tests, the
// embedded-example program, and any deployment that doesn't need
// durability across restarts.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/usual2970/daywise/domain"
	"github.com/usual2970/daywise/domain/entity"
	"github.com/usual2970/daywise/domain/repository"
)

// Store is an in-memory, concurrency-safe repository.TaskStore.
type Store struct {
	mu          sync.RWMutex
	tasks       map[int64]*entity.Task
	completions []*entity.Completion
	nextID      int64
}

// New returns an empty Store.
func New() *Store {
	return &Store{tasks: make(map[int64]*entity.Task)}
}

var _ repository.TaskStore = (*Store)(nil)

func (s *Store) Get(_ context.Context, id int64) (*entity.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (s *Store) List(_ context.Context, filter repository.TaskFilter) ([]*entity.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entity.Task
	for _, t := range s.tasks {
		if matchesFilter(t, filter) {
			clone := *t
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func matchesFilter(t *entity.Task, filter repository.TaskFilter) bool {
	if len(filter.Status) > 0 {
		found := false
		for _, st := range filter.Status {
			if t.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Project != "" && t.Project != filter.Project {
		return false
	}
	if filter.BucketID != nil {
		if t.Bucket == nil || *t.Bucket != *filter.BucketID {
			return false
		}
	}
	if len(filter.Tags) > 0 && !hasAllTags(t.Tags, filter.Tags) {
		return false
	}
	if filter.HasDeadline != nil && (t.Deadline != nil) != *filter.HasDeadline {
		return false
	}
	if filter.HasRecurrence != nil && (t.Recurrence != nil) != *filter.HasRecurrence {
		return false
	}
	if filter.Overdue != nil {
		overdue := t.Deadline != nil && t.Deadline.Before(time.Now())
		if overdue != *filter.Overdue {
			return false
		}
	}
	return true
}

func hasAllTags(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[t] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}

func (s *Store) Insert(_ context.Context, t *entity.Task) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t.ID = s.nextID
	clone := *t
	s.tasks[t.ID] = &clone
	return t.ID, nil
}

func (s *Store) Update(_ context.Context, id int64, patch *entity.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	clone := *patch
	clone.ID = id
	s.tasks[id] = &clone
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *Store) SetLastCompleted(_ context.Context, id int64, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.LastCompletedAt = &ts
	return nil
}

func (s *Store) SetNextDue(_ context.Context, id int64, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.NextDueAt = &ts
	return nil
}

func (s *Store) InsertCompletion(_ context.Context, c *entity.Completion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completions = append(s.completions, c)
	return nil
}

func (s *Store) Search(_ context.Context, query string) ([]*entity.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	var out []*entity.Task
	for _, t := range s.tasks {
		if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Project), q) {
			clone := *t
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
