package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/usual2970/daywise/domain"
	"github.com/usual2970/daywise/domain/entity"
	"github.com/usual2970/daywise/domain/repository"
)

type fakeStore struct {
	tasks       map[int64]*entity.Task
	completions []*entity.Completion
	nextID      int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: map[int64]*entity.Task{}}
}

func (s *fakeStore) Get(_ context.Context, id int64) (*entity.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *t
	return &copy, nil
}

func (s *fakeStore) List(_ context.Context, filter repository.TaskFilter) ([]*entity.Task, error) {
	wanted := make(map[entity.TaskStatus]bool, len(filter.Status))
	for _, st := range filter.Status {
		wanted[st] = true
	}
	var out []*entity.Task
	for _, t := range s.tasks {
		if len(wanted) == 0 || wanted[t.Status] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeStore) Insert(_ context.Context, t *entity.Task) (int64, error) {
	s.nextID++
	t.ID = s.nextID
	stored := *t
	s.tasks[t.ID] = &stored
	return t.ID, nil
}

func (s *fakeStore) Update(_ context.Context, id int64, patch *entity.Task) error {
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	stored := *patch
	stored.ID = id
	s.tasks[id] = &stored
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *fakeStore) SetLastCompleted(_ context.Context, id int64, ts time.Time) error {
	t, ok := s.tasks[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.LastCompletedAt = &ts
	return nil
}

func (s *fakeStore) SetNextDue(_ context.Context, id int64, ts time.Time) error {
	t, ok := s.tasks[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.NextDueAt = &ts
	return nil
}

func (s *fakeStore) InsertCompletion(_ context.Context, c *entity.Completion) error {
	s.completions = append(s.completions, c)
	return nil
}

func (s *fakeStore) Search(context.Context, string) ([]*entity.Task, error) { return nil, nil }

func mustTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCreateRejectsMissingDependency(t *testing.T) {
	store := newFakeStore()
	m := New(store)
	_, err := m.Create(context.Background(), CreateInput{Title: "x", Dependencies: []int64{42}})
	if !errors.Is(err, domain.ErrDepMissing) {
		t.Errorf("expected ErrDepMissing, got %v", err)
	}
}

func TestCreateDefaultsCurveToLinearForOneOffTask(t *testing.T) {
	store := newFakeStore()
	m := New(store)
	got, err := m.Create(context.Background(), CreateInput{Title: "write report"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Curve.Type != entity.CurveLinear {
		t.Errorf("default curve = %v, want linear", got.Curve.Type)
	}
	if got.Status != entity.TaskStatusOpen {
		t.Errorf("status = %v, want open", got.Status)
	}
}

func TestCreateDefaultsCurveToAccumulatorForRecurringTask(t *testing.T) {
	store := newFakeStore()
	m := New(store)
	pattern := &entity.RecurrencePattern{Mode: entity.RecurrenceModeCalendar, Type: entity.RecurrenceDaily}
	got, err := m.Create(context.Background(), CreateInput{Title: "water plants", Recurrence: pattern})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Curve.Type != entity.CurveAccumulator {
		t.Errorf("default curve = %v, want accumulator", got.Curve.Type)
	}
}

func TestUpdateRejectsUnknownTask(t *testing.T) {
	store := newFakeStore()
	m := New(store)
	_, err := m.Update(context.Background(), 99, UpdateInput{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateDetectsCircularDependency(t *testing.T) {
	store := newFakeStore()
	m := New(store)
	one, _ := m.Create(context.Background(), CreateInput{Title: "one"})
	two, err := m.Create(context.Background(), CreateInput{Title: "two", Dependencies: []int64{one.ID}})
	if err != nil {
		t.Fatalf("Create task two: %v", err)
	}

	deps := []int64{two.ID}
	_, err = m.Update(context.Background(), one.ID, UpdateInput{Dependencies: &deps})
	if !errors.Is(err, domain.ErrCircular) {
		t.Errorf("expected ErrCircular, got %v", err)
	}
}

func TestUpdateAppliesScalarFields(t *testing.T) {
	store := newFakeStore()
	m := New(store)
	created, _ := m.Create(context.Background(), CreateInput{Title: "old title"})

	newTitle := "new title"
	updated, err := m.Update(context.Background(), created.ID, UpdateInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "new title" {
		t.Errorf("title = %q, want %q", updated.Title, "new title")
	}
}

func TestDeleteRejectsTaskWithDependents(t *testing.T) {
	store := newFakeStore()
	m := New(store)
	one, _ := m.Create(context.Background(), CreateInput{Title: "one"})
	_, _ = m.Create(context.Background(), CreateInput{Title: "two", Dependencies: []int64{one.ID}})

	err := m.Delete(context.Background(), one.ID)
	if !errors.Is(err, domain.ErrHasDependents) {
		t.Errorf("expected ErrHasDependents, got %v", err)
	}
}

func TestDeleteSucceedsWithoutDependents(t *testing.T) {
	store := newFakeStore()
	m := New(store)
	one, _ := m.Create(context.Background(), CreateInput{Title: "lone task"})
	if err := m.Delete(context.Background(), one.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(context.Background(), one.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected task to be gone, got %v", err)
	}
}

func TestCompleteOneOffTaskSettlesToCompleted(t *testing.T) {
	store := newFakeStore()
	m := New(store)
	created, _ := m.Create(context.Background(), CreateInput{Title: "one-off"})

	completedAt := mustTime("2024-01-10T12:00:00Z")
	got, err := m.Complete(context.Background(), created.ID, &completedAt)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got.Status != entity.TaskStatusCompleted {
		t.Errorf("status = %v, want completed", got.Status)
	}
	if got.LastCompletedAt == nil || !got.LastCompletedAt.Equal(completedAt) {
		t.Errorf("last_completed_at = %v, want %v", got.LastCompletedAt, completedAt)
	}
	if len(store.completions) != 1 {
		t.Errorf("expected one completion row, got %d", len(store.completions))
	}
}

func TestCompleteRecurringTaskReopensWithNextDue(t *testing.T) {
	store := newFakeStore()
	m := New(store)
	pattern := &entity.RecurrencePattern{Mode: entity.RecurrenceModeCalendar, Type: entity.RecurrenceDaily}
	created, _ := m.Create(context.Background(), CreateInput{Title: "daily", Recurrence: pattern})

	completedAt := mustTime("2024-01-10T12:00:00Z")
	got, err := m.Complete(context.Background(), created.ID, &completedAt)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got.Status != entity.TaskStatusOpen {
		t.Errorf("status = %v, want open", got.Status)
	}
	if got.NextDueAt == nil || !got.NextDueAt.After(completedAt) {
		t.Errorf("next_due_at = %v, want strictly after %v", got.NextDueAt, completedAt)
	}
}

func TestReopenSetsStatusOpen(t *testing.T) {
	store := newFakeStore()
	m := New(store)
	created, _ := m.Create(context.Background(), CreateInput{Title: "x"})
	completedAt := mustTime("2024-01-10T12:00:00Z")
	_, _ = m.Complete(context.Background(), created.ID, &completedAt)

	got, err := m.Reopen(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	if got.Status != entity.TaskStatusOpen {
		t.Errorf("status = %v, want open", got.Status)
	}
}

func TestGetStatsTalliesByStatus(t *testing.T) {
	store := newFakeStore()
	m := New(store)
	_, _ = m.Create(context.Background(), CreateInput{Title: "a"})
	b, _ := m.Create(context.Background(), CreateInput{Title: "b"})
	completedAt := mustTime("2024-01-10T12:00:00Z")
	_, _ = m.Complete(context.Background(), b.ID, &completedAt)

	stats, err := m.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Open != 1 || stats.Completed != 1 {
		t.Errorf("stats = %+v, want Open=1 Completed=1", stats)
	}
}
