package depgraph

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
	tasks map[int64]*entity.Task
}

func (s *fakeStore) Get(_ context.Context, id int64) (*entity.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (s *fakeStore) List(context.Context, repository.TaskFilter) ([]*entity.Task, error) {
	return nil, nil
}
func (s *fakeStore) Insert(context.Context, *entity.Task) (int64, error) { return 0, nil }
func (s *fakeStore) Update(context.Context, int64, *entity.Task) error   { return nil }
func (s *fakeStore) Delete(context.Context, int64) error                { return nil }
func (s *fakeStore) SetLastCompleted(context.Context, int64, time.Time) error { return nil }
func (s *fakeStore) SetNextDue(context.Context, int64, time.Time) error       { return nil }
func (s *fakeStore) InsertCompletion(context.Context, *entity.Completion) error { return nil }
func (s *fakeStore) Search(context.Context, string) ([]*entity.Task, error)     { return nil, nil }

func TestCheckExistenceRejectsUnknownDep(t *testing.T) {
	store := &fakeStore{tasks: map[int64]*entity.Task{1: {ID: 1}}}
	v := New(store)
	err := v.CheckExistence(context.Background(), []int64{1, 99})
	if !errors.Is(err, domain.ErrDepMissing) {
		t.Errorf("expected ErrDepMissing, got %v", err)
	}
}

func TestCheckExistenceAcceptsKnownDeps(t *testing.T) {
	store := &fakeStore{tasks: map[int64]*entity.Task{1: {ID: 1}, 2: {ID: 2}}}
	v := New(store)
	if err := v.CheckExistence(context.Background(), []int64{1, 2}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCheckAcyclicDetectsCycle(t *testing.T) {
	// Task2 already depends on Task1. Updating Task1 with deps=[Task2]
	// would close the cycle and must be rejected.
	store := &fakeStore{tasks: map[int64]*entity.Task{
		1: {ID: 1},
		2: {ID: 2, Dependencies: []int64{1}},
	}}
	v := New(store)
	err := v.CheckAcyclic(context.Background(), 1, []int64{2})
	if !errors.Is(err, domain.ErrCircular) {
		t.Errorf("expected ErrCircular, got %v", err)
	}
}

func TestCheckAcyclicAcceptsNonCyclicChain(t *testing.T) {
	store := &fakeStore{tasks: map[int64]*entity.Task{
		1: {ID: 1},
		2: {ID: 2},
		3: {ID: 3, Dependencies: []int64{2}},
	}}
	v := New(store)
	if err := v.CheckAcyclic(context.Background(), 1, []int64{3}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAllComplete(t *testing.T) {
	store := &fakeStore{tasks: map[int64]*entity.Task{
		1: {ID: 1, Status: entity.TaskStatusCompleted},
		2: {ID: 2, Status: entity.TaskStatusOpen},
	}}
	v := New(store)
	if v.AllComplete(context.Background(), []int64{1}) != true {
		t.Error("expected true for all-completed deps")
	}
	if v.AllComplete(context.Background(), []int64{1, 2}) != false {
		t.Error("expected false when a dep is not completed")
	}
	if v.AllComplete(context.Background(), nil) != true {
		t.Error("empty deps should be vacuously true")
	}
	if v.AllComplete(context.Background(), []int64{99}) != false {
		t.Error("missing dep should be false")
	}
}
