package planner

import (
	"context"
	"testing"
	"time"

	"github.com/usual2970/daywise/domain"
	"github.com/usual2970/daywise/domain/entity"
	"github.com/usual2970/daywise/domain/repository"
	"github.com/usual2970/daywise/internal/priority"
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

func (s *fakeStore) Insert(context.Context, *entity.Task) (int64, error) { return 0, nil }
func (s *fakeStore) Update(context.Context, int64, *entity.Task) error   { return nil }
func (s *fakeStore) Delete(context.Context, int64) error                { return nil }
func (s *fakeStore) SetLastCompleted(context.Context, int64, time.Time) error { return nil }
func (s *fakeStore) SetNextDue(context.Context, int64, time.Time) error       { return nil }
func (s *fakeStore) InsertCompletion(context.Context, *entity.Completion) error { return nil }
func (s *fakeStore) Search(context.Context, string) ([]*entity.Task, error)     { return nil, nil }

func mustTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}

// linearDueToday builds a task whose linear curve is comfortably above
// the 0.3 actionability threshold at the planning instant.
func linearDueToday(id int64, estimate int) *entity.Task {
	start := mustTime("2024-01-09T00:00:00Z")
	deadline := mustTime("2024-01-10T10:00:00Z")
	return &entity.Task{
		ID:              id,
		Status:          entity.TaskStatusOpen,
		EstimateMinutes: &estimate,
		Deadline:        &deadline,
		Curve:           entity.CurveConfig{Type: entity.CurveLinear, StartDate: &start, Deadline: &deadline},
	}
}

func TestPlanDayGapFill(t *testing.T) {
	store := &fakeStore{tasks: map[int64]*entity.Task{
		1: linearDueToday(1, 60),
		2: linearDueToday(2, 60),
		3: linearDueToday(3, 60),
	}}
	ev := priority.New(store)
	p := New(ev, Config{WorkHoursStart: "09:00", WorkHoursEnd: "17:00"})

	date := mustTime("2024-01-10T00:00:00Z")
	plan, err := p.PlanDay(context.Background(), date, Options{Limit: 8})
	if err != nil {
		t.Fatalf("PlanDay: %v", err)
	}
	if len(plan.Scheduled) != 3 {
		t.Fatalf("expected 3 scheduled tasks, got %d", len(plan.Scheduled))
	}
	for i, want := range []Slot{{540, 600}, {600, 660}, {660, 720}} {
		if plan.Scheduled[i].Slot != want {
			t.Errorf("slot %d = %+v, want %+v", i, plan.Scheduled[i].Slot, want)
		}
	}
	if plan.TotalScheduledMinutes != 180 {
		t.Errorf("totalScheduledMinutes = %d, want 180", plan.TotalScheduledMinutes)
	}
	if plan.RemainingMinutes != 300 {
		t.Errorf("remainingMinutes = %d, want 300", plan.RemainingMinutes)
	}
	for _, s := range plan.Scheduled {
		if s.Slot.Start < 540 || s.Slot.End > 1020 {
			t.Errorf("slot %+v outside work hours", s.Slot)
		}
	}
}

func TestPlanDayExcludesWindowOutsideWorkHours(t *testing.T) {
	est := 30
	store := &fakeStore{tasks: map[int64]*entity.Task{
		1: {
			ID:              1,
			Status:          entity.TaskStatusOpen,
			EstimateMinutes: &est,
			WindowStart:     "19:00",
			WindowEnd:       "21:00",
			Curve:           entity.CurveConfig{Type: entity.CurveHardWindow, WindowStart: "19:00", WindowEnd: "21:00", Priority: floatPtr(1.0)},
		},
	}}
	ev := priority.New(store)
	p := New(ev, Config{WorkHoursStart: "09:00", WorkHoursEnd: "17:00"})

	date := mustTime("2024-01-10T00:00:00Z")
	plan, err := p.PlanDay(context.Background(), date, Options{Limit: 8})
	if err != nil {
		t.Fatalf("PlanDay: %v", err)
	}
	if len(plan.Scheduled) != 0 {
		t.Errorf("expected no scheduled tasks, got %d", len(plan.Scheduled))
	}
	if len(plan.Unscheduled) != 0 {
		t.Errorf("task outside the priority-evaluation window should be excluded entirely, not unscheduled: got %d", len(plan.Unscheduled))
	}
}

func floatPtr(f float64) *float64 { return &f }
