package curve

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/usual2970/daywise/domain"
	"github.com/usual2970/daywise/domain/entity"
)

const epsilon = 1e-3

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLinearCurve(t *testing.T) {
	start := mustTime("2024-01-10T00:00:00Z")
	deadline := mustTime("2024-01-20T00:00:00Z")

	tests := []struct {
		name string
		at   time.Time
		want float64
	}{
		{name: "before start", at: mustTime("2024-01-05T00:00:00Z"), want: 0},
		{name: "midpoint", at: mustTime("2024-01-15T00:00:00Z"), want: 0.5},
		{name: "at deadline", at: deadline, want: 1.0},
		{name: "overdue by full span", at: mustTime("2024-01-30T00:00:00Z"), want: 2.0},
	}

	c, err := NewLinearCurve(start, deadline)
	if err != nil {
		t.Fatalf("NewLinearCurve: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Evaluate(context.Background(), tt.at)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("Evaluate(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestLinearCurveMonotoneOverdue(t *testing.T) {
	start := mustTime("2024-01-10T00:00:00Z")
	deadline := mustTime("2024-01-20T00:00:00Z")
	c, _ := NewLinearCurve(start, deadline)

	prev, _ := c.Evaluate(context.Background(), deadline)
	for _, d := range []int{1, 2, 5, 10} {
		at := deadline.AddDate(0, 0, d)
		got, _ := c.Evaluate(context.Background(), at)
		if got <= prev {
			t.Errorf("priority did not increase past deadline: prev=%v got=%v at=%v", prev, got, at)
		}
		if got <= 1.0 {
			t.Errorf("overdue priority should exceed 1.0, got %v", got)
		}
		prev = got
	}
}

func TestNewLinearCurveRejectsBadBounds(t *testing.T) {
	s := mustTime("2024-01-10T00:00:00Z")
	if _, err := NewLinearCurve(s, s); !errors.Is(err, domain.ErrInvalidCurveArgs) {
		t.Errorf("expected ErrInvalidCurveArgs, got %v", err)
	}
	if _, err := NewLinearCurve(s, s.Add(-time.Hour)); !errors.Is(err, domain.ErrInvalidCurveArgs) {
		t.Errorf("expected ErrInvalidCurveArgs, got %v", err)
	}
}

func TestExponentialCurve(t *testing.T) {
	start := mustTime("2024-01-10T00:00:00Z")
	deadline := mustTime("2024-01-20T00:00:00Z")
	c, err := NewExponentialCurve(start, deadline, 2.0)
	if err != nil {
		t.Fatalf("NewExponentialCurve: %v", err)
	}

	mid := mustTime("2024-01-15T00:00:00Z")
	got, _ := c.Evaluate(context.Background(), mid)
	if !almostEqual(got, 0.25) {
		t.Errorf("midpoint = %v, want 0.25", got)
	}

	atDeadline, _ := c.Evaluate(context.Background(), deadline)
	if !almostEqual(atDeadline, 1.0) {
		t.Errorf("at deadline = %v, want 1.0", atDeadline)
	}

	overdue := mustTime("2024-01-25T00:00:00Z")
	gotOverdue, _ := c.Evaluate(context.Background(), overdue)
	if gotOverdue <= 1.0 {
		t.Errorf("overdue priority should exceed 1.0, got %v", gotOverdue)
	}
}

func TestNewExponentialCurveRejectsBadExponent(t *testing.T) {
	s := mustTime("2024-01-10T00:00:00Z")
	e := mustTime("2024-01-20T00:00:00Z")
	for _, k := range []float64{0.5, 5.1, -1} {
		if _, err := NewExponentialCurve(s, e, k); !errors.Is(err, domain.ErrInvalidCurveArgs) {
			t.Errorf("k=%v: expected ErrInvalidCurveArgs, got %v", k, err)
		}
	}
}

func TestHardWindowCurve(t *testing.T) {
	start := mustTime("2024-01-10T09:00:00Z")
	end := mustTime("2024-01-10T17:00:00Z")
	c, err := NewHardWindowCurve(start, end, 1.5)
	if err != nil {
		t.Fatalf("NewHardWindowCurve: %v", err)
	}

	inside, _ := c.Evaluate(context.Background(), mustTime("2024-01-10T12:00:00Z"))
	if inside != 1.5 {
		t.Errorf("inside window = %v, want 1.5", inside)
	}
	atStart, _ := c.Evaluate(context.Background(), start)
	if atStart != 1.5 {
		t.Errorf("at start boundary = %v, want 1.5", atStart)
	}
	atEnd, _ := c.Evaluate(context.Background(), end)
	if atEnd != 1.5 {
		t.Errorf("at end boundary = %v, want 1.5", atEnd)
	}
	outside, _ := c.Evaluate(context.Background(), mustTime("2024-01-10T18:00:00Z"))
	if outside != 0 {
		t.Errorf("outside window = %v, want 0", outside)
	}
}

func TestNewHardWindowCurveRejectsBadArgs(t *testing.T) {
	s := mustTime("2024-01-10T09:00:00Z")
	e := mustTime("2024-01-10T17:00:00Z")
	if _, err := NewHardWindowCurve(e, s, 1.0); !errors.Is(err, domain.ErrInvalidCurveArgs) {
		t.Errorf("expected ErrInvalidCurveArgs for inverted bounds, got %v", err)
	}
	if _, err := NewHardWindowCurve(s, e, 2.5); !errors.Is(err, domain.ErrInvalidCurveArgs) {
		t.Errorf("expected ErrInvalidCurveArgs for out-of-range priority, got %v", err)
	}
}

func TestAccumulatorCompletionMode(t *testing.T) {
	pattern := entity.RecurrencePattern{Mode: entity.RecurrenceModeCompletion, Type: entity.RecurrenceWeekly}

	now := mustTime("2024-01-10T00:00:00Z")

	oneDayAgo := now.AddDate(0, 0, -1)
	c := NewAccumulatorCurve(pattern, &oneDayAgo, nil, 0.1)
	got, _ := c.Evaluate(context.Background(), now)
	if !almostEqual(got, 0.1) {
		t.Errorf("1 day since (weekly) = %v, want 0.1", got)
	}

	tenDaysAgo := now.AddDate(0, 0, -10)
	c2 := NewAccumulatorCurve(pattern, &tenDaysAgo, nil, 0.1)
	got2, _ := c2.Evaluate(context.Background(), now)
	if !almostEqual(got2, 1.0) {
		t.Errorf("10 days since (weekly) = %v, want 1.0", got2)
	}

	intervalPattern := entity.RecurrencePattern{
		Mode: entity.RecurrenceModeCompletion,
		Type: entity.RecurrenceInterval,
		Interval: 3, Unit: entity.IntervalUnitDays,
	}
	fiveDaysAgo := now.AddDate(0, 0, -5)
	c3 := NewAccumulatorCurve(intervalPattern, &fiveDaysAgo, nil, 0.1)
	got3, _ := c3.Evaluate(context.Background(), now)
	if !almostEqual(got3, 1.0) {
		t.Errorf("5 days since on interval(3 days) = %v, want 1.0", got3)
	}
}

func TestAccumulatorCalendarMode(t *testing.T) {
	pattern := entity.RecurrencePattern{Mode: entity.RecurrenceModeCalendar, Type: entity.RecurrenceWeekly}
	now := mustTime("2024-01-10T00:00:00Z")

	farFuture := now.AddDate(0, 0, 10)
	c := NewAccumulatorCurve(pattern, nil, &farFuture, 0.1)
	got, _ := c.Evaluate(context.Background(), now)
	if !almostEqual(got, 0.2) {
		t.Errorf("plenty of time = %v, want 0.2", got)
	}

	overdueDue := now.AddDate(0, 0, -2)
	c2 := NewAccumulatorCurve(pattern, nil, &overdueDue, 0.1)
	got2, _ := c2.Evaluate(context.Background(), now)
	want2 := math.Min(1.5, 1.0+2*0.1)
	if !almostEqual(got2, want2) {
		t.Errorf("overdue = %v, want %v", got2, want2)
	}
}

type fakeGetter struct {
	tasks map[int64]*entity.Task
}

func (g *fakeGetter) Get(_ context.Context, id int64) (*entity.Task, error) {
	t, ok := g.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func TestBlockedCurve(t *testing.T) {
	inner, _ := NewHardWindowCurve(mustTime("2024-01-10T00:00:00Z"), mustTime("2024-01-10T23:00:00Z"), 1.0)

	store := &fakeGetter{tasks: map[int64]*entity.Task{
		1: {ID: 1, Status: entity.TaskStatusOpen},
		2: {ID: 2, Status: entity.TaskStatusCompleted},
	}}

	blocked, err := NewBlockedCurve([]int64{1}, inner, store)
	if err != nil {
		t.Fatalf("NewBlockedCurve: %v", err)
	}
	got, _ := blocked.Evaluate(context.Background(), mustTime("2024-01-10T12:00:00Z"))
	if got != 0 {
		t.Errorf("incomplete dep should force 0, got %v", got)
	}

	unblocked, _ := NewBlockedCurve([]int64{2}, inner, store)
	got2, _ := unblocked.Evaluate(context.Background(), mustTime("2024-01-10T12:00:00Z"))
	if got2 != 1.0 {
		t.Errorf("complete dep should delegate to inner, got %v", got2)
	}

	missing, _ := NewBlockedCurve([]int64{99}, inner, store)
	got3, _ := missing.Evaluate(context.Background(), mustTime("2024-01-10T12:00:00Z"))
	if got3 != 0 {
		t.Errorf("missing dep should force 0, got %v", got3)
	}
}

func TestNewBlockedCurveRejectsEmptyDeps(t *testing.T) {
	inner, _ := NewHardWindowCurve(mustTime("2024-01-10T00:00:00Z"), mustTime("2024-01-10T23:00:00Z"), 1.0)
	if _, err := NewBlockedCurve(nil, inner, &fakeGetter{}); !errors.Is(err, domain.ErrInvalidCurveArgs) {
		t.Errorf("expected ErrInvalidCurveArgs, got %v", err)
	}
}
