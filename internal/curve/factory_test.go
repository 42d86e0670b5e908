package curve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/usual2970/daywise/domain"
	"github.com/usual2970/daywise/domain/entity"
)

func fixedFactory(now time.Time) *Factory {
	return &Factory{Now: func() time.Time { return now }}
}

func TestFactoryLinearDefaults(t *testing.T) {
	now := mustTime("2024-01-10T00:00:00Z")
	f := fixedFactory(now)

	c, err := f.Build(entity.CurveConfig{Type: entity.CurveLinear}, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	lin, ok := c.(*LinearCurve)
	if !ok {
		t.Fatalf("expected *LinearCurve, got %T", c)
	}
	if !lin.Start.Equal(now) {
		t.Errorf("default start = %v, want %v", lin.Start, now)
	}
	if !lin.Deadline.Equal(now.AddDate(0, 0, 7)) {
		t.Errorf("default deadline = %v, want now+7d", lin.Deadline)
	}
}

func TestFactoryExponentialDefaultExponent(t *testing.T) {
	now := mustTime("2024-01-10T00:00:00Z")
	f := fixedFactory(now)

	c, err := f.Build(entity.CurveConfig{Type: entity.CurveExponential}, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	exp, ok := c.(*ExponentialCurve)
	if !ok {
		t.Fatalf("expected *ExponentialCurve, got %T", c)
	}
	if exp.K != 2.0 {
		t.Errorf("default exponent = %v, want 2.0", exp.K)
	}
}

func TestFactoryHardWindowRequiresBounds(t *testing.T) {
	f := fixedFactory(mustTime("2024-01-10T00:00:00Z"))
	_, err := f.Build(entity.CurveConfig{Type: entity.CurveHardWindow}, nil, nil)
	if !errors.Is(err, domain.ErrMissingCurveField) {
		t.Errorf("expected ErrMissingCurveField, got %v", err)
	}
}

func TestFactoryHardWindowDefaultPriority(t *testing.T) {
	f := fixedFactory(mustTime("2024-01-10T12:00:00Z"))
	c, err := f.Build(entity.CurveConfig{
		Type:        entity.CurveHardWindow,
		WindowStart: "09:00",
		WindowEnd:   "17:00",
	}, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	hw := c.(*HardWindowCurve)
	if hw.P != 1.0 {
		t.Errorf("default priority = %v, want 1.0", hw.P)
	}
}

func TestFactoryBlockedRequiresCheckerAndDeps(t *testing.T) {
	f := fixedFactory(mustTime("2024-01-10T00:00:00Z"))
	if _, err := f.Build(entity.CurveConfig{Type: entity.CurveBlocked, Dependencies: []int64{1}}, nil, nil); !errors.Is(err, domain.ErrMissingCurveField) {
		t.Errorf("no checker: expected ErrMissingCurveField, got %v", err)
	}
	if _, err := f.Build(entity.CurveConfig{Type: entity.CurveBlocked}, &fakeGetter{}, nil); !errors.Is(err, domain.ErrMissingCurveField) {
		t.Errorf("no deps: expected ErrMissingCurveField, got %v", err)
	}
}

func TestFactoryBlockedBuildsInnerFromThenCurve(t *testing.T) {
	now := mustTime("2024-01-10T00:00:00Z")
	f := fixedFactory(now)
	store := &fakeGetter{tasks: map[int64]*entity.Task{1: {ID: 1, Status: entity.TaskStatusCompleted}}}

	c, err := f.Build(entity.CurveConfig{
		Type:         entity.CurveBlocked,
		Dependencies: []int64{1},
		ThenCurve:    &entity.CurveConfig{Type: entity.CurveLinear},
	}, store, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got, err := c.Evaluate(context.Background(), now)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != 0 {
		t.Errorf("at start of default linear window, priority should be 0, got %v", got)
	}
}

func TestFactoryAccumulatorRequiresRecurrence(t *testing.T) {
	f := fixedFactory(mustTime("2024-01-10T00:00:00Z"))
	if _, err := f.Build(entity.CurveConfig{Type: entity.CurveAccumulator}, nil, nil); !errors.Is(err, domain.ErrMissingCurveField) {
		t.Errorf("expected ErrMissingCurveField, got %v", err)
	}
}

func TestFactoryAccumulatorInjectsTaskRecurrence(t *testing.T) {
	now := mustTime("2024-01-10T00:00:00Z")
	f := fixedFactory(now)
	task := &entity.Task{
		Recurrence: &entity.RecurrencePattern{Mode: entity.RecurrenceModeCalendar, Type: entity.RecurrenceWeekly},
	}
	c, err := f.Build(entity.CurveConfig{Type: entity.CurveAccumulator}, nil, task)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := c.(*AccumulatorCurve); !ok {
		t.Fatalf("expected *AccumulatorCurve, got %T", c)
	}
}

func TestDefaultConfigFor(t *testing.T) {
	recurring := &entity.Task{Recurrence: &entity.RecurrencePattern{Type: entity.RecurrenceDaily}}
	cfg := DefaultConfigFor(recurring)
	if cfg.Type != entity.CurveAccumulator || cfg.Recurrence == nil {
		t.Errorf("recurring task should default to injected Accumulator, got %+v", cfg)
	}

	oneOff := &entity.Task{}
	cfg2 := DefaultConfigFor(oneOff)
	if cfg2.Type != entity.CurveLinear {
		t.Errorf("non-recurring task should default to Linear, got %+v", cfg2)
	}
}
