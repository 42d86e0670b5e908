// Package entity holds the persisted shapes of the task-planning domain:
// Task, its recurrence pattern, its priority-curve configuration, and the
// completion audit record. Nothing in this package touches a store or a
// clock — it is pure data plus the small helpers that only need the
// struct's own fields.
package entity

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// CurveType selects the priority-curve variant a task uses.
type CurveType string

const (
	CurveLinear      CurveType = "linear"
	CurveExponential CurveType = "exponential"
	CurveHardWindow  CurveType = "hard_window"
	CurveBlocked     CurveType = "blocked"
	CurveAccumulator CurveType = "accumulator"
)

// RecurrenceMode distinguishes a wall-clock schedule from an
// interval-after-last-completion schedule.
type RecurrenceMode string

const (
	RecurrenceModeCalendar   RecurrenceMode = "calendar"
	RecurrenceModeCompletion RecurrenceMode = "completion"
)

// RecurrenceType is the frequency family of a RecurrencePattern.
type RecurrenceType string

const (
	RecurrenceDaily    RecurrenceType = "daily"
	RecurrenceWeekly   RecurrenceType = "weekly"
	RecurrenceMonthly  RecurrenceType = "monthly"
	RecurrenceInterval RecurrenceType = "interval"
)

// IntervalUnit is the granularity of an Interval recurrence's Interval field.
type IntervalUnit string

const (
	IntervalUnitDays   IntervalUnit = "days"
	IntervalUnitWeeks  IntervalUnit = "weeks"
	IntervalUnitMonths IntervalUnit = "months"
)

// RecurrencePattern describes how a completed recurring task's next due
// instant is computed. Only a subset of fields is meaningful per Type:
// Interval uses Interval/Unit/Anchor, Weekly uses DayOfWeek/DaysOfWeek,
// Daily and Monthly use none beyond Mode.
type RecurrencePattern struct {
	Mode         RecurrenceMode `json:"mode"`
	Type         RecurrenceType `json:"type"`
	Interval     uint32         `json:"interval,omitempty"`
	Unit         IntervalUnit   `json:"unit,omitempty"`
	DayOfWeek    *int           `json:"day_of_week,omitempty"`
	DaysOfWeek   []int          `json:"days_of_week,omitempty"`
	Anchor       *time.Time     `json:"anchor,omitempty"`
}

// unitDays is the calendar approximation used by Interval recurrences
// and by the accumulator curve's expected-interval calculation: weeks
// are 7 days, months are treated as flat 30-day blocks.
var unitDays = map[IntervalUnit]float64{
	IntervalUnitDays:   1,
	IntervalUnitWeeks:  7,
	IntervalUnitMonths: 30,
}

// ExpectedIntervalDays returns the nominal number of days between
// occurrences of this pattern, used both by the recurrence engine's
// Interval arithmetic and by the accumulator curve's calendar/completion
// ramps.
func (p RecurrencePattern) ExpectedIntervalDays() float64 {
	switch p.Type {
	case RecurrenceDaily:
		return 1
	case RecurrenceWeekly:
		return 7
	case RecurrenceMonthly:
		return 30
	case RecurrenceInterval:
		unit, ok := unitDays[p.Unit]
		if !ok {
			unit = 1
		}
		return float64(p.Interval) * unit
	default:
		return 7
	}
}

// CurveConfig is the tagged record driving curve construction (C3). Only
// the fields relevant to Type are consulted; the rest are ignored.
type CurveConfig struct {
	Type         CurveType          `json:"type"`
	StartDate    *time.Time         `json:"start_date,omitempty"`
	Deadline     *time.Time         `json:"deadline,omitempty"`
	Exponent     *float64           `json:"exponent,omitempty"`
	WindowStart  string             `json:"window_start,omitempty"`
	WindowEnd    string             `json:"window_end,omitempty"`
	Priority     *float64           `json:"priority,omitempty"`
	Dependencies []int64            `json:"dependencies,omitempty"`
	ThenCurve    *CurveConfig       `json:"then_curve,omitempty"`
	Recurrence   *RecurrencePattern `json:"recurrence,omitempty"`
	BuildupRate  *float64           `json:"buildup_rate,omitempty"`
}

// Task is the central entity of the planning domain.
type Task struct {
	ID      int64    `json:"id" db:"id"`
	Title   string   `json:"title" db:"title"`
	Project string   `json:"project,omitempty" db:"project"`
	Bucket  *int64   `json:"bucket_id,omitempty" db:"bucket_id"`
	Tags    []string `json:"tags,omitempty" db:"tags"`

	Deadline          *time.Time `json:"deadline,omitempty" db:"deadline"`
	EstimateMinutes   *int       `json:"estimate_minutes,omitempty" db:"estimate_minutes"`
	WindowStart       string     `json:"window_start,omitempty" db:"window_start"`
	WindowEnd         string     `json:"window_end,omitempty" db:"window_end"`

	Recurrence      *RecurrencePattern `json:"recurrence,omitempty" db:"-"`
	LastCompletedAt *time.Time         `json:"last_completed_at,omitempty" db:"last_completed_at"`
	NextDueAt       *time.Time         `json:"next_due_at,omitempty" db:"next_due_at"`

	Dependencies []int64 `json:"dependencies,omitempty" db:"-"`

	Curve CurveConfig `json:"curve" db:"-"`

	Status TaskStatus `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasWindow reports whether the task carries a daily time-of-day window.
func (t *Task) HasWindow() bool {
	return t.WindowStart != "" && t.WindowEnd != ""
}

// HasDependencies reports whether the task lists any dependency ids.
// Dependency semantics are set-like: duplicates are tolerated but carry
// no extra meaning.
func (t *Task) HasDependencies() bool {
	return len(t.Dependencies) > 0
}

// IsRecurring reports whether the task carries a recurrence pattern. A
// recurring task never transitions to TaskStatusCompleted; Complete
// reopens it with a freshly computed NextDueAt instead.
func (t *Task) IsRecurring() bool {
	return t.Recurrence != nil
}

// Completion is an audit row written each time a task is completed,
// independent of whether the task then reopens (recurring) or settles
// into TaskStatusCompleted.
type Completion struct {
	ID          string    `json:"id" db:"id"`
	TaskID      int64     `json:"task_id" db:"task_id"`
	CompletedAt time.Time `json:"completed_at" db:"completed_at"`
}
