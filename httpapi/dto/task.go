package dto

import (
	"fmt"
	"time"

	"github.com/usual2970/daywise/domain/entity"
	"github.com/usual2970/daywise/domain/repository"
	"github.com/usual2970/daywise/internal/task"
)

// RecurrenceRequest mirrors entity.RecurrencePattern for wire transport.
type RecurrenceRequest struct {
	Mode       entity.RecurrenceMode `json:"mode" binding:"required"`
	Type       entity.RecurrenceType `json:"type" binding:"required"`
	Interval   uint32                `json:"interval,omitempty"`
	Unit       entity.IntervalUnit   `json:"unit,omitempty"`
	DayOfWeek  *int                  `json:"day_of_week,omitempty"`
	DaysOfWeek []int                 `json:"days_of_week,omitempty"`
	Anchor     *FlexTime             `json:"anchor,omitempty"`
}

func (r *RecurrenceRequest) toPattern() *entity.RecurrencePattern {
	if r == nil {
		return nil
	}
	return &entity.RecurrencePattern{
		Mode:       r.Mode,
		Type:       r.Type,
		Interval:   r.Interval,
		Unit:       r.Unit,
		DayOfWeek:  r.DayOfWeek,
		DaysOfWeek: r.DaysOfWeek,
		Anchor:     r.Anchor.ToTime(),
	}
}

// CurveRequest mirrors entity.CurveConfig for wire transport.
type CurveRequest struct {
	Type         entity.CurveType `json:"type" binding:"required"`
	StartDate    *FlexTime        `json:"start_date,omitempty"`
	Deadline     *FlexTime        `json:"deadline,omitempty"`
	Exponent     *float64         `json:"exponent,omitempty"`
	WindowStart  string           `json:"window_start,omitempty"`
	WindowEnd    string           `json:"window_end,omitempty"`
	Priority     *float64         `json:"priority,omitempty"`
	Dependencies []int64          `json:"dependencies,omitempty"`
	ThenCurve    *CurveRequest    `json:"then_curve,omitempty"`
	Recurrence   *RecurrenceRequest `json:"recurrence,omitempty"`
	BuildupRate  *float64         `json:"buildup_rate,omitempty"`
}

func (c *CurveRequest) toConfig() *entity.CurveConfig {
	if c == nil {
		return nil
	}
	cfg := &entity.CurveConfig{
		Type:         c.Type,
		StartDate:    c.StartDate.ToTime(),
		Deadline:     c.Deadline.ToTime(),
		Exponent:     c.Exponent,
		WindowStart:  c.WindowStart,
		WindowEnd:    c.WindowEnd,
		Priority:     c.Priority,
		Dependencies: c.Dependencies,
		ThenCurve:    c.ThenCurve.toConfig(),
		Recurrence:   c.Recurrence.toPattern(),
		BuildupRate:  c.BuildupRate,
	}
	return cfg
}

// CreateTaskRequest is the body of POST /api/v1/tasks.
type CreateTaskRequest struct {
	Title           string             `json:"title" binding:"required"`
	Project         string             `json:"project,omitempty"`
	Bucket          *int64             `json:"bucket_id,omitempty"`
	Tags            []string           `json:"tags,omitempty"`
	Deadline        *FlexTime          `json:"deadline,omitempty"`
	EstimateMinutes *int               `json:"estimate_minutes,omitempty"`
	WindowStart     string             `json:"window_start,omitempty"`
	WindowEnd       string             `json:"window_end,omitempty"`
	Recurrence      *RecurrenceRequest `json:"recurrence,omitempty"`
	Dependencies    []int64            `json:"dependencies,omitempty"`
	Curve           *CurveRequest      `json:"curve,omitempty"`
}

// Validate rejects a window with only one side set.
func (r *CreateTaskRequest) Validate() error {
	if (r.WindowStart == "") != (r.WindowEnd == "") {
		return fmt.Errorf("window_start and window_end must be set together")
	}
	if r.EstimateMinutes != nil && *r.EstimateMinutes <= 0 {
		return fmt.Errorf("estimate_minutes must be positive")
	}
	return nil
}

// ToInput converts the request into the lifecycle manager's CreateInput.
func (r *CreateTaskRequest) ToInput() task.CreateInput {
	return task.CreateInput{
		Title:           r.Title,
		Project:         r.Project,
		Bucket:          r.Bucket,
		Tags:            r.Tags,
		Deadline:        r.Deadline.ToTime(),
		EstimateMinutes: r.EstimateMinutes,
		WindowStart:     r.WindowStart,
		WindowEnd:       r.WindowEnd,
		Recurrence:      r.Recurrence.toPattern(),
		Dependencies:    r.Dependencies,
		Curve:           r.Curve.toConfig(),
	}
}

// UpdateTaskRequest is the body of PATCH /api/v1/tasks/:id. Every field is
// a pointer so the handler can distinguish "omitted" from "set".
type UpdateTaskRequest struct {
	Title           *string            `json:"title,omitempty"`
	Project         *string            `json:"project,omitempty"`
	Bucket          *int64             `json:"bucket_id,omitempty"`
	ClearBucket     bool               `json:"clear_bucket,omitempty"`
	Tags            *[]string          `json:"tags,omitempty"`
	Deadline        *FlexTime          `json:"deadline,omitempty"`
	ClearDeadline   bool               `json:"clear_deadline,omitempty"`
	EstimateMinutes *int               `json:"estimate_minutes,omitempty"`
	WindowStart     *string            `json:"window_start,omitempty"`
	WindowEnd       *string            `json:"window_end,omitempty"`
	Recurrence      *RecurrenceRequest `json:"recurrence,omitempty"`
	ClearRecurrence bool               `json:"clear_recurrence,omitempty"`
	Dependencies    *[]int64           `json:"dependencies,omitempty"`
	Curve           *CurveRequest      `json:"curve,omitempty"`
}

// ToInput converts the request into the lifecycle manager's double-pointer
// UpdateInput. "Clear*" flags thread an explicit nil through the outer
// pointer, matching the distinction the manager's patch fields rely on.
func (r *UpdateTaskRequest) ToInput() task.UpdateInput {
	in := task.UpdateInput{
		Title:       r.Title,
		Project:     r.Project,
		WindowStart: r.WindowStart,
		WindowEnd:   r.WindowEnd,
	}

	if r.Bucket != nil || r.ClearBucket {
		var v *int64
		if r.Bucket != nil {
			v = r.Bucket
		}
		in.Bucket = &v
	}

	if r.Tags != nil {
		in.Tags = r.Tags
	}

	if r.Deadline != nil || r.ClearDeadline {
		var v *time.Time
		if r.Deadline != nil {
			v = r.Deadline.ToTime()
		}
		in.Deadline = &v
	}

	if r.EstimateMinutes != nil {
		v := r.EstimateMinutes
		in.EstimateMinutes = &v
	}

	if r.Recurrence != nil || r.ClearRecurrence {
		var v *entity.RecurrencePattern
		if r.Recurrence != nil {
			v = r.Recurrence.toPattern()
		}
		in.Recurrence = &v
	}

	if r.Dependencies != nil {
		in.Dependencies = r.Dependencies
	}

	if r.Curve != nil {
		in.Curve = r.Curve.toConfig()
	}

	return in
}

// TaskResponse is the wire representation of entity.Task.
type TaskResponse struct {
	ID              int64                    `json:"id"`
	Title           string                   `json:"title"`
	Project         string                   `json:"project,omitempty"`
	Bucket          *int64                   `json:"bucket_id,omitempty"`
	Tags            []string                 `json:"tags,omitempty"`
	Deadline        *time.Time               `json:"deadline,omitempty"`
	EstimateMinutes *int                     `json:"estimate_minutes,omitempty"`
	WindowStart     string                   `json:"window_start,omitempty"`
	WindowEnd       string                   `json:"window_end,omitempty"`
	Recurrence      *entity.RecurrencePattern `json:"recurrence,omitempty"`
	LastCompletedAt *time.Time               `json:"last_completed_at,omitempty"`
	NextDueAt       *time.Time               `json:"next_due_at,omitempty"`
	Dependencies    []int64                  `json:"dependencies,omitempty"`
	Curve           entity.CurveConfig       `json:"curve"`
	Status          entity.TaskStatus        `json:"status"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// FromTask converts a persisted task to its wire representation.
func FromTask(t *entity.Task) *TaskResponse {
	return &TaskResponse{
		ID:              t.ID,
		Title:           t.Title,
		Project:         t.Project,
		Bucket:          t.Bucket,
		Tags:            t.Tags,
		Deadline:        t.Deadline,
		EstimateMinutes: t.EstimateMinutes,
		WindowStart:     t.WindowStart,
		WindowEnd:       t.WindowEnd,
		Recurrence:      t.Recurrence,
		LastCompletedAt: t.LastCompletedAt,
		NextDueAt:       t.NextDueAt,
		Dependencies:    t.Dependencies,
		Curve:           t.Curve,
		Status:          t.Status,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// FromTasks converts each task into a newly allocated response slice.
func FromTasks(tasks []*entity.Task) []*TaskResponse {
	out := make([]*TaskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = FromTask(t)
	}
	return out
}

// ListTasksQuery represents the query parameters accepted by GET /tasks.
type ListTasksQuery struct {
	Status  []string `form:"status"`
	Project string   `form:"project"`
	Tags    string   `form:"tags"`
}

// ToFilter converts the query into a repository.TaskFilter.
func (q *ListTasksQuery) ToFilter() repository.TaskFilter {
	filter := repository.TaskFilter{Project: q.Project}
	for _, s := range q.Status {
		filter.Status = append(filter.Status, entity.TaskStatus(s))
	}
	if q.Tags != "" {
		filter.Tags = splitCSV(q.Tags)
	}
	return filter
}

func splitCSV(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// CompleteTaskRequest is the optional body of POST /tasks/:id/complete.
type CompleteTaskRequest struct {
	CompletedAt *FlexTime `json:"completed_at,omitempty"`
}

// StatsResponse mirrors task.Stats for wire transport.
type StatsResponse struct {
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Blocked    int `json:"blocked"`
	Overdue    int `json:"overdue"`
}

// ErrorResponse is the body of any non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
