// Package httpapi exposes the task lifecycle manager and the day planner
// over HTTP through gin, grounded on the teacher's delivery/rest package.
package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/usual2970/daywise/domain"
	"github.com/usual2970/daywise/httpapi/dto"
	"github.com/usual2970/daywise/httpapi/response"
	"github.com/usual2970/daywise/internal/planner"
	"github.com/usual2970/daywise/internal/priority"
	"github.com/usual2970/daywise/internal/task"
	"github.com/usual2970/daywise/internal/timeutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler wires gin request handlers to the task manager and planner.
type Handler struct {
	tasks   *task.Manager
	eval    *priority.Evaluator
	plans   *planner.Planner
	log     *zap.Logger
}

// NewHandler builds a Handler over the core's three entry points.
func NewHandler(tasks *task.Manager, eval *priority.Evaluator, plans *planner.Planner, log *zap.Logger) *Handler {
	return &Handler{tasks: tasks, eval: eval, plans: plans, log: log}
}

// CreateTask handles POST /api/v1/tasks.
func (h *Handler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMessage(c, h.log, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithMessage(c, h.log, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	t, err := h.tasks.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.writeTaskError(c, err)
		return
	}

	response.Created(c, dto.FromTask(t))
}

// ListTasks handles GET /api/v1/tasks.
func (h *Handler) ListTasks(c *gin.Context) {
	var query dto.ListTasksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithMessage(c, h.log, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	tasks, err := h.tasks.Store.List(c.Request.Context(), query.ToFilter())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, gin.H{"tasks": dto.FromTasks(tasks)})
}

// GetTask handles GET /api/v1/tasks/:id.
func (h *Handler) GetTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ErrorWithMessage(c, h.log, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	t, err := h.tasks.Store.Get(c.Request.Context(), id)
	if err != nil {
		h.writeTaskError(c, err)
		return
	}

	response.OK(c, dto.FromTask(t))
}

// UpdateTask handles PATCH /api/v1/tasks/:id.
func (h *Handler) UpdateTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ErrorWithMessage(c, h.log, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMessage(c, h.log, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	t, err := h.tasks.Update(c.Request.Context(), id, req.ToInput())
	if err != nil {
		h.writeTaskError(c, err)
		return
	}

	response.OK(c, dto.FromTask(t))
}

// DeleteTask handles DELETE /api/v1/tasks/:id.
func (h *Handler) DeleteTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ErrorWithMessage(c, h.log, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		h.writeTaskError(c, err)
		return
	}

	response.NoContent(c)
}

// CompleteTask handles POST /api/v1/tasks/:id/complete.
func (h *Handler) CompleteTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ErrorWithMessage(c, h.log, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	var req dto.CompleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.ErrorWithMessage(c, h.log, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	t, err := h.tasks.Complete(c.Request.Context(), id, req.CompletedAt.ToTime())
	if err != nil {
		h.writeTaskError(c, err)
		return
	}

	response.OK(c, dto.FromTask(t))
}

// ReopenTask handles POST /api/v1/tasks/:id/reopen.
func (h *Handler) ReopenTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ErrorWithMessage(c, h.log, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	t, err := h.tasks.Reopen(c.Request.Context(), id)
	if err != nil {
		h.writeTaskError(c, err)
		return
	}

	response.OK(c, dto.FromTask(t))
}

// GetStats handles GET /api/v1/tasks/stats.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.tasks.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, dto.StatsResponse{
		Open:       stats.Open,
		InProgress: stats.InProgress,
		Completed:  stats.Completed,
		Blocked:    stats.Blocked,
		Overdue:    stats.Overdue,
	})
}

// PlanDay handles GET /api/v1/plan.
func (h *Handler) PlanDay(c *gin.Context) {
	var query dto.PlanDayQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithMessage(c, h.log, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	date := time.Now()
	if query.Date != "" {
		parsed, err := time.Parse("2006-01-02", query.Date)
		if err != nil {
			response.ErrorWithMessage(c, h.log, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	plan, err := h.plans.PlanDay(c.Request.Context(), date, planner.Options{
		Limit:             query.Limit,
		IncludeTimeBlocks: query.IncludeTimeBlocks,
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, dto.FromPlan(plan, func(s planner.Slot) dto.SlotResponse {
		return dto.SlotResponse{Start: timeutil.FormatHHMM(s.Start), End: timeutil.FormatHHMM(s.End)}
	}))
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// writeTaskError maps the core's sentinel errors to HTTP status codes.
func (h *Handler) writeTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.ErrorWithMessage(c, h.log, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrDepMissing):
		response.ErrorWithMessage(c, h.log, http.StatusBadRequest, "dependency_missing", err.Error())
	case errors.Is(err, domain.ErrCircular):
		response.ErrorWithMessage(c, h.log, http.StatusConflict, "circular_dependency", err.Error())
	case errors.Is(err, domain.ErrHasDependents):
		response.ErrorWithMessage(c, h.log, http.StatusConflict, "has_dependents", err.Error())
	default:
		response.Error(c, h.log, err)
	}
}
