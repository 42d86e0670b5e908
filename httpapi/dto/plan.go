package dto

import (
	"github.com/usual2970/daywise/internal/planner"
)

// PlanDayQuery is the query parameters accepted by GET /api/v1/plan.
// IncludeTimeBlocks is a pointer so an absent query param leaves it nil,
// which planner.Options.withDefaults resolves to true (the gap-fill
// scheduler), matching the documented default.
type PlanDayQuery struct {
	Date              string `form:"date"` // "2006-01-02", defaults to today
	Limit             int    `form:"limit"`
	IncludeTimeBlocks *bool  `form:"include_time_blocks"`
}

// SlotResponse is the wire representation of planner.Slot, rendered as
// "HH:MM" instead of raw minutes-of-day.
type SlotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ScheduledTaskResponse is the wire representation of planner.ScheduledTask.
type ScheduledTaskResponse struct {
	Task              *TaskResponse `json:"task"`
	Slot              *SlotResponse `json:"slot,omitempty"`
	EstimateMinutes   int           `json:"estimate_minutes,omitempty"`
	IsDefaultEstimate bool          `json:"is_default_estimate,omitempty"`
}

// UnscheduledTaskResponse is the wire representation of planner.UnscheduledTask.
type UnscheduledTaskResponse struct {
	Task   *TaskResponse `json:"task"`
	Reason string        `json:"reason"`
}

// PlanResponse is the wire representation of planner.Plan.
type PlanResponse struct {
	Scheduled             []ScheduledTaskResponse   `json:"scheduled"`
	Unscheduled           []UnscheduledTaskResponse `json:"unscheduled,omitempty"`
	TotalScheduledMinutes int                       `json:"total_scheduled_minutes"`
	RemainingMinutes      int                       `json:"remaining_minutes"`
}

// FromPlan converts a planner.Plan into its wire representation. formatSlot
// renders minutes-of-day using the same HH:MM convention the request query
// and task windows use.
func FromPlan(p *planner.Plan, formatSlot func(planner.Slot) SlotResponse) *PlanResponse {
	out := &PlanResponse{
		TotalScheduledMinutes: p.TotalScheduledMinutes,
		RemainingMinutes:      p.RemainingMinutes,
	}
	for _, s := range p.Scheduled {
		entry := ScheduledTaskResponse{
			Task:              FromTask(s.Task),
			EstimateMinutes:   s.EstimateMinutes,
			IsDefaultEstimate: s.IsDefaultEstimate,
		}
		if formatSlot != nil {
			slot := formatSlot(s.Slot)
			entry.Slot = &slot
		}
		out.Scheduled = append(out.Scheduled, entry)
	}
	for _, u := range p.Unscheduled {
		out.Unscheduled = append(out.Unscheduled, UnscheduledTaskResponse{
			Task:   FromTask(u.Task),
			Reason: u.Reason,
		})
	}
	return out
}
