// Package planner implements the greedy first-fit day planner (C8): it
// asks the priority evaluator for a prioritized candidate pool, filters
// it down to what's actionable today, and packs tasks into non-overlapping
// time blocks within the configured work hours.
package planner

import (
	"context"
	"sort"
	"time"

	"github.com/usual2970/daywise/domain/entity"
	"github.com/usual2970/daywise/internal/priority"
	"github.com/usual2970/daywise/internal/timeutil"
)

// Config holds the planner's tunable parameters.
type Config struct {
	WorkHoursStart         string // "HH:MM", default "08:00"
	WorkHoursEnd           string // "HH:MM", default "17:00"
	DefaultEstimateMinutes int    // default 15
}

func (c Config) withDefaults() Config {
	if c.WorkHoursStart == "" {
		c.WorkHoursStart = "08:00"
	}
	if c.WorkHoursEnd == "" {
		c.WorkHoursEnd = "17:00"
	}
	if c.DefaultEstimateMinutes == 0 {
		c.DefaultEstimateMinutes = 15
	}
	return c
}

// Options tunes a single planDay call.
type Options struct {
	Limit int // default 8

	// IncludeTimeBlocks selects the gap-fill scheduler over the flat
	// nominal-slot listing. Defaults to true; nil means "unset".
	IncludeTimeBlocks *bool
}

func (o Options) withDefaults() Options {
	if o.Limit == 0 {
		o.Limit = 8
	}
	if o.IncludeTimeBlocks == nil {
		o.IncludeTimeBlocks = boolPtr(true)
	}
	return o
}

func boolPtr(b bool) *bool { return &b }

// Slot is a half-open minute-of-day interval, [Start, End).
type Slot struct {
	Start int
	End   int
}

// ScheduledTask is an actionable task the planner placed into a slot.
type ScheduledTask struct {
	Task              *entity.Task
	Slot              Slot
	EstimateMinutes   int
	IsDefaultEstimate bool
}

// UnscheduledTask is an actionable task the planner could not place, with
// the reason it was skipped.
type UnscheduledTask struct {
	Task   *entity.Task
	Reason string
}

// Plan is the output of a single planDay call.
type Plan struct {
	Scheduled             []ScheduledTask
	Unscheduled           []UnscheduledTask
	TotalScheduledMinutes int
	RemainingMinutes      int
}

// Planner composes a priority evaluator with a Config to produce Plans.
type Planner struct {
	Evaluator *priority.Evaluator
	Config    Config
}

// New builds a Planner over evaluator with cfg (zero-valued fields take
// the documented defaults).
func New(evaluator *priority.Evaluator, cfg Config) *Planner {
	return &Planner{Evaluator: evaluator, Config: cfg.withDefaults()}
}

// PlanDay produces a Plan for date using opts (zero-valued fields take
// the documented defaults).
func (p *Planner) PlanDay(ctx context.Context, date time.Time, opts Options) (*Plan, error) {
	opts = opts.withDefaults()

	workStart, err := timeutil.ParseHHMM(p.Config.WorkHoursStart)
	if err != nil {
		return nil, err
	}
	workEnd, err := timeutil.ParseHHMM(p.Config.WorkHoursEnd)
	if err != nil {
		return nil, err
	}

	priorityTime := priorityInstant(date, workStart)

	candidates, err := p.Evaluator.GetByPriority(ctx, 2*opts.Limit, priorityTime)
	if err != nil {
		return nil, err
	}

	actionable := filterActionable(candidates, date)

	plan := &Plan{}
	if !*opts.IncludeTimeBlocks {
		for i, c := range actionable {
			if i >= opts.Limit {
				break
			}
			plan.Scheduled = append(plan.Scheduled, ScheduledTask{
				Task: c.Task,
				Slot: Slot{Start: workStart, End: workEnd},
			})
		}
		plan.RemainingMinutes = workEnd - workStart
		return plan, nil
	}

	scheduler := &daySchedule{workStart: workStart, workEnd: workEnd}
	scheduled := 0
	for _, c := range actionable {
		if scheduled >= opts.Limit {
			break
		}
		estimate := p.Config.DefaultEstimateMinutes
		isDefault := true
		if c.Task.EstimateMinutes != nil {
			estimate = *c.Task.EstimateMinutes
			isDefault = false
		}

		allowed, ok := allowedRange(c.Task, workStart, workEnd)
		if !ok {
			plan.Unscheduled = append(plan.Unscheduled, UnscheduledTask{Task: c.Task, Reason: "window outside work hours"})
			continue
		}

		slot, ok := scheduler.fit(allowed, estimate)
		if !ok {
			plan.Unscheduled = append(plan.Unscheduled, UnscheduledTask{Task: c.Task, Reason: "does not fit"})
			continue
		}

		scheduler.reserve(slot)
		plan.Scheduled = append(plan.Scheduled, ScheduledTask{
			Task:              c.Task,
			Slot:              slot,
			EstimateMinutes:   estimate,
			IsDefaultEstimate: isDefault,
		})
		plan.TotalScheduledMinutes += estimate
		scheduled++
	}

	plan.RemainingMinutes = (workEnd - workStart) - plan.TotalScheduledMinutes
	return plan, nil
}

// priorityInstant picks the instant the candidate pool is scored at, on
// date: the later of 9 and the work-start hour, at the work-start
// minute (a 08:30 start scores at 09:30). This deliberately hoists
// early-morning-only windows out of candidacy before work begins.
func priorityInstant(date time.Time, workStartMinutes int) time.Time {
	hour := workStartMinutes / 60
	if hour < 9 {
		hour = 9
	}
	minute := workStartMinutes % 60
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, date.Location())
}

func filterActionable(candidates []priority.ScoredTask, date time.Time) []priority.ScoredTask {
	endOfDay := endOf(date)
	var out []priority.ScoredTask
	for _, c := range candidates {
		if c.Priority == 0 {
			continue
		}
		t := c.Task
		switch {
		case t.Deadline != nil && !t.Deadline.After(endOfDay):
		case t.NextDueAt != nil && !t.NextDueAt.After(endOfDay):
		case t.HasWindow():
		case c.Priority > 0.3:
		default:
			continue
		}
		out = append(out, c)
	}
	return out
}

func endOf(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, date.Location())
}

// allowedRange intersects [workStart, workEnd) with the task's own window
// when it has one.
func allowedRange(t *entity.Task, workStart, workEnd int) (timeutil.Range, bool) {
	work := timeutil.Range{Start: workStart, End: workEnd}
	if !t.HasWindow() {
		return work, true
	}
	ws, err := timeutil.ParseHHMM(t.WindowStart)
	if err != nil {
		return timeutil.Range{}, false
	}
	we, err := timeutil.ParseHHMM(t.WindowEnd)
	if err != nil {
		return timeutil.Range{}, false
	}
	return timeutil.Intersect(work, timeutil.Range{Start: ws, End: we})
}

// daySchedule tracks the reserved slots for one planning pass and finds
// the first gap of at least a given width within an allowed range.
type daySchedule struct {
	workStart, workEnd int
	used               []Slot
}

func (d *daySchedule) fit(allowed timeutil.Range, estimate int) (Slot, bool) {
	candidates := make([]int, 0, len(d.used)+2)
	candidates = append(candidates, allowed.Start)
	for _, u := range d.used {
		if u.End >= allowed.Start && u.End <= allowed.End {
			candidates = append(candidates, u.End)
		}
	}

	for _, start := range candidates {
		end := start + estimate
		if end > allowed.End {
			continue
		}
		if !d.overlapsUsed(start, end) {
			return Slot{Start: start, End: end}, true
		}
	}
	return Slot{}, false
}

func (d *daySchedule) overlapsUsed(start, end int) bool {
	for _, u := range d.used {
		if start < u.End && end > u.Start {
			return true
		}
	}
	return false
}

func (d *daySchedule) reserve(s Slot) {
	d.used = append(d.used, s)
	sort.Slice(d.used, func(i, j int) bool { return d.used[i].Start < d.used[j].Start })
}
