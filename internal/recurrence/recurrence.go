// Package recurrence computes the next due instant for a recurring task
// from its RecurrencePattern and the instant it was just completed at.
// Calendar mode chases a wall-clock schedule; completion mode is simply
// an interval after the last completion.
package recurrence

import (
	"time"

	"github.com/usual2970/daywise/domain/entity"
)

// NextDue computes the next_due_at for a task that was just completed
// at completedAt. task supplies CreatedAt, used as the Interval
// recurrence's anchor when the pattern carries none.
func NextDue(pattern entity.RecurrencePattern, completedAt time.Time, task *entity.Task) time.Time {
	if pattern.Mode == entity.RecurrenceModeCompletion {
		days := int(pattern.ExpectedIntervalDays())
		if days <= 0 {
			days = 1
		}
		return completedAt.AddDate(0, 0, days)
	}
	return nextDueCalendar(pattern, completedAt, task)
}

func nextDueCalendar(pattern entity.RecurrencePattern, completedAt time.Time, task *entity.Task) time.Time {
	switch pattern.Type {
	case entity.RecurrenceDaily:
		return startOfDay(completedAt.AddDate(0, 0, 1))

	case entity.RecurrenceWeekly:
		if len(pattern.DaysOfWeek) > 0 {
			return nextWeeklyFromSet(pattern.DaysOfWeek, completedAt)
		}
		if pattern.DayOfWeek != nil {
			return nextWeeklySingle(*pattern.DayOfWeek, completedAt)
		}
		return completedAt.AddDate(0, 0, 7)

	case entity.RecurrenceMonthly:
		return startOfDay(completedAt.AddDate(0, 1, 0))

	case entity.RecurrenceInterval:
		anchor := completedAt
		if pattern.Anchor != nil {
			anchor = *pattern.Anchor
		} else if task != nil {
			anchor = task.CreatedAt
		}
		days := int(pattern.ExpectedIntervalDays())
		if days <= 0 {
			days = 1
		}
		next := anchor
		for !next.After(completedAt) {
			next = next.AddDate(0, 0, days)
		}
		return next

	default:
		return completedAt.AddDate(0, 0, 7)
	}
}

// nextWeeklyFromSet finds the earliest day strictly after completedAt
// whose weekday is in days, capped at 7 iterations (the set can span at
// most a full week).
func nextWeeklyFromSet(days []int, completedAt time.Time) time.Time {
	set := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		set[time.Weekday(d)] = true
	}
	candidate := startOfDay(completedAt.AddDate(0, 0, 1))
	for i := 0; i < 7; i++ {
		if set[candidate.Weekday()] {
			return candidate
		}
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

func nextWeeklySingle(dayOfWeek int, completedAt time.Time) time.Time {
	target := time.Weekday(dayOfWeek)
	daysUntil := int(target) - int(completedAt.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return startOfDay(completedAt.AddDate(0, 0, daysUntil))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
