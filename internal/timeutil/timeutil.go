// Package timeutil holds the small time-of-day helpers the priority
// curves and the planner both depend on: parsing and formatting "HH:MM"
// wall-clock strings, intersecting half-open minute ranges, and testing
// whether a minute-of-day falls inside a window that may cross midnight.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ParseHHMM parses a zero-padded 24-hour "HH:MM" string into minutes
// since midnight, in [0, 1440).
func ParseHHMM(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("timeutil: malformed HH:MM %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("timeutil: malformed hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("timeutil: malformed minute in %q", s)
	}
	if len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("timeutil: HH:MM must be zero-padded, got %q", s)
	}
	return h*60 + m, nil
}

// FormatHHMM renders minutes-since-midnight as a zero-padded "HH:MM".
func FormatHHMM(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Range is a half-open minute interval [Start, End).
type Range struct {
	Start, End int
}

// Intersect returns the overlap of two half-open ranges, or ok=false if
// they don't overlap (including the degenerate zero-width case).
func Intersect(a, b Range) (Range, bool) {
	start := a.Start
	if b.Start > start {
		start = b.Start
	}
	end := a.End
	if b.End < end {
		end = b.End
	}
	if start >= end {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}

// InWindow reports whether now (minutes since midnight) falls inside the
// inclusive window [start, end]. If start > end the window is taken to
// cross midnight: now is inside iff now >= start or now <= end.
func InWindow(now, start, end int) bool {
	if start <= end {
		return now >= start && now <= end
	}
	return now >= start || now <= end
}
