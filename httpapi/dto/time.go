package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FlexTime wraps time.Time to accept the handful of datetime formats a
// human-edited request is likely to send, grounded on the teacher's
// delivery/rest/dto.CustomTime.
type FlexTime struct {
	time.Time
}

func (ft *FlexTime) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	s := strings.Trim(string(b), "\"")
	if s == "" {
		return nil
	}

	var lastErr error

	withTZ := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05Z07",
	}
	for _, format := range withTZ {
		t, err := time.Parse(format, s)
		if err == nil {
			ft.Time = t.UTC()
			return nil
		}
		lastErr = err
	}

	noTZ := []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	utc := time.FixedZone("UTC", 0)
	for _, format := range noTZ {
		t, err := time.ParseInLocation(format, s, utc)
		if err == nil {
			ft.Time = t.UTC()
			return nil
		}
		lastErr = err
	}

	return fmt.Errorf("cannot parse time %q, expected RFC3339 (e.g. 2026-02-03T16:20:00Z): %v", s, lastErr)
}

func (ft FlexTime) MarshalJSON() ([]byte, error) {
	if ft.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ft.Time.UTC().Format(time.RFC3339))
}

// ToTime returns nil for the zero value, a pointer otherwise.
func (ft *FlexTime) ToTime() *time.Time {
	if ft == nil || ft.Time.IsZero() {
		return nil
	}
	t := ft.Time
	return &t
}
