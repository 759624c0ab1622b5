package series

import (
	"fmt"
	"strings"
	"time"

	"cloudeng.io/datetime"
)

// ParseValidTime splits an NWS validTime such as
// "2025-11-28T14:00:00+00:00/PT1H" into its start instant and duration.
func ParseValidTime(s string) (time.Time, time.Duration, error) {
	startStr, periodStr, ok := strings.Cut(s, "/")
	if !ok {
		return time.Time{}, 0, fmt.Errorf("valid time %q: expected <instant>/<duration>", s)
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("valid time %q: start: %w", s, err)
	}
	d, err := datetime.ParseISO8601Period(periodStr)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("valid time %q: duration: %w", s, err)
	}
	if d < 0 {
		return time.Time{}, 0, fmt.Errorf("valid time %q: negative duration", s)
	}
	return start, d, nil
}

// FormatValidTime is the inverse of ParseValidTime. The start is written in
// UTC with a numeric offset, as NWS publishes it.
func FormatValidTime(start time.Time, d time.Duration) string {
	period := "PT0S"
	if d != 0 {
		period = datetime.AsISO8601Period(d)
	}
	return start.UTC().Format("2006-01-02T15:04:05-07:00") + "/" + period
}
