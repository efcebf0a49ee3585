package aggregate

import (
	"fmt"
	"strings"
	"time"
)

// Jira emits worklog start times as e.g. "2023-01-15T10:30:00.000-0600".
// Every record in the tracked project carries the same fixed -0600 suffix;
// the clock-face part is compared as naive local time against the window,
// with the offset discarded rather than converted. A record with any
// other offset is rejected outright instead of being silently
// reinterpreted.
const (
	startedOffset = "-0600"
	startedLayout = "2006-01-02T15:04:05.000"
)

// ParseStarted parses a raw worklog start timestamp as naive local time.
func ParseStarted(s string) (time.Time, error) {
	if len(s) <= len(startedOffset) {
		return time.Time{}, fmt.Errorf("malformed worklog start time %q", s)
	}
	if !strings.HasSuffix(s, startedOffset) {
		return time.Time{}, fmt.Errorf("worklog start time %q has unexpected UTC offset %q, want %q",
			s, s[len(s)-len(startedOffset):], startedOffset)
	}
	t, err := time.ParseInLocation(startedLayout, strings.TrimSuffix(s, startedOffset), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed worklog start time %q: %w", s, err)
	}
	return t, nil
}
