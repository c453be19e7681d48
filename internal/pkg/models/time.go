package models

import "time"

// Now returns the current time truncated to microseconds in UTC, matching
// the precision Postgres stores for timestamptz columns.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// TimePtr returns a pointer to t
func TimePtr(t time.Time) *time.Time {
	return &t
}
