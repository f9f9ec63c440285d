// Package timestamp provides tolerant parsing of wire timestamps.
//
// Backend services serialize timestamps as ISO-8601 strings, some with a
// zone designator and some without. A null or absent timestamp on the wire
// must map to an explicit "absent" value (the zero time.Time), never to an
// error that aborts a whole resolution.
//
// Zero Value Semantics:
//   - time.Time{} means "not set"
//   - IsAbsent reports this condition
package timestamp

import (
	"time"
)

// Wire formats accepted from the backends, tried in order.
var wireFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999", // zoneless local date-time
	"2006-01-02T15:04:05",
}

// Parse converts a wire timestamp string to time.Time. An empty string
// returns the zero time. An unparseable string also returns the zero time:
// a malformed timestamp on one entity must not fail the request that
// carried it.
func Parse(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range wireFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// IsAbsent reports whether t carries no value.
func IsAbsent(t time.Time) bool {
	return t.IsZero()
}

// Format renders t in RFC3339, or the empty string when absent.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
