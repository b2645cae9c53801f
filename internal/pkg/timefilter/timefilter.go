// Package timefilter selects timestamped records inside a date window.
package timefilter

import "time"

// Range is an optional inclusive window. A nil bound leaves that side open.
type Range struct {
	Start *time.Time `json:"start_date,omitempty"`
	End   *time.Time `json:"end_date,omitempty"`
}

// IsZero reports whether neither bound is set.
func (r Range) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// layouts accepted by ParseTimestamp, tried in order. RFC3339 also accepts
// fractional seconds.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp. Values without a zone are
// read as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// EndOfDayUTC returns the last millisecond of t's calendar day in UTC.
func EndOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, 999_000_000, time.UTC)
}

// FilterByDateRange returns the items whose timestamp falls inside r, in
// their original order. When r has no bounds the input slice itself is
// returned. The end bound covers the whole UTC day of r.End. Items whose
// timestamp does not parse are dropped by any bound.
func FilterByDateRange[T any](items []T, r Range, timestamp func(T) string) []T {
	if r.IsZero() {
		return items
	}

	var end time.Time
	if r.End != nil {
		end = EndOfDayUTC(*r.End)
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		ts, ok := ParseTimestamp(timestamp(item))
		if !ok {
			continue
		}
		if r.Start != nil && ts.Before(*r.Start) {
			continue
		}
		if r.End != nil && ts.After(end) {
			continue
		}
		out = append(out, item)
	}
	return out
}
