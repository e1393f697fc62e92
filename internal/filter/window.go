package filter

import (
	"time"

	"github.com/Geun-Oh/uxlog/internal/entry"
	"github.com/Geun-Oh/uxlog/internal/parser"
)

// WindowFilter keeps rows recorded within [since, until].
// A zero bound is open. Rows whose timestamp does not decode are dropped,
// since they cannot be placed inside the window.
type WindowFilter struct {
	since time.Time
	until time.Time
}

// NewWindowFilter creates a time window filter.
func NewWindowFilter(since, until time.Time) *WindowFilter {
	return &WindowFilter{since: since, until: until}
}

// Match returns true if the row's decoded timestamp lies inside the window.
func (f *WindowFilter) Match(r *entry.Row) bool {
	ts, ok := parser.ParseTimestamp(r.Timestamp)
	if !ok {
		return false
	}
	if !f.since.IsZero() && ts.Before(f.since) {
		return false
	}
	if !f.until.IsZero() && ts.After(f.until) {
		return false
	}
	return true
}

// Name returns the filter description.
func (f *WindowFilter) Name() string {
	const layout = "2006-01-02T15:04:05"
	since, until := "-inf", "+inf"
	if !f.since.IsZero() {
		since = f.since.In(parser.KST).Format(layout)
	}
	if !f.until.IsZero() {
		until = f.until.In(parser.KST).Format(layout)
	}
	return "window:" + since + ".." + until
}

// ParseBound parses a --since value: RFC 3339, "2006-01-02 15:04:05" (KST),
// "2006-01-02" (KST midnight) or the log's own Korean format.
func ParseBound(s string) (time.Time, bool) {
	t, _, ok := parseBound(s)
	return t, ok
}

// ParseUntil parses an --until value in the same formats as ParseBound. A
// date-only value covers the whole day, up to its last nanosecond in KST.
func ParseUntil(s string) (time.Time, bool) {
	t, dateOnly, ok := parseBound(s)
	if ok && dateOnly {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, ok
}

func parseBound(s string) (t time.Time, dateOnly, ok bool) {
	if s == "" {
		return time.Time{}, false, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, true
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, parser.KST); err == nil {
			return t, false, true
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", s, parser.KST); err == nil {
		return t, true, true
	}
	t, ok = parser.ParseTimestamp(s)
	return t, false, ok
}
