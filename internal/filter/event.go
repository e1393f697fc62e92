package filter

import (
	"strings"

	"github.com/Geun-Oh/uxlog/internal/entry"
)

// EventFilter passes only rows of the given event kinds.
type EventFilter struct {
	allowed map[entry.Kind]bool
	order   []entry.Kind
}

// NewEventFilter creates a filter that passes rows matching any of the given kinds.
// Example: NewEventFilter(entry.KindMissionStart, entry.KindMissionComplete)
func NewEventFilter(kinds ...entry.Kind) *EventFilter {
	allowed := make(map[entry.Kind]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}
	return &EventFilter{allowed: allowed, order: kinds}
}

// ParseEventFilter builds an EventFilter from event names or Korean labels.
// Unknown names are ignored; it returns nil if none are recognized.
func ParseEventFilter(names []string) *EventFilter {
	var kinds []entry.Kind
	for _, n := range names {
		if k := entry.ParseKind(n); k != entry.KindUnknown {
			kinds = append(kinds, k)
		}
	}
	if len(kinds) == 0 {
		return nil
	}
	return NewEventFilter(kinds...)
}

// Match returns true if the row's event kind is in the allowed set.
func (f *EventFilter) Match(r *entry.Row) bool {
	return f.allowed[r.Kind()]
}

// Name returns the filter description.
func (f *EventFilter) Name() string {
	names := make([]string, 0, len(f.order))
	for _, k := range f.order {
		names = append(names, k.String())
	}
	return "event:" + strings.Join(names, ",")
}
