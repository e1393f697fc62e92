package filter

import (
	"sort"
	"strings"

	"github.com/Geun-Oh/uxlog/internal/entry"
)

// ExcludeFilter rejects rows from the listed user ids, e.g. facilitator test sessions.
// Match returns true if the row should PASS.
type ExcludeFilter struct {
	users map[string]bool
}

// NewExcludeFilter creates a filter that rejects rows from any of the user ids.
func NewExcludeFilter(userIDs ...string) *ExcludeFilter {
	users := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		users[id] = true
	}
	return &ExcludeFilter{users: users}
}

// Match returns true if the row's user is not excluded.
func (f *ExcludeFilter) Match(r *entry.Row) bool {
	return !f.users[r.UserID]
}

// Name returns the filter description.
func (f *ExcludeFilter) Name() string {
	ids := make([]string, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return "exclude:" + strings.Join(ids, ",")
}
