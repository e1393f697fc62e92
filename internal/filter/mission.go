package filter

import (
	"strings"

	"github.com/Geun-Oh/uxlog/internal/entry"
	"github.com/Geun-Oh/uxlog/internal/mission"
)

// MatchesMission is the single rule associating a row with a mission: byte-exact
// substring containment of the screen prefix in the row's screen or target.
// No normalization is applied, so exported logs keep matching as written.
func MatchesMission(r *entry.Row, prefix string) bool {
	return strings.Contains(r.Screen, prefix) || strings.Contains(r.Target, prefix)
}

// RowsForMission returns the rows belonging to a mission, in dataset order.
func RowsForMission(rows []entry.Row, d mission.Descriptor) []entry.Row {
	return Apply(rows, NewMissionFilter(d))
}

// MissionFilter adapts MatchesMission to the Filter interface.
type MissionFilter struct {
	id     string
	prefix string
}

// NewMissionFilter creates a filter for one mission's rows.
func NewMissionFilter(d mission.Descriptor) *MissionFilter {
	return &MissionFilter{id: d.ID, prefix: d.ScreenPrefix}
}

// Match returns true if the row belongs to the mission.
func (f *MissionFilter) Match(r *entry.Row) bool {
	return MatchesMission(r, f.prefix)
}

// Name returns the filter description.
func (f *MissionFilter) Name() string {
	return "mission:" + f.id
}

// Users returns the distinct non-empty user ids among rows, in first-seen order.
func Users(rows []entry.Row) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range rows {
		id := rows[i].UserID
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
