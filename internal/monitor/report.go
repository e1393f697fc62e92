package monitor

import "time"

// Report is the full analysis of one dataset.
type Report struct {
	// Source names the input the rows came from.
	Source string
	// Generation is the load ticket that produced the report; 0 for one-shot runs.
	Generation  uint64
	GeneratedAt time.Time
	// Rows is the number of rows analyzed.
	Rows     int
	Missions []MissionStats
	Overall  OverallStats
	Events   []KindCount
	Dwell    []ScreenDwell
	Warnings []Warning
}

// Mission looks up a mission's statistics by id.
func (r *Report) Mission(id string) (MissionStats, bool) {
	for _, s := range r.Missions {
		if s.Descriptor().ID == id {
			return s, true
		}
	}
	return nil, false
}
