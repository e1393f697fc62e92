package monitor

import (
	"sort"

	"github.com/Geun-Oh/uxlog/internal/entry"
	"github.com/Geun-Oh/uxlog/internal/filter"
	"github.com/Geun-Oh/uxlog/internal/mission"
)

// FunnelLogin is the key of the first funnel step.
const FunnelLogin = "login"

// ComputeOverall summarizes every mission of the registry.
func ComputeOverall(rows []entry.Row, reg *mission.Registry) OverallStats {
	return Summarize(rows, ComputeAll(rows, reg))
}

// Summarize builds the overall view from already computed mission statistics.
// Total sessions is the union of users across the missions' rows, each user
// counted once.
func Summarize(rows []entry.Row, stats []MissionStats) OverallStats {
	chain := filter.NewChain(filter.MatchAny)
	for _, s := range stats {
		chain.Add(filter.NewMissionFilter(s.Descriptor()))
	}
	var union []string
	if chain.Len() > 0 {
		union = filter.Users(filter.Apply(rows, chain))
	}

	return OverallStats{
		TotalSessions: len(union),
		Devices:       filter.IndexDevices(rows).Split(union),
		Funnel:        buildFunnel(len(union), stats),
	}
}

func buildFunnel(sessions int, stats []MissionStats) []FunnelStep {
	steps := []FunnelStep{{Key: FunnelLogin, Name: "로그인", Value: sessions}}
	add := func(d mission.Descriptor, key, label string, v int) {
		steps = append(steps, FunnelStep{
			Key:       d.ID + "." + key,
			Name:      d.Name + " " + label,
			MissionID: d.ID,
			Value:     v,
		})
	}

	for _, s := range stats {
		d := s.Descriptor()
		switch st := s.(type) {
		case *SimpleStats:
			add(d, "start", "시작", st.Stage.Started)
			add(d, "complete", "완료", st.Stage.Completed)
		case *TwoStageStats:
			add(d, "start", "시작", st.Basic.Started)
			add(d, "complete", "완료", st.Basic.Completed)
			add(d, "additional_start", "추가 시작", st.Additional.Started)
			add(d, "additional_complete", "추가 완료", st.Additional.Completed)
		case *ABStats:
			add(d, "a_start", "A 시작", st.A.Started)
			add(d, "a_complete", "A 완료", st.A.Completed)
			add(d, "b_start", "B 시작", st.B.Started)
			add(d, "b_complete", "B 완료", st.B.Completed)
		}
	}

	for i := range steps {
		steps[i].Percent = rate(steps[i].Value, sessions)
	}
	return steps
}

// KindCount is the number of rows of one event kind.
type KindCount struct {
	Kind  entry.Kind `json:"-"`
	Name  string     `json:"kind"`
	Label string     `json:"label"`
	Count int        `json:"count"`
}

// EventCounts tallies rows by event kind in vocabulary order. Kinds with no
// rows are included; unrecognized events are reported last when present.
func EventCounts(rows []entry.Row) []KindCount {
	counts := make(map[entry.Kind]int)
	for i := range rows {
		counts[rows[i].Kind()]++
	}

	kinds := entry.Kinds()
	out := make([]KindCount, 0, len(kinds)+1)
	for _, k := range kinds {
		out = append(out, KindCount{Kind: k, Name: k.String(), Label: k.Label(), Count: counts[k]})
	}
	if n := counts[entry.KindUnknown]; n > 0 {
		out = append(out, KindCount{Kind: entry.KindUnknown, Name: entry.KindUnknown.String(), Count: n})
	}
	return out
}

// ScreenDwell summarizes the dwell times recorded on screen exit rows.
type ScreenDwell struct {
	Screen string  `json:"screen"`
	Exits  int     `json:"exits"`
	AvgMs  float64 `json:"avgMs"`
	MaxMs  int64   `json:"maxMs"`
}

// Dwell aggregates dwell time per screen from exit rows that carry one,
// ordered by exit count descending, then by screen.
func Dwell(rows []entry.Row) []ScreenDwell {
	type acc struct {
		n   int
		sum int64
		max int64
	}
	by := make(map[string]*acc)
	for i := range rows {
		r := &rows[i]
		if !r.HasDwell || r.Kind() != entry.KindScreenExit {
			continue
		}
		a, ok := by[r.Screen]
		if !ok {
			a = &acc{}
			by[r.Screen] = a
		}
		a.n++
		a.sum += r.DwellMs
		if r.DwellMs > a.max {
			a.max = r.DwellMs
		}
	}

	out := make([]ScreenDwell, 0, len(by))
	for screen, a := range by {
		out = append(out, ScreenDwell{
			Screen: screen,
			Exits:  a.n,
			AvgMs:  float64(a.sum) / float64(a.n),
			MaxMs:  a.max,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Exits != out[j].Exits {
			return out[i].Exits > out[j].Exits
		}
		return out[i].Screen < out[j].Screen
	})
	return out
}
