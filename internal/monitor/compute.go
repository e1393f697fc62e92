package monitor

import (
	"github.com/Geun-Oh/uxlog/internal/entry"
	"github.com/Geun-Oh/uxlog/internal/filter"
	"github.com/Geun-Oh/uxlog/internal/mission"
	"github.com/Geun-Oh/uxlog/internal/parser"
)

// ComputeMission derives one mission's statistics from the full dataset.
// Session and click counts use the mission's rows; start and complete markers
// are matched across all rows by exact target equality. The result depends only
// on rows and d.
func ComputeMission(rows []entry.Row, d mission.Descriptor) MissionStats {
	own := filter.RowsForMission(rows, d)
	clicks := countClicks(own)

	switch d.Shape() {
	case mission.ShapeAB:
		a, _ := computeStage(rows, *d.VariantA)
		b, _ := computeStage(rows, *d.VariantB)
		pooled := make([]float64, 0, a.Times.Count()+b.Times.Count())
		pooled = append(pooled, a.Times.Samples...)
		pooled = append(pooled, b.Times.Samples...)
		return &ABStats{
			Mission:      d,
			A:            a,
			B:            b,
			Times:        NewTiming(pooled),
			ButtonClicks: clicks,
		}

	case mission.ShapeTwoStage:
		users := filter.Users(own)
		basic, basicUsers := computeStage(rows, d.Basic())
		extra, extraUsers := computeStage(rows, *d.Additional)
		return &TwoStageStats{
			Mission:                     d,
			SessionCount:                len(users),
			Basic:                       basic,
			Additional:                  extra,
			ParticipationRate:           rate(basic.Started, len(users)),
			AdditionalParticipationRate: rate(startedAfter(basicUsers, extraUsers), basic.Completed),
			ButtonClicks:                clicks,
			Devices:                     filter.IndexDevices(rows).Split(users),
		}

	default:
		users := filter.Users(own)
		stage, _ := computeStage(rows, d.Basic())
		s := &SimpleStats{
			Mission:           d,
			SessionCount:      len(users),
			Stage:             stage,
			ParticipationRate: rate(stage.Started, len(users)),
			ButtonClicks:      clicks,
			Devices:           filter.IndexDevices(rows).Split(users),
		}
		if d.AnswerScreen != "" {
			n, ok := firstTry(rows, d.AnswerScreen)
			v := rate(ok, n)
			s.FirstTrySuccessRate = &v
			s.FirstTryUsers = n
		}
		return s
	}
}

// ComputeAll computes every mission in registry order.
func ComputeAll(rows []entry.Row, reg *mission.Registry) []MissionStats {
	ds := reg.All()
	out := make([]MissionStats, len(ds))
	for i, d := range ds {
		out[i] = ComputeMission(rows, d)
	}
	return out
}

// stageUsers holds each user's first start and first completion timestamp.
type stageUsers struct {
	started   map[string]string
	completed map[string]string
}

// computeStage counts distinct starters and completers of one marker pair.
// Rows without a user id are skipped. The completion time comes from each
// user's first completion row only.
func computeStage(rows []entry.Row, st mission.Stage) (StageStats, stageUsers) {
	u := stageUsers{started: make(map[string]string), completed: make(map[string]string)}
	var doneOrder []string
	var times []float64

	for i := range rows {
		r := &rows[i]
		if r.UserID == "" {
			continue
		}
		switch r.Kind() {
		case entry.KindMissionStart:
			if r.Target != st.Start {
				continue
			}
			if _, ok := u.started[r.UserID]; !ok {
				u.started[r.UserID] = r.Timestamp
			}
		case entry.KindMissionComplete:
			if r.Target != st.Complete {
				continue
			}
			if _, ok := u.completed[r.UserID]; ok {
				continue
			}
			u.completed[r.UserID] = r.Timestamp
			doneOrder = append(doneOrder, r.UserID)
			if secs, ok := parser.CompletionSeconds(r.Value); ok {
				times = append(times, secs)
			}
		}
	}

	var observed []float64
	for _, id := range doneOrder {
		start, ok := u.started[id]
		if !ok {
			continue
		}
		if secs, ok := parser.Elapsed(start, u.completed[id]); ok {
			observed = append(observed, secs)
		}
	}

	return StageStats{
		Started:        len(u.started),
		Completed:      len(u.completed),
		CompletionRate: rate(len(u.completed), len(u.started)),
		Times:          NewTiming(times),
		Observed:       NewTiming(observed),
	}, u
}

// startedAfter counts users in next.started who also completed prev.
func startedAfter(prev, next stageUsers) int {
	n := 0
	for id := range next.started {
		if _, ok := prev.completed[id]; ok {
			n++
		}
	}
	return n
}

// firstTry looks at each user's first button click on the answer screen and
// returns how many users clicked there and how many of those first clicks
// carried expected=true.
func firstTry(rows []entry.Row, screen string) (users, succeeded int) {
	decided := make(map[string]bool)
	for i := range rows {
		r := &rows[i]
		if r.UserID == "" || r.Screen != screen || decided[r.UserID] {
			continue
		}
		if r.Kind() != entry.KindButtonClick {
			continue
		}
		decided[r.UserID] = true
		users++
		if parser.ExpectedTrue(r.Value) {
			succeeded++
		}
	}
	return users, succeeded
}

func countClicks(rows []entry.Row) Clicks {
	c := make(Clicks)
	for i := range rows {
		r := &rows[i]
		if r.Target == "" || r.Kind() != entry.KindButtonClick {
			continue
		}
		c[r.Target]++
	}
	return c
}
