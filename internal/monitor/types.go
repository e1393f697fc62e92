package monitor

import (
	"sort"

	"github.com/Geun-Oh/uxlog/internal/filter"
	"github.com/Geun-Oh/uxlog/internal/mission"
)

// Timing summarizes a pool of duration samples in seconds.
// Avg, Min and Max are nil when there are no samples; they are never defaulted to 0.
type Timing struct {
	Samples []float64 `json:"samples"`
	Avg     *float64  `json:"avg"`
	Min     *float64  `json:"min"`
	Max     *float64  `json:"max"`
}

// NewTiming computes the summary of samples. The slice is retained.
func NewTiming(samples []float64) Timing {
	t := Timing{Samples: samples}
	if len(samples) == 0 {
		t.Samples = []float64{}
		return t
	}

	sum, lo, hi := 0.0, samples[0], samples[0]
	for _, s := range samples {
		sum += s
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	avg := sum / float64(len(samples))
	t.Avg, t.Min, t.Max = &avg, &lo, &hi
	return t
}

// Count returns the number of samples.
func (t Timing) Count() int {
	return len(t.Samples)
}

// StageStats holds the funnel numbers for one start/complete marker pair.
type StageStats struct {
	Started        int     `json:"started"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completionRate"`
	// Times are the self-reported 완료시간 values, first per user.
	Times Timing `json:"times"`
	// Observed are elapsed seconds between each user's first start and first
	// completion, taken from row timestamps.
	Observed Timing `json:"observed"`
}

// Clicks counts button clicks by target label.
type Clicks map[string]int

// ClickCount is one entry of Clicks.Sorted.
type ClickCount struct {
	Target string `json:"target"`
	Count  int    `json:"count"`
}

// Sorted returns the clicks by count descending, then by label.
func (c Clicks) Sorted() []ClickCount {
	out := make([]ClickCount, 0, len(c))
	for t, n := range c {
		out = append(out, ClickCount{Target: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Target < out[j].Target
	})
	return out
}

// Total returns the number of clicks.
func (c Clicks) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// MissionStats is the per-mission result. It is one of *SimpleStats,
// *TwoStageStats or *ABStats, matching the descriptor's shape.
type MissionStats interface {
	Descriptor() mission.Descriptor
	Shape() mission.Shape
	Clicks() Clicks
	isMissionStats()
}

// SimpleStats is the result for a mission with one start/complete pair.
type SimpleStats struct {
	Mission           mission.Descriptor
	SessionCount      int
	Stage             StageStats
	ParticipationRate float64
	// FirstTrySuccessRate is the percentage of users whose first click on the
	// answer screen was the expected one. Nil when the mission has no answer screen.
	FirstTrySuccessRate *float64
	FirstTryUsers       int
	ButtonClicks        Clicks
	Devices             filter.DeviceSplit
}

// TwoStageStats is the result for a mission with a gated additional stage.
type TwoStageStats struct {
	Mission           mission.Descriptor
	SessionCount      int
	Basic             StageStats
	Additional        StageStats
	ParticipationRate float64
	// AdditionalParticipationRate is the share of basic completers who started
	// the additional stage.
	AdditionalParticipationRate float64
	ButtonClicks                Clicks
	Devices                     filter.DeviceSplit
}

// ABStats is the result for a mission run in two UI variants.
type ABStats struct {
	Mission mission.Descriptor
	A       StageStats
	B       StageStats
	// Times pools both variants' completion times.
	Times        Timing
	ButtonClicks Clicks
}

func (s *SimpleStats) Descriptor() mission.Descriptor   { return s.Mission }
func (s *TwoStageStats) Descriptor() mission.Descriptor { return s.Mission }
func (s *ABStats) Descriptor() mission.Descriptor       { return s.Mission }

func (s *SimpleStats) Shape() mission.Shape   { return mission.ShapeSimple }
func (s *TwoStageStats) Shape() mission.Shape { return mission.ShapeTwoStage }
func (s *ABStats) Shape() mission.Shape       { return mission.ShapeAB }

func (s *SimpleStats) Clicks() Clicks   { return s.ButtonClicks }
func (s *TwoStageStats) Clicks() Clicks { return s.ButtonClicks }
func (s *ABStats) Clicks() Clicks       { return s.ButtonClicks }

func (*SimpleStats) isMissionStats()   {}
func (*TwoStageStats) isMissionStats() {}
func (*ABStats) isMissionStats()       {}

// FunnelStep is one stage of the cross-mission funnel.
type FunnelStep struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	MissionID string  `json:"missionId,omitempty"`
	Value     int     `json:"value"`
	Percent   float64 `json:"percent"`
}

// OverallStats summarizes all missions together.
type OverallStats struct {
	TotalSessions int                `json:"totalSessions"`
	Devices       filter.DeviceSplit `json:"devices"`
	Funnel        []FunnelStep       `json:"funnel"`
}

// rate returns num/den as a percentage, or 0 when den is 0.
func rate(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}
