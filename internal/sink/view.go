package sink

import (
	"time"

	"github.com/Geun-Oh/uxlog/internal/filter"
	"github.com/Geun-Oh/uxlog/internal/mission"
	"github.com/Geun-Oh/uxlog/internal/monitor"
)

// View is the stable JSON document for a report. Mission entries are tagged
// by shape and only carry the fields that shape defines.
type View struct {
	Source      string                `json:"source,omitempty"`
	Generation  uint64                `json:"generation,omitempty"`
	GeneratedAt string                `json:"generatedAt,omitempty"`
	Rows        int                   `json:"rows"`
	Missions    []MissionView         `json:"missions"`
	Overall     monitor.OverallStats  `json:"overall"`
	Events      []monitor.KindCount   `json:"events"`
	Dwell       []monitor.ScreenDwell `json:"dwell"`
	Warnings    []monitor.Warning     `json:"warnings"`
}

// MissionView is one mission in a View.
type MissionView struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Shape mission.Shape `json:"shape"`

	// Simple and two-stage missions.
	SessionCount      *int                `json:"sessionCount,omitempty"`
	ParticipationRate *float64            `json:"participationRate,omitempty"`
	Basic             *monitor.StageStats `json:"basic,omitempty"`
	Devices           *filter.DeviceSplit `json:"devices,omitempty"`

	// Simple missions with an answer screen.
	FirstTrySuccessRate *float64 `json:"firstTrySuccessRate,omitempty"`
	FirstTryUsers       *int     `json:"firstTryUsers,omitempty"`

	// Two-stage missions.
	Additional                  *monitor.StageStats `json:"additional,omitempty"`
	AdditionalParticipationRate *float64            `json:"additionalParticipationRate,omitempty"`

	// A/B missions.
	A     *monitor.StageStats `json:"a,omitempty"`
	B     *monitor.StageStats `json:"b,omitempty"`
	Times *monitor.Timing     `json:"times,omitempty"`

	ButtonClicks []monitor.ClickCount `json:"buttonClicks"`
}

// NewView converts a report into its JSON document.
func NewView(r *monitor.Report) View {
	v := View{
		Source:     r.Source,
		Generation: r.Generation,
		Rows:       r.Rows,
		Missions:   make([]MissionView, 0, len(r.Missions)),
		Overall:    r.Overall,
		Events:     r.Events,
		Dwell:      r.Dwell,
		Warnings:   r.Warnings,
	}
	if !r.GeneratedAt.IsZero() {
		v.GeneratedAt = r.GeneratedAt.Format(time.RFC3339)
	}
	if v.Warnings == nil {
		v.Warnings = []monitor.Warning{}
	}
	for _, s := range r.Missions {
		v.Missions = append(v.Missions, NewMissionView(s))
	}
	return v
}

// NewMissionView converts one mission's statistics.
func NewMissionView(s monitor.MissionStats) MissionView {
	d := s.Descriptor()
	mv := MissionView{
		ID:           d.ID,
		Name:         d.Name,
		Shape:        s.Shape(),
		ButtonClicks: s.Clicks().Sorted(),
	}

	switch st := s.(type) {
	case *monitor.SimpleStats:
		mv.SessionCount = &st.SessionCount
		mv.ParticipationRate = &st.ParticipationRate
		mv.Basic = &st.Stage
		mv.Devices = &st.Devices
		if st.FirstTrySuccessRate != nil {
			mv.FirstTrySuccessRate = st.FirstTrySuccessRate
			mv.FirstTryUsers = &st.FirstTryUsers
		}
	case *monitor.TwoStageStats:
		mv.SessionCount = &st.SessionCount
		mv.ParticipationRate = &st.ParticipationRate
		mv.Basic = &st.Basic
		mv.Devices = &st.Devices
		mv.Additional = &st.Additional
		mv.AdditionalParticipationRate = &st.AdditionalParticipationRate
	case *monitor.ABStats:
		mv.A = &st.A
		mv.B = &st.B
		mv.Times = &st.Times
	}
	return mv
}
