// Package core turns parsed CSV tables into mission analytics reports.
// Everything here is pure: the same rows and registry always give the same report.
package core

import (
	"github.com/Geun-Oh/uxlog/internal/entry"
	"github.com/Geun-Oh/uxlog/internal/mission"
	"github.com/Geun-Oh/uxlog/internal/monitor"
	"github.com/Geun-Oh/uxlog/internal/parser"
)

// Decode converts table records into rows, numbering them from 1 in file order.
func Decode(t *parser.Table) []entry.Row {
	rows := make([]entry.Row, len(t.Records))
	for i, rec := range t.Records {
		rows[i] = entry.FromRecord(rec, i+1)
	}
	return rows
}

// Analyze computes the report for rows, with missions in registry order.
func Analyze(rows []entry.Row, reg *mission.Registry) *monitor.Report {
	stats := monitor.ComputeAll(rows, reg)
	overall := monitor.Summarize(rows, stats)

	return &monitor.Report{
		Rows:     len(rows),
		Missions: stats,
		Overall:  overall,
		Events:   monitor.EventCounts(rows),
		Dwell:    monitor.Dwell(rows),
		Warnings: inspect(rows, stats, overall),
	}
}

// inspect runs the data-quality rules over rows and the computed statistics.
func inspect(rows []entry.Row, stats []monitor.MissionStats, overall monitor.OverallStats) []monitor.Warning {
	w := monitor.NewWarnings()
	for i := range rows {
		r := &rows[i]
		if r.UserID == "" {
			w.Record(monitor.RuleMissingUser, r.Line)
		}
		if r.Timestamp != "" {
			if _, ok := parser.ParseTimestamp(r.Timestamp); !ok {
				w.Record(monitor.RuleBadTimestamp, r.Line)
			}
		}
		switch r.Kind() {
		case entry.KindUnknown:
			w.Record(monitor.RuleUnknownEvent, r.Line)
		case entry.KindMissionComplete:
			if _, ok := parser.CompletionSeconds(r.Value); !ok {
				w.Record(monitor.RuleCompletionNoTime, r.Line)
			}
		}
	}

	if overall.Devices.Clamped {
		w.Record(monitor.RuleDeviceClamped, 0)
	}
	for _, s := range stats {
		switch st := s.(type) {
		case *monitor.SimpleStats:
			if st.Devices.Clamped {
				w.Record(monitor.RuleDeviceClamped, 0)
			}
		case *monitor.TwoStageStats:
			if st.Devices.Clamped {
				w.Record(monitor.RuleDeviceClamped, 0)
			}
		}
	}
	return w.List()
}
