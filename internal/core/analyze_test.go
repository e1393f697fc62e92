package core

import (
	"testing"

	"github.com/Geun-Oh/uxlog/internal/mission"
	"github.com/Geun-Oh/uxlog/internal/monitor"
	"github.com/Geun-Oh/uxlog/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "사용자ID,타임스탬프,화면,이벤트,대상,값,디바이스\n" +
	"u1,2026. 2. 4 오후 12:06:40,로그인,로그인,,,mobile\n" +
	"u1,2026. 2. 4 오후 12:06:51,편집2-1_화면,미션 시작,편집2-1_미션시작,,\n" +
	"u1,2026. 2. 4 오후 12:06:56,편집2-1_화면,미션 완료,편집2-1_미션완료,완료시간:4.2초,\n" +
	",2026. 2. 4 오후 12:07:00,편집2-1_화면,버튼 클릭,다음,,\n" +
	"u2,어제,메모3A_화면,미션 완료,메모3A_미션완료,,\n" +
	"u2,2026. 2. 4 오후 12:08:00,메모3A_화면,흔들기,,,\n"

func TestAnalyze(t *testing.T) {
	rows := Decode(parser.Parse(sample))
	require.Len(t, rows, 6)
	assert.Equal(t, 1, rows[0].Line)

	r := Analyze(rows, mission.Default())
	assert.Equal(t, 6, r.Rows)
	require.Len(t, r.Missions, 4)
	assert.Equal(t, []string{"upload1", "edit2-1", "edit2-2", "memo3"}, ids(r))

	s, ok := r.Missions[1].(*monitor.SimpleStats)
	require.True(t, ok)
	assert.Equal(t, 1, s.SessionCount)
	assert.Equal(t, 1, s.Stage.Completed)
	assert.InDelta(t, 4.2, *s.Stage.Times.Avg, 1e-9)

	assert.Equal(t, 2, r.Overall.TotalSessions)

	rules := map[string]int{}
	for _, w := range r.Warnings {
		rules[w.Rule] = w.Count
	}
	assert.Equal(t, map[string]int{
		monitor.RuleMissingUser:      1,
		monitor.RuleBadTimestamp:     1,
		monitor.RuleCompletionNoTime: 1,
		monitor.RuleUnknownEvent:     1,
	}, rules)
}

func TestAnalyze_Deterministic(t *testing.T) {
	rows := Decode(parser.Parse(sample))
	assert.Equal(t, Analyze(rows, mission.Default()), Analyze(rows, mission.Default()))
}

func TestAnalyze_MatchesComputeAll(t *testing.T) {
	rows := Decode(parser.Parse(sample))
	reg, err := mission.Default().Subset("memo3", "edit2-1")
	require.NoError(t, err)

	r := Analyze(rows, reg)
	assert.Equal(t, monitor.ComputeAll(rows, reg), r.Missions)
	assert.Equal(t, []string{"edit2-1", "memo3"}, ids(r), "registry order")
}

func TestAnalyze_NoRows(t *testing.T) {
	r := Analyze(nil, mission.Default())
	assert.Zero(t, r.Rows)
	assert.Empty(t, r.Warnings)
	assert.Zero(t, r.Overall.TotalSessions)
}

func ids(r *monitor.Report) []string {
	out := make([]string, len(r.Missions))
	for i, s := range r.Missions {
		out[i] = s.Descriptor().ID
	}
	return out
}
