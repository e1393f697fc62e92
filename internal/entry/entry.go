// Package entry defines the Row type used throughout the uxlog pipeline.
package entry

import (
	"fmt"
	"strconv"
	"strings"
)

// Column headers of exported mission logs. They are matched verbatim.
const (
	ColUserID    = "사용자ID"
	ColTimestamp = "타임스탬프"
	ColTime      = "시간" // older exports
	ColScreen    = "화면"
	ColEvent     = "이벤트"
	ColTarget    = "대상"
	ColValue     = "값"
	ColDevice    = "디바이스"
	ColDwellMs   = "체류시간(ms)"
)

// Headers lists the export columns in their canonical order.
var Headers = []string{
	ColUserID, ColTimestamp, ColScreen, ColEvent, ColTarget, ColValue, ColDevice, ColDwellMs,
}

// Device values logged by the mission app.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
)

// Kind is the tracked event type.
type Kind int

const (
	KindUnknown Kind = iota
	KindScreenView
	KindButtonClick
	KindSelect
	KindLogin
	KindScroll
	KindMissionStart
	KindMissionComplete
	KindScreenExit
)

// kindLabels holds the Korean label written by the mission app for each kind.
var kindLabels = map[Kind]string{
	KindScreenView:      "화면 진입",
	KindButtonClick:     "버튼 클릭",
	KindSelect:          "선택",
	KindLogin:           "로그인",
	KindScroll:          "스크롤",
	KindMissionStart:    "미션 시작",
	KindMissionComplete: "미션 완료",
	KindScreenExit:      "화면 이탈",
}

var kindNames = map[Kind]string{
	KindScreenView:      "screen_view",
	KindButtonClick:     "button_click",
	KindSelect:          "select",
	KindLogin:           "login",
	KindScroll:          "scroll",
	KindMissionStart:    "mission_start",
	KindMissionComplete: "mission_complete",
	KindScreenExit:      "screen_exit",
}

var kindLookup = func() map[string]Kind {
	m := make(map[string]Kind, len(kindLabels)*3)
	for k, label := range kindLabels {
		m[label] = k
		m[strings.ReplaceAll(label, " ", "")] = k
		m[kindNames[k]] = k
	}
	return m
}()

// Kinds lists every known kind in vocabulary order.
func Kinds() []Kind {
	return []Kind{
		KindScreenView, KindButtonClick, KindSelect, KindLogin,
		KindScroll, KindMissionStart, KindMissionComplete, KindScreenExit,
	}
}

// String returns the identifier of a Kind, e.g. "mission_start".
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Label returns the Korean label of a Kind as written in exported logs.
func (k Kind) Label() string {
	return kindLabels[k]
}

// ParseKind converts an event column value to a Kind.
// Accepts Korean labels with or without the inner space and the English identifiers.
func ParseKind(s string) Kind {
	if k, ok := kindLookup[strings.TrimSpace(s)]; ok {
		return k
	}
	return KindUnknown
}

// Row is one tracked interaction event. Rows are never mutated after FromRecord.
type Row struct {
	UserID    string
	Timestamp string
	Screen    string
	Event     string
	Target    string
	Value     string
	Device    string
	DwellMs   int64
	HasDwell  bool
	Line      int // 1-based data row index
}

// FromRecord builds a Row from a parsed CSV record keyed by header name.
func FromRecord(rec map[string]string, line int) Row {
	ts := rec[ColTimestamp]
	if ts == "" {
		ts = rec[ColTime]
	}
	r := Row{
		UserID:    rec[ColUserID],
		Timestamp: ts,
		Screen:    rec[ColScreen],
		Event:     rec[ColEvent],
		Target:    rec[ColTarget],
		Value:     rec[ColValue],
		Device:    rec[ColDevice],
		Line:      line,
	}
	if raw := rec[ColDwellMs]; raw != "" {
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			r.DwellMs = ms
			r.HasDwell = true
		}
	}
	return r
}

// Kind decodes the event column.
func (r *Row) Kind() Kind {
	return ParseKind(r.Event)
}

// Format returns a one-line representation of the row.
func (r *Row) Format() string {
	if r.Value != "" {
		return fmt.Sprintf("[%s][%s][%s] %s: %s (%s)", r.Timestamp, r.UserID, r.Screen, r.Event, r.Target, r.Value)
	}
	return fmt.Sprintf("[%s][%s][%s] %s: %s", r.Timestamp, r.UserID, r.Screen, r.Event, r.Target)
}
