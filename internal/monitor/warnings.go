package monitor

import (
	"fmt"
	"strings"
	"sync"
)

// Data-quality rules checked while analyzing a dataset.
const (
	RuleMissingUser      = "missing_user_id"
	RuleBadTimestamp     = "undecodable_timestamp"
	RuleUnknownEvent     = "unknown_event"
	RuleCompletionNoTime = "completion_without_time"
	RuleDeviceClamped    = "device_split_clamped"
)

var ruleDescriptions = map[string]string{
	RuleMissingUser:      "rows without 사용자ID (excluded from user counts)",
	RuleBadTimestamp:     "rows whose timestamp could not be decoded",
	RuleUnknownEvent:     "rows with an unrecognized 이벤트",
	RuleCompletionNoTime: "mission completions without 완료시간",
	RuleDeviceClamped:    "device splits whose unknown count was clamped to 0",
}

// maxSampleLines bounds how many offending row numbers a warning keeps.
const maxSampleLines = 5

// Warning is the tally of one data-quality rule.
type Warning struct {
	Rule        string `json:"rule"`
	Description string `json:"description"`
	Count       int    `json:"count"`
	Lines       []int  `json:"lines,omitempty"`
}

// Warnings collects data-quality warnings. Rules appear in the order first hit.
type Warnings struct {
	mu    sync.Mutex
	rules []*Warning
}

// NewWarnings creates an empty collector.
func NewWarnings() *Warnings {
	return &Warnings{}
}

// Record counts one occurrence of rule. line is the 1-based data row, or 0 when
// the warning is not tied to a row.
func (w *Warnings) Record(rule string, line int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var hit *Warning
	for _, r := range w.rules {
		if r.Rule == rule {
			hit = r
			break
		}
	}
	if hit == nil {
		hit = &Warning{Rule: rule, Description: ruleDescriptions[rule]}
		w.rules = append(w.rules, hit)
	}
	hit.Count++
	if line > 0 && len(hit.Lines) < maxSampleLines {
		hit.Lines = append(hit.Lines, line)
	}
}

// List returns a copy of the recorded warnings.
func (w *Warnings) List() []Warning {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]Warning, len(w.rules))
	for i, r := range w.rules {
		out[i] = *r
		out[i].Lines = append([]int(nil), r.Lines...)
	}
	return out
}

// Total returns the number of warnings across all rules.
func (w *Warnings) Total() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	total := 0
	for _, r := range w.rules {
		total += r.Count
	}
	return total
}

// FormatWarnings renders warnings as a text block. Empty input yields "".
func FormatWarnings(ws []Warning) string {
	if len(ws) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("── Warnings ──\n")
	for _, r := range ws {
		sb.WriteString(fmt.Sprintf("  %-26s %5d  %s\n", r.Rule, r.Count, r.Description))
	}
	sb.WriteString("──────────────")
	return sb.String()
}
