package parser

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// completionPattern matches the duration embedded in completion values, e.g. "완료시간:4.2초".
var completionPattern = MustCompilePattern(`완료시간:%{SECONDS:seconds}초`)

// CompletionSeconds extracts the self-reported completion time from a value field.
func CompletionSeconds(value string) (float64, bool) {
	fields, ok := completionPattern.Extract(value)
	if !ok {
		return 0, false
	}
	secs, err := strconv.ParseFloat(fields["seconds"], 64)
	if err != nil {
		return 0, false
	}
	return secs, true
}

// Payload is the structured interaction state some screens embed in the value field.
type Payload map[string]any

// DecodePayload decodes the JSON object in a value field. The object may be the whole
// value or embedded in surrounding text ("정답 선택 {\"expected\":true}").
func DecodePayload(value string) (Payload, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, false
	}

	var p Payload
	if err := json.Unmarshal([]byte(value), &p); err == nil && p != nil {
		return p, true
	}

	start := strings.IndexByte(value, '{')
	end := strings.LastIndexByte(value, '}')
	if start < 0 || end <= start {
		return nil, false
	}
	p = nil
	if err := json.Unmarshal([]byte(value[start:end+1]), &p); err != nil || p == nil {
		return nil, false
	}
	return p, true
}

// ExpectedTrue reports whether the payload carries expected === true.
// Undecodable payloads count as false.
func ExpectedTrue(value string) bool {
	p, ok := DecodePayload(value)
	if !ok {
		return false
	}
	b, ok := p["expected"].(bool)
	return ok && b
}
