package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// KST is the zone mission logs are recorded in.
var KST = time.FixedZone("KST", 9*60*60)

// timestampRegex matches "2026. 2. 4 오후 12:06:51" and the browser variant
// with a trailing dot after the day ("2026. 2. 4. 오후 12:06:51").
var timestampRegex = regexp.MustCompile(`^\s*(\d{4})\.\s*(\d{1,2})\.\s*(\d{1,2})\.?\s+(오전|오후)\s*(\d{1,2}):(\d{1,2}):(\d{1,2})\s*$`)

// ParseTimestamp decodes a Korean 12-hour clock timestamp.
// Returns false on any mismatch; callers treat that as "not usable for ordering".
func ParseTimestamp(s string) (time.Time, bool) {
	m := timestampRegex.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[5])
	minute, _ := strconv.Atoi(m[6])
	second, _ := strconv.Atoi(m[7])

	if month < 1 || month > 12 || day < 1 || hour > 12 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	switch m[4] {
	case "오후":
		if hour < 12 {
			hour += 12
		}
	case "오전":
		if hour == 12 {
			hour = 0
		}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, KST)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject it instead.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// Elapsed returns the seconds between two encoded timestamps.
// Returns false if either side fails to decode or end precedes start.
func Elapsed(start, end string) (float64, bool) {
	s, ok := ParseTimestamp(start)
	if !ok {
		return 0, false
	}
	e, ok := ParseTimestamp(end)
	if !ok {
		return 0, false
	}
	if e.Before(s) {
		return 0, false
	}
	return e.Sub(s).Seconds(), true
}

// FormatTimestamp encodes t in KST the way the mission app logs it,
// e.g. "2026. 2. 4 오후 12:06:51".
func FormatTimestamp(t time.Time) string {
	t = t.In(KST)
	meridiem, hour := "오전", t.Hour()
	if hour >= 12 {
		meridiem = "오후"
	}
	if hour%12 == 0 {
		hour = 12
	} else {
		hour %= 12
	}
	return fmt.Sprintf("%d. %d. %d %s %d:%02d:%02d",
		t.Year(), int(t.Month()), t.Day(), meridiem, hour, t.Minute(), t.Second())
}
