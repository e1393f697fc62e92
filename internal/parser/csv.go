// Package parser turns exported mission logs into records and decodes the
// ad hoc formats embedded in them (localized timestamps, value payloads).
package parser

import (
	"strings"
)

// Record maps header names to field values. Every value is a string.
type Record map[string]string

// Table is the result of parsing one CSV document.
type Table struct {
	Header  []string
	Records []Record
}

// HasHeader reports whether the input contained at least one non-blank line.
// A table without a header means there was no usable input at all.
func (t *Table) HasHeader() bool {
	return len(t.Header) > 0
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return len(t.Records) == 0
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Records)
}

const bom = "\ufeff"

// Parse splits text into lines, treats the first non-blank line as the header
// and returns one Record per remaining non-blank line.
// Rows shorter than the header are padded with empty strings; extra fields are ignored.
func Parse(text string) *Table {
	text = strings.TrimPrefix(text, bom)

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return &Table{}
	}

	header := SplitLine(lines[0])
	t := &Table{
		Header:  header,
		Records: make([]Record, 0, len(lines)-1),
	}

	for _, line := range lines[1:] {
		fields := SplitLine(line)
		rec := make(Record, len(header))
		for i, name := range header {
			if i < len(fields) {
				rec[name] = fields[i]
			} else {
				rec[name] = ""
			}
		}
		t.Records = append(t.Records, rec)
	}

	return t
}

// SplitLine splits a single CSV line into trimmed fields.
// A double quote toggles quoted mode; "" inside quoted mode is a literal quote.
// Commas only separate fields outside quoted mode.
func SplitLine(line string) []string {
	var (
		fields []string
		cur    strings.Builder
		quoted bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if quoted && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
				continue
			}
			quoted = !quoted
		case c == ',' && !quoted:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, strings.TrimSpace(cur.String()))

	return fields
}
