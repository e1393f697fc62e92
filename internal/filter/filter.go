// Package filter selects rows: the mission matching rule, device attribution,
// and the run filters that narrow a dataset before analysis.
package filter

import (
	"github.com/Geun-Oh/uxlog/internal/entry"
)

// Filter determines whether a Row passes a criterion.
type Filter interface {
	// Match returns true if the row passes this filter. It must not modify the row.
	Match(r *entry.Row) bool

	// Name returns a human-readable description of this filter.
	Name() string
}

// MatchMode controls how multiple filters are combined.
type MatchMode int

const (
	// MatchAny passes if ANY filter matches (OR logic).
	MatchAny MatchMode = iota
	// MatchAll passes only if ALL filters match (AND logic).
	MatchAll
)

// Chain combines multiple filters with a configurable match mode.
type Chain struct {
	filters []Filter
	mode    MatchMode
}

// NewChain creates a Chain with the given mode.
func NewChain(mode MatchMode, filters ...Filter) *Chain {
	return &Chain{
		filters: filters,
		mode:    mode,
	}
}

// Add appends a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Match evaluates the chain against a row.
// Returns true if no filters are configured (pass-through).
func (c *Chain) Match(r *entry.Row) bool {
	if len(c.filters) == 0 {
		return true
	}

	switch c.mode {
	case MatchAll:
		for _, f := range c.filters {
			if !f.Match(r) {
				return false
			}
		}
		return true
	default: // MatchAny
		for _, f := range c.filters {
			if f.Match(r) {
				return true
			}
		}
		return false
	}
}

// Name returns a description of the chain.
func (c *Chain) Name() string {
	if c.mode == MatchAll {
		return "FilterChain(AND)"
	}
	return "FilterChain(OR)"
}

// Len returns the number of filters in the chain.
func (c *Chain) Len() int {
	return len(c.filters)
}

// Apply returns the rows passing f, in their original order.
// A nil filter passes everything.
func Apply(rows []entry.Row, f Filter) []entry.Row {
	if f == nil {
		return rows
	}
	out := make([]entry.Row, 0, len(rows))
	for i := range rows {
		if f.Match(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}
