package filter

import (
	"fmt"
	"regexp"

	"github.com/Geun-Oh/uxlog/internal/entry"
)

// RegexFilter matches rows whose target matches a pre-compiled regular expression.
type RegexFilter struct {
	pattern string
	re      *regexp.Regexp
}

// NewRegexFilter creates a filter with a pre-compiled regex pattern.
// Returns an error if the pattern is invalid.
func NewRegexFilter(pattern string) (*RegexFilter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex %q: %w", pattern, err)
	}
	return &RegexFilter{pattern: pattern, re: re}, nil
}

// Match returns true if the row target matches the regex.
func (f *RegexFilter) Match(r *entry.Row) bool {
	return f.re.MatchString(r.Target)
}

// Name returns the filter description.
func (f *RegexFilter) Name() string {
	return "regex:" + f.pattern
}
