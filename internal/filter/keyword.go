package filter

import (
	"strings"

	"github.com/Geun-Oh/uxlog/internal/entry"
)

// KeywordFilter matches rows whose screen or target contains a keyword.
type KeywordFilter struct {
	keyword string
}

// NewKeywordFilter creates a filter that matches rows mentioning the keyword.
func NewKeywordFilter(keyword string) *KeywordFilter {
	return &KeywordFilter{keyword: keyword}
}

// Match returns true if the row's screen or target contains the keyword.
func (f *KeywordFilter) Match(r *entry.Row) bool {
	return strings.Contains(r.Screen, f.keyword) || strings.Contains(r.Target, f.keyword)
}

// Name returns the filter description.
func (f *KeywordFilter) Name() string {
	return "keyword:" + f.keyword
}
