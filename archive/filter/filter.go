// Package filter selects archive entries by glob patterns.
//
// Patterns use the doublestar dialect: `*` and `?` never cross a `/`, `**`
// as a whole path segment matches any number of segments, `[...]` and
// `{a,b}` are supported and `\` escapes the next character. Matching is
// case-sensitive and is done against the entry name exactly as it is stored
// in the archive.
package filter

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
)

// PatternMatch records how many entries a single pattern matched.
type PatternMatch struct {
	Pattern string
	Count   int
}

// Selection is the outcome of filtering an entry list.
type Selection struct {
	// Entries holds the matched names, de-duplicated, in the order of their
	// first appearance in the input list.
	Entries []string
	// Patterns holds one record per pattern, in the order they were given.
	Patterns []PatternMatch
}

// Empty reports whether no entry matched any of the patterns.
func (s Selection) Empty() bool {
	return len(s.Entries) == 0
}

// Filter is a validated set of glob patterns.
type Filter struct {
	patterns []string
}

// New validates every pattern up front. If any pattern is invalid no Filter
// is returned and the error names each offending pattern.
func New(patterns []string) (*Filter, error) {
	var result *multierror.Error

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			result = multierror.Append(result, &InvalidPatternError{Pattern: pattern})
		}
	}

	switch {
	case result == nil:
	case len(result.Errors) == 1:
		return nil, result.Errors[0]
	default:
		return nil, result
	}

	return &Filter{patterns: append([]string(nil), patterns...)}, nil
}

// Patterns returns the patterns the filter was built from.
func (f *Filter) Patterns() []string {
	return append([]string(nil), f.patterns...)
}

// Select returns the entries that match at least one pattern.
func (f *Filter) Select(entries []string) Selection {
	matched := make(map[string]struct{}, len(entries))
	selection := Selection{
		Entries:  []string{},
		Patterns: make([]PatternMatch, 0, len(f.patterns)),
	}

	for _, pattern := range f.patterns {
		count := 0
		for _, entry := range entries {
			// the pattern was validated in New, so Match cannot fail here
			if ok, _ := doublestar.Match(pattern, entry); ok {
				matched[entry] = struct{}{}
				count++
			}
		}

		selection.Patterns = append(selection.Patterns, PatternMatch{Pattern: pattern, Count: count})
	}

	for _, entry := range entries {
		if _, ok := matched[entry]; !ok {
			continue
		}

		selection.Entries = append(selection.Entries, entry)
		delete(matched, entry)
	}

	return selection
}

// Select returns the ordered, de-duplicated subset of entries matching at
// least one of patterns. No patterns select nothing.
func Select(entries []string, patterns []string) ([]string, error) {
	f, err := New(patterns)
	if err != nil {
		return nil, err
	}

	return f.Select(entries).Entries, nil
}
