//go:build !integration

package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	tests := map[string]struct {
		entries  []string
		patterns []string
		expected []string
	}{
		"no entries": {
			entries:  nil,
			patterns: []string{"*"},
			expected: []string{},
		},
		"no patterns selects nothing": {
			entries:  []string{"a.txt", "b/c.txt"},
			patterns: nil,
			expected: []string{},
		},
		"single star does not cross separators": {
			entries:  []string{"a.txt", "b/c.txt", "b/d.log"},
			patterns: []string{"*.txt"},
			expected: []string{"a.txt"},
		},
		"double star crosses separators": {
			entries:  []string{"a.txt", "b/c.txt", "b/d.log"},
			patterns: []string{"**/*.txt"},
			expected: []string{"a.txt", "b/c.txt"},
		},
		"double star alone selects everything": {
			entries:  []string{"z", "a/b/c", "m.log", "a"},
			patterns: []string{"**"},
			expected: []string{"z", "a/b/c", "m.log", "a"},
		},
		"literal names": {
			entries:  []string{"x", "y", "z"},
			patterns: []string{"x", "z"},
			expected: []string{"x", "z"},
		},
		"order follows entries not patterns": {
			entries:  []string{"x", "y", "z"},
			patterns: []string{"z", "x"},
			expected: []string{"x", "z"},
		},
		"overlapping patterns are de-duplicated": {
			entries:  []string{"docs/a.md", "docs/b.txt", "src/main.go"},
			patterns: []string{"docs/*", "**/*.md", "docs/a.md"},
			expected: []string{"docs/a.md", "docs/b.txt"},
		},
		"duplicate entry names appear once": {
			entries:  []string{"a.txt", "b.txt", "a.txt"},
			patterns: []string{"*.txt"},
			expected: []string{"a.txt", "b.txt"},
		},
		"question mark and classes": {
			entries:  []string{"file1", "file2", "file10", "fileA"},
			patterns: []string{"file?", "file[0-9][0-9]"},
			expected: []string{"file1", "file2", "file10", "fileA"},
		},
		"alternatives": {
			entries:  []string{"a.jpg", "b.png", "c.gif"},
			patterns: []string{"*.{jpg,gif}"},
			expected: []string{"a.jpg", "c.gif"},
		},
		"case sensitive": {
			entries:  []string{"README.md", "readme.md"},
			patterns: []string{"README.*"},
			expected: []string{"README.md"},
		},
		"backslash names are matched verbatim": {
			entries:  []string{`dir\file.txt`, "dir/file.txt"},
			patterns: []string{"dir/*.txt"},
			expected: []string{"dir/file.txt"},
		},
		"no matches": {
			entries:  []string{"a.txt"},
			patterns: []string{"*.log"},
			expected: []string{},
		},
	}

	for tn, tc := range tests {
		t.Run(tn, func(t *testing.T) {
			result, err := Select(tc.entries, tc.patterns)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	entries := []string{"b/2.txt", "a/1.txt", "c.txt", "a/3.log"}
	patterns := []string{"a/**", "*.txt", "**/*.txt"}

	first, err := Select(entries, patterns)
	require.NoError(t, err)

	second, err := Select(entries, patterns)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"b/2.txt", "a/1.txt", "c.txt", "a/3.log"}, first)
}

func TestSelectDoesNotModifyInput(t *testing.T) {
	entries := []string{"b", "a"}
	patterns := []string{"*"}

	_, err := Select(entries, patterns)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, entries)
	assert.Equal(t, []string{"*"}, patterns)
}

func TestSelectInvalidPattern(t *testing.T) {
	result, err := Select([]string{"x"}, []string{"["})
	assert.Nil(t, result)

	var patternErr *InvalidPatternError
	require.True(t, errors.As(err, &patternErr))
	assert.Equal(t, "[", patternErr.Pattern)
	assert.Contains(t, err.Error(), `"["`)
}

func TestSelectInvalidPatternAmongValidOnes(t *testing.T) {
	result, err := Select([]string{"a.txt", "b.txt"}, []string{"*.txt", "[", "b.*"})
	assert.Nil(t, result)

	var patternErr *InvalidPatternError
	require.True(t, errors.As(err, &patternErr))
	assert.Equal(t, "[", patternErr.Pattern)
}

func TestNewReportsEveryInvalidPattern(t *testing.T) {
	f, err := New([]string{"[", "ok", "{a,b"})
	assert.Nil(t, f)
	require.Error(t, err)

	assert.Contains(t, err.Error(), `"["`)
	assert.Contains(t, err.Error(), `"{a,b"`)
	assert.NotContains(t, err.Error(), `"ok"`)

	var patternErr *InvalidPatternError
	assert.True(t, errors.As(err, &patternErr))
}

func TestFilterSelectCountsPerPattern(t *testing.T) {
	f, err := New([]string{"*.txt", "**/*.txt", "*.log"})
	require.NoError(t, err)

	selection := f.Select([]string{"a.txt", "b/c.txt", "d.bin"})

	assert.False(t, selection.Empty())
	assert.Equal(t, []string{"a.txt", "b/c.txt"}, selection.Entries)
	assert.Equal(t, []PatternMatch{
		{Pattern: "*.txt", Count: 1},
		{Pattern: "**/*.txt", Count: 2},
		{Pattern: "*.log", Count: 0},
	}, selection.Patterns)
}

func TestFilterSelectEmpty(t *testing.T) {
	f, err := New([]string{"*.log"})
	require.NoError(t, err)

	selection := f.Select([]string{"a.txt"})
	assert.True(t, selection.Empty())
	assert.Equal(t, []string{"*.log"}, f.Patterns())
}
