//go:build !integration

package meter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatByteRate(t *testing.T) {
	tests := map[string]struct {
		size     uint64
		d        time.Duration
		expected string
	}{
		"bytes":                {1, time.Second, "1 B/s"},
		"kilobytes":            {1000, time.Second, "1.0 KB/s"},
		"megabytes rounded":    {1490000, time.Second, "1.5 MB/s"},
		"gigabytes":            {1000000000, time.Second, "1.0 GB/s"},
		"exabytes":             {1300000000000000000, time.Second, "1.3 EB/s"},
		"bytes over 2 seconds": {10, 2 * time.Second, "5 B/s"},
		"zero duration":        {10, 0, "10.0 GB/s"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatByteRate(tc.size, tc.d))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[string]struct {
		size     uint64
		expected string
	}{
		"bytes":     {1, "1 B"},
		"kilobytes": {1100, "1.10 KB"},
		"megabytes": {1110000, "1.11 MB"},
		"terabytes": {1111100000000, "1.11 TB"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatBytes(tc.size))
		})
	}
}

func TestPercent(t *testing.T) {
	tests := map[string]struct {
		read     uint64
		total    int64
		expected int
	}{
		"unknown total": {read: 10, total: UnknownTotalSize, expected: 0},
		"nothing read":  {read: 0, total: 10, expected: 0},
		"half":          {read: 5, total: 10, expected: 50},
		"rounded down":  {read: 2, total: 3, expected: 66},
		"complete":      {read: 10, total: 10, expected: 100},
		"read twice":    {read: 25, total: 10, expected: 100},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Percent(tc.read, tc.total))
		})
	}
}

func TestLabelledPercentFormat(t *testing.T) {
	tests := map[string]struct {
		total    int64
		done     bool
		expected string
	}{
		"known total in progress": {
			total:    20,
			expected: "\rExtracting: 50% (10 B/20 B, 10 B/s)        ",
		},
		"known total done": {
			total:    10,
			done:     true,
			expected: "\rExtracting: 100% (10 B/10 B, 10 B/s)        \n",
		},
		"unknown total": {
			total:    UnknownTotalSize,
			expected: "\rExtracting: 10 B (10 B/s)        ",
		},
	}

	for tn, tc := range tests {
		t.Run(tn, func(t *testing.T) {
			buf := new(bytes.Buffer)

			fn := LabelledPercentFormat(buf, "Extracting", tc.total)
			fn(10, time.Second, tc.done)

			assert.Equal(t, tc.expected, buf.String())
		})
	}
}
