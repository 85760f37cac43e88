//go:build !integration

package commands

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignArgs(t *testing.T) {
	tests := map[string]struct {
		archive, target     string
		args                []string
		expectedArchive     string
		expectedTarget      string
		expectedErrContains string
	}{
		"nothing": {},
		"both positional": {
			args:            []string{"a.zip", "out"},
			expectedArchive: "a.zip",
			expectedTarget:  "out",
		},
		"archive already set": {
			archive:         "named.zip",
			args:            []string{"out"},
			expectedArchive: "named.zip",
			expectedTarget:  "out",
		},
		"both already set": {
			archive:             "named.zip",
			target:              "named-out",
			args:                []string{"out"},
			expectedArchive:     "named.zip",
			expectedTarget:      "named-out",
			expectedErrContains: "unexpected arguments: out",
		},
	}

	for tn, tc := range tests {
		t.Run(tn, func(t *testing.T) {
			archive, target := tc.archive, tc.target
			err := assignArgs(tc.args, &archive, &target)

			if tc.expectedErrContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrContains)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.expectedArchive, archive)
			assert.Equal(t, tc.expectedTarget, target)
		})
	}
}

func TestProgressFrequency(t *testing.T) {
	assert.Equal(t, time.Second, (&progressOptions{ProgressFrequency: time.Second}).frequency())
	assert.Equal(t, time.Duration(0), (&progressOptions{NoProgress: true, ProgressFrequency: time.Second}).frequency())
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	c := &configOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.toml")}

	require.NoError(t, c.loadConfig())
	require.NotNil(t, c.config)
	assert.False(t, c.config.Loaded)
}

func TestLoadConfigInvalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte("[expand]\nretry = \"many\"\n"), 0o600))

	c := &configOptions{ConfigFile: file}
	assert.Error(t, c.loadConfig())
}

func TestExtractionMetrics(t *testing.T) {
	m := newExtractionMetrics()
	m.entriesTotal.Set(5)
	m.entriesSelected.Set(2)

	m.finish(nil)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.lastRunSuccess))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.entriesTotal))

	m.finish(errors.New("failed"))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.lastRunSuccess))

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, m.write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "expand_archive_entries_selected 2\n")
}
