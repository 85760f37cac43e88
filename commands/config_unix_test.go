//go:build !integration && !windows

package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/gitlab-org/expand-archive/common"
)

func TestDefaultConfigFile(t *testing.T) {
	tests := map[string]struct {
		homeDir      string
		expectedFile string
	}{
		"home directory known": {
			homeDir:      "/home/user",
			expectedFile: "/home/user/.config/expand-archive/expand-archive.toml",
		},
		"no home directory": {
			homeDir:      "",
			expectedFile: "/etc/expand-archive/expand-archive.toml",
		},
	}

	for tn, tc := range tests {
		t.Run(tn, func(t *testing.T) {
			file := filepath.Join(configDirectoryFor(tc.homeDir), common.DefaultConfigFile)
			assert.Equal(t, tc.expectedFile, file)
		})
	}
}

func TestGetDefaultConfigFileUsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".config", "expand-archive", "expand-archive.toml"), GetDefaultConfigFile())
}
