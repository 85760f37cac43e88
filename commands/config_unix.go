//go:build !windows

package commands

import (
	"path/filepath"

	"gitlab.com/gitlab-org/expand-archive/helpers/homedir"
)

var ROOTCONFIGDIR = "/etc/expand-archive"

func getDefaultConfigDirectory() string {
	return configDirectoryFor(homedir.New().Get())
}

func configDirectoryFor(homeDir string) string {
	if homeDir != "" {
		return filepath.Join(homeDir, ".config", "expand-archive")
	}

	return ROOTCONFIGDIR
}
