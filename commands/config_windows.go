package commands

import (
	"path/filepath"

	"gitlab.com/gitlab-org/expand-archive/helpers/homedir"
)

func getDefaultConfigDirectory() string {
	hd := homedir.New()

	if dir := configDirectoryFor(hd.Get()); dir != "" {
		return dir
	}

	return hd.GetWDOrEmpty()
}

func configDirectoryFor(homeDir string) string {
	if homeDir == "" {
		return ""
	}

	return filepath.Join(homeDir, "AppData", "Roaming", "expand-archive")
}
