package archives

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrOutsideChroot is returned when an entry would be written outside of the
// extraction directory.
var ErrOutsideChroot = errors.New("cannot be extracted outside of chroot")

func isPathAGitDirectory(path string) bool {
	parts := strings.Split(filepath.Clean(path), string(filepath.Separator))
	if len(parts) > 0 && parts[0] == ".git" {
		return true
	}
	return false
}

func errorIfGitDirectory(path string) error {
	if !isPathAGitDirectory(path) {
		return nil
	}

	return &os.PathError{
		Op:   ".git inside of archive",
		Path: path,
		Err:  errors.New("trying to extract .git path"),
	}
}

func printGitArchiveWarning() {
	logrus.Warn("Part of .git directory is on the list of files to extract")
	logrus.Warn("This may introduce unexpected problems")
}

// ChrootPath resolves the archive entry name against dir and makes sure the
// result does not escape it.
func ChrootPath(dir, name string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	path, err := filepath.Abs(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		return "", err
	}

	if !strings.HasPrefix(path, dir+string(filepath.Separator)) && path != dir {
		return "", fmt.Errorf("%s: %w (%s)", path, ErrOutsideChroot, dir)
	}

	return path, nil
}
