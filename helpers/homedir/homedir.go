package homedir

import (
	"fmt"
	"os"
	"os/user"
	"runtime"
)

var (
	ErrHomedirVariableNotSet = fmt.Errorf("homedir variable is not set")
)

// HomeDir locates the user's home directory. Cloud storage drivers read
// their credential files from it.
type HomeDir struct {
	os               string
	workingDirectory func() (string, error)
	currentUser      func() (*user.User, error)
	userHomeDir      func() (string, error)
	getEnv           func(string) string
	setEnv           func(string, string) error
}

func New() HomeDir {
	return HomeDir{
		os:               runtime.GOOS,
		workingDirectory: os.Getwd,
		currentUser:      user.Current,
		userHomeDir:      os.UserHomeDir,
		getEnv:           os.Getenv,
		setEnv:           os.Setenv,
	}
}

func (hd HomeDir) GetWDOrEmpty() string {
	dir, err := hd.workingDirectory()
	if err == nil {
		return dir
	}
	return ""
}

func (hd HomeDir) Env() string {
	if hd.os == "windows" {
		return "USERPROFILE"
	}
	return "HOME"
}

func (hd HomeDir) Get() string {
	home, _ := hd.userHomeDir()
	if home == "" && hd.os != "windows" {
		if u, err := hd.currentUser(); err == nil {
			return u.HomeDir
		}
	}
	return home
}

// Fix sets the home variable when it is missing, for example when started
// from a service manager.
func (hd HomeDir) Fix() error {
	env := hd.Env()
	if hd.getEnv(env) != "" {
		return nil
	}

	homedir := hd.Get()
	if homedir == "" {
		return fmt.Errorf("%w: %q", ErrHomedirVariableNotSet, env)
	}

	return hd.setEnv(env, homedir)
}
