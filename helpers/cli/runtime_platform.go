package cli_helpers

import (
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"gitlab.com/gitlab-org/expand-archive/common"
)

// LogRuntimePlatform logs the platform and version at debug level before
// any command runs.
func LogRuntimePlatform(app *cli.App) {
	appBefore := app.Before
	app.Before = func(c *cli.Context) error {
		if appBefore != nil {
			if err := appBefore(c); err != nil {
				return err
			}
		}

		fields := logrus.Fields{
			"os":       runtime.GOOS,
			"arch":     runtime.GOARCH,
			"version":  common.VERSION,
			"revision": common.REVISION,
			"pid":      os.Getpid(),
		}

		logrus.WithFields(fields).Debug("Runtime platform")

		return nil
	}
}
