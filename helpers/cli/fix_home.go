package cli_helpers

import (
	"github.com/urfave/cli"

	"gitlab.com/gitlab-org/expand-archive/helpers/homedir"
)

// FixHOME sets the home variable when it is missing, so the cloud storage
// drivers can find their credential files.
func FixHOME(app *cli.App) {
	appBefore := app.Before

	app.Before = func(c *cli.Context) error {
		if err := homedir.New().Fix(); err != nil {
			return err
		}

		if appBefore != nil {
			return appBefore(c)
		}
		return nil
	}
}
