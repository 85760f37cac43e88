package commands

import (
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"gitlab.com/gitlab-org/expand-archive/common"
)

func GetDefaultConfigFile() string {
	return filepath.Join(getDefaultConfigDirectory(), common.DefaultConfigFile)
}

type configOptions struct {
	config *common.Config

	ConfigFile string `short:"c" long:"config" env:"EXPAND_ARCHIVE_CONFIG" description:"Config file with defaults for the [expand] options"`
}

func (c *configOptions) loadConfig() error {
	if c.ConfigFile == "" {
		c.ConfigFile = GetDefaultConfigFile()
	}

	config := common.NewConfig()
	if err := config.LoadConfig(c.ConfigFile); err != nil {
		return err
	}

	if config.Loaded {
		logrus.Debugln("Loaded configuration from", c.ConfigFile)
	}

	c.config = config
	return nil
}

// flagSetter reports whether a flag was given on the command line. A nil
// cli.Context, as used by tests, counts as nothing set.
type flagSetter func(name string) bool

func isSetOn(cliCtx *cli.Context) flagSetter {
	return func(name string) bool {
		return cliCtx != nil && cliCtx.IsSet(name)
	}
}

func applyInt(isSet flagSetter, name string, dst *int, value int) {
	if !isSet(name) {
		*dst = value
	}
}

func applyBool(isSet flagSetter, name string, dst *bool, value bool) {
	if !isSet(name) && value {
		*dst = value
	}
}

func applyDuration(isSet flagSetter, name string, dst *time.Duration, value time.Duration) {
	if !isSet(name) {
		*dst = value
	}
}
