package common

import (
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	clihelpers "gitlab.com/gitlab-org/golang-cli-helpers"
)

var commands []cli.Command

// Commander executes the command with the cli.Context.
type Commander interface {
	Execute(c *cli.Context)
}

// NewCommand constructs a command with the given name, usage, and flags.
// The flags of data are read from its struct tags.
func NewCommand(name, usage string, data Commander, flags ...cli.Flag) cli.Command {
	return cli.Command{
		Name:   name,
		Usage:  usage,
		Action: data.Execute,
		Flags:  append(flags, clihelpers.GetFlagsFromStruct(data)...),
	}
}

// RegisterCommand adds a command to the application. It is called from the
// init functions of the commands package.
func RegisterCommand(name, usage string, data Commander, flags ...cli.Flag) {
	logrus.Debugln("Registering", name, "command...")
	commands = append(commands, NewCommand(name, usage, data, flags...))
}

func GetCommands() []cli.Command {
	return commands
}
