package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"gitlab.com/gitlab-org/expand-archive/log"
)

var (
	ErrPasswordSourceConflict = errors.New("only one of --password, --password-file and --ask-password can be used")
	errNoTerminal             = errors.New("--ask-password requires an interactive terminal")
)

type passwordOptions struct {
	Password     string `long:"password" env:"EXPAND_ARCHIVE_PASSWORD" description:"Password of an encrypted archive"`
	PasswordFile string `long:"password-file" description:"File containing the password of an encrypted archive"`
	AskPassword  bool   `long:"ask-password" description:"Prompt for the password of an encrypted archive"`

	readPassword func(prompt io.Writer) (string, error)
	secrets      *log.SecretsCleanupHook
}

// resolvePassword returns the password from the single configured source,
// or an empty string when none is configured. The resolved password is
// masked in every later log line.
func (p *passwordOptions) resolvePassword() (string, error) {
	sources := 0
	for _, set := range []bool{p.Password != "", p.PasswordFile != "", p.AskPassword} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return "", ErrPasswordSourceConflict
	}

	var password string
	switch {
	case p.Password != "":
		password = p.Password
	case p.PasswordFile != "":
		data, err := os.ReadFile(p.PasswordFile)
		if err != nil {
			return "", fmt.Errorf("reading password file: %w", err)
		}
		password = strings.TrimRight(string(data), "\r\n")
	case p.AskPassword:
		read := p.readPassword
		if read == nil {
			read = readTerminalPassword
		}

		var err error
		password, err = read(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
	}

	if password != "" {
		if p.secrets == nil {
			p.secrets = log.StandardSecretsCleanupHook()
		}
		p.secrets.Mask(password)
	}

	return password, nil
}

func readTerminalPassword(prompt io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errNoTerminal
	}

	_, _ = fmt.Fprint(prompt, "Password: ")
	defer func() { _, _ = fmt.Fprintln(prompt) }()

	password, err := term.ReadPassword(fd)
	if err != nil {
		return "", err
	}

	return string(password), nil
}
