//go:build !integration

package cli_helpers_test

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"

	cli_helpers "gitlab.com/gitlab-org/expand-archive/helpers/cli"
)

func TestLogRuntimePlatform(t *testing.T) {
	tests := map[string]struct {
		level       logrus.Level
		expectedLog bool
	}{
		"debug level": {
			level:       logrus.DebugLevel,
			expectedLog: true,
		},
		"info level": {
			level: logrus.InfoLevel,
		},
	}

	for tn, tc := range tests {
		t.Run(tn, func(t *testing.T) {
			beforeHasBeenCalled := false

			app := cli.NewApp()
			app.Action = func(ctx *cli.Context) error {
				return nil
			}
			app.Before = func(ctx *cli.Context) error {
				beforeHasBeenCalled = true
				return nil
			}

			hook := test.NewGlobal()
			defer hook.Reset()

			oldLevel := logrus.GetLevel()
			defer logrus.SetLevel(oldLevel)
			logrus.SetLevel(tc.level)
			logrus.SetOutput(io.Discard)

			cli_helpers.LogRuntimePlatform(app)

			require.NoError(t, app.Run([]string{"fakeArgv0"}))

			seen := false
			for _, e := range hook.AllEntries() {
				if e.Message == "Runtime platform" {
					seen = true
				}
			}

			assert.Equal(t, tc.expectedLog, seen)
			assert.True(t, beforeHasBeenCalled, "other before should be called")
		})
	}
}
