package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gitlab.com/gitlab-org/expand-archive/common"
)

var errMissingTarget = errors.New("missing target directory")

// assignArgs fills the still empty destinations, in order, from the
// positional arguments.
func assignArgs(args []string, dst ...*string) error {
	for _, d := range dst {
		if *d != "" || len(args) == 0 {
			continue
		}

		*d = args[0]
		args = args[1:]
	}

	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
	}

	return nil
}

func (s *sourceOptions) applyConfig(isSet flagSetter, config *common.ExpandConfig) {
	applyInt(isSet, "retry", &s.Retry, config.GetRetry())
	applyDuration(isSet, "retry-time", &s.RetryTime, config.GetRetryTime())
	applyInt(isSet, "timeout", &s.Timeout, config.GetTimeout())
}

type progressOptions struct {
	NoProgress        bool          `long:"no-progress" env:"EXPAND_ARCHIVE_NO_PROGRESS" description:"Disable the progress line"`
	ProgressFrequency time.Duration `long:"progress-frequency" description:"How often the progress line is updated (at least every second, 0 disables it)"`
}

func (p *progressOptions) applyConfig(isSet flagSetter, config *common.ExpandConfig) {
	applyBool(isSet, "no-progress", &p.NoProgress, config.GetNoProgress())
	applyDuration(isSet, "progress-frequency", &p.ProgressFrequency, config.GetProgressFrequency())
}

func (p *progressOptions) frequency() time.Duration {
	if p.NoProgress {
		return 0
	}
	return p.ProgressFrequency
}
