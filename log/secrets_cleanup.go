package log

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	url_helpers "gitlab.com/gitlab-org/expand-archive/helpers/url"
)

const masked = "[MASKED]"

// SecretsCleanupHook scrubs signed URL parameters from every entry and
// replaces registered secrets, such as the archive password, with [MASKED]
// in the message and in string fields.
type SecretsCleanupHook struct {
	mu      sync.RWMutex
	secrets []string
}

func (s *SecretsCleanupHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Mask registers a secret. Empty values are ignored.
func (s *SecretsCleanupHook) Mask(secret string) {
	if secret == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.secrets = append(s.secrets, secret)
}

func (s *SecretsCleanupHook) clean(value string) string {
	for _, secret := range s.secrets {
		value = strings.ReplaceAll(value, secret, masked)
	}

	return url_helpers.ScrubSecrets(value)
}

func (s *SecretsCleanupHook) Fire(entry *logrus.Entry) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry.Message = s.clean(entry.Message)

	// fields are shared with the parent entry, so replace the map
	data := make(logrus.Fields, len(entry.Data))
	for k, v := range entry.Data {
		switch value := v.(type) {
		case string:
			data[k] = s.clean(value)
		case error:
			data[k] = s.clean(value.Error())
		default:
			data[k] = v
		}
	}
	entry.Data = data

	return nil
}

var (
	standardHook     *SecretsCleanupHook
	standardHookOnce sync.Once
)

// StandardSecretsCleanupHook returns the hook installed on the standard
// logger, installing it on first use.
func StandardSecretsCleanupHook() *SecretsCleanupHook {
	standardHookOnce.Do(func() {
		standardHook = AddSecretsCleanupLogHook(nil)
	})

	return standardHook
}

// AddSecretsCleanupLogHook installs the hook on logger, or the standard
// logger when nil, and returns it so secrets can be registered later.
func AddSecretsCleanupLogHook(logger *logrus.Logger) *SecretsCleanupHook {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	hook := new(SecretsCleanupHook)
	logger.AddHook(hook)

	return hook
}
