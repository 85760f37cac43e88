package common

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// ExpandConfig holds defaults for the expand and list commands. Values set
// on the command line take precedence.
type ExpandConfig struct {
	NoProgress        *bool          `toml:"no_progress,omitempty"`
	ProgressFrequency *time.Duration `toml:"progress_frequency,omitempty"`
	Concurrency       *int           `toml:"concurrency,omitempty"`
	Retry             *int           `toml:"retry,omitempty"`
	RetryTime         *time.Duration `toml:"retry_time,omitempty"`
	Timeout           *int           `toml:"timeout,omitempty"`
}

type Config struct {
	Expand ExpandConfig `toml:"expand"`

	Loaded bool `toml:"-"`
}

func NewConfig() *Config {
	return &Config{}
}

// LoadConfig decodes configFile. A missing file leaves the defaults in
// place and is not an error.
func (c *Config) LoadConfig(configFile string) error {
	_, err := os.Stat(configFile)
	if os.IsNotExist(err) {
		logrus.Debugln("Configuration file", configFile, "not found, using defaults")
		return nil
	} else if err != nil {
		return err
	}

	md, err := toml.DecodeFile(configFile, c)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", configFile, err)
	}

	for _, key := range md.Undecoded() {
		logrus.Warningln("Unknown configuration key", key.String(), "in", configFile)
	}

	if err := c.Expand.validate(); err != nil {
		return fmt.Errorf("%s: %w", configFile, err)
	}

	c.Loaded = true
	return nil
}

func (e *ExpandConfig) validate() error {
	if e.ProgressFrequency != nil && *e.ProgressFrequency < 0 {
		return fmt.Errorf("progress_frequency must not be negative")
	}
	if e.Concurrency != nil && *e.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}
	if e.Retry != nil && *e.Retry < 0 {
		return fmt.Errorf("retry must not be negative")
	}

	return nil
}

func (e *ExpandConfig) GetNoProgress() bool {
	return e.NoProgress != nil && *e.NoProgress
}

func (e *ExpandConfig) GetProgressFrequency() time.Duration {
	if e.ProgressFrequency == nil {
		return DefaultProgressFrequency
	}
	return *e.ProgressFrequency
}

func (e *ExpandConfig) GetConcurrency() int {
	if e.Concurrency == nil {
		return 0
	}
	return *e.Concurrency
}

func (e *ExpandConfig) GetRetry() int {
	if e.Retry == nil {
		return DefaultDownloadRetry
	}
	return *e.Retry
}

func (e *ExpandConfig) GetRetryTime() time.Duration {
	if e.RetryTime == nil {
		return DefaultDownloadRetryTime
	}
	return *e.RetryTime
}

func (e *ExpandConfig) GetTimeout() int {
	if e.Timeout == nil || *e.Timeout <= 0 {
		return DefaultDownloadTimeout
	}
	return *e.Timeout
}
