package featureflags

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	UseFastzip string = "FF_USE_FASTZIP"
)

type FeatureFlag struct {
	Name         string
	DefaultValue string
	Description  string
}

var flags = []FeatureFlag{
	{
		Name:         UseFastzip,
		DefaultValue: "true",
		Description:  "Extracts zip archives with the concurrent fastzip extractor. When `false`, zip archives are extracted sequentially by the generic extractor",
	},
}

func GetAll() []FeatureFlag {
	return flags
}

func IsOn(value string) (bool, error) {
	if value == "" {
		return false, nil
	}

	on, err := strconv.ParseBool(value)
	if err != nil {
		return false, err
	}

	return on, nil
}

// Enabled reads the flag from the environment, falling back to its default
// value when unset or invalid.
func Enabled(logger logrus.FieldLogger, name string) bool {
	value := os.Getenv(name)
	if value == "" {
		value = defaultValue(name)
	}

	on, err := IsOn(value)
	if err != nil {
		logger.WithError(err).Warningln("Invalid value for feature flag, using the default")
		on, _ = IsOn(defaultValue(name))
	}

	return on
}

func defaultValue(name string) string {
	for _, flag := range flags {
		if flag.Name == name {
			return flag.DefaultValue
		}
	}

	return ""
}
