package commands

import (
	"github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/expand-archive/archive"
	"gitlab.com/gitlab-org/expand-archive/archive/fastzip"
	"gitlab.com/gitlab-org/expand-archive/archive/generic"
	"gitlab.com/gitlab-org/expand-archive/helpers/featureflags"

	// auto-register default extractors
	_ "gitlab.com/gitlab-org/expand-archive/archive/tarball"
)

func init() {
	logger := logrus.WithField("name", featureflags.UseFastzip)
	if featureflags.Enabled(logger, featureflags.UseFastzip) {
		archive.Register(archive.Zip, fastzip.NewExtractor)
	} else {
		archive.Register(archive.Zip, generic.NewExtractor)
	}
}
