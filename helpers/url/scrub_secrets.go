package url_helpers

import (
	"regexp"
)

var scrubRegexp = regexp.MustCompile(`(?im)([\?&]((?:private|access)[\-_]token|sig|X-Amz-Signature|X-Goog-Signature|X-Amz-Credential|X-Goog-Credential))=[^&\s"]*`)

// ScrubSecrets replaces the content of any sensitive query string parameters
// of pre-signed object storage URLs with `[FILTERED]`
func ScrubSecrets(url string) string {
	return scrubRegexp.ReplaceAllString(url, "$1=[FILTERED]")
}
