package url_helpers

import "net/url"

// CleanURL strips credentials, query and fragment so the URL can be logged.
func CleanURL(value string) (ret string) {
	u, err := url.Parse(value)
	if err != nil {
		return
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
