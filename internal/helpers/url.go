package helpers

import (
	"net/url"
	"strings"
)

// Host returns the network location of raw exactly as written (port and case
// preserved). Schemeless input such as "example.com/path" is read as https.
// Unparseable input yields "".
func Host(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := parseURLPreserveHost(raw)
	if err != nil {
		return ""
	}
	return parsed.Host
}

// parseURLPreserveHost attempts to parse raw into a url.URL, handling schemeless URLs.
func parseURLPreserveHost(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme == "" && parsed.Host == "" {
		// Attempt schemeless format like example.com/path or //example.com/path.
		if strings.HasPrefix(raw, "//") {
			return url.Parse("https:" + raw)
		}
		return url.Parse("https://" + raw)
	}
	return parsed, nil
}
