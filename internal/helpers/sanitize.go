package helpers

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

// StrictHTMLPolicy returns a singleton bluemonday policy that strips every HTML
// element and attribute. It is useful when the output should be treated as
// plain text while ensuring that script/style injections are removed.
func StrictHTMLPolicy() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// SanitizeHTMLStrict removes every HTML tag from s while stripping leading and
// trailing whitespace. Entities are left encoded, so the result is safe to
// embed back into HTML.
func SanitizeHTMLStrict(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.TrimSpace(StrictHTMLPolicy().Sanitize(s))
}

// StripHTMLTags turns a rendered citation fragment into copy-paste text:
// markup such as <em> is removed and entities (&lt; &gt; &amp; ...) are
// decoded.
func StripHTMLTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(SanitizeHTMLStrict(s)))
}
