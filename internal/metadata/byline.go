package metadata

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// earlyBylineLimit bounds where a bare "By Firstname Lastname" may start in the
// page text, in characters.
const earlyBylineLimit = 1000

var (
	roleBylinePattern   = regexp.MustCompile(`By\s+(?:[A-Za-z\s]+?\s+)?(?:reporter|writer|journalist|editor|correspondent|staff)\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`)
	simpleBylinePattern = regexp.MustCompile(`By\s+([A-Z][a-z]+\s+[A-Z][a-z]+)(?:\s|$|[.,;:])`)
	labelBylinePatterns = []*regexp.Regexp{
		regexp.MustCompile(`[Ww]ritten\s+by\s+([A-Z][a-z]+\s+[A-Z][a-z]+)(?:\s|$|[.,;:])`),
		regexp.MustCompile(`[Aa]uthor:\s+([A-Z][a-z]+\s+[A-Z][a-z]+)(?:\s|$|[.,;:])`),
	}
	inlineBylinePattern = regexp.MustCompile(`[Bb]y\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`)
)

// scopedRoleHints gate the per-element pass; an element must mention one of
// these before the role pattern is tried on it.
var scopedRoleHints = []string{"reporter", "writer", "journalist"}

// plausibleName reports whether s looks like "Firstname Lastname": exactly two
// alphabetic, capitalised tokens with no URL or path residue.
func plausibleName(s string) bool {
	if strings.Contains(s, "/") || strings.Contains(strings.ToLower(s), "http") || strings.Contains(s, ".") {
		return false
	}
	words := strings.Fields(s)
	if len(words) != 2 {
		return false
	}
	for _, w := range words {
		first, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(first) {
			return false
		}
		for _, r := range w {
			if !unicode.IsLetter(r) {
				return false
			}
		}
	}
	return true
}

// firstPlausible returns the first capture of re in text that passes plausibleName.
func firstPlausible(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if !plausibleName(name) {
		return "", false
	}
	return name, true
}

// roleByline matches "By staff reporter Jane Smith" style bylines.
func roleByline(text string) (string, bool) {
	return firstPlausible(roleBylinePattern, text)
}

// earlyByline scans every bare "By Firstname Lastname" and accepts the first
// plausible one that starts within earlyBylineLimit characters.
func earlyByline(text string) (string, bool) {
	for _, loc := range simpleBylinePattern.FindAllStringSubmatchIndex(text, -1) {
		if utf8.RuneCountInString(text[:loc[0]]) >= earlyBylineLimit {
			return "", false
		}
		name := strings.TrimSpace(text[loc[2]:loc[3]])
		if plausibleName(name) {
			return name, true
		}
	}
	return "", false
}

// labelledByline matches "Written by Jane Smith" and "Author: Jane Smith".
func labelledByline(text string) (string, bool) {
	for _, re := range labelBylinePatterns {
		if name, ok := firstPlausible(re, text); ok {
			return name, true
		}
	}
	return "", false
}

// inlineByline pulls the capitalised run after "by" out of a short byline
// element such as "Story by Jane Smith".
func inlineByline(text string) (string, bool) {
	m := inlineBylinePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	return name, name != ""
}

func hasRoleHint(text string) bool {
	if !strings.Contains(text, "By") {
		return false
	}
	for _, hint := range scopedRoleHints {
		if strings.Contains(text, hint) {
			return true
		}
	}
	return false
}
