package scrape

import (
	"regexp"
	"strings"
)

var (
	citationRe    = regexp.MustCompile(`\[[^\]]*\]`)
	parentheticRe = regexp.MustCompile(`\([^)]*\)`)
	spaceRunRe    = regexp.MustCompile(`\s+`)
)

// Normalize strips citation markers and parenthetical asides from raw
// infobox text and collapses whitespace. Citations are removed first, then
// parentheticals, shortest match, no recursion into nested spans. Returns
// the empty string for empty input, and is idempotent.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	text := citationRe.ReplaceAllString(raw, "")
	text = parentheticRe.ReplaceAllString(text, "")
	// Handles values like "List\nUTC+1" before collapsing runs
	text = strings.ReplaceAll(text, "\n", " ")
	text = spaceRunRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
