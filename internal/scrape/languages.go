package scrape

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/PetruGlt/StatesOfTheWorld/internal/markup"
)

// excludedTokens are boilerplate phrases that appear inside language cells
// but are not language names.
var excludedTokens = map[string]bool{
	"List":       true,
	"List:":      true,
	"(de facto)": true,
	"None":       true,
	"Languages":  true,
	"Official":   true,
	"locally":    true,
	";":          true,
	"[hide]":     true,
}

// Languages extracts a comma-joined, deduplicated set of language names
// from one infobox cell. Footnote superscripts are dropped before reading
// the text so their markers cannot pollute tokens.
func Languages(cell *goquery.Selection) string {
	if cell == nil || cell.Length() == 0 {
		return ""
	}

	cell.Find("sup").Remove()

	text := markup.SeparatedText(cell.Get(0), "|")

	var langs []string
	for _, item := range strings.Split(text, "|") {
		token := strings.Trim(item, ";: \t\n\r")
		if len(token) <= 2 {
			continue
		}
		if excludedTokens[token] {
			continue
		}
		if strings.Contains(token, "List") || strings.Contains(token, "locally") {
			continue
		}
		if unicode.IsDigit(rune(token[0])) {
			continue
		}
		langs = append(langs, token)
	}

	return strings.Join(markup.Deduplicate(langs), ", ")
}
