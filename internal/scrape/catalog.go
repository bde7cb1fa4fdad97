package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// The sovereign-state listing page carries several wikitables; these two
// phrases fingerprint the one holding the catalog.
const catalogTableXPath = `//table[contains(@class, "wikitable")` +
	`][contains(., "Common and formal names")` +
	`][contains(., "Membership within the UN")]`

// EnumerateCatalog parses the master listing page into the ordered entity
// references to process. One reference per table row, document order,
// duplicates kept; a page without the fingerprinted table yields nil.
func EnumerateCatalog(doc *goquery.Document) []string {
	table := htmlquery.FindOne(doc.Get(0), catalogTableXPath)
	if table == nil {
		return nil
	}

	var refs []string
	goquery.NewDocumentFromNode(table).Find("tr").Each(func(_ int, row *goquery.Selection) {
		td := row.Find("td").First()
		if td.Length() == 0 {
			return
		}

		td.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, ok := a.Attr("href")
			if !ok || !strings.HasPrefix(href, "/wiki/") {
				return true
			}
			if strings.Contains(href, "File:") ||
				strings.Contains(href, "cite_note") ||
				strings.Contains(href, "Help:") {
				return true
			}
			refs = append(refs, href)
			// One entity per row
			return false
		})
	})

	return refs
}
