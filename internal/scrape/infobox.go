package scrape

import (
	"math"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// compactKey lowers an infobox row label and strips every non-alphabetic
// rune, producing the token the field guards match against.
func compactKey(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func startsWithDigit(s string) bool {
	return s != "" && unicode.IsDigit(rune(s[0]))
}

// Assemble builds a CountryRecord from one entity page. It is a pure
// function of the parsed markup and the neighbor map, so entity pages can
// be processed without any network collaborator. A page without an infobox
// or a resolvable name yields no record and a skip reason.
func Assemble(doc *goquery.Document, neighbors *NeighborMap) (*CountryRecord, SkipReason) {
	infobox := doc.Find("table.infobox").First()
	if infobox.Length() == 0 {
		return nil, SkipNoInfobox
	}

	rec := &CountryRecord{Neighbors: []string{}}

	// Formal name marker first, page heading as fallback
	if fn := infobox.Find("div.fn.org").First(); fn.Length() > 0 {
		rec.Name = Normalize(fn.Text())
	} else if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		rec.Name = Normalize(h1.Text())
	}
	if rec.Name == "" {
		return nil, SkipNoName
	}

	if n := neighbors.Resolve(rec.Name); n != nil {
		rec.Neighbors = n
	}

	infobox.Find("tr").Each(func(_ int, row *goquery.Selection) {
		th := row.Find("th").First()
		td := row.Find("td").First()
		if th.Length() == 0 || td.Length() == 0 {
			return
		}
		classifyRow(rec, compactKey(th.Text()), td)
	})

	deriveFields(rec)
	return rec, SkipNone
}

// classifyRow applies every field guard to one key/value row. The guards
// are deliberately independent rather than a dispatch switch: a single row
// label can satisfy several predicates, and each field keeps its own
// fill-once or overwrite semantics.
func classifyRow(rec *CountryRecord, key string, td *goquery.Selection) {
	if strings.Contains(key, "capital") {
		if link := td.Find("a").First(); link.Length() > 0 {
			rec.Capital = link.Text()
		} else {
			rec.Capital = Normalize(strings.SplitN(td.Text(), ";", 2)[0])
		}
	}

	if strings.Contains(key, "government") && !strings.Contains(key, "transitional") &&
		rec.PoliticalSystem == "" {
		var labels []string
		td.Find("a").Each(func(_ int, a *goquery.Selection) {
			text := a.Text()
			// Reference anchors and date links are not forms of government
			if text != "" && !strings.HasPrefix(text, "[") && !startsWithDigit(text) {
				labels = append(labels, text)
			}
		})
		if len(labels) > 0 {
			rec.PoliticalSystem = strings.Join(labels, ", ")
		} else if text := Normalize(td.Text()); text != "" && !startsWithDigit(text) {
			rec.PoliticalSystem = text
		}
	}

	if rec.Population == nil &&
		(strings.Contains(key, "population") || strings.Contains(key, "estimate") || strings.Contains(key, "census")) {
		if v, ok := ParseMagnitude(td.Text()); ok {
			rec.Population = &v
		}
	}

	if strings.Contains(key, "density") {
		// Last density row wins, even when it parses to nothing
		if v, ok := ParseDecimal(td.Text()); ok {
			rec.Density = &v
		} else {
			rec.Density = nil
		}
	}

	isArea := strings.Contains(key, "area")
	isTotalKm := strings.Contains(key, "total") && strings.Contains(strings.ToLower(td.Text()), "km")
	if (isArea || isTotalKm) && rec.Area == nil {
		// Area is stored as an integer-valued magnitude; source cells quote
		// rounded km² figures anyway
		if v, ok := ParseMagnitude(td.Text()); ok {
			f := float64(v)
			rec.Area = &f
		}
	}

	if strings.Contains(key, "officiallanguage") || strings.Contains(key, "officialandnational") ||
		strings.Contains(key, "nationallanguage") {
		rec.Language = Languages(td)
	}

	if strings.Contains(key, "timezone") {
		raw := td.Text()
		if idx := strings.IndexAny(raw, "[("); idx >= 0 {
			raw = raw[:idx]
		}
		rec.Timezone = Normalize(raw)
	}
}

// deriveFields runs the cross-computation step exactly once per record.
// Population is ground truth; at most one of density/area is derived, and
// present values are never overwritten.
func deriveFields(rec *CountryRecord) {
	if rec.Density == nil && rec.Population != nil && rec.Area != nil && *rec.Area > 0 {
		d := math.Round(float64(*rec.Population) / *rec.Area * 10) / 10
		rec.Density = &d
		return
	}
	if rec.Area == nil && rec.Population != nil && rec.Density != nil && *rec.Density > 0 {
		a := float64(int64(float64(*rec.Population) / *rec.Density))
		rec.Area = &a
	}
}
