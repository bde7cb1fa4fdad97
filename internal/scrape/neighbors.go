package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/PetruGlt/StatesOfTheWorld/internal/logging"
	"github.com/PetruGlt/StatesOfTheWorld/internal/markup"
)

// NeighborMap maps a country name to its deduplicated land neighbors.
// Insertion order is preserved so the substring fallback in Resolve is
// reproducible across runs.
type NeighborMap struct {
	keys  []string
	items map[string][]string
}

// NewNeighborMap returns an empty map.
func NewNeighborMap() *NeighborMap {
	return &NeighborMap{items: make(map[string][]string)}
}

// Set stores neighbors under name, keeping first-insertion key order.
func (m *NeighborMap) Set(name string, neighbors []string) {
	if _, ok := m.items[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.items[name] = neighbors
}

// Get returns the neighbors stored under the exact name.
func (m *NeighborMap) Get(name string) ([]string, bool) {
	n, ok := m.items[name]
	return n, ok
}

// Len returns the number of countries in the map.
func (m *NeighborMap) Len() int {
	return len(m.items)
}

// Resolve finds the neighbor list for name, preferring an exact key match
// and falling back to substring containment in either direction. The first
// matching key in insertion order wins. Absence yields nil; consumers
// treat that as no neighbors, never as an error.
func (m *NeighborMap) Resolve(name string) []string {
	if n, ok := m.items[name]; ok {
		return n
	}
	for _, k := range m.keys {
		if k != "" && (strings.Contains(k, name) || strings.Contains(name, k)) {
			return m.items[k]
		}
	}
	return nil
}

// BuildNeighborMap parses the land-borders listing page into a NeighborMap.
// A page without the expected sortable table degrades to an empty map with
// a warning; it is never fatal to the batch.
func BuildNeighborMap(doc *goquery.Document, logger *logging.Logger) *NeighborMap {
	nm := NewNeighborMap()

	table := doc.Find("table.wikitable").First()
	if table.Length() == 0 {
		logger.Warn("Borders table not found, neighbor map left empty")
		return nm
	}

	rows := table.Find("tr")
	logger.Debug("Scanning borders table", zap.Int("rows", rows.Length()))

	rows.Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			// Header row
			return
		}

		cells := row.Find("td, th")
		// Need at least name plus the trailing neighbors column
		if cells.Length() < 4 {
			return
		}

		link := cells.First().Find("a").First()
		if link.Length() == 0 {
			return
		}
		country := Normalize(link.Text())
		if country == "" {
			return
		}

		var neighbors []string
		cells.Eq(cells.Length() - 1).Find("a").Each(func(_ int, a *goquery.Selection) {
			name := strings.TrimSpace(a.Text())
			href, _ := a.Attr("href")

			if len(name) > 2 &&
				strings.Contains(href, "/wiki/") &&
				!strings.HasPrefix(name, "[") {
				neighbors = append(neighbors, name)
			}
		})

		nm.Set(country, markup.Deduplicate(neighbors))
	})

	logger.Info("Neighbor map built", zap.Int("countries", nm.Len()))
	return nm
}
