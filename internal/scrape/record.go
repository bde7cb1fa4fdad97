// Package scrape implements the country-facts extraction pipeline: text
// normalization, numeric parsing, language list extraction, neighbor map
// construction, and infobox classification into typed country records.
package scrape

// CountryRecord is the assembled output for one recognized country.
// Nil pointers and empty strings stand for values absent from the source.
type CountryRecord struct {
	Name            string   `json:"name"`
	Capital         string   `json:"capital"`
	Population      *int64   `json:"population"`
	Area            *float64 `json:"area_km2"`
	Density         *float64 `json:"density"`
	Neighbors       []string `json:"neighbors"`
	Language        string   `json:"language"`
	Timezone        string   `json:"timezone"`
	PoliticalSystem string   `json:"political_system"`
}

// SkipReason explains why an entity page produced no record.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipTransport
	SkipBadStatus
	SkipNoInfobox
	SkipNoName
	SkipUnparsable
)

// String returns a log-friendly label for the reason.
func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipTransport:
		return "transport_failure"
	case SkipBadStatus:
		return "bad_status"
	case SkipNoInfobox:
		return "no_infobox"
	case SkipNoName:
		return "no_name"
	case SkipUnparsable:
		return "unparsable_page"
	default:
		return "unknown"
	}
}
