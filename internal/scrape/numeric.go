package scrape

import (
	"regexp"
	"strconv"
	"strings"
)

var numeralRe = regexp.MustCompile(`\d+(\.\d+)?`)

// magnitudes are checked in this fixed order; only the first keyword found
// applies, even when several appear in the same cell.
var magnitudes = []struct {
	word   string
	factor float64
}{
	{"billion", 1_000_000_000},
	{"million", 1_000_000},
	{"trillion", 1_000_000_000_000},
}

// ParseMagnitude converts free-form numeric text into an integer, honoring
// magnitude words ("35 million", "1.5 billion") and thousands separators.
// Any fractional remainder after scaling is truncated. Returns ok=false
// when no numeral can be extracted.
func ParseMagnitude(text string) (int64, bool) {
	if text == "" {
		return 0, false
	}

	factor := 1.0
	lower := strings.ToLower(text)
	for _, m := range magnitudes {
		if strings.Contains(lower, m.word) {
			factor = m.factor
			break
		}
	}

	clean := strings.ReplaceAll(Normalize(text), ",", "")
	match := numeralRe.FindString(clean)
	if match == "" {
		return 0, false
	}

	val, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return int64(val * factor), true
}

// ParseDecimal extracts the first numeral from text as a float, ignoring
// magnitude words. Suited to density and per-unit figures where a stray
// "million" substring must not scale the value.
func ParseDecimal(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}

	clean := strings.ReplaceAll(Normalize(text), ",", "")
	match := numeralRe.FindString(clean)
	if match == "" {
		return 0, false
	}

	val, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}
