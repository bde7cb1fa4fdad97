package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMagnitude(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1,234", 1234, true},
		{"35 million", 35_000_000, true},
		{"1.5 billion", 1_500_000_000, true},
		{"2 trillion", 2_000_000_000_000, true},
		{"19,286,123 (2023 estimate)", 19_286_123, true},
		{"No Data", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMagnitude(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseMagnitudeKeywordPrecedence(t *testing.T) {
	// billion is checked before million; the first keyword in the fixed
	// order wins no matter where it sits in the text
	got, ok := ParseMagnitude("1.5 billion (up from 900 million)")
	assert.True(t, ok)
	assert.Equal(t, int64(1_500_000_000), got)
}

func TestParseMagnitudeTruncates(t *testing.T) {
	got, ok := ParseMagnitude("2.7")
	assert.True(t, ok)
	assert.Equal(t, int64(2), got)
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"54.4 per km2", 54.4, true},
		{"1,234.5", 1234.5, true},
		{"107", 107, true},
		{"a few million", 0, false},
		{"n/a", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDecimal(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}
