// Package markup loads raw HTML into traversable documents with charset
// detection and provides shared text helpers for the extraction pipeline.
package markup

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// MaxHTMLSize limits HTML input to 10MB to prevent memory exhaustion.
const MaxHTMLSize = 10 * 1024 * 1024

// Validate checks HTML size and returns an error if empty or too large.
func Validate(htmlStr string) error {
	if len(htmlStr) == 0 {
		return fmt.Errorf("html content required")
	}
	if len(htmlStr) > MaxHTMLSize {
		return fmt.Errorf("html exceeds maximum size of %d bytes", MaxHTMLSize)
	}
	return nil
}

// DetectCharset detects and returns the charset of raw HTML bytes.
func DetectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// Load parses HTML into a goquery document with automatic charset detection.
func Load(htmlStr string) (*goquery.Document, error) {
	if err := Validate(htmlStr); err != nil {
		return nil, err
	}

	data := []byte(htmlStr)
	detected := DetectCharset(data)

	reader := bytes.NewReader(data)
	utf8Reader, err := charset.NewReader(reader, detected)
	if err != nil {
		// Fallback to direct parsing
		return goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	}

	return goquery.NewDocumentFromReader(utf8Reader)
}

// SeparatedText returns the concatenation of every text node under n,
// joined with sep. Node boundaries become delimiters, which keeps list
// items and line-broken cell content splittable downstream.
func SeparatedText(n *html.Node, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode && n.Data != "" {
			parts = append(parts, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, sep)
}

// Deduplicate removes duplicate strings while preserving order.
func Deduplicate(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
