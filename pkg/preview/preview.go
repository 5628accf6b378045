// Package preview extracts highlighted snippets from digitized periodical
// pages. Given a search term and the OCR transcription of one page, it finds
// every case- and diacritic-insensitive occurrence of the term, selects a
// bounded window of readable text around each one, merges overlapping
// windows, and renders a single preview string with the matched variants
// wrapped in <mark> tags and elisions marked with <b><i>[...]</i></b>.
//
// All offsets in this package are rune offsets. The corpus is full of
// multi-byte Romanian and Hungarian diacritics, and byte offsets computed on
// folded text would drift against the original page.
package preview

import (
	"regexp"
	"sync"
	"unicode/utf8"

	"github.com/mcostache/hemeroteca/pkg/log"
)

var whitespaceRuns = regexp.MustCompile(`\s{2,}`)

// NormalizeWhitespace collapses every run of two or more whitespace
// characters into a single space. OCR transcriptions carry column breaks and
// hyphenation artifacts as whitespace runs; every offset in the pipeline is
// computed against the normalized form.
func NormalizeWhitespace(s string) string {
	return whitespaceRuns.ReplaceAllString(s, " ")
}

// ContentSource looks up the raw OCR transcription of one page. A missing
// page may be reported either as an empty string or as an error; the Builder
// treats both as empty content.
type ContentSource interface {
	PageContent(pageID int64) (string, error)
}

// PagePreview pairs a page identifier with its rendered preview markup.
type PagePreview struct {
	PageID int64
	HTML   string
}

// Builder runs the preview pipeline for search-result rows.
type Builder struct {
	src    ContentSource
	radius int
	logger *log.Logger
}

// New returns a Builder that fetches page content from src and keeps radius
// runes of context on each side of a match.
func New(src ContentSource, radius int) *Builder {
	return &Builder{
		src:    src,
		radius: radius,
		logger: log.ForService("preview"),
	}
}

// Preview runs the full pipeline for a single page: whitespace
// normalization, occurrence location, window construction and merging,
// snippet assembly, highlighting. It is a total function: a page without a
// single occurrence of the term yields the placeholder string.
func (b *Builder) Preview(term, content string) string {
	content = NormalizeWhitespace(content)
	termLen := utf8.RuneCountInString(term)

	offsets := Occurrences(term, content)
	variants := Variants(content, offsets, termLen)
	merged := Merge(Windows(content, b.radius, termLen, offsets))
	return Highlight(Assemble(merged, content), variants)
}

// ForPages renders one preview per page identifier, preserving input order.
// Page lookups fan out concurrently; every row computes independently and
// writes to its own slot. Rows never fail: a page whose content cannot be
// fetched renders as the placeholder.
func (b *Builder) ForPages(term string, pageIDs []int64) []PagePreview {
	previews := make([]PagePreview, len(pageIDs))

	var wg sync.WaitGroup
	for i, id := range pageIDs {
		wg.Add(1)
		go func(slot int, pageID int64) {
			defer wg.Done()

			content, err := b.src.PageContent(pageID)
			if err != nil {
				b.logger.Warnf("no content for page %d: %v", pageID, err)
				content = ""
			}
			previews[slot] = PagePreview{
				PageID: pageID,
				HTML:   b.Preview(term, content),
			}
		}(i, id)
	}
	wg.Wait()

	return previews
}
