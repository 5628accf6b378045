package preview

import "strings"

// Placeholder is returned when a page yields no preview windows, i.e. the
// term does not occur in the page content.
const Placeholder = "preview not available"

// Ellipsis marks elided text between and around preview windows.
const Ellipsis = "[...]"

const separator = " " + Ellipsis + " "

// Assemble joins the text of the merged windows into a single preview string
// separated by ellipsis markers. A leading marker is added when the first
// window starts after the beginning of the content, a trailing one when the
// last window ends before the end of it. With no windows at all the
// placeholder string is returned.
func Assemble(spans []Span, content string) string {
	if len(spans) == 0 {
		return Placeholder
	}

	rc := []rune(content)

	pieces := make([]string, 0, len(spans))
	for _, sp := range spans {
		start, end := sp.Start, sp.End
		if start < 0 {
			start = 0
		}
		if end > len(rc) {
			end = len(rc)
		}
		pieces = append(pieces, string(rc[start:end]))
	}

	snippet := strings.Join(pieces, separator)

	if spans[0].Start > 0 {
		snippet = Ellipsis + " " + snippet
	}
	if spans[len(spans)-1].End < len(rc) {
		snippet = snippet + " " + Ellipsis
	}
	return snippet
}
