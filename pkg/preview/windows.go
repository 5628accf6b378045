package preview

import "unicode"

// Span is a half-open [Start, End) pair of rune offsets delimiting one
// preview region of a page. End may point past the end of the content when a
// match sits close to the page boundary; it is clamped when the text is
// sliced, not when the window is built.
type Span struct {
	Start int
	End   int
}

// Windows computes one Span per occurrence offset, radius runes of context on
// each side of the match, expanded outwards so that neither edge cuts a word
// in half. Offsets must be ascending (as produced by Occurrences); the
// returned spans keep that order.
func Windows(content string, radius, termLen int, offsets []int) []Span {
	rc := []rune(content)

	spans := make([]Span, 0, len(offsets))
	for _, off := range offsets {
		spans = append(spans, window(rc, radius, termLen, off))
	}
	return spans
}

func window(content []rune, radius, termLen, off int) Span {
	end := off + termLen + radius
	for end < len(content) && isWordRune(content[end]) {
		end++
	}

	if off <= radius {
		return Span{Start: 0, End: end}
	}

	start := off - radius
	for start >= 0 && isWordRune(content[start]) {
		start--
	}
	// The scan stops on the separator before the word (or at -1 when the
	// whole prefix is one word); the window starts on the word itself.
	start++

	return Span{Start: start, End: end}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Merge collapses overlapping or touching spans into the minimal disjoint
// set, preserving ascending order. Input spans must be sorted ascending by
// Start, which Windows guarantees.
func Merge(spans []Span) []Span {
	var merged []Span

	for i := 0; i < len(spans); {
		current := spans[i]
		for i+1 < len(spans) && spans[i+1].Start <= current.End {
			current.End = spans[i+1].End
			i++
		}
		merged = append(merged, current)
		i++
	}
	return merged
}
