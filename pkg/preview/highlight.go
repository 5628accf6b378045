package preview

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Highlight wraps every occurrence of every variant in <mark> tags, then
// wraps every ellipsis marker in <b><i> tags. Variants are applied longest
// first so that a variant which is a substring of another can never match
// inside text that is already wrapped. Term wrapping runs before ellipsis
// wrapping; windows never contain the marker, so the two passes touch
// disjoint parts of the snippet.
func Highlight(snippet string, variants []string) string {
	ordered := make([]string, len(variants))
	copy(ordered, variants)
	sort.SliceStable(ordered, func(i, j int) bool {
		return utf8.RuneCountInString(ordered[i]) > utf8.RuneCountInString(ordered[j])
	})

	for _, v := range ordered {
		snippet = strings.ReplaceAll(snippet, v, "<mark>"+v+"</mark>")
	}

	return strings.ReplaceAll(snippet, Ellipsis, "<b><i>"+Ellipsis+"</i></b>")
}
