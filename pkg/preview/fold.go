package preview

import (
	"strings"
	"unicode"
)

// baseLetters maps the Romanian and Hungarian diacritic code points found in
// the corpus to their lowercase basic-Latin base letter. The table is fixed
// and hand-curated: OCR transcriptions of the periodicals mix pre-1993 cedilla
// forms (ş, ţ) with the modern comma-below forms (ș, ț), and Hungarian pages
// add the double-acute vowels (ő, ű).
var baseLetters = map[rune]rune{
	'À': 'a', 'Á': 'a', 'Â': 'a', 'Ã': 'a', 'Ä': 'a', 'Å': 'a', 'Ă': 'a',
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a', 'ă': 'a',
	'È': 'e', 'É': 'e', 'Ê': 'e',
	'è': 'e', 'é': 'e', 'ê': 'e',
	'Í': 'i', 'Î': 'i',
	'í': 'i', 'î': 'i',
	'Ó': 'o', 'Õ': 'o', 'Ö': 'o', 'Ő': 'o',
	'ó': 'o', 'õ': 'o', 'ö': 'o', 'ő': 'o',
	'Ú': 'u', 'Ü': 'u', 'Ű': 'u',
	'ú': 'u', 'ü': 'u', 'ű': 'u',
	'Ş': 's', 'Ș': 's',
	'ş': 's', 'ș': 's',
	'Ţ': 't', 'Ț': 't',
	'ţ': 't', 'ț': 't',
}

func foldRune(r rune) rune {
	if b, ok := baseLetters[r]; ok {
		return b
	}
	return unicode.ToLower(r)
}

// Fold lower-cases s and replaces every diacritic-bearing rune from the fixed
// table with its base letter. Every rune maps to exactly one rune, so offsets
// computed on the folded string are valid rune offsets into the original.
// Folding is used for matching only, never for display.
func Fold(s string) string {
	return strings.Map(foldRune, s)
}
