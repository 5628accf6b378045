package preview

// Occurrences returns the rune offset of every case- and diacritic-insensitive
// match of term inside content, in ascending order. Matching is performed on
// the folded forms of both strings; a match consumes its full length before
// the next scan resumes, so occurrences never overlap.
func Occurrences(term, content string) []int {
	ft := []rune(Fold(term))
	fc := []rune(Fold(content))
	if len(ft) == 0 || len(ft) > len(fc) {
		return nil
	}

	var offsets []int
	for i := 0; i+len(ft) <= len(fc); {
		if matchAt(fc, ft, i) {
			offsets = append(offsets, i)
			i += len(ft)
			continue
		}
		i++
	}
	return offsets
}

func matchAt(content, term []rune, at int) bool {
	for j, r := range term {
		if content[at+j] != r {
			return false
		}
	}
	return true
}

// Variants extracts the literal substring of content present at each
// occurrence offset, in its original casing and diacritics, de-duplicated in
// first-seen order. These are the exact strings the highlighter must wrap:
// the match was found on folded text, but the page displays the original.
func Variants(content string, offsets []int, termLen int) []string {
	rc := []rune(content)

	var variants []string
	for _, off := range offsets {
		if off < 0 || off+termLen > len(rc) {
			continue
		}
		v := string(rc[off : off+termLen])
		if !containsString(variants, v) {
			variants = append(variants, v)
		}
	}
	return variants
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
