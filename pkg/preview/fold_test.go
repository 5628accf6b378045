package preview

import (
	"testing"
	"unicode/utf8"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "romanian diacritics",
			input:    "Mărţişor şi țară",
			expected: "martisor si tara",
		},
		{
			name:     "comma below and cedilla fold identically",
			input:    "șţȘ and şțŢ",
			expected: "sts and stt",
		},
		{
			name:     "hungarian double acute",
			input:    "Őszi szőlő művek",
			expected: "oszi szolo muvek",
		},
		{
			name:     "plain ascii is lowercased only",
			input:    "Charles DARWIN",
			expected: "charles darwin",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fold(tt.input); got != tt.expected {
				t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFoldIdempotent(t *testing.T) {
	inputs := []string{
		"Ştefan Michăilescu",
		"Babeș-Bolyai",
		"Hétfő és kedd",
		"no diacritics at all",
	}

	for _, in := range inputs {
		once := Fold(in)
		twice := Fold(once)
		if once != twice {
			t.Errorf("Fold not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestFoldPreservesRuneCount(t *testing.T) {
	inputs := []string{
		"Mărţişorul",
		"ĂÎÂȘȚ éêè áàâäãå óöő úüű",
		"mixed Text with Ünnep",
		"",
	}

	for _, in := range inputs {
		folded := Fold(in)
		if utf8.RuneCountInString(folded) != utf8.RuneCountInString(in) {
			t.Errorf("Fold(%q) changed rune count: %d -> %d",
				in, utf8.RuneCountInString(in), utf8.RuneCountInString(folded))
		}
	}
}
