package preview

import "testing"

func TestAssemble(t *testing.T) {
	content := "0123456789abcdefghij" // 20 runes

	tests := []struct {
		name     string
		spans    []Span
		expected string
	}{
		{
			name:     "no windows yields placeholder",
			spans:    nil,
			expected: "preview not available",
		},
		{
			name:     "full coverage has no markers",
			spans:    []Span{{Start: 0, End: 20}},
			expected: "0123456789abcdefghij",
		},
		{
			name:     "end past content counts as touching the end",
			spans:    []Span{{Start: 0, End: 25}},
			expected: "0123456789abcdefghij",
		},
		{
			name:     "window at start gets trailing marker only",
			spans:    []Span{{Start: 0, End: 5}},
			expected: "01234 [...]",
		},
		{
			name:     "window at end gets leading marker only",
			spans:    []Span{{Start: 15, End: 20}},
			expected: "[...] fghij",
		},
		{
			name:     "interior window gets both markers",
			spans:    []Span{{Start: 5, End: 10}},
			expected: "[...] 56789 [...]",
		},
		{
			name:     "multiple windows joined by separator",
			spans:    []Span{{Start: 0, End: 4}, {Start: 10, End: 14}},
			expected: "0123 [...] abcd [...]",
		},
		{
			name:     "interior windows carry all three markers",
			spans:    []Span{{Start: 2, End: 5}, {Start: 8, End: 11}},
			expected: "[...] 234 [...] 89a [...]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Assemble(tt.spans, content); got != tt.expected {
				t.Errorf("Assemble(%v) = %q, want %q", tt.spans, got, tt.expected)
			}
		})
	}
}

func TestAssemblePlaceholderConstant(t *testing.T) {
	if Assemble(nil, "") != Placeholder {
		t.Errorf("Assemble(nil) should return the placeholder")
	}
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		name     string
		snippet  string
		variants []string
		expected string
	}{
		{
			name:     "single variant wrapped once",
			snippet:  "Charles Darwin was a great scientist",
			variants: []string{"Darwin"},
			expected: "Charles <mark>Darwin</mark> was a great scientist",
		},
		{
			name:     "every variant occurrence wrapped",
			snippet:  "Darwin si darwin si iar Darwin",
			variants: []string{"Darwin", "darwin"},
			expected: "<mark>Darwin</mark> si <mark>darwin</mark> si iar <mark>Darwin</mark>",
		},
		{
			name:     "diacritic variants wrapped independently",
			snippet:  "Babeș scria, Babes citea",
			variants: []string{"Babeș", "Babes"},
			expected: "<mark>Babeș</mark> scria, <mark>Babes</mark> citea",
		},
		{
			name:     "ellipsis markers wrapped separately",
			snippet:  "[...] ceva Darwin altceva [...]",
			variants: []string{"Darwin"},
			expected: "<b><i>[...]</i></b> ceva <mark>Darwin</mark> altceva <b><i>[...]</i></b>",
		},
		{
			name:     "no variants leaves text untouched except ellipsis",
			snippet:  "preview not available",
			variants: nil,
			expected: "preview not available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Highlight(tt.snippet, tt.variants); got != tt.expected {
				t.Errorf("Highlight(%q, %v) = %q, want %q", tt.snippet, tt.variants, got, tt.expected)
			}
		})
	}
}
