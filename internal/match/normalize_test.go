package match

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Lowercasing and whitespace
		{"Dune", "dune"},
		{"  The   Martian  ", "the martian"},
		{"", ""},
		{"   ", ""},
		// Turkish letters
		{"Marslı", "marsli"},
		{"Suç ve Ceza", "suc ve ceza"},
		{"Dönüşüm", "donusum"},
		{"Şeker Portakalı", "seker portakali"},
		{"İnce Memed", "ince memed"},
		// Accents outside the fold table (NFD fallback)
		{"Gabriel García Márquez", "gabriel garcia marquez"},
		{"Brontë", "bronte"},
		// Punctuation stripped without joining words
		{"Dune: Messiah", "dune messiah"},
		{"Marslı (The Martian)", "marsli the martian"},
		{"1984", "1984"},
		{"Fahrenheit 451!", "fahrenheit 451"},
		// Punctuation-only input
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Normalize(tt.input)
			if result != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Dune", "Marslı (The Martian)", "Suç ve Ceza", "  spaced   out  ",
		"Gabriel García Márquez", "1984", "", "!!!", "İstanbul Hatırası",
	}

	for _, s := range inputs {
		once := Normalize(s)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", s, once, twice)
		}
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"dune messiah", 2},
		{"a dune", 1}, // single-char token discarded
		{"", 0},
		{"suc ve ceza", 3},
	}

	for _, tt := range tests {
		if got := len(words(tt.input)); got != tt.expected {
			t.Errorf("words(%q): got %d words, want %d", tt.input, got, tt.expected)
		}
	}
}
