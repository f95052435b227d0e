package match

import "strings"

// Score weights for the different match heuristics.
const (
	scoreExact            = 1.0
	scoreContains         = 0.9
	scoreTitleContains    = 0.95
	scoreTitleFirstWord   = 0.85
	scoreAuthorLastToken  = 0.9
	minFirstWordRuneCount = 3
)

// Similarity scores how alike two strings are, in [0,1].
// 1.0 for identical normalized strings, 0.9 when one contains the other,
// otherwise the word-overlap ratio |common| / max(|a|,|b|) over words of
// length >= 2. Symmetric; 0 when either side normalizes to empty.
func Similarity(a, b string) float64 {
	return similarityNormalized(Normalize(a), Normalize(b))
}

// similarityNormalized is Similarity over already-normalized inputs.
func similarityNormalized(na, nb string) float64 {
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return scoreExact
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return scoreContains
	}
	return wordOverlap(na, nb)
}

// wordOverlap returns |common words| / max(|words(a)|, |words(b)|).
func wordOverlap(na, nb string) float64 {
	wa, wb := words(na), words(nb)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(wa))
	for _, w := range wa {
		seen[w] = true
	}

	common := 0
	counted := make(map[string]bool, len(wb))
	for _, w := range wb {
		if seen[w] && !counted[w] {
			common++
			counted[w] = true
		}
	}
	if common == 0 {
		return 0
	}

	denom := len(wa)
	if len(wb) > denom {
		denom = len(wb)
	}
	return float64(common) / float64(denom)
}

// MatchTitle scores a user-entered title against a catalog title.
// Containment is weighted higher than in Similarity (0.95), and a shared
// first word of at least 3 characters scores 0.85 regardless of the rest.
// That tolerates subtitles and series numbering appended after the main
// title ("Dune" vs "Dune Messiah" stays below the containment tier).
func MatchTitle(userTitle, catalogTitle string) float64 {
	nu, nc := Normalize(userTitle), Normalize(catalogTitle)
	if nu == "" || nc == "" {
		return 0
	}
	if nu == nc {
		return scoreExact
	}
	if strings.Contains(nu, nc) || strings.Contains(nc, nu) {
		return scoreTitleContains
	}

	fu, _, _ := strings.Cut(nu, " ")
	fc, _, _ := strings.Cut(nc, " ")
	if fu == fc && len(fu) >= minFirstWordRuneCount {
		return scoreTitleFirstWord
	}

	return wordOverlap(nu, nc)
}

// MatchAuthor scores a user-entered author against a catalog author.
// Matching last tokens (the surname heuristic) score 0.9: catalog authors
// are commonly stored with full names while users enter surnames only.
func MatchAuthor(userAuthor, catalogAuthor string) float64 {
	nu, nc := Normalize(userAuthor), Normalize(catalogAuthor)
	if nu == "" || nc == "" {
		return 0
	}
	if nu == nc {
		return scoreExact
	}

	if lastToken(nu) == lastToken(nc) {
		return scoreAuthorLastToken
	}

	return similarityNormalized(nu, nc)
}

// lastToken returns the final space-separated token of a normalized string.
func lastToken(normalized string) string {
	if i := strings.LastIndexByte(normalized, ' '); i >= 0 {
		return normalized[i+1:]
	}
	return normalized
}
