// Package match provides text normalization, similarity scoring, and match
// confidence classification for linking a user's books to catalog entries.
//
// Catalog entries and user-entered titles diverge in subtitle presence,
// translated-edition parentheticals, and series numbering. A pure
// edit-distance metric underperforms the hybrid containment + word-overlap +
// last-token heuristics used here.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// latinFold maps locale-specific letters to their unaccented Latin
// equivalents. Turkish letters are listed explicitly because several of them
// (ı in particular) do not decompose under NFD.
//
//nolint:gochecknoglobals // Static lookup table for text normalization
var latinFold = map[rune]rune{
	'ç': 'c', 'ğ': 'g', 'ı': 'i', 'ö': 'o', 'ş': 's', 'ü': 'u',
	'â': 'a', 'î': 'i', 'û': 'u',
	'á': 'a', 'à': 'a', 'ä': 'a', 'ã': 'a', 'å': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'õ': 'o',
	'ú': 'u', 'ù': 'u',
	'ñ': 'n', 'ý': 'y', 'ÿ': 'y',
	'æ': 'a', 'ø': 'o', 'ß': 's',
}

// Normalize lowercases text, folds locale-specific letters to unaccented
// Latin, strips everything outside [a-z0-9 ], and collapses whitespace.
// It is total (never fails) and idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	var folded strings.Builder
	folded.Grow(len(s))
	for _, r := range s {
		r = unicode.ToLower(r)
		if sub, ok := latinFold[r]; ok {
			r = sub
		}
		folded.WriteRune(r)
	}

	// Catch accented letters the table does not list by decomposing and
	// dropping combining marks. Transformers carry internal state, so build
	// a fresh chain per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	decomposed, _, err := transform.String(t, folded.String())
	if err != nil {
		decomposed = folded.String()
	}

	var out strings.Builder
	out.Grow(len(decomposed))
	pendingSpace := false
	for _, r := range decomposed {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSpace && out.Len() > 0 {
				out.WriteByte(' ')
			}
			pendingSpace = false
			out.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		default:
			// Stripped entirely; does not break or join words.
		}
	}
	return out.String()
}

// words splits a normalized string into words of length >= 2.
// Single-character tokens carry no matching signal and are discarded.
func words(normalized string) []string {
	if normalized == "" {
		return nil
	}
	fields := strings.Fields(normalized)
	out := fields[:0]
	for _, w := range fields {
		if len(w) >= 2 {
			out = append(out, w)
		}
	}
	return out
}
