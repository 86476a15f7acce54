package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, removes combining marks, and recomposes, so
// "económica" and "economica" normalize to the same tokens.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeadline lowercases a headline, strips diacritics and
// non-alphanumeric runes, and drops tokens of length <= 2.
func normalizeHeadline(title string) []string {
	s := strings.ToLower(title)
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())
	tokens := words[:0]
	for _, w := range words {
		if len(w) > 2 {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Similarity scores two headlines in [0,1] by word overlap relative to the
// shorter headline: |intersection| / min(|A|,|B|). Deliberately not Jaccard:
// a short headline whose words are fully contained in a longer one scores
// 1.0, which is the common case when outlets abbreviate. Either headline
// normalizing to zero tokens scores 0.
func Similarity(a, b string) float64 {
	setA := tokenSet(normalizeHeadline(a))
	setB := tokenSet(normalizeHeadline(b))
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	overlap := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			overlap++
		}
	}

	min := len(setA)
	if len(setB) < min {
		min = len(setB)
	}
	return float64(overlap) / float64(min)
}
