package match

import (
	"strings"

	"triada/internal/feed"
)

// RelevanceFunc decides whether an article belongs in the political pool.
// It is pluggable so the matcher stays decoupled from the keyword list.
type RelevanceFunc func(feed.Article) bool

// Keyword list for national-politics coverage. Both accented and plain
// spellings appear because feeds are inconsistent about diacritics.
var politicsKeywords = []string{
	"politica",
	"política",
	"politicas",
	"políticas",
	"espana",
	"españa",
	"nacional",
	"gobierno",
	"congreso",
	"elecciones",
}

// PoliticalRelevance reports whether any category, the title, or the
// description contains a politics keyword. Case-folded substring matching;
// false positives and negatives are expected and acceptable.
func PoliticalRelevance(a feed.Article) bool {
	var b strings.Builder
	for _, c := range a.Categories {
		b.WriteString(strings.ToLower(c))
		b.WriteByte(' ')
	}
	b.WriteString(strings.ToLower(a.Title))
	b.WriteByte(' ')
	b.WriteString(strings.ToLower(a.Description))
	text := b.String()

	for _, kw := range politicsKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// FilterPolitical keeps the articles the predicate accepts. When fewer than
// minKeep survive, the filter is unreliable for that batch (thin feed, odd
// tagging) and the unfiltered input is returned instead.
func FilterPolitical(articles []feed.Article, minKeep int, relevant RelevanceFunc) []feed.Article {
	if relevant == nil {
		relevant = PoliticalRelevance
	}

	filtered := make([]feed.Article, 0, len(articles))
	for _, a := range articles {
		if relevant(a) {
			filtered = append(filtered, a)
		}
	}

	if len(filtered) < minKeep {
		return articles
	}
	return filtered
}
