package feed

import (
	"sort"
	"time"

	"triada/internal/sources"
)

// Article is a normalized feed item. Articles are cycle-local: fetched fresh
// for each matching run and never mutated afterwards.
type Article struct {
	Title       string       `json:"title"`
	Link        string       `json:"link"`
	Description string       `json:"description"`
	Published   time.Time    `json:"published"`
	Image       string       `json:"image,omitempty"`
	SourceName  string       `json:"source"`
	SourceBias  sources.Bias `json:"sourceBias"`
	Categories  []string     `json:"categories,omitempty"`
}

// SortByRecency orders articles newest first. A missing publication time is
// the zero time and therefore sorts last.
func SortByRecency(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Published.After(articles[j].Published)
	})
}
