package match

import (
	"context"
	"strings"

	"triada/internal/feed"
	"triada/internal/logger"
)

// TagLister supplies the names of special topic categories used to label
// story groups. Typically backed by the snapshot store; may be nil.
type TagLister interface {
	SpecialCategoryNames(ctx context.Context) ([]string, error)
}

// enrichTags labels each group with any special category whose name appears
// in the anchors' titles or descriptions. Enrichment is best-effort: a
// failing lister is logged and skipped, never failing the matching cycle.
func (m *Matcher) enrichTags(ctx context.Context, groups []StoryGroup) {
	if m.tags == nil || len(groups) == 0 {
		return
	}

	names, err := m.tags.SpecialCategoryNames(ctx)
	if err != nil {
		logger.Debug("special categories unavailable, skipping tag enrichment", "error", err)
		return
	}
	if len(names) == 0 {
		return
	}

	for i := range groups {
		texts := groupTexts(&groups[i])
		for _, name := range names {
			lower := strings.ToLower(strings.TrimSpace(name))
			if lower == "" {
				continue
			}
			for _, txt := range texts {
				if strings.Contains(txt, lower) {
					groups[i].Tags = append(groups[i].Tags, strings.TrimSpace(name))
					break
				}
			}
		}
	}
}

func groupTexts(g *StoryGroup) []string {
	texts := make([]string, 0, 6)
	for _, a := range []*feed.Article{g.Progressive, g.Centrist, g.Conservative} {
		if a == nil {
			continue
		}
		if a.Title != "" {
			texts = append(texts, strings.ToLower(a.Title))
		}
		if a.Description != "" {
			texts = append(texts, strings.ToLower(a.Description))
		}
	}
	return texts
}
