// Package match implements the cross-bias story matching engine: political
// filtering, headline similarity, and greedy formation of story groups with
// one anchor article per bias category.
package match

import (
	"context"

	"triada/internal/feed"
	"triada/internal/metrics"
	"triada/internal/sources"
)

// StoryGroup is one matched story: three anchor articles reporting the same
// event, one per bias, plus supporting coverage from any bias.
type StoryGroup struct {
	Progressive  *feed.Article  `json:"progressive"`
	Centrist     *feed.Article  `json:"centrist"`
	Conservative *feed.Article  `json:"conservative"`
	OtherSources []feed.Article `json:"otherSources"`
	Tags         []string       `json:"tags,omitempty"`
}

// Result is the payload a matching cycle produces.
type Result struct {
	Groups []StoryGroup `json:"groups"`
}

// Config carries the matcher thresholds. Zero values are replaced by the
// reference defaults in New.
type Config struct {
	MatchThreshold        float64 // anchor match cutoff (strictly greater)
	OtherSourcesThreshold float64 // supporting coverage cutoff
	OtherSourcesCap       int
	PerBiasCap            int // most recent articles considered per bias
	MinPolitical          int // political-filter bypass threshold
	Relevance             RelevanceFunc
}

// Matcher forms story groups from per-bias article lists. It holds only
// configuration; every Match call runs in its own session, so there is no
// state carried between cycles.
type Matcher struct {
	cfg  Config
	tags TagLister
}

func New(cfg Config, tags TagLister) *Matcher {
	if cfg.MatchThreshold == 0 {
		cfg.MatchThreshold = 0.3
	}
	if cfg.OtherSourcesThreshold == 0 {
		cfg.OtherSourcesThreshold = 0.25
	}
	if cfg.OtherSourcesCap == 0 {
		cfg.OtherSourcesCap = 15
	}
	if cfg.PerBiasCap == 0 {
		cfg.PerBiasCap = 80
	}
	if cfg.MinPolitical == 0 {
		cfg.MinPolitical = 5
	}
	if cfg.Relevance == nil {
		cfg.Relevance = PoliticalRelevance
	}
	return &Matcher{cfg: cfg, tags: tags}
}

// session is the per-cycle mutable state: the set of links already consumed
// as anchors.
type session struct {
	used map[string]struct{}
}

// Match runs one matching cycle over freshly fetched per-bias lists and
// returns up to limit story groups. Deterministic for fixed inputs and
// thresholds.
func (m *Matcher) Match(ctx context.Context, lists map[sources.Bias][]feed.Article, limit int) Result {
	progressive := m.prepare(lists[sources.BiasProgressive])
	centrist := m.prepare(lists[sources.BiasCentrist])
	conservative := m.prepare(lists[sources.BiasConservative])

	s := &session{used: make(map[string]struct{})}
	groups := make([]StoryGroup, 0, limit)

	for i := range progressive {
		if len(groups) >= limit {
			break
		}
		prog := progressive[i]

		cent := s.bestMatch(prog.Title, centrist, m.cfg.MatchThreshold)
		cons := s.bestMatch(prog.Title, conservative, m.cfg.MatchThreshold)

		// Strict triple policy: a group needs all three sides. A story with
		// only two biases covered is dropped rather than emitted half-filled.
		if cent == nil || cons == nil {
			continue
		}

		s.used[prog.Link] = struct{}{}
		s.used[cent.Link] = struct{}{}
		s.used[cons.Link] = struct{}{}

		others := m.collectOtherSources(prog, cent, cons, progressive, centrist, conservative)

		groups = append(groups, StoryGroup{
			Progressive:  &prog,
			Centrist:     cent,
			Conservative: cons,
			OtherSources: others,
		})
	}

	m.enrichTags(ctx, groups)
	metrics.Global.AddGroupsMatched(int64(len(groups)))
	return Result{Groups: groups}
}

// prepare validates, filters, sorts, and caps one bias list.
func (m *Matcher) prepare(articles []feed.Article) []feed.Article {
	valid := make([]feed.Article, 0, len(articles))
	for _, a := range articles {
		// Articles without a usable title cannot be matched; skipping them
		// here keeps a malformed item from aborting the cycle.
		if a.Title == "" || a.Link == "" {
			continue
		}
		valid = append(valid, a)
	}

	filtered := FilterPolitical(valid, m.cfg.MinPolitical, m.cfg.Relevance)

	sorted := make([]feed.Article, len(filtered))
	copy(sorted, filtered)
	feed.SortByRecency(sorted)

	if len(sorted) > m.cfg.PerBiasCap {
		sorted = sorted[:m.cfg.PerBiasCap]
	}
	return sorted
}

// bestMatch scans candidates for the highest similarity to the target title,
// skipping already-consumed articles. The similarity must be strictly
// greater than the threshold; ties keep the earlier (more recent) candidate.
func (s *session) bestMatch(target string, candidates []feed.Article, threshold float64) *feed.Article {
	var best *feed.Article
	bestSim := threshold

	for i := range candidates {
		c := &candidates[i]
		if _, taken := s.used[c.Link]; taken {
			continue
		}
		sim := Similarity(target, c.Title)
		if sim > bestSim {
			bestSim = sim
			best = c
		}
	}
	return best
}

// collectOtherSources gathers supporting coverage for a group: any article
// from the three lists, excluding the three anchors, whose similarity to the
// progressive anchor's title clears the lower threshold. Discovery order is
// progressive list, then centrist, then conservative, capped at
// OtherSourcesCap.
func (m *Matcher) collectOtherSources(prog feed.Article, cent, cons *feed.Article, lists ...[]feed.Article) []feed.Article {
	anchors := map[string]struct{}{
		prog.Link: {},
		cent.Link: {},
		cons.Link: {},
	}

	others := make([]feed.Article, 0, m.cfg.OtherSourcesCap)
	for _, list := range lists {
		for _, a := range list {
			if len(others) >= m.cfg.OtherSourcesCap {
				return others
			}
			if _, isAnchor := anchors[a.Link]; isAnchor {
				continue
			}
			if Similarity(prog.Title, a.Title) > m.cfg.OtherSourcesThreshold {
				others = append(others, a)
			}
		}
	}
	return others
}
