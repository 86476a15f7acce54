// Package snapshot owns the computed story-group result set: refreshing it
// from live feeds and serving the most recent copy to readers.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"triada/internal/feed"
	"triada/internal/logger"
	"triada/internal/match"
	"triada/internal/metrics"
	"triada/internal/sources"
)

// Snapshot is one stored result set. Snapshots are appended, never updated;
// the latest by creation time is the active one.
type Snapshot struct {
	Payload   match.Result
	CreatedAt time.Time
}

// Store persists snapshots. LatestSnapshot returns (nil, nil) when no
// snapshot has been stored yet.
type Store interface {
	SaveSnapshot(ctx context.Context, payload match.Result) error
	LatestSnapshot(ctx context.Context) (*Snapshot, error)
}

// ArticleSource materializes the per-bias article lists for one cycle.
// Implemented by feed.Fetcher.
type ArticleSource interface {
	FetchAll(ctx context.Context) map[sources.Bias][]feed.Article
	FetchBias(ctx context.Context, bias sources.Bias) []feed.Article
}

// Service orchestrates fetch → filter → match → store and serves the latest
// snapshot. Refresh runs under a single-flight guard so a scheduled tick
// overlapping a request-triggered refresh computes the result once.
type Service struct {
	source     ArticleSource
	matcher    *match.Matcher
	store      Store
	groupLimit int
	sf         singleflight.Group
}

func NewService(source ArticleSource, matcher *match.Matcher, store Store, groupLimit int) *Service {
	return &Service{
		source:     source,
		matcher:    matcher,
		store:      store,
		groupLimit: groupLimit,
	}
}

// Refresh recomputes the full result set and appends it to the store. On
// failure the previous snapshot remains valid and continues to be served.
func (s *Service) Refresh(ctx context.Context) error {
	_, err, _ := s.sf.Do("refresh", func() (interface{}, error) {
		return nil, s.refresh(ctx)
	})
	return err
}

func (s *Service) refresh(ctx context.Context) error {
	started := time.Now()

	lists := s.source.FetchAll(ctx)
	result := s.matcher.Match(ctx, lists, s.groupLimit)

	if err := s.store.SaveSnapshot(ctx, result); err != nil {
		metrics.Global.RecordRefreshFailure(err.Error())
		return fmt.Errorf("save snapshot: %w", err)
	}

	metrics.Global.RecordRefresh(time.Since(started))
	logger.Info("snapshot refreshed",
		"groups", len(result.Groups),
		"duration_ms", time.Since(started).Milliseconds())
	return nil
}

// Latest returns the most recent snapshot payload, sliced to limit groups.
// A cold start (no snapshot yet) triggers a synchronous refresh; if that
// fails too, an empty payload is returned rather than an error so readers
// degrade gracefully.
func (s *Service) Latest(ctx context.Context, limit int) (match.Result, error) {
	snap, err := s.store.LatestSnapshot(ctx)
	if err != nil {
		return match.Result{Groups: []match.StoryGroup{}}, fmt.Errorf("read snapshot: %w", err)
	}

	if snap == nil {
		if err := s.Refresh(ctx); err != nil {
			logger.Error("cold-start refresh failed", "error", err)
			return match.Result{Groups: []match.StoryGroup{}}, nil
		}
		snap, err = s.store.LatestSnapshot(ctx)
		if err != nil || snap == nil {
			return match.Result{Groups: []match.StoryGroup{}}, nil
		}
	}

	payload := snap.Payload
	if payload.Groups == nil {
		payload.Groups = []match.StoryGroup{}
	}
	if limit > 0 && len(payload.Groups) > limit {
		payload.Groups = payload.Groups[:limit]
	}
	return payload, nil
}

// NewsByBias fetches the live per-bias lists for the comparator's simple
// view: newest first, capped per bias. No matching involved.
func (s *Service) NewsByBias(ctx context.Context, limit int) map[sources.Bias][]feed.Article {
	out := make(map[sources.Bias][]feed.Article, 3)
	for _, bias := range sources.AllBiases() {
		articles := s.source.FetchBias(ctx, bias)
		feed.SortByRecency(articles)
		if limit > 0 && len(articles) > limit {
			articles = articles[:limit]
		}
		if articles == nil {
			articles = []feed.Article{}
		}
		out[bias] = articles
	}
	return out
}
