// Package feed fetches configured RSS/Atom feeds and normalizes their items.
package feed

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"triada/internal/logger"
	"triada/internal/metrics"
	"triada/internal/sources"
)

// Fetcher downloads feeds for the registered sources. A single source
// failing (timeout, malformed XML, DNS) contributes an empty list and never
// aborts sibling fetches.
type Fetcher struct {
	registry *sources.Registry
	parser   *gofeed.Parser
	timeout  time.Duration
	limiter  *rate.Limiter
}

func NewFetcher(registry *sources.Registry, timeout time.Duration, fetchRate float64, burst int) *Fetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = "Mozilla/5.0 (compatible; triada/1.0)"
	return &Fetcher{
		registry: registry,
		parser:   parser,
		timeout:  timeout,
		limiter:  rate.NewLimiter(rate.Limit(fetchRate), burst),
	}
}

// FetchSource downloads and normalizes a single feed. Failures are counted,
// logged at debug level, and yield an empty slice.
func (f *Fetcher) FetchSource(ctx context.Context, src sources.Source, bias sources.Bias) []Article {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parsed, err := f.parser.ParseURLWithContext(src.FeedURL, fetchCtx)
	if err != nil {
		metrics.Global.IncrementFeedFailures()
		logger.Debug("feed fetch failed", "source", src.Name, "url", src.FeedURL, "error", err)
		return nil
	}
	metrics.Global.IncrementFeedsFetched()

	articles := make([]Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		a := normalizeItem(item, src, bias)
		if a.Title == "" || a.Link == "" {
			continue
		}
		articles = append(articles, a)
	}
	return articles
}

// FetchBias fans out over every source of one bias and merges the results.
// All fetches settle before the merged list is returned.
func (f *Fetcher) FetchBias(ctx context.Context, bias sources.Bias) []Article {
	srcs := f.registry.ForBias(bias)
	if len(srcs) == 0 {
		return nil
	}

	var (
		mu       sync.Mutex
		articles []Article
		wg       sync.WaitGroup
	)

	for _, src := range srcs {
		wg.Add(1)
		go func(s sources.Source) {
			defer wg.Done()
			items := f.FetchSource(ctx, s, bias)
			mu.Lock()
			articles = append(articles, items...)
			mu.Unlock()
		}(src)
	}

	wg.Wait()
	metrics.Global.AddArticlesCollected(int64(len(articles)))
	return articles
}

// FetchAll materializes the article lists for all three bias categories.
// Categories are independent; one category failing entirely just means an
// empty list for it.
func (f *Fetcher) FetchAll(ctx context.Context) map[sources.Bias][]Article {
	out := make(map[sources.Bias][]Article, 3)
	for _, bias := range sources.AllBiases() {
		out[bias] = f.FetchBias(ctx, bias)
	}
	return out
}

func normalizeItem(item *gofeed.Item, src sources.Source, bias sources.Bias) Article {
	published := time.Time{}
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	return Article{
		Title:       strings.TrimSpace(item.Title),
		Link:        strings.TrimSpace(item.Link),
		Description: cleanDescription(itemDescription(item)),
		Published:   published,
		Image:       firstImage(item),
		SourceName:  src.Name,
		SourceBias:  bias,
		Categories:  item.Categories,
	}
}

func itemDescription(item *gofeed.Item) string {
	if item.Description != "" {
		return item.Description
	}
	return item.Content
}
