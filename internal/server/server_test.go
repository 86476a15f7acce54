package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triada/internal/feed"
	"triada/internal/match"
	"triada/internal/snapshot"
	"triada/internal/sources"
)

type staticSource struct {
	lists map[sources.Bias][]feed.Article
}

func (s staticSource) FetchAll(context.Context) map[sources.Bias][]feed.Article {
	return s.lists
}

func (s staticSource) FetchBias(_ context.Context, bias sources.Bias) []feed.Article {
	return s.lists[bias]
}

func testRegistry(t *testing.T) *sources.Registry {
	t.Helper()
	dir := t.TempDir()
	path := dir + "/sources.yaml"
	content := `
progressive:
  - id: eldiario
    name: elDiario.es
    url: https://www.eldiario.es
    feedUrl: https://www.eldiario.es/rss/
centrist: []
conservative: []
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	reg, err := sources.Load(path)
	require.NoError(t, err)
	return reg
}

func newTestServer(t *testing.T, store snapshot.Store) *httptest.Server {
	t.Helper()
	svc := snapshot.NewService(staticSource{}, match.New(match.Config{}, nil), store, 15)
	srv := New(svc, testRegistry(t))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func TestHandleNewsMatched(t *testing.T) {
	store := snapshot.NewMemoryStore()
	title := "Congreso aprueba los presupuestos"
	payload := match.Result{Groups: []match.StoryGroup{{
		Progressive:  &feed.Article{Title: title, Link: "https://example.com/p", SourceBias: sources.BiasProgressive},
		Centrist:     &feed.Article{Title: title, Link: "https://example.com/c", SourceBias: sources.BiasCentrist},
		Conservative: &feed.Article{Title: title, Link: "https://example.com/v", SourceBias: sources.BiasConservative},
		OtherSources: []feed.Article{},
	}}}
	require.NoError(t, store.SaveSnapshot(context.Background(), payload))

	ts := newTestServer(t, store)

	resp, err := http.Get(ts.URL + "/api/news/matched")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got match.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Groups, 1)
	assert.Equal(t, title, got.Groups[0].Progressive.Title)
}

func TestHandleNewsMatchedClampsLimit(t *testing.T) {
	store := snapshot.NewMemoryStore()
	groups := make([]match.StoryGroup, 30)
	for i := range groups {
		groups[i].OtherSources = []feed.Article{}
	}
	require.NoError(t, store.SaveSnapshot(context.Background(), match.Result{Groups: groups}))

	ts := newTestServer(t, store)

	resp, err := http.Get(ts.URL + "/api/news/matched?limit=9999")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got match.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Len(t, got.Groups, maxGroupLimit)
}

func TestHandleSources(t *testing.T) {
	ts := newTestServer(t, snapshot.NewMemoryStore())

	resp, err := http.Get(ts.URL + "/api/sources")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string][]sources.Source
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got["progressive"], 1)
	assert.Equal(t, "elDiario.es", got["progressive"][0].Name)
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t, snapshot.NewMemoryStore())

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Contains(t, got, "status")
}

func TestHandleNewsByBiasCachesResponse(t *testing.T) {
	lists := map[sources.Bias][]feed.Article{
		sources.BiasProgressive: {
			{Title: "uno", Link: "https://example.com/1", Published: time.Now(), SourceBias: sources.BiasProgressive},
		},
		sources.BiasCentrist:     {},
		sources.BiasConservative: {},
	}
	svc := snapshot.NewService(staticSource{lists: lists}, match.New(match.Config{}, nil), snapshot.NewMemoryStore(), 15)
	srv := New(svc, testRegistry(t))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	for i := 0; i < 2; i++ {
		resp, err := http.Get(ts.URL + "/api/news/by-bias?limit=5")
		require.NoError(t, err)
		var got map[string][]feed.Article
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		resp.Body.Close()
		require.Len(t, got["progressive"], 1)
	}
}
