package feed

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"triada/internal/sources"
)

func TestNormalizeItem(t *testing.T) {
	published := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	item := &gofeed.Item{
		Title:           "  Congreso aprueba los presupuestos  ",
		Link:            " https://example.com/noticia ",
		Description:     "<p>El <b>Congreso</b> ha aprobado&nbsp;los presupuestos.</p>",
		PublishedParsed: &published,
		Categories:      []string{"Política"},
	}
	src := sources.Source{ID: "rtve", Name: "RTVE Noticias"}

	a := normalizeItem(item, src, sources.BiasCentrist)

	if a.Title != "Congreso aprueba los presupuestos" {
		t.Errorf("title not trimmed: %q", a.Title)
	}
	if a.Link != "https://example.com/noticia" {
		t.Errorf("link not trimmed: %q", a.Link)
	}
	if a.Description != "El Congreso ha aprobado los presupuestos." {
		t.Errorf("description not cleaned: %q", a.Description)
	}
	if !a.Published.Equal(published) {
		t.Errorf("published mismatch: %v", a.Published)
	}
	if a.SourceName != "RTVE Noticias" || a.SourceBias != sources.BiasCentrist {
		t.Errorf("source metadata lost: %+v", a)
	}
}

func TestNormalizeItemMissingDate(t *testing.T) {
	item := &gofeed.Item{Title: "Sin fecha", Link: "https://example.com/x"}
	a := normalizeItem(item, sources.Source{Name: "ABC"}, sources.BiasConservative)
	if !a.Published.IsZero() {
		t.Errorf("expected zero time for missing date, got %v", a.Published)
	}
}

func TestCleanDescriptionTruncates(t *testing.T) {
	long := ""
	for i := 0; i < 200; i++ {
		long += "palabra "
	}
	got := cleanDescription(long)
	if len([]rune(got)) > maxDescriptionRunes {
		t.Errorf("description not truncated: %d runes", len([]rune(got)))
	}
}

func TestFirstImagePrefersEnclosure(t *testing.T) {
	item := &gofeed.Item{
		Enclosures: []*gofeed.Enclosure{
			{URL: "https://example.com/audio.mp3", Type: "audio/mpeg"},
			{URL: "https://example.com/foto.jpg", Type: "image/jpeg"},
		},
		Description: `<p><img src="https://example.com/inline.jpg"></p>`,
	}
	if got := firstImage(item); got != "https://example.com/foto.jpg" {
		t.Errorf("expected enclosure image, got %q", got)
	}
}

func TestFirstImageFallsBackToDescription(t *testing.T) {
	item := &gofeed.Item{
		Description: `<p>texto <img src="https://example.com/inline.jpg"> más texto</p>`,
	}
	if got := firstImage(item); got != "https://example.com/inline.jpg" {
		t.Errorf("expected inline image, got %q", got)
	}
}

func TestSortByRecencyZeroTimeLast(t *testing.T) {
	now := time.Now()
	articles := []Article{
		{Title: "sin fecha"},
		{Title: "reciente", Published: now},
		{Title: "antigua", Published: now.Add(-time.Hour)},
	}

	SortByRecency(articles)

	if articles[0].Title != "reciente" || articles[2].Title != "sin fecha" {
		t.Errorf("unexpected order: %q, %q, %q", articles[0].Title, articles[1].Title, articles[2].Title)
	}
}
