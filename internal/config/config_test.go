package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.GroupLimit != 15 {
		t.Errorf("expected group limit 15, got %d", cfg.GroupLimit)
	}
	if cfg.MatchThreshold != 0.3 {
		t.Errorf("expected match threshold 0.3, got %v", cfg.MatchThreshold)
	}
	if cfg.OtherSourcesThreshold != 0.25 {
		t.Errorf("expected other-sources threshold 0.25, got %v", cfg.OtherSourcesThreshold)
	}
	if cfg.PerBiasCap != 80 {
		t.Errorf("expected per-bias cap 80, got %d", cfg.PerBiasCap)
	}
	if cfg.MinPoliticalArticles != 5 {
		t.Errorf("expected min political articles 5, got %d", cfg.MinPoliticalArticles)
	}
	if cfg.FeedTimeout != 12*time.Second {
		t.Errorf("expected feed timeout 12s, got %v", cfg.FeedTimeout)
	}
	if cfg.RefreshInterval != 30*time.Minute {
		t.Errorf("expected refresh interval 30m, got %v", cfg.RefreshInterval)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GROUP_LIMIT", "5")
	t.Setenv("REFRESH_INTERVAL_MIN", "10")
	t.Setenv("MATCH_THRESHOLD", "0.5")
	t.Setenv("MIN_POLITICAL_ARTICLES", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.GroupLimit != 5 {
		t.Errorf("expected group limit 5, got %d", cfg.GroupLimit)
	}
	if cfg.RefreshInterval != 10*time.Minute {
		t.Errorf("expected refresh interval 10m, got %v", cfg.RefreshInterval)
	}
	if cfg.MatchThreshold != 0.5 {
		t.Errorf("expected match threshold 0.5, got %v", cfg.MatchThreshold)
	}
	if cfg.MinPoliticalArticles != 3 {
		t.Errorf("expected min political articles 3, got %d", cfg.MinPoliticalArticles)
	}
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	t.Setenv("MATCH_THRESHOLD", "1.5")
	if _, err := Load(); err == nil {
		t.Error("expected validation error for threshold > 1")
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("GROUP_LIMIT", "plenty")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GroupLimit != 15 {
		t.Errorf("expected default group limit for malformed value, got %d", cfg.GroupLimit)
	}
}
