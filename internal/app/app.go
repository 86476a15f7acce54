// Package app wires configuration, the source registry, the fetch/match
// pipeline, the snapshot store, the scheduler, and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"triada/internal/config"
	"triada/internal/feed"
	"triada/internal/logger"
	"triada/internal/match"
	"triada/internal/retry"
	"triada/internal/scheduler"
	"triada/internal/server"
	"triada/internal/snapshot"
	"triada/internal/sources"
)

type App struct {
	cfg   *config.Config
	svc   *snapshot.Service
	sched *scheduler.Scheduler
	http  *http.Server
	store *snapshot.PostgresStore // nil when running on the memory store
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	registry, err := sources.Load(cfg.SourcesConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	logger.Info("source registry loaded", "sources", registry.Count())

	fetcher := feed.NewFetcher(registry, cfg.FeedTimeout, cfg.FetchRate, cfg.FetchBurst)

	var (
		store   snapshot.Store
		tags    match.TagLister
		pgStore *snapshot.PostgresStore
	)
	if cfg.DatabaseURL != "" {
		pgStore, err = snapshot.NewPostgresStore(ctx, cfg.DatabaseURL, retry.Policy{
			Attempts: cfg.RetryAttempts,
			Delay:    cfg.RetryDelay,
			Backoff:  true,
		})
		if err != nil {
			return nil, fmt.Errorf("connect snapshot store: %w", err)
		}
		store = pgStore
		tags = pgStore
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory snapshot store")
		mem := snapshot.NewMemoryStore()
		store = mem
		tags = mem
	}

	matcher := match.New(match.Config{
		MatchThreshold:        cfg.MatchThreshold,
		OtherSourcesThreshold: cfg.OtherSourcesThreshold,
		OtherSourcesCap:       cfg.OtherSourcesCap,
		PerBiasCap:            cfg.PerBiasCap,
		MinPolitical:          cfg.MinPoliticalArticles,
	}, tags)

	svc := snapshot.NewService(fetcher, matcher, store, cfg.GroupLimit)
	srv := server.New(svc, registry)

	return &App{
		cfg:   cfg,
		svc:   svc,
		sched: scheduler.New(),
		http: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      srv.Router(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		store: pgStore,
	}, nil
}

// Run starts the refresh schedule and the HTTP server, then blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	// Eager first refresh so readers don't pay the cold-start cost. Run in
	// the background like the scheduled ticks; a failure only delays the
	// first snapshot.
	go func() {
		if err := a.svc.Refresh(ctx); err != nil {
			logger.Error("initial refresh failed", "error", err)
		}
	}()

	if err := a.sched.Start(a.cfg.RefreshInterval, func() error {
		refreshCtx, cancel := context.WithTimeout(context.Background(), a.cfg.RefreshInterval)
		defer cancel()
		return a.svc.Refresh(refreshCtx)
	}); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", a.http.Addr)
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return a.shutdown()
}

func (a *App) shutdown() error {
	logger.Info("shutting down")
	a.sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := a.http.Shutdown(shutdownCtx)

	if a.store != nil {
		if cerr := a.store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
