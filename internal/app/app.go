// Package app assembles the engine and its optional semantic stack from
// configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/baasilali/2m-backend/internal/catalog"
	"github.com/baasilali/2m-backend/internal/config"
	"github.com/baasilali/2m-backend/internal/embedder"
	"github.com/baasilali/2m-backend/internal/indexer"
	"github.com/baasilali/2m-backend/internal/searcher"
	"github.com/baasilali/2m-backend/internal/storage"
)

// App owns the engine and the resources behind it
type App struct {
	Engine  *searcher.Engine
	Store   *catalog.Store
	Indexer *indexer.Indexer // nil when semantic search is off

	embedder embedder.Embedder
	storage  storage.Storage
	logger   zerolog.Logger
}

// New loads the catalog and builds the engine. A missing or broken
// snapshot is not fatal: the engine answers with the unavailable message
// until a reload succeeds. Semantic setup failures degrade to lexical-only
// matching.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	store := catalog.NewStore(cfg.Catalog.Path, logger)
	if err := store.Open(ctx); err != nil {
		logger.Warn().Err(err).Msg("Starting without catalog data")
	}

	a := &App{Store: store, logger: logger}

	var semantic searcher.SemanticIndex
	if cfg.Semantic.Enabled {
		if err := a.setupSemantic(ctx, cfg); err != nil {
			logger.Warn().Err(err).Msg("Semantic search disabled")
		} else {
			semantic = a.Indexer
		}
	}

	a.Engine = searcher.New(store, cfg.Engine(), semantic, logger)

	if a.Indexer != nil {
		a.Indexer.BuildAsync(context.WithoutCancel(ctx), store.Current())
	}
	return a, nil
}

// setupSemantic creates the embedder, the embedding cache and the indexer
func (a *App) setupSemantic(ctx context.Context, cfg *config.Config) error {
	emb, err := embedder.New(cfg.Embedder())
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %w", err)
	}
	a.embedder = emb

	var store storage.Storage
	if path := cfg.Semantic.DBPath; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			a.logger.Warn().Err(err).Str("path", path).Msg("Embedding cache disabled")
		} else if s, err := storage.NewSQLiteStorage(ctx, path); err != nil {
			a.logger.Warn().Err(err).Str("path", path).Msg("Embedding cache disabled")
		} else {
			store = s
			a.storage = s
		}
	}

	a.Indexer = indexer.New(emb, store, indexer.Config{
		Workers:   cfg.Semantic.Workers,
		BatchSize: cfg.Semantic.BatchSize,
	}, a.logger)

	a.logger.Info().
		Str("provider", emb.Provider()).
		Str("model", emb.Model()).
		Int("dimension", emb.Dimension()).
		Bool("cache", store != nil).
		Msg("Semantic search enabled")
	return nil
}

// WaitSemantic blocks until the semantic index is installed or ctx ends.
// It returns false without waiting when semantic search is off.
func (a *App) WaitSemantic(ctx context.Context) bool {
	if a.Indexer == nil {
		return false
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for !a.Indexer.Ready() {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return true
}

// CacheStatus reports the embedding cache, or nil when there is none
func (a *App) CacheStatus(ctx context.Context) (*storage.CacheStatus, error) {
	if a.storage == nil {
		return nil, nil
	}
	return a.storage.GetStatus(ctx)
}

// Close releases the embedder and the embedding cache
func (a *App) Close() error {
	var errs []error
	if a.embedder != nil {
		errs = append(errs, a.embedder.Close())
	}
	if a.storage != nil {
		errs = append(errs, a.storage.Close())
	}
	return errors.Join(errs...)
}
