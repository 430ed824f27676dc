package indexer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/baasilali/2m-backend/internal/catalog"
	"github.com/baasilali/2m-backend/internal/embedder"
	"github.com/baasilali/2m-backend/internal/normalizer"
	"github.com/baasilali/2m-backend/internal/storage"
	"github.com/baasilali/2m-backend/pkg/types"
)

// ErrIndexInProgress is returned when a build is already running
var ErrIndexInProgress = errors.New("index build already in progress")

// Config contains configuration for the indexer
type Config struct {
	Workers   int // concurrent embedding batches (default: runtime.NumCPU())
	BatchSize int // texts per embedding call (default: embedder.DefaultBatchSize)
}

// Statistics describes one index build
type Statistics struct {
	Items    int
	Batches  int
	Reused   bool // vectors came from the embedding cache
	Saved    bool // vectors were written to the embedding cache
	Duration time.Duration
}

// Indexer embeds catalog items and serves nearest-neighbour queries over
// the result. The live index sits behind an atomic pointer so builds never
// block queries.
type Indexer struct {
	embedder embedder.Embedder
	storage  storage.Storage // optional
	config   Config
	logger   zerolog.Logger

	current atomic.Pointer[Index]
	pending atomic.Pointer[buildRequest] // latest catalog waiting for the lock
	lock    IndexLock
}

// buildRequest is a queued BuildAsync call
type buildRequest struct {
	ctx context.Context
	cat *catalog.Catalog
}

// New creates an indexer. store may be nil, in which case every build
// embeds the whole catalog.
func New(emb embedder.Embedder, store storage.Storage, cfg Config, logger zerolog.Logger) *Indexer {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = embedder.DefaultBatchSize
	}
	if cfg.BatchSize > embedder.MaxBatchSize {
		cfg.BatchSize = embedder.MaxBatchSize
	}
	return &Indexer{
		embedder: emb,
		storage:  store,
		config:   cfg,
		logger:   logger,
	}
}

// Current returns the live index, or nil before the first build
func (idx *Indexer) Current() *Index {
	return idx.current.Load()
}

// Ready reports whether an index has been installed
func (idx *Indexer) Ready() bool {
	return idx.current.Load() != nil
}

// Building reports whether a build is running
func (idx *Indexer) Building() bool {
	return idx.lock.Held()
}

// Build indexes cat and installs the result. Stored vectors are reused
// when the cache holds a set for the same provider, model and name set.
func (idx *Indexer) Build(ctx context.Context, cat *catalog.Catalog) (*Statistics, error) {
	if !idx.lock.TryAcquire() {
		return nil, ErrIndexInProgress
	}
	stats, err := idx.build(ctx, cat)
	idx.lock.Release()

	if idx.pending.Load() != nil {
		go idx.drain()
	}
	return stats, err
}

// build does the work of Build. The caller holds the lock.
func (idx *Indexer) build(ctx context.Context, cat *catalog.Catalog) (*Statistics, error) {
	start := time.Now()
	stats := &Statistics{Items: cat.Len()}

	index, ok := idx.loadCached(ctx, cat)
	if ok {
		stats.Reused = true
	} else {
		var err error
		index, stats.Batches, err = idx.embedCatalog(ctx, cat)
		if err != nil {
			return nil, err
		}
		stats.Saved = idx.saveCached(ctx, index)
	}

	idx.current.Store(index)
	stats.Duration = time.Since(start)

	idx.logger.Info().
		Int("items", stats.Items).
		Bool("reused", stats.Reused).
		Int("batches", stats.Batches).
		Dur("duration", stats.Duration).
		Msg("Semantic index ready")
	return stats, nil
}

// BuildAsync runs a build of cat in the background. When a build is already
// running, cat is queued and built as soon as that one finishes. Only the
// most recent queued catalog is kept.
func (idx *Indexer) BuildAsync(ctx context.Context, cat *catalog.Catalog) {
	idx.pending.Store(&buildRequest{ctx: ctx, cat: cat})
	go idx.drain()
}

// drain builds queued catalogs until none is left. A goroutine that cannot
// take the lock leaves the queue to the current holder, which checks it
// again after releasing.
func (idx *Indexer) drain() {
	for idx.pending.Load() != nil {
		if !idx.lock.TryAcquire() {
			idx.logger.Debug().Msg("Index build already running, queued")
			return
		}

		req := idx.pending.Swap(nil)
		if req != nil {
			if _, err := idx.build(req.ctx, req.cat); err != nil {
				idx.logger.Warn().Err(err).Msg("Semantic index build failed")
			}
		}
		idx.lock.Release()
	}
}

// loadCached returns the stored index for cat when it is still valid
func (idx *Indexer) loadCached(ctx context.Context, cat *catalog.Catalog) (*Index, bool) {
	if idx.storage == nil {
		return nil, false
	}

	set, vectors, err := idx.storage.LoadEmbeddingSet(ctx, idx.embedder.Provider(), idx.embedder.Model())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		idx.logger.Warn().Err(err).Msg("Failed to read embedding cache")
		return nil, false
	}

	if set.NameSetHash != cat.NameSetHash() || set.Dimension != idx.embedder.Dimension() {
		idx.logger.Debug().
			Str("cached", set.NameSetHash).
			Str("catalog", cat.NameSetHash()).
			Msg("Embedding cache is stale")
		return nil, false
	}

	names := make([]string, len(vectors))
	vecs := make([][]float32, len(vectors))
	for i, v := range vectors {
		names[i] = v.ItemName
		vecs[i] = v.Vector
	}
	return newIndex(names, vecs, set.NameSetHash, set.Provider, set.Model), true
}

// saveCached persists index, logging failures
func (idx *Indexer) saveCached(ctx context.Context, index *Index) bool {
	if idx.storage == nil || index.Len() == 0 {
		return false
	}

	set := &storage.EmbeddingSet{
		NameSetHash: index.nameSetHash,
		ItemCount:   index.Len(),
		Provider:    index.provider,
		Model:       index.model,
		Dimension:   idx.embedder.Dimension(),
	}
	vectors := make([]storage.ItemVector, index.Len())
	for i, name := range index.names {
		vectors[i] = storage.ItemVector{Position: i, ItemName: name, Vector: index.vectors[i]}
	}

	if err := idx.storage.SaveEmbeddingSet(ctx, set, vectors); err != nil {
		idx.logger.Warn().Err(err).Msg("Failed to write embedding cache")
		return false
	}
	return true
}

// embedCatalog embeds every item in batches, running up to Workers batches
// concurrently
func (idx *Indexer) embedCatalog(ctx context.Context, cat *catalog.Catalog) (*Index, int, error) {
	items := cat.Items()
	names := make([]string, len(items))
	texts := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
		texts[i] = ItemText(it)
	}

	vectors := make([][]float32, len(items))
	size := idx.config.BatchSize
	batches := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.config.Workers)

	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		batches++

		g.Go(func() error {
			resp, err := idx.embedder.GenerateBatch(gctx, embedder.BatchEmbeddingRequest{
				Texts:   texts[start:end],
				Purpose: embedder.PurposeDocument,
			})
			if err != nil {
				return fmt.Errorf("embedding items %d-%d: %w", start, end-1, err)
			}
			if len(resp.Embeddings) != end-start {
				return fmt.Errorf("%w: got %d embeddings for %d items", embedder.ErrProviderFailed, len(resp.Embeddings), end-start)
			}
			for i, emb := range resp.Embeddings {
				vectors[start+i] = emb.Vector
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, batches, err
	}

	return newIndex(names, vectors, cat.NameSetHash(), idx.embedder.Provider(), idx.embedder.Model()), batches, nil
}

// ItemText is the description embedded for an item: its name followed by
// weapon, skin and wear in both long and short form
func ItemText(it types.Item) string {
	parts := []string{it.Name}
	if it.WeaponType != types.WeaponOther {
		parts = append(parts, string(it.WeaponType))
	}
	parts = append(parts, it.SkinName, string(it.Wear), it.Wear.Abbrev())
	return strings.Join(normalizer.Tokenize(strings.Join(parts, " ")), " ")
}
