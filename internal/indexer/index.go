package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/baasilali/2m-backend/internal/embedder"
	"github.com/baasilali/2m-backend/internal/matcher"
	"github.com/baasilali/2m-backend/internal/storage"
)

// Index is an immutable set of item vectors
type Index struct {
	names       []string
	vectors     [][]float32
	positions   map[string]int
	nameSetHash string
	provider    string
	model       string
	builtAt     time.Time
}

func newIndex(names []string, vectors [][]float32, nameSetHash, provider, model string) *Index {
	positions := make(map[string]int, len(names))
	for i, name := range names {
		positions[name] = i
	}
	return &Index{
		names:       names,
		vectors:     vectors,
		positions:   positions,
		nameSetHash: nameSetHash,
		provider:    provider,
		model:       model,
		builtAt:     time.Now(),
	}
}

// Len returns the number of indexed items
func (i *Index) Len() int { return len(i.names) }

// NameSetHash identifies the catalog name set the index was built from
func (i *Index) NameSetHash() string { return i.nameSetHash }

// Provider returns the embedding provider that produced the vectors
func (i *Index) Provider() string { return i.provider }

// Model returns the embedding model that produced the vectors
func (i *Index) Model() string { return i.model }

// BuiltAt returns when the index was installed
func (i *Index) BuiltAt() time.Time { return i.builtAt }

// Query embeds text and returns a handle for ranking indexed items against
// it. matcher.ErrSemanticUnavailable is returned while no index is ready.
func (idx *Indexer) Query(ctx context.Context, text string) (matcher.SemanticQuery, error) {
	index := idx.current.Load()
	if index == nil || index.Len() == 0 {
		return nil, matcher.ErrSemanticUnavailable
	}

	emb, err := idx.embedder.GenerateEmbedding(ctx, embedder.EmbeddingRequest{
		Text:    text,
		Purpose: embedder.PurposeQuery,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(emb.Vector) != len(index.vectors[0]) {
		return nil, fmt.Errorf("%w: query %d, index %d", embedder.ErrDimensionMismatch, len(emb.Vector), len(index.vectors[0]))
	}

	return &query{index: index, vector: emb.Vector}, nil
}

// query ranks one embedded query against a fixed index snapshot
type query struct {
	index  *Index
	vector []float32
}

func (q *query) Nearest(k int) []matcher.SemanticHit {
	candidates := storage.Nearest(q.vector, q.index.vectors, k)
	hits := make([]matcher.SemanticHit, len(candidates))
	for i, c := range candidates {
		hits[i] = matcher.SemanticHit{
			Name:       q.index.names[c.Position],
			Similarity: storage.SimilarityFromDistance(c.Distance),
		}
	}
	return hits
}

func (q *query) Similarity(name string) (float64, bool) {
	pos, ok := q.index.positions[name]
	if !ok {
		return 0, false
	}
	return storage.SimilarityFromDistance(storage.L2Distance(q.vector, q.index.vectors[pos])), true
}
