package storage

import (
	"context"
	"time"
)

// Storage persists item embeddings between runs so the semantic index does
// not have to be recomputed for an unchanged catalog
type Storage interface {
	// SaveEmbeddingSet stores vectors for one provider and model,
	// replacing any set previously saved for the same pair
	SaveEmbeddingSet(ctx context.Context, set *EmbeddingSet, vectors []ItemVector) error

	// LoadEmbeddingSet returns the set for a provider and model with its
	// vectors in position order, or ErrNotFound
	LoadEmbeddingSet(ctx context.Context, provider, model string) (*EmbeddingSet, []ItemVector, error)

	// ListEmbeddingSets returns every stored set without vectors
	ListEmbeddingSets(ctx context.Context) ([]*EmbeddingSet, error)

	// DeleteEmbeddingSet removes a set and its vectors
	DeleteEmbeddingSet(ctx context.Context, id int64) error

	// GetStatus reports cache statistics
	GetStatus(ctx context.Context) (*CacheStatus, error)

	Close() error
}

// EmbeddingSet describes the vectors computed for one catalog name set
type EmbeddingSet struct {
	ID          int64
	NameSetHash string // order-independent hash of the item names
	ItemCount   int
	Provider    string
	Model       string
	Dimension   int
	CreatedAt   time.Time
}

// ItemVector is the embedding of one catalog item
type ItemVector struct {
	Position int
	ItemName string
	Vector   []float32
}

// CacheStatus contains statistics about the embedding cache
type CacheStatus struct {
	SchemaVersion string
	Sets          int
	Vectors       int
	SizeBytes     int64
	BuildMode     string
	DriverName    string
}
