package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrReloadInProgress is returned when another reload holds the lock
	ErrReloadInProgress = errors.New("catalog reload already in progress")
	// ErrNoSource is returned by Reload on a store without a snapshot path
	ErrNoSource = errors.New("catalog store has no snapshot path")
)

// Store owns the live catalog. Reads take a snapshot pointer; reloads build
// a complete new catalog and swap it in atomically, so a reader never
// observes a half-built catalog.
type Store struct {
	path      string
	current   atomic.Pointer[Catalog]
	reloading atomic.Int32
	logger    zerolog.Logger
}

// NewStore creates a store for the snapshot at path, serving an empty
// catalog until Open or Reload succeeds
func NewStore(path string, logger zerolog.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
	s.current.Store(Empty())
	return s
}

// NewStoreFrom wraps an already built catalog
func NewStoreFrom(c *Catalog, logger zerolog.Logger) *Store {
	s := NewStore(c.Source(), logger)
	s.current.Store(c)
	return s
}

// Open loads the snapshot. On failure the store keeps serving an empty
// catalog, logs a warning and returns the load error.
func (s *Store) Open(ctx context.Context) error {
	if _, err := s.Reload(ctx); err != nil {
		s.current.Store(Empty())
		s.logger.Warn().Err(err).Str("path", s.path).Msg("catalog unavailable, serving empty catalog")
		return err
	}
	return nil
}

// Current returns the live catalog. It is never nil.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Swap installs c and returns the previous catalog
func (s *Store) Swap(c *Catalog) *Catalog {
	if c == nil {
		c = Empty()
	}
	return s.current.Swap(c)
}

// Path returns the snapshot path
func (s *Store) Path() string {
	return s.path
}

// Reload reads the snapshot and swaps it in. A failed reload keeps the
// previous catalog.
func (s *Store) Reload(ctx context.Context) (*Catalog, error) {
	if s.path == "" {
		return nil, ErrNoSource
	}
	if !s.reloading.CompareAndSwap(0, 1) {
		return nil, ErrReloadInProgress
	}
	defer s.reloading.Store(0)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	c, err := LoadFile(s.path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.current.Store(c)

	stats := c.LoadStats()
	s.logger.Info().
		Str("path", s.path).
		Int("items", c.Len()).
		Int("skipped", stats.Skipped).
		Int("duplicates", stats.Duplicates).
		Int("malformed_fields", stats.MalformedFields).
		Uint64("version", c.Version()).
		Dur("duration", time.Since(start)).
		Msg("catalog loaded")
	if stats.Duplicates > 0 {
		s.logger.Warn().Int("duplicates", stats.Duplicates).Msg("duplicate item names in snapshot, later records kept")
	}
	return c, nil
}
