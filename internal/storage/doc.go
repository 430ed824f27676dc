// Package storage caches item embeddings in SQLite.
//
// Computing embeddings for a whole catalog is the slowest part of startup,
// so the vectors are stored per provider and model together with a hash of
// the catalog's name set. On the next start the indexer reuses a stored set
// when the hash still matches and re-embeds otherwise.
//
// # Database Schema
//
// Tables:
//   - schema_version: applied migrations
//   - embedding_sets: one row per provider and model
//   - item_embeddings: little-endian float32 blobs keyed by set and position
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage(ctx, "~/.skinsearch/embeddings.db")
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	set, vectors, err := db.LoadEmbeddingSet(ctx, "local", "hashed-trigrams-v1")
//	if errors.Is(err, storage.ErrNotFound) {
//	    // embed and SaveEmbeddingSet
//	}
//
// # Build Tags
//
// The default build uses modernc.org/sqlite and needs no C compiler. The
// sqlite_vec tag switches to github.com/mattn/go-sqlite3 (CGO).
//
// Nearest-neighbour search runs in Go over the loaded vectors; see Nearest.
package storage
