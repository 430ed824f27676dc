// Package indexer builds the semantic item index.
//
// Each catalog item is described by its name plus weapon, skin and wear
// (ItemText) and embedded in batches. Batches run concurrently through an
// errgroup bounded by Config.Workers:
//
//	idx := indexer.New(emb, store, indexer.Config{}, logger)
//	stats, err := idx.Build(ctx, cat)
//
// # Embedding Cache
//
// When a storage.Storage is supplied, vectors are saved per provider and
// model together with the catalog's NameSetHash. A later build with the
// same name set loads them instead of calling the embedder. A different
// name set, or a dimension change, triggers a full re-embed.
//
// # Queries
//
// The Indexer implements matcher.SemanticSource. Query embeds the text with
// the query purpose and ranks items by L2 distance, reported as the
// similarity 1/(1+d). The live index is swapped atomically once a build
// finishes, so queries keep using the previous index meanwhile. Builds are
// guarded by a try-lock and a second concurrent build gets
// ErrIndexInProgress.
package indexer
