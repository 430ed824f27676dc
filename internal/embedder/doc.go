// Package embedder turns catalog item descriptions and search queries into
// vectors for semantic matching.
//
// Two kinds of provider are available. HTTPProvider talks to any
// OpenAI-compatible embeddings endpoint (Jina AI and OpenAI are built in)
// with batching, retry with exponential backoff and an LRU cache in front.
// LocalProvider needs no network: it hashes word and character trigram
// features into a 256-dimension unit vector.
//
//	emb, err := embedder.New(embedder.Config{Provider: "local", CacheSize: 1000})
//	if err != nil {
//	    return err
//	}
//	defer emb.Close()
//
//	resp, err := emb.GenerateBatch(ctx, embedder.BatchEmbeddingRequest{
//	    Texts:   []string{"AK-47 | Redline (Field-Tested) AK-47 Redline"},
//	    Purpose: embedder.PurposeDocument,
//	})
//
// # Provider Selection
//
// NewFromEnv picks a provider from the environment:
//
//  1. SKINSEARCH_EMBEDDING_PROVIDER if set
//  2. jina when JINA_API_KEY is set
//  3. openai when OPENAI_API_KEY is set
//  4. local otherwise
//
// # Errors
//
// Remote failures are wrapped in ErrProviderFailed. Client errors other
// than 429 are not retried. Callers in this module treat any embedder
// error as "semantic search unavailable" and carry on lexically.
package embedder
