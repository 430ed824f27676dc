package embedder

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
)

// Local provider settings
const (
	LocalModel     = "hashed-trigrams-v1"
	LocalDimension = 256

	// whole words count more than the trigrams inside them
	localWordWeight    = 2.0
	localTrigramWeight = 1.0
)

// LocalProvider embeds text offline by hashing word and character trigram
// features into a fixed-size vector. Similar spellings land close together,
// which is enough for typo-tolerant item lookup without a remote model.
type LocalProvider struct {
	cache *Cache
}

// NewLocalProvider creates an offline embedder
func NewLocalProvider(cache *Cache) (*LocalProvider, error) {
	return &LocalProvider{cache: cache}, nil
}

func (l *LocalProvider) GenerateEmbedding(ctx context.Context, req EmbeddingRequest) (*Embedding, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash := ComputeHash(purposeOrDefault(req.Purpose), req.Text)
	if l.cache != nil {
		if emb, ok := l.cache.Get(hash); ok {
			return emb, nil
		}
	}

	emb := &Embedding{
		Vector:    hashFeatures(req.Text),
		Dimension: LocalDimension,
		Provider:  ProviderLocal,
		Model:     LocalModel,
		Hash:      hash,
	}
	if l.cache != nil {
		l.cache.Set(hash, emb)
	}
	return emb, nil
}

func (l *LocalProvider) GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error) {
	if err := ValidateBatchRequest(req); err != nil {
		return nil, err
	}

	embeddings := make([]*Embedding, len(req.Texts))
	for i, text := range req.Texts {
		emb, err := l.GenerateEmbedding(ctx, EmbeddingRequest{Text: text, Purpose: req.Purpose})
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		embeddings[i] = emb
	}

	return &BatchEmbeddingResponse{
		Embeddings: embeddings,
		Provider:   ProviderLocal,
		Model:      LocalModel,
	}, nil
}

func (l *LocalProvider) Dimension() int {
	return LocalDimension
}

func (l *LocalProvider) Provider() string {
	return ProviderLocal
}

func (l *LocalProvider) Model() string {
	return LocalModel
}

func (l *LocalProvider) Close() error {
	return nil
}

// hashFeatures builds a unit-length vector from the words of text and the
// character trigrams of each padded word
func hashFeatures(text string) []float32 {
	v := make([]float32, LocalDimension)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		addFeature(v, "w:"+word, localWordWeight)

		runes := []rune(" " + word + " ")
		for i := 0; i+3 <= len(runes); i++ {
			addFeature(v, "t:"+string(runes[i:i+3]), localTrigramWeight)
		}
	}
	return NormalizeVector(v)
}

// addFeature uses the hash's low bits for the bucket and one high bit for
// the sign so collisions tend to cancel out
func addFeature(v []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	idx := sum % uint64(len(v))
	if sum>>63 == 1 {
		weight = -weight
	}
	v[idx] += weight
}

// NormalizeVector scales v to unit length. Zero vectors are returned as is.
func NormalizeVector(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	if sum == 0 {
		return v
	}

	norm := float32(math.Sqrt(sum))
	result := make([]float32, len(v))
	for i, val := range v {
		result[i] = val / norm
	}
	return result
}
