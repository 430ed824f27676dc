package matcher

import (
	"context"

	"github.com/baasilali/2m-backend/internal/catalog"
	"github.com/baasilali/2m-backend/pkg/types"
)

// SemanticHit is one nearest neighbour of a query embedding
type SemanticHit struct {
	Name       string
	Similarity float64 // 1/(1+d) for L2 distance d
}

// SemanticQuery is an embedded query ready to be compared against the index
type SemanticQuery interface {
	// Nearest returns up to k hits, most similar first
	Nearest(k int) []SemanticHit
	// Similarity scores one item by name. ok is false when the item is not
	// indexed.
	Similarity(name string) (float64, bool)
}

// SemanticSource embeds queries against an item index. Implementations
// report ErrSemanticUnavailable while no index is ready.
type SemanticSource interface {
	Query(ctx context.Context, text string) (SemanticQuery, error)
}

// SemanticStrategy returns the nearest neighbours of the query that exist
// in the catalog and satisfy the extracted filters. The chain blends these
// hits with the lexical stages instead of running this strategy directly.
type SemanticStrategy struct {
	Source SemanticSource
	K      int
}

func (SemanticStrategy) Name() string { return StrategySemantic }

// Match returns the semantic hits alone, scored by similarity
func (s SemanticStrategy) Match(ctx context.Context, cat *catalog.Catalog, q *types.ParsedQuery) ([]types.Match, error) {
	_, matches, err := s.search(ctx, cat, q)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		matches[i].Score = matches[i].Semantic
	}
	return matches, nil
}

// search embeds the normalized query and keeps the neighbours present in
// cat that satisfy the extracted filters. Hits for names missing from the
// snapshot come from a stale index and are dropped.
func (s SemanticStrategy) search(ctx context.Context, cat *catalog.Catalog, q *types.ParsedQuery) (SemanticQuery, []types.Match, error) {
	if s.Source == nil || q.Normalized == "" {
		return nil, nil, ErrSemanticUnavailable
	}
	sq, err := s.Source.Query(ctx, q.Normalized)
	if err != nil {
		return nil, nil, err
	}

	k := s.K
	if k <= 0 {
		k = DefaultSemanticK
	}

	var out []types.Match
	for _, hit := range sq.Nearest(k) {
		it, ok := cat.Get(hit.Name)
		if !ok || !q.Components.Accepts(it) {
			continue
		}
		out = append(out, types.Match{
			Item:     it,
			Lexical:  float64(lexicalScore(q, it)) / 100,
			Semantic: hit.Similarity,
			Strategy: StrategySemantic,
		})
	}
	return sq, out, nil
}
