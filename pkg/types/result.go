package types

// Match is a catalog item selected by a strategy, with its relevance
type Match struct {
	Item
	Score    float64 // Combined relevance in [0, 1]
	Lexical  float64 // Edit-distance similarity in [0, 1]
	Semantic float64 // Embedding similarity in [0, 1], 0 when unused
	Strategy string
}

// Validate checks if the match is valid
func (m *Match) Validate() error {
	if err := m.Item.Validate(); err != nil {
		return err
	}
	if m.Score < 0 || m.Score > 1 {
		return ErrInvalidRelevanceScore
	}
	if m.Strategy == "" {
		return ErrMissingStrategy
	}
	return nil
}

// MatchesFromItems wraps items as full-score matches of one strategy
func MatchesFromItems(items []Item, strategy string) []Match {
	out := make([]Match, len(items))
	for i, it := range items {
		out[i] = Match{Item: it, Score: 1, Lexical: 1, Strategy: strategy}
	}
	return out
}

// Items strips the scoring from a match list
func Items(matches []Match) []Item {
	out := make([]Item, len(matches))
	for i, m := range matches {
		out[i] = m.Item
	}
	return out
}
