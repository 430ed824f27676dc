package matcher

import (
	"context"
	"strings"

	"github.com/baasilali/2m-backend/internal/catalog"
	"github.com/baasilali/2m-backend/pkg/types"
)

// Strategy names reported on matches
const (
	StrategyExact        = "exact"
	StrategyComponent    = "component"
	StrategyFuzzy        = "fuzzy"
	StrategyCatalogFuzzy = "catalog_fuzzy"
	StrategySemantic     = "semantic"
	StrategyHybrid       = "hybrid"
)

// DefaultFuzzyThreshold is the minimum 0-100 similarity a lexical match needs
const DefaultFuzzyThreshold = 75

// Strategy selects matching items from a catalog snapshot
type Strategy interface {
	Name() string
	Match(ctx context.Context, cat *catalog.Catalog, q *types.ParsedQuery) ([]types.Match, error)
}

// ExactStrategy matches the raw query against item names case-insensitively
type ExactStrategy struct{}

func (ExactStrategy) Name() string { return StrategyExact }

func (ExactStrategy) Match(_ context.Context, cat *catalog.Catalog, q *types.ParsedQuery) ([]types.Match, error) {
	return types.MatchesFromItems(cat.LookupExact(q.Raw), StrategyExact), nil
}

// ComponentStrategy requires every extracted component to agree with the
// item: weapon, traits, wear and the skin fragment as a substring of the
// name
type ComponentStrategy struct{}

func (ComponentStrategy) Name() string { return StrategyComponent }

func (ComponentStrategy) Match(ctx context.Context, cat *catalog.Catalog, q *types.ParsedQuery) ([]types.Match, error) {
	if q.Components.Empty() {
		return nil, nil
	}

	var out []types.Item
	for _, it := range pool(cat, q.Components) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if q.Skin != "" && !strings.Contains(nameKey(it.Name), q.Skin) {
			continue
		}
		out = append(out, it)
	}
	return types.MatchesFromItems(out, StrategyComponent), nil
}

// FuzzyStrategy scores the skin fragment against the skin names of items
// of the requested weapon
type FuzzyStrategy struct {
	Threshold int
}

func (FuzzyStrategy) Name() string { return StrategyFuzzy }

func (s FuzzyStrategy) Match(ctx context.Context, cat *catalog.Catalog, q *types.ParsedQuery) ([]types.Match, error) {
	if q.Weapon == types.WeaponNone || q.Skin == "" {
		return nil, nil
	}

	var out []types.Match
	for _, it := range pool(cat, q.Components) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score := Similarity(q.Skin, it.SkinName)
		if score < threshold(s.Threshold) {
			continue
		}
		out = append(out, lexicalMatch(it, score, StrategyFuzzy))
	}
	return out, nil
}

// CatalogFuzzyStrategy scores queries without a weapon against every item
// that satisfies the trait and wear filters
type CatalogFuzzyStrategy struct {
	Threshold int
}

func (CatalogFuzzyStrategy) Name() string { return StrategyCatalogFuzzy }

func (s CatalogFuzzyStrategy) Match(ctx context.Context, cat *catalog.Catalog, q *types.ParsedQuery) ([]types.Match, error) {
	if q.Weapon != types.WeaponNone || q.Skin == "" {
		return nil, nil
	}

	var out []types.Match
	for _, it := range pool(cat, q.Components) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score := lexicalScore(q, it)
		if score < threshold(s.Threshold) {
			continue
		}
		out = append(out, lexicalMatch(it, score, StrategyCatalogFuzzy))
	}
	return out, nil
}

// lexicalScore is the best similarity between the query remainder and an
// item's skin name or full name
func lexicalScore(q *types.ParsedQuery, it types.Item) int {
	if q.Skin == "" {
		return 0
	}
	best := Similarity(q.Skin, it.SkinName)
	if it.SkinName == "" || q.Weapon == types.WeaponNone {
		remainder := q.Skin
		if q.Wear != types.WearNone {
			remainder += " " + strings.ToLower(string(q.Wear))
		}
		if s := Similarity(remainder, nameKey(it.Name)); s > best {
			best = s
		}
	}
	return best
}

// pool returns the items of the requested weapon that satisfy the trait
// and wear filters, in catalog order
func pool(cat *catalog.Catalog, c types.Components) []types.Item {
	var items []types.Item
	if c.Weapon != types.WeaponNone {
		items = cat.ItemsForWeapon(c.Weapon)
	} else {
		items = cat.Items()
	}

	out := items[:0:0]
	for _, it := range items {
		if c.Accepts(it) {
			out = append(out, it)
		}
	}
	return out
}

func lexicalMatch(it types.Item, score int, strategy string) types.Match {
	lex := float64(score) / 100
	return types.Match{Item: it, Score: lex, Lexical: lex, Strategy: strategy}
}

func threshold(t int) int {
	if t <= 0 {
		return DefaultFuzzyThreshold
	}
	return t
}
