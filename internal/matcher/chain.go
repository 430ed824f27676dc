package matcher

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"github.com/baasilali/2m-backend/internal/catalog"
	"github.com/baasilali/2m-backend/pkg/types"
)

// ErrSemanticUnavailable is returned by semantic sources with no index
var ErrSemanticUnavailable = errors.New("semantic index unavailable")

// Defaults for the blend stage
const (
	DefaultSemanticWeight = 0.7
	DefaultMinScore       = 0.5
	DefaultSemanticK      = 20
)

// Config tunes the chain
type Config struct {
	FuzzyThreshold int     // 0-100, lexical acceptance
	SemanticWeight float64 // weight of the semantic score in the blend
	MinScore       float64 // minimum blended score when semantic is on
	SemanticK      int     // neighbours requested from the semantic source
}

// DefaultConfig returns the chain defaults
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold: DefaultFuzzyThreshold,
		SemanticWeight: DefaultSemanticWeight,
		MinScore:       DefaultMinScore,
		SemanticK:      DefaultSemanticK,
	}
}

// Result is the outcome of one chain run
type Result struct {
	Matches  []types.Match
	Strategy string // strategy that produced the matches, "" when none did
}

// Chain runs the exact and component strategies in order and stops at the
// first that matches. Otherwise the fuzzy strategies and the optional
// semantic source are blended into one ranked list.
type Chain struct {
	config   Config
	exact    []Strategy
	lexical  []Strategy
	semantic *SemanticStrategy
	logger   zerolog.Logger
}

// NewChain creates a chain. semantic may be nil.
func NewChain(cfg Config, semantic SemanticSource, logger zerolog.Logger) *Chain {
	def := DefaultConfig()
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = def.FuzzyThreshold
	}
	if cfg.SemanticWeight <= 0 || cfg.SemanticWeight > 1 {
		cfg.SemanticWeight = def.SemanticWeight
	}
	if cfg.MinScore <= 0 {
		cfg.MinScore = def.MinScore
	}
	if cfg.SemanticK <= 0 {
		cfg.SemanticK = def.SemanticK
	}

	var sem *SemanticStrategy
	if semantic != nil {
		sem = &SemanticStrategy{Source: semantic, K: cfg.SemanticK}
	}

	return &Chain{
		config: cfg,
		exact:  []Strategy{ExactStrategy{}, ComponentStrategy{}},
		lexical: []Strategy{
			FuzzyStrategy{Threshold: cfg.FuzzyThreshold},
			CatalogFuzzyStrategy{Threshold: cfg.FuzzyThreshold},
		},
		semantic: sem,
		logger:   logger,
	}
}

// Strategies lists the strategy names in the order they run
func (c *Chain) Strategies() []string {
	names := make([]string, 0, len(c.exact)+len(c.lexical)+1)
	for _, s := range c.exact {
		names = append(names, s.Name())
	}
	for _, s := range c.lexical {
		names = append(names, s.Name())
	}
	if c.semantic != nil {
		names = append(names, StrategySemantic)
	}
	return names
}

// Match runs the chain against one catalog snapshot
func (c *Chain) Match(ctx context.Context, cat *catalog.Catalog, q *types.ParsedQuery) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	for _, s := range c.exact {
		matches, err := s.Match(ctx, cat, q)
		if err != nil {
			return Result{}, err
		}
		if len(matches) > 0 {
			return Result{Matches: matches, Strategy: s.Name()}, nil
		}
	}

	candidates := make(map[string]*types.Match)
	var order []string
	add := func(m types.Match) {
		if prev, ok := candidates[m.Name]; ok {
			if m.Lexical > prev.Lexical {
				prev.Lexical = m.Lexical
			}
			if m.Semantic > prev.Semantic {
				prev.Semantic = m.Semantic
			}
			return
		}
		candidates[m.Name] = &m
		order = append(order, m.Name)
	}

	strategy := ""
	for _, s := range c.lexical {
		matches, err := s.Match(ctx, cat, q)
		if err != nil {
			return Result{}, err
		}
		if len(matches) > 0 && strategy == "" {
			strategy = s.Name()
		}
		for _, m := range matches {
			add(m)
		}
	}

	sq, hits := c.querySemantic(ctx, cat, q)
	fromSemantic := make(map[string]bool, len(hits))
	for _, m := range hits {
		fromSemantic[m.Name] = true
		add(m)
	}

	out := make([]types.Match, 0, len(order))
	for _, name := range order {
		m := candidates[name]
		if sq == nil {
			m.Score = m.Lexical
			out = append(out, *m)
			continue
		}

		if !fromSemantic[name] {
			if sim, ok := sq.Similarity(name); ok {
				m.Semantic = sim
			}
		}
		m.Score = c.config.SemanticWeight*m.Semantic + (1-c.config.SemanticWeight)*m.Lexical
		if m.Score < c.config.MinScore {
			continue
		}
		if m.Strategy != StrategySemantic || m.Lexical > 0 {
			m.Strategy = StrategyHybrid
		}
		out = append(out, *m)
	}

	sortMatches(out)
	if len(out) == 0 {
		return Result{}, nil
	}
	if sq != nil {
		strategy = StrategyHybrid
	}
	return Result{Matches: out, Strategy: strategy}, nil
}

// querySemantic embeds the query. Failures are logged and disable the
// semantic half of the blend for this request.
func (c *Chain) querySemantic(ctx context.Context, cat *catalog.Catalog, q *types.ParsedQuery) (SemanticQuery, []types.Match) {
	if c.semantic == nil {
		return nil, nil
	}
	sq, hits, err := c.semantic.search(ctx, cat, q)
	if err != nil {
		if !errors.Is(err, ErrSemanticUnavailable) {
			c.logger.Warn().Err(err).Str("query", q.Normalized).Msg("Semantic search failed, using lexical results only")
		}
		return nil, nil
	}
	return sq, hits
}

// sortMatches orders by score descending, then catalog position
func sortMatches(ms []types.Match) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Score != ms[j].Score {
			return ms[i].Score > ms[j].Score
		}
		return ms[i].Position < ms[j].Position
	})
}
