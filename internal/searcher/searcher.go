package searcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/baasilali/2m-backend/internal/catalog"
	"github.com/baasilali/2m-backend/internal/extractor"
	"github.com/baasilali/2m-backend/internal/formatter"
	"github.com/baasilali/2m-backend/internal/intent"
	"github.com/baasilali/2m-backend/internal/matcher"
	"github.com/baasilali/2m-backend/internal/normalizer"
	"github.com/baasilali/2m-backend/internal/pricing"
	"github.com/baasilali/2m-backend/pkg/types"
)

// Path names the route a query took through the engine
type Path string

const (
	PathPriceRange   Path = "price_range"  // price band filter
	PathExtremum     Path = "extremum"     // cheapest or most expensive
	PathName         Path = "name"         // strategy chain
	PathAlternatives Path = "alternatives" // relaxed constraints after a miss
	PathUnavailable  Path = "unavailable"  // no catalog loaded
)

// Engine defaults
const (
	DefaultLimit           = 10
	DefaultAlternatives    = 3
	DefaultCacheSize       = 1000
	DefaultCacheTTL        = time.Hour
	EmptyQueryMessage      = "Please provide a search query."
	alternativesStrategy   = "alternatives"
	priceRangeStrategyName = "price_range"
	extremumStrategyName   = "extremum"
)

// Config contains configuration for the engine
type Config struct {
	Limit        int // name path result cap
	RangeCap     int // price band result cap
	ExtremumCap  int // cheapest/most expensive result cap
	Alternatives int // alternatives shown after a miss
	Tolerance    float64
	CacheSize    int // 0 disables the result cache
	CacheTTL     time.Duration
	Matcher      matcher.Config
	Marketplace  string
}

// DefaultConfig returns the engine defaults
func DefaultConfig() Config {
	return Config{
		Limit:        DefaultLimit,
		RangeCap:     pricing.DefaultRangeCap,
		ExtremumCap:  pricing.DefaultExtremumCap,
		Alternatives: DefaultAlternatives,
		Tolerance:    intent.DefaultTolerance,
		CacheSize:    DefaultCacheSize,
		CacheTTL:     DefaultCacheTTL,
		Matcher:      matcher.DefaultConfig(),
		Marketplace:  formatter.DefaultMarketplace,
	}
}

// SemanticIndex is the optional embedding index behind the semantic
// strategy
type SemanticIndex interface {
	matcher.SemanticSource
	// BuildAsync rebuilds the index for cat off the request path
	BuildAsync(ctx context.Context, cat *catalog.Catalog)
	// Ready reports whether an index is installed
	Ready() bool
}

// Response contains search results and metadata
type Response struct {
	Query    *types.ParsedQuery
	Matches  []types.Match
	Total    int // matches before the cap
	Capped   bool
	Path     Path
	Strategy string
	CacheHit bool
	Duration time.Duration
}

// Page converts the response into formatter input
func (r *Response) Page() formatter.Page {
	return formatter.Page{
		Query:        r.Query,
		Items:        types.Items(r.Matches),
		Capped:       r.Capped,
		Alternatives: r.Path == PathAlternatives,
		Unavailable:  r.Path == PathUnavailable,
	}
}

// Status describes the engine's live state
type Status struct {
	Items            int
	Version          uint64
	NameSetHash      string
	Source           string
	LoadStats        catalog.LoadStats
	SemanticEnabled  bool
	SemanticReady    bool
	CachedResponses  int
	StrategyPipeline []string
}

// Engine answers free-text catalog queries. It holds no catalog itself:
// every request takes one snapshot from the store.
type Engine struct {
	store      *catalog.Store
	normalizer *normalizer.Normalizer
	parser     *intent.Parser
	extractor  *extractor.Extractor
	chain      *matcher.Chain
	formatter  *formatter.Formatter
	semantic   SemanticIndex
	cache      *resultCache
	config     Config
	logger     zerolog.Logger
}

// New creates an engine over store. semantic may be nil for lexical-only
// matching.
func New(store *catalog.Store, cfg Config, semantic SemanticIndex, logger zerolog.Logger) *Engine {
	def := DefaultConfig()
	if cfg.Limit <= 0 {
		cfg.Limit = def.Limit
	}
	if cfg.RangeCap <= 0 {
		cfg.RangeCap = def.RangeCap
	}
	if cfg.ExtremumCap <= 0 {
		cfg.ExtremumCap = def.ExtremumCap
	}
	if cfg.Alternatives <= 0 {
		cfg.Alternatives = def.Alternatives
	}

	var source matcher.SemanticSource
	if semantic != nil {
		source = semantic
	}

	return &Engine{
		store:      store,
		normalizer: normalizer.New(),
		parser:     intent.New(cfg.Tolerance, logger),
		extractor:  extractor.New(),
		chain:      matcher.NewChain(cfg.Matcher, source, logger),
		formatter:  formatter.New(cfg.Marketplace),
		semantic:   semantic,
		cache:      newResultCache(cfg.CacheSize, cfg.CacheTTL),
		config:     cfg,
		logger:     logger,
	}
}

// Parse turns a raw query into its structured form
func (e *Engine) Parse(query string) *types.ParsedQuery {
	normalized := e.normalizer.Normalize(query)
	return &types.ParsedQuery{
		Raw:          strings.TrimSpace(query),
		Normalized:   normalized,
		Components:   e.extractor.Extract(normalized),
		Intent:       e.parser.Parse(normalized),
		Extremum:     intent.DetectExtremum(normalized),
		PriceKeyword: intent.HasPriceKeyword(normalized),
	}
}

// DetectPriceIntent returns the price intent of query
func (e *Engine) DetectPriceIntent(query string) types.PriceIntent {
	return e.parser.Parse(e.normalizer.Normalize(query))
}

// Search answers query against the current catalog. The only errors are
// types.ErrEmptyQuery and context cancellation.
func (e *Engine) Search(ctx context.Context, query string) (*Response, error) {
	start := time.Now()

	if strings.TrimSpace(query) == "" {
		return nil, types.ErrEmptyQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cat := e.store.Current()
	if cat.IsEmpty() {
		return &Response{
			Query:    e.Parse(query),
			Path:     PathUnavailable,
			Duration: time.Since(start),
		}, nil
	}

	key := cacheKey(query, cat.Version())
	if cached, ok := e.cache.get(key); ok {
		cached.CacheHit = true
		cached.Duration = time.Since(start)
		return cached, nil
	}

	q := e.Parse(query)
	resp, err := e.search(ctx, cat, q)
	if err != nil {
		return nil, err
	}
	resp.Duration = time.Since(start)

	e.logger.Debug().
		Str("query", q.Raw).
		Str("path", string(resp.Path)).
		Str("strategy", resp.Strategy).
		Int("results", len(resp.Matches)).
		Dur("duration", resp.Duration).
		Msg("Search complete")

	e.cache.put(key, resp)
	return resp, nil
}

func (e *Engine) search(ctx context.Context, cat *catalog.Catalog, q *types.ParsedQuery) (*Response, error) {
	if resp := e.searchByPrice(cat, q); resp != nil {
		return resp, nil
	}

	resp, err := e.searchByName(ctx, cat, q)
	if err != nil {
		return nil, err
	}
	if len(resp.Matches) > 0 {
		return resp, nil
	}

	alts, err := e.alternatives(ctx, cat, q)
	if err != nil {
		return nil, err
	}
	if len(alts) > 0 {
		return &Response{
			Query:    q,
			Matches:  alts,
			Total:    len(alts),
			Path:     PathAlternatives,
			Strategy: alternativesStrategy,
		}, nil
	}
	return resp, nil
}

// searchByPrice serves range and extremum requests. It returns nil when
// the query has neither, or when the filtered set is empty, so the name
// path gets a chance.
func (e *Engine) searchByPrice(cat *catalog.Catalog, q *types.ParsedQuery) *Response {
	var (
		items    []types.Item
		limit    int
		path     Path
		strategy string
	)

	switch {
	case q.Intent.IsRange():
		items = pricing.FilterIntent(cat, q.Components, q.Intent)
		limit, path, strategy = e.config.RangeCap, PathPriceRange, priceRangeStrategyName
	case q.Extremum != types.ExtremumNone:
		items = pricing.Extremum(cat, q.Components, q.Extremum)
		limit, path, strategy = e.config.ExtremumCap, PathExtremum, extremumStrategyName
	default:
		return nil
	}

	if len(items) == 0 {
		return nil
	}

	shown, capped := pricing.Cap(items, limit)
	return &Response{
		Query:    q,
		Matches:  types.MatchesFromItems(shown, strategy),
		Total:    len(items),
		Capped:   capped,
		Path:     path,
		Strategy: strategy,
	}
}

// searchByName runs the strategy chain. Queries that mention price get
// every match ordered cheapest first before the limit applies.
func (e *Engine) searchByName(ctx context.Context, cat *catalog.Catalog, q *types.ParsedQuery) (*Response, error) {
	res, err := e.chain.Match(ctx, cat, q)
	if err != nil {
		return nil, fmt.Errorf("match %q: %w", q.Raw, err)
	}

	if q.PriceKeyword {
		sortMatchesByPrice(res.Matches)
	}
	shown, capped := pricing.Cap(res.Matches, e.config.Limit)

	return &Response{
		Query:    q,
		Matches:  shown,
		Total:    len(res.Matches),
		Capped:   capped,
		Path:     PathName,
		Strategy: res.Strategy,
	}, nil
}

// alternatives relaxes a missed query that named a skin plus a trait or
// wear. Relaxations are tried in order and the first non-empty one wins:
// other wears with the same traits, the same wear without traits, then
// neither.
func (e *Engine) alternatives(ctx context.Context, cat *catalog.Catalog, q *types.ParsedQuery) ([]types.Match, error) {
	hasTraits := q.StatTrak || q.Souvenir
	if q.Skin == "" || (!hasTraits && q.Wear == types.WearNone) {
		return nil, nil
	}

	otherWears := q.Components
	otherWears.Wear = types.WearNone

	noTraits := q.Components
	noTraits.StatTrak, noTraits.Souvenir = false, false

	neither := noTraits
	neither.Wear = types.WearNone

	tried := map[types.Components]bool{q.Components: true}
	for _, comps := range []types.Components{otherWears, noTraits, neither} {
		if tried[comps] {
			continue
		}
		tried[comps] = true

		relaxed := *q
		relaxed.Raw = ""
		relaxed.Components = comps

		res, err := e.chain.Match(ctx, cat, &relaxed)
		if err != nil {
			return nil, fmt.Errorf("match alternatives for %q: %w", q.Raw, err)
		}
		if len(res.Matches) == 0 {
			continue
		}

		shown, _ := pricing.Cap(res.Matches, e.config.Alternatives)
		for i := range shown {
			shown[i].Strategy = alternativesStrategy
		}
		return shown, nil
	}
	return nil, nil
}

// sortMatchesByPrice orders matches by ascending known price, unknown
// prices last, keeping relevance order among equals
func sortMatchesByPrice(ms []types.Match) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i].MinPrice, ms[j].MinPrice
		if a.Known() != b.Known() {
			return a.Known()
		}
		return a < b
	})
}

// FormatResults renders matches for query
func (e *Engine) FormatResults(matches []types.Match, query string) string {
	return e.formatter.FormatResults(matches, e.Parse(query))
}

// Format renders a response
func (e *Engine) Format(resp *Response) string {
	return e.formatter.Format(resp.Page())
}

// Answer searches and formats in one step. It never fails: errors are
// rendered as text.
func (e *Engine) Answer(ctx context.Context, query string) string {
	resp, err := e.Search(ctx, query)
	switch {
	case errors.Is(err, types.ErrEmptyQuery):
		return EmptyQueryMessage
	case err != nil:
		e.logger.Warn().Err(err).Str("query", query).Msg("Search failed")
		return fmt.Sprintf("Search failed: %v", err)
	}
	return e.Format(resp)
}

// Reload loads a fresh catalog snapshot, drops cached responses and starts
// a semantic index rebuild. A failed reload keeps the previous catalog.
func (e *Engine) Reload(ctx context.Context) (*Status, error) {
	cat, err := e.store.Reload(ctx)
	if err != nil {
		return nil, err
	}

	e.cache.purge()
	if e.semantic != nil {
		e.semantic.BuildAsync(context.WithoutCancel(ctx), cat)
	}

	e.logger.Info().
		Int("items", cat.Len()).
		Uint64("version", cat.Version()).
		Msg("Catalog reloaded")

	status := e.Status()
	return &status, nil
}

// Status reports the live catalog and index state
func (e *Engine) Status() Status {
	cat := e.store.Current()
	return Status{
		Items:            cat.Len(),
		Version:          cat.Version(),
		NameSetHash:      cat.NameSetHash(),
		Source:           cat.Source(),
		LoadStats:        cat.LoadStats(),
		SemanticEnabled:  e.semantic != nil,
		SemanticReady:    e.semantic != nil && e.semantic.Ready(),
		CachedResponses:  e.cache.len(),
		StrategyPipeline: e.chain.Strategies(),
	}
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.config
}
