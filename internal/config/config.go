// Package config provides configuration loading for skinsearch.
// Supports YAML files and SKINSEARCH_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/baasilali/2m-backend/internal/embedder"
	"github.com/baasilali/2m-backend/internal/formatter"
	"github.com/baasilali/2m-backend/internal/intent"
	"github.com/baasilali/2m-backend/internal/matcher"
	"github.com/baasilali/2m-backend/internal/pricing"
	"github.com/baasilali/2m-backend/internal/searcher"
)

// EnvPrefix starts every environment override
const EnvPrefix = "SKINSEARCH_"

// ProviderAuto picks the embedding provider from the API keys present
const ProviderAuto = "auto"

// Config holds all configuration for skinsearch
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Search   SearchConfig   `yaml:"search"`
	Cache    CacheConfig    `yaml:"cache"`
	Semantic SemanticConfig `yaml:"semantic"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CatalogConfig locates the marketplace snapshot
type CatalogConfig struct {
	Path        string `yaml:"path"`
	Marketplace string `yaml:"marketplace"`
}

// SearchConfig tunes matching and result caps
type SearchConfig struct {
	Limit          int     `yaml:"limit"`
	RangeCap       int     `yaml:"range_cap"`
	ExtremumCap    int     `yaml:"extremum_cap"`
	Alternatives   int     `yaml:"alternatives"`
	FuzzyThreshold int     `yaml:"fuzzy_threshold"`
	MinScore       float64 `yaml:"min_score"`
	SemanticWeight float64 `yaml:"semantic_weight"`
	SemanticK      int     `yaml:"semantic_k"`
	Tolerance      float64 `yaml:"tolerance"`
}

// CacheConfig sizes the response cache
type CacheConfig struct {
	Size int           `yaml:"size"`
	TTL  time.Duration `yaml:"ttl"`
}

// SemanticConfig enables the embedding index
type SemanticConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Provider  string `yaml:"provider"` // local, jina, openai or auto
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
	BaseURL   string `yaml:"base_url"`
	DBPath    string `yaml:"db_path"` // embedding cache, empty disables it
	CacheSize int    `yaml:"cache_size"`
	Workers   int    `yaml:"workers"`
	BatchSize int    `yaml:"batch_size"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// Load reads configuration from a YAML file and applies environment
// overrides. An empty path uses the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}

		cfg.Catalog.Path = ResolveRelativePath(path, cfg.Catalog.Path)
		cfg.Semantic.DBPath = ResolveRelativePath(path, cfg.Semantic.DBPath)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path:        "marketplace_data.json",
			Marketplace: formatter.DefaultMarketplace,
		},
		Search: SearchConfig{
			Limit:          searcher.DefaultLimit,
			RangeCap:       pricing.DefaultRangeCap,
			ExtremumCap:    pricing.DefaultExtremumCap,
			Alternatives:   searcher.DefaultAlternatives,
			FuzzyThreshold: matcher.DefaultFuzzyThreshold,
			MinScore:       matcher.DefaultMinScore,
			SemanticWeight: matcher.DefaultSemanticWeight,
			SemanticK:      matcher.DefaultSemanticK,
			Tolerance:      intent.DefaultTolerance,
		},
		Cache: CacheConfig{
			Size: searcher.DefaultCacheSize,
			TTL:  searcher.DefaultCacheTTL,
		},
		Semantic: SemanticConfig{
			Enabled:   false,
			Provider:  embedder.ProviderLocal,
			DBPath:    defaultDBPath(),
			CacheSize: embedder.DefaultCacheSize,
			BatchSize: embedder.DefaultBatchSize,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// defaultDBPath places the embedding cache under the user's home
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "skinsearch", "embeddings.db")
	}
	return filepath.Join(home, ".skinsearch", "embeddings.db")
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return fmt.Errorf("catalog path is required")
	}

	s := c.Search
	if s.Limit < 1 {
		return fmt.Errorf("limit must be positive: %d", s.Limit)
	}
	if s.RangeCap < 1 || s.ExtremumCap < 1 || s.Alternatives < 1 {
		return fmt.Errorf("range_cap, extremum_cap and alternatives must be positive")
	}
	if s.FuzzyThreshold < 0 || s.FuzzyThreshold > 100 {
		return fmt.Errorf("fuzzy_threshold must be between 0 and 100: %d", s.FuzzyThreshold)
	}
	if s.MinScore < 0 || s.MinScore > 1 {
		return fmt.Errorf("min_score must be between 0 and 1: %g", s.MinScore)
	}
	if s.SemanticWeight < 0 || s.SemanticWeight > 1 {
		return fmt.Errorf("semantic_weight must be between 0 and 1: %g", s.SemanticWeight)
	}
	if s.Tolerance <= 0 || s.Tolerance >= 1 {
		return fmt.Errorf("tolerance must be between 0 and 1: %g", s.Tolerance)
	}

	if c.Cache.Size < 0 {
		return fmt.Errorf("cache size must not be negative: %d", c.Cache.Size)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative: %s", c.Cache.TTL)
	}

	if c.Semantic.Enabled {
		switch c.Semantic.Provider {
		case embedder.ProviderLocal, embedder.ProviderJina, embedder.ProviderOpenAI, ProviderAuto:
		default:
			return fmt.Errorf("invalid embedding provider: %s", c.Semantic.Provider)
		}
		if c.Semantic.Model != "" && c.Semantic.Provider != embedder.ProviderLocal && c.Semantic.Dimension <= 0 {
			return fmt.Errorf("dimension is required with a custom model")
		}
	}

	if f := strings.ToLower(c.Logging.Format); f != "json" && f != "console" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// Engine converts the configuration into engine settings
func (c *Config) Engine() searcher.Config {
	return searcher.Config{
		Limit:        c.Search.Limit,
		RangeCap:     c.Search.RangeCap,
		ExtremumCap:  c.Search.ExtremumCap,
		Alternatives: c.Search.Alternatives,
		Tolerance:    c.Search.Tolerance,
		CacheSize:    c.Cache.Size,
		CacheTTL:     c.Cache.TTL,
		Matcher: matcher.Config{
			FuzzyThreshold: c.Search.FuzzyThreshold,
			SemanticWeight: c.Search.SemanticWeight,
			MinScore:       c.Search.MinScore,
			SemanticK:      c.Search.SemanticK,
		},
		Marketplace: c.Catalog.Marketplace,
	}
}

// Embedder converts the semantic settings into embedder settings
func (c *Config) Embedder() embedder.Config {
	provider := c.Semantic.Provider
	if provider == ProviderAuto {
		provider = embedder.DetectProvider()
	}
	return embedder.Config{
		Provider:  provider,
		BaseURL:   c.Semantic.BaseURL,
		Model:     c.Semantic.Model,
		Dimension: c.Semantic.Dimension,
		CacheSize: c.Semantic.CacheSize,
	}
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) error {
	str := func(name string, dst *string) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	integer := func(name string, dst *int) error {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = n
		}
		return nil
	}

	str("CATALOG", &cfg.Catalog.Path)
	str("MARKETPLACE", &cfg.Catalog.Marketplace)
	str("DB_PATH", &cfg.Semantic.DBPath)
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)

	if v := os.Getenv(embedder.EnvProvider); v != "" {
		cfg.Semantic.Provider = strings.ToLower(v)
	}

	for name, dst := range map[string]*int{
		"LIMIT":      &cfg.Search.Limit,
		"CACHE_SIZE": &cfg.Cache.Size,
	} {
		if err := integer(name, dst); err != nil {
			return err
		}
	}

	if v := os.Getenv(EnvPrefix + "CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sCACHE_TTL: %w", EnvPrefix, err)
		}
		cfg.Cache.TTL = d
	}

	if v := os.Getenv(EnvPrefix + "SEMANTIC"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSEMANTIC: %w", EnvPrefix, err)
		}
		cfg.Semantic.Enabled = enabled
	}

	return nil
}

// ResolveRelativePath resolves a path relative to the config file location
func ResolveRelativePath(configPath, targetPath string) string {
	if targetPath == "" || filepath.IsAbs(targetPath) {
		return targetPath
	}
	configDir := filepath.Dir(configPath)
	return filepath.Join(configDir, targetPath)
}
