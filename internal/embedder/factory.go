package embedder

import (
	"fmt"
	"os"
	"strings"
)

// EnvProvider selects the embedding provider when no config file does
const EnvProvider = "SKINSEARCH_EMBEDDING_PROVIDER"

// Config holds embedder configuration
type Config struct {
	Provider  string // jina, openai or local
	APIKey    string // Falls back to the provider's key variable
	BaseURL   string // Overrides the provider's endpoint URL
	Model     string // Overrides the provider's default model
	Dimension int    // Required with Model for remote providers
	CacheSize int    // 0 disables the in-memory cache
}

// New creates an embedder with explicit configuration
func New(cfg Config) (Embedder, error) {
	var cache *Cache
	if cfg.CacheSize > 0 {
		cache = NewCache(cfg.CacheSize)
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" || provider == ProviderLocal {
		return NewLocalProvider(cache)
	}

	ep, ok := Endpoints[provider]
	if !ok {
		return nil, fmt.Errorf("%w: unknown provider %s", ErrUnsupportedModel, cfg.Provider)
	}
	if cfg.BaseURL != "" {
		ep.URL = cfg.BaseURL
	}
	if cfg.Model != "" {
		ep.Model = cfg.Model
		ep.Dimension = cfg.Dimension
	}
	return NewHTTPProvider(ep, cfg.APIKey, cache)
}

// NewFromEnv creates an embedder from the environment:
//  1. SKINSEARCH_EMBEDDING_PROVIDER names the provider
//  2. otherwise JINA_API_KEY, then OPENAI_API_KEY selects a remote provider
//  3. otherwise the local provider is used
func NewFromEnv() (Embedder, error) {
	return New(Config{Provider: DetectProvider(), CacheSize: DefaultCacheSize})
}

// DetectProvider returns the provider NewFromEnv would use
func DetectProvider() string {
	if provider := os.Getenv(EnvProvider); provider != "" {
		return strings.ToLower(provider)
	}
	if os.Getenv(EnvJinaAPIKey) != "" {
		return ProviderJina
	}
	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return ProviderOpenAI
	}
	return ProviderLocal
}
