package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skinsearch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Search.Limit)
	assert.Equal(t, 15, cfg.Search.RangeCap)
	assert.Equal(t, 25, cfg.Search.ExtremumCap)
	assert.Equal(t, 75, cfg.Search.FuzzyThreshold)
	assert.Equal(t, 0.5, cfg.Search.MinScore)
	assert.Equal(t, 0.7, cfg.Search.SemanticWeight)
	assert.Equal(t, 0.10, cfg.Search.Tolerance)
	assert.Equal(t, 1000, cfg.Cache.Size)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.False(t, cfg.Semantic.Enabled)
	assert.Equal(t, "local", cfg.Semantic.Provider)
	assert.Equal(t, "Skinport", cfg.Catalog.Marketplace)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
catalog:
  path: data/marketplace.json
search:
  limit: 5
  tolerance: 0.2
cache:
  ttl: 10m
semantic:
  enabled: true
  provider: jina
  db_path: /var/lib/skinsearch/embeddings.db
logging:
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "data/marketplace.json"), cfg.Catalog.Path)
	assert.Equal(t, 5, cfg.Search.Limit)
	assert.Equal(t, 0.2, cfg.Search.Tolerance)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.Semantic.Enabled)
	assert.Equal(t, "jina", cfg.Semantic.Provider)
	assert.Equal(t, "/var/lib/skinsearch/embeddings.db", cfg.Semantic.DBPath)
	assert.Equal(t, 15, cfg.Search.RangeCap, "unset fields keep defaults")

	engine := cfg.Engine()
	assert.Equal(t, 5, engine.Limit)
	assert.Equal(t, 75, engine.Matcher.FuzzyThreshold)
	assert.Equal(t, "jina", cfg.Embedder().Provider)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SKINSEARCH_CATALOG", "/data/snapshot.json")
	t.Setenv("SKINSEARCH_LIMIT", "3")
	t.Setenv("SKINSEARCH_SEMANTIC", "true")
	t.Setenv("SKINSEARCH_EMBEDDING_PROVIDER", "OpenAI")
	t.Setenv("SKINSEARCH_CACHE_TTL", "30s")
	t.Setenv("SKINSEARCH_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/data/snapshot.json", cfg.Catalog.Path)
	assert.Equal(t, 3, cfg.Search.Limit)
	assert.True(t, cfg.Semantic.Enabled)
	assert.Equal(t, "openai", cfg.Semantic.Provider)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEmbedder_AutoProvider(t *testing.T) {
	t.Setenv("SKINSEARCH_EMBEDDING_PROVIDER", "")
	t.Setenv("JINA_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := DefaultConfig()
	cfg.Semantic.Enabled = true
	cfg.Semantic.Provider = ProviderAuto
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "openai", cfg.Embedder().Provider)

	t.Setenv("OPENAI_API_KEY", "")
	assert.Equal(t, "local", cfg.Embedder().Provider)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "search: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("bad env integer", func(t *testing.T) {
		t.Setenv("SKINSEARCH_LIMIT", "ten")
		_, err := Load("")
		assert.ErrorContains(t, err, "SKINSEARCH_LIMIT")
	})

	t.Run("bad env bool", func(t *testing.T) {
		t.Setenv("SKINSEARCH_SEMANTIC", "maybe")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty catalog path", func(c *Config) { c.Catalog.Path = " " }},
		{"zero limit", func(c *Config) { c.Search.Limit = 0 }},
		{"zero range cap", func(c *Config) { c.Search.RangeCap = 0 }},
		{"fuzzy threshold", func(c *Config) { c.Search.FuzzyThreshold = 101 }},
		{"min score", func(c *Config) { c.Search.MinScore = 1.5 }},
		{"semantic weight", func(c *Config) { c.Search.SemanticWeight = -0.1 }},
		{"tolerance", func(c *Config) { c.Search.Tolerance = 1 }},
		{"negative cache", func(c *Config) { c.Cache.Size = -1 }},
		{"unknown provider", func(c *Config) {
			c.Semantic.Enabled = true
			c.Semantic.Provider = "cohere"
		}},
		{"custom model without dimension", func(c *Config) {
			c.Semantic.Enabled = true
			c.Semantic.Provider = "openai"
			c.Semantic.Model = "text-embedding-3-large"
		}},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}

func TestResolveRelativePath(t *testing.T) {
	assert.Equal(t, "/etc/skinsearch/data.json", ResolveRelativePath("/etc/skinsearch/config.yaml", "data.json"))
	assert.Equal(t, "/abs/data.json", ResolveRelativePath("/etc/skinsearch/config.yaml", "/abs/data.json"))
	assert.Equal(t, "", ResolveRelativePath("/etc/skinsearch/config.yaml", ""))
}
