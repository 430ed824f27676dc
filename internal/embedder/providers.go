package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Provider configuration
const (
	ProviderJina   = "jina"
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"

	// Batch limits
	DefaultBatchSize = 50
	MaxBatchSize     = 100

	// Retry configuration
	MaxRetries        = 3
	InitialBackoffMs  = 100
	MaxBackoffMs      = 5000
	BackoffMultiplier = 2.0

	DefaultHTTPTimeout = 30 * time.Second
)

// Environment variables holding API keys
const (
	EnvJinaAPIKey   = "JINA_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// Endpoint describes an OpenAI-compatible embeddings API
type Endpoint struct {
	Name      string
	URL       string
	Model     string
	Dimension int
	KeyEnv    string
	// Tasks maps a purpose to the provider's task parameter. Nil when the
	// API has no notion of query and document sides.
	Tasks map[Purpose]string
}

// Endpoints are the built-in remote providers
var Endpoints = map[string]Endpoint{
	ProviderJina: {
		Name:      ProviderJina,
		URL:       "https://api.jina.ai/v1/embeddings",
		Model:     "jina-embeddings-v3",
		Dimension: 1024,
		KeyEnv:    EnvJinaAPIKey,
		Tasks: map[Purpose]string{
			PurposeQuery:    "retrieval.query",
			PurposeDocument: "retrieval.passage",
		},
	},
	ProviderOpenAI: {
		Name:      ProviderOpenAI,
		URL:       "https://api.openai.com/v1/embeddings",
		Model:     "text-embedding-3-small",
		Dimension: 1536,
		KeyEnv:    EnvOpenAIAPIKey,
	},
}

// HTTPProvider implements Embedder against an OpenAI-compatible endpoint
type HTTPProvider struct {
	endpoint   Endpoint
	apiKey     string
	httpClient *http.Client
	cache      *Cache
	retry      RetryConfig
}

// NewHTTPProvider creates a remote embedder. An empty apiKey is read from
// the endpoint's environment variable.
func NewHTTPProvider(ep Endpoint, apiKey string, cache *Cache) (*HTTPProvider, error) {
	if apiKey == "" && ep.KeyEnv != "" {
		apiKey = os.Getenv(ep.KeyEnv)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s not set", ErrNoProviderEnabled, ep.KeyEnv)
	}
	if ep.URL == "" || ep.Model == "" {
		return nil, fmt.Errorf("%w: endpoint %q needs a URL and model", ErrUnsupportedModel, ep.Name)
	}

	return &HTTPProvider{
		endpoint:   ep,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		cache:      cache,
		retry:      DefaultRetryConfig(),
	}, nil
}

func (p *HTTPProvider) GenerateEmbedding(ctx context.Context, req EmbeddingRequest) (*Embedding, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	resp, err := p.GenerateBatch(ctx, BatchEmbeddingRequest{
		Texts:   []string{req.Text},
		Purpose: req.Purpose,
	})
	if err != nil {
		return nil, err
	}
	return resp.Embeddings[0], nil
}

// GenerateBatch embeds texts, calling the API only for those not cached
func (p *HTTPProvider) GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error) {
	if err := ValidateBatchRequest(req); err != nil {
		return nil, err
	}
	purpose := purposeOrDefault(req.Purpose)

	out := make([]*Embedding, len(req.Texts))
	var missing []int
	for i, text := range req.Texts {
		if p.cache != nil {
			if emb, ok := p.cache.Get(ComputeHash(purpose, text)); ok {
				out[i] = emb
				continue
			}
		}
		missing = append(missing, i)
	}

	if len(missing) > 0 {
		texts := make([]string, len(missing))
		for j, i := range missing {
			texts[j] = req.Texts[i]
		}

		embeddings, err := retryWithBackoff(ctx, p.retry, func() ([]*Embedding, error) {
			return p.callAPI(ctx, texts, purpose)
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrProviderFailed, p.endpoint.Name, err)
		}

		for j, i := range missing {
			emb := embeddings[j]
			emb.Hash = ComputeHash(purpose, req.Texts[i])
			if p.cache != nil {
				p.cache.Set(emb.Hash, emb)
			}
			out[i] = emb
		}
	}

	return &BatchEmbeddingResponse{
		Embeddings: out,
		Provider:   p.endpoint.Name,
		Model:      p.endpoint.Model,
	}, nil
}

func (p *HTTPProvider) callAPI(ctx context.Context, texts []string, purpose Purpose) ([]*Embedding, error) {
	reqBody := map[string]interface{}{
		"input": texts,
		"model": p.endpoint.Model,
	}
	if task, ok := p.endpoint.Tasks[purpose]; ok {
		reqBody["task"] = task
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, permanent(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint.URL, bytes.NewReader(body))
	if err != nil {
		return nil, permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := fmt.Errorf("api error %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
		// Client errors other than rate limiting will not succeed on retry
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, permanent(apiErr)
		}
		return nil, apiErr
	}

	var apiResp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		} `json:"data"`
		Model string `json:"model"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(apiResp.Data))
	}

	model := apiResp.Model
	if model == "" {
		model = p.endpoint.Model
	}

	embeddings := make([]*Embedding, len(texts))
	for _, d := range apiResp.Data {
		if d.Index < 0 || d.Index >= len(texts) || embeddings[d.Index] != nil {
			return nil, permanent(fmt.Errorf("invalid embedding index %d", d.Index))
		}
		if p.endpoint.Dimension > 0 && len(d.Embedding) != p.endpoint.Dimension {
			return nil, permanent(fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(d.Embedding), p.endpoint.Dimension))
		}
		embeddings[d.Index] = &Embedding{
			Vector:    d.Embedding,
			Dimension: len(d.Embedding),
			Provider:  p.endpoint.Name,
			Model:     model,
		}
	}
	return embeddings, nil
}

func (p *HTTPProvider) Dimension() int {
	return p.endpoint.Dimension
}

func (p *HTTPProvider) Provider() string {
	return p.endpoint.Name
}

func (p *HTTPProvider) Model() string {
	return p.endpoint.Model
}

func (p *HTTPProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}
